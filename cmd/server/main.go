package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/benbeisheim/draughts-backend/internal/config"
	"github.com/benbeisheim/draughts-backend/internal/controller"
	"github.com/benbeisheim/draughts-backend/internal/middleware"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(cfg.IdleTTL)
	go gameManager.Run(ctx, cfg.ReapInterval)
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app := newApp(cfg, gameController, wsController)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg config.Config, gameController *controller.GameController, wsController *controller.WebSocketController) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	origins := cfg.OriginList()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.ClientIDHeader,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		ExposeHeaders:    middleware.ClientIDHeader + ", Content-Disposition",
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// WebSocket routes
	app.Use("/ws/*", middleware.EnsureClientID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	// REST routes
	api := app.Group("/api", middleware.EnsureClientID())
	gameController.Register(api.Group("/game"))

	return app
}
