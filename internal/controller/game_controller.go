package controller

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/create", gc.CreateGame)
	r.Get("/:gameId", gc.GetGameState)
	r.Delete("/:gameId", gc.DeleteGame)
	r.Post("/:gameId/select", gc.Select)
	r.Post("/:gameId/undo", gc.Undo)
	r.Post("/:gameId/redo", gc.Redo)
	r.Post("/:gameId/reset", gc.Reset)
	r.Get("/:gameId/save", gc.SaveGame)
	r.Post("/:gameId/load", gc.LoadGame)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	state, err := gc.gameService.CreateGame()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": state.ID,
		"name":    state.Name,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(state)
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var req model.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid select body",
		})
	}

	moved, state, err := gc.gameService.Select(c.Params("gameId"), req)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return writeError(c, err, nil)
		}
		return writeError(c, err, &state)
	}
	return c.JSON(fiber.Map{
		"moved": moved,
		"state": state,
	})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	state, err := gc.gameService.Undo(c.Params("gameId"))
	return respond(c, state, err)
}

func (gc *GameController) Redo(c *fiber.Ctx) error {
	state, err := gc.gameService.Redo(c.Params("gameId"))
	return respond(c, state, err)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.Reset(c.Params("gameId"))
	return respond(c, state, err)
}

// SaveGame downloads the session as an opaque blob.
func (gc *GameController) SaveGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	blob, err := gc.gameService.SaveGame(gameID)
	if err != nil {
		return writeError(c, err, nil)
	}
	c.Attachment(fmt.Sprintf("%s.draughts", gameID))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(blob)
}

// LoadGame replaces the session with the blob in the request body.
func (gc *GameController) LoadGame(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "empty save",
		})
	}
	// fasthttp reuses the request buffer once the handler returns
	blob := append([]byte(nil), body...)

	state, err := gc.gameService.LoadGame(c.Params("gameId"), blob)
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return writeError(c, err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func respond(c *fiber.Ctx, state model.GameState, err error) error {
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return writeError(c, err, nil)
		}
		return writeError(c, err, &state)
	}
	return c.JSON(state)
}

// writeError maps a domain error to a status code. When state is non-nil it
// is returned alongside the error so the client can redraw.
func writeError(c *fiber.Ctx, err error, state *model.GameState) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	body := fiber.Map{"error": err.Error()}
	if state != nil {
		body["state"] = state
	}
	return c.Status(status).JSON(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrIllegalSelection),
		errors.Is(err, model.ErrIllegalDestination):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNothingToUndo),
		errors.Is(err, model.ErrNothingToRedo),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrCorruptSave):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
