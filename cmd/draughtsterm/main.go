package main

import (
	"flag"
	"os"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/tui"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

func main() {
	savePath := flag.String("save", "draughts.save", "file used by Save and Load")
	logPath := flag.String("log", "./draughtsterm.log", "path to log file")
	flag.Parse()

	// The screen belongs to tview, so logs go to a file.
	f, err := os.OpenFile(*logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(f)

	game := model.NewGame(uuid.New().String(), petname.Generate(2, "-"))
	log.Infof("new game %s (%s)", game.ID, game.Name)

	if err := tui.New(game, *savePath).Run(); err != nil {
		log.Fatal(err)
	}
}
