package service

import (
	"fmt"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/ws"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (model.GameState, error) {
	gameID := uuid.New().String()

	game, err := gs.gameManager.CreateGame(gameID, petname.Generate(2, "-"))
	if err != nil {
		return model.GameState{}, fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s (%s)", game.ID, game.Name)

	return game.State(), nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

// Select forwards a click to the game. The returned state is valid even when
// err reports an illegal click, so callers can resynchronize.
func (gs *GameService) Select(gameID string, req model.SelectRequest) (bool, model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return false, model.GameState{}, err
	}
	moved, err := game.Select(req.Row, req.Col)
	return moved, game.State(), err
}

func (gs *GameService) Undo(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	err = game.Undo()
	return game.State(), err
}

func (gs *GameService) Redo(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	err = game.Redo()
	return game.State(), err
}

func (gs *GameService) Reset(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	game.Reset()
	return game.State(), nil
}

func (gs *GameService) SaveGame(gameID string) ([]byte, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Save()
}

func (gs *GameService) LoadGame(gameID string, blob []byte) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Load(blob); err != nil {
		return model.GameState{}, err
	}
	log.Infof("game %s: loaded save of %d bytes", gameID, len(blob))
	return game.State(), nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, clientID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, clientID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, clientID string) {
	gs.gameManager.UnregisterConnection(gameID, clientID)
}

// Notify sends msg to one observer of the game.
func (gs *GameService) Notify(gameID string, clientID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(clientID, msg)
}
