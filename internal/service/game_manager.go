// service/game_manager.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games   map[string]*model.Game
	idleTTL time.Duration
	mu      sync.RWMutex
}

// NewGameManager returns an empty registry. Sessions idle for longer than
// idleTTL with nobody watching are removed by Run; zero disables that.
func NewGameManager(idleTTL time.Duration) *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		idleTTL: idleTTL,
	}
}

// Run reaps idle sessions every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	if gm.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := gm.reap(now); len(removed) > 0 {
				log.Infof("reaped %d idle games: %v", len(removed), removed)
			}
		}
	}
}

func (gm *GameManager) reap(now time.Time) []string {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	var removed []string
	for id, game := range gm.games {
		if game.HasConnections() || game.IdleFor(now) < gm.idleTTL {
			continue
		}
		delete(gm.games, id)
		removed = append(removed, id)
	}
	return removed
}

func (gm *GameManager) CreateGame(gameID, name string) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game := model.NewGame(gameID, name)
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

func (gm *GameManager) RegisterConnection(gameID string, clientID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(clientID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, clientID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(clientID)
}
