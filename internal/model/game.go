package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections observing a specific game
type GameConnections struct {
	clients map[string]*Client // clientID -> client
	mu      sync.Mutex
}

// Game is one hot-seat session: a board, its history and the clients
// watching it. Every method serializes on the game mutex.
type Game struct {
	ID          string
	Name        string
	mu          sync.Mutex
	broadcastMu sync.Mutex // orders broadcasts the way g.mu orders commands
	board       *Board
	history     *History
	lastActive  time.Time
	connections *GameConnections
}

type GameState struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Board      [][]*Piece   `json:"board"`
	Turn       Color        `json:"turn"`
	Counts     Counts       `json:"counts"`
	Winner     *Color       `json:"winner"`
	Selected   *Position    `json:"selected"`
	ValidMoves []MoveOption `json:"validMoves"`
	CanUndo    bool         `json:"canUndo"`
	CanRedo    bool         `json:"canRedo"`
}

type Counts struct {
	Red   int `json:"red"`
	White int `json:"white"`
}

func NewGame(id, name string) *Game {
	g := &Game{
		ID:          id,
		Name:        name,
		board:       NewBoard(),
		history:     NewHistory(),
		lastActive:  time.Now(),
		connections: NewGameConnections(),
	}
	g.history.Record(g.board.Snapshot())
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		clients: make(map[string]*Client),
	}
}

// Select clicks a square. It reports whether a move was made; clicking a
// piece that has moves returns false with a nil error.
func (g *Game) Select(row, col int) (bool, error) {
	g.mu.Lock()
	moved, err := g.selectLocked(row, col)
	g.unlockAndBroadcast()
	return moved, err
}

func (g *Game) selectLocked(row, col int) (bool, error) {
	g.lastActive = time.Now()
	if winner, ok := g.board.Winner(); ok {
		return false, fmt.Errorf("%w: %s won", ErrGameOver, winner)
	}

	// Only a completed move is recorded, so selecting or a rejected
	// destination keeps the redo stack intact.
	before := g.board.Snapshot()
	outcome := g.board.Click(row, col)
	if outcome == Moved {
		g.history.Record(before)
	}
	log.Debugf("game %s: click (%d,%d) %s", g.ID, row, col, outcome)

	switch outcome {
	case Moved:
		return true, nil
	case Selected:
		return false, nil
	case Rejected:
		return false, fmt.Errorf("%w: (%d,%d)", ErrIllegalDestination, row, col)
	default:
		return false, fmt.Errorf("%w: (%d,%d)", ErrIllegalSelection, row, col)
	}
}

func (g *Game) Undo() error {
	g.mu.Lock()
	g.lastActive = time.Now()
	m, ok := g.history.Undo(g.board.Snapshot())
	if !ok {
		g.mu.Unlock()
		return ErrNothingToUndo
	}
	g.board.Restore(m)
	g.unlockAndBroadcast()
	return nil
}

func (g *Game) Redo() error {
	g.mu.Lock()
	g.lastActive = time.Now()
	m, ok := g.history.Redo(g.board.Snapshot())
	if !ok {
		g.mu.Unlock()
		return ErrNothingToRedo
	}
	g.board.Restore(m)
	g.unlockAndBroadcast()
	return nil
}

// Reset starts the session over from the opening position.
func (g *Game) Reset() {
	g.mu.Lock()
	g.lastActive = time.Now()
	g.board = NewBoard()
	g.history.Reset()
	g.history.Record(g.board.Snapshot())
	g.unlockAndBroadcast()
}

func (g *Game) Save() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActive = time.Now()
	return Encode(g.board, g.history)
}

// Load replaces the board and history with a saved game. On error the
// session is left untouched.
func (g *Game) Load(blob []byte) error {
	board, history, err := Decode(blob)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.lastActive = time.Now()
	g.board = board
	g.history = history
	g.unlockAndBroadcast()
	return nil
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	b := g.board
	state := GameState{
		ID:     g.ID,
		Name:   g.Name,
		Board:  make([][]*Piece, Rows),
		Turn:   b.Turn(),
		Counts: Counts{Red: b.Count(Red), White: b.Count(White)},
	}
	for row := 0; row < Rows; row++ {
		state.Board[row] = make([]*Piece, Cols)
		for col := 0; col < Cols; col++ {
			if cell := b.Field(row, col); cell.Occupied {
				p := cell.Piece
				state.Board[row][col] = &p
			}
		}
	}
	if winner, ok := b.Winner(); ok {
		state.Winner = &winner
	}
	if p, ok := b.Selected(); ok {
		pos := p.Position()
		state.Selected = &pos
	}
	state.ValidMoves = b.ValidMoves().Options()
	state.CanUndo = g.history.CanUndo()
	state.CanRedo = g.history.CanRedo()
	return state
}

// IdleFor reports how long the session has gone without a command.
func (g *Game) IdleFor(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Sub(g.lastActive)
}

func (g *Game) HasConnections() bool {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return len(g.connections.clients) > 0
}

func (g *Game) RegisterConnection(clientID string, conn Conn) error {
	if clientID == "" || conn == nil {
		return errors.New("client id and connection are required")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.clients[clientID]; exists {
		// Keep the healthy connection and turn the new one away
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return ErrDuplicateConnection
	}
	g.connections.clients[clientID] = &Client{ID: clientID, Conn: conn}
	g.connections.mu.Unlock()
	log.Infof("game %s: registered client %s", g.ID, clientID)

	g.mu.Lock()
	g.unlockAndBroadcast()
	return nil
}

// Send writes msg to a single observer, serialized with broadcasts.
func (g *Game) Send(clientID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	client, ok := g.connections.clients[clientID]
	if !ok {
		return fmt.Errorf("client %s is not connected", clientID)
	}
	return client.Conn.WriteJSON(msg)
}

func (g *Game) UnregisterConnection(clientID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.clients[clientID]; exists {
		log.Infof("game %s: unregistered client %s", g.ID, clientID)
		delete(g.connections.clients, clientID)
	}
}

// unlockAndBroadcast captures the state, releases g.mu and broadcasts it.
// The caller must hold g.mu; broadcastMu is taken before g.mu is released.
func (g *Game) unlockAndBroadcast() {
	state := g.stateLocked()
	g.broadcastMu.Lock()
	defer g.broadcastMu.Unlock()
	g.mu.Unlock()

	g.broadcastState(state)
}

// broadcastState pushes state to every observer, dropping the ones that
// can no longer be written to.
func (g *Game) broadcastState(state GameState) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if len(g.connections.clients) == 0 {
		return
	}

	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}
	for id, client := range g.connections.clients {
		if err := client.Conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: dropping client %s: %v", g.ID, id, err)
			delete(g.connections.clients, id)
		}
	}
}
