package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/benbeisheim/draughts-backend/internal/ws"
)

// recordingConn keeps every frame written to it.
type recordingConn struct {
	mu     sync.Mutex
	frames []ws.Message
	closed bool
	fail   bool
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, v.(ws.Message))
	return nil
}

func (c *recordingConn) WriteMessage(int, []byte) error { return nil }

func (c *recordingConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *recordingConn) states(t *testing.T) []GameState {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []GameState
	for _, f := range c.frames {
		if f.Type != ws.MessageTypeGameState {
			continue
		}
		var s GameState
		if err := json.Unmarshal(f.Payload, &s); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func TestObserversReceiveState(t *testing.T) {
	g := NewGame("g1", "test")
	conn := &recordingConn{}
	if err := g.RegisterConnection("c1", conn); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !g.HasConnections() {
		t.Fatalf("expected a connection")
	}
	if states := conn.states(t); len(states) != 1 || states[0].Turn != Red {
		t.Fatalf("expected the state on connect, got %d frames", len(states))
	}

	play(t, g, [4]int{2, 1, 3, 2})
	states := conn.states(t)
	if last := states[len(states)-1]; last.Turn != White || last.Board[3][2] == nil {
		t.Fatalf("expected the move to be broadcast, got %+v", last)
	}

	if err := g.Send("c1", ws.Message{Type: ws.MessageTypeError}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := g.Send("c2", ws.Message{Type: ws.MessageTypeError}); err == nil {
		t.Fatalf("expected send to an unknown client to fail")
	}

	g.UnregisterConnection("c1")
	if g.HasConnections() {
		t.Fatalf("expected no connections after unregister")
	}
}

func TestDuplicateConnectionIsTurnedAway(t *testing.T) {
	g := NewGame("g1", "test")
	first, second := &recordingConn{}, &recordingConn{}
	g.RegisterConnection("c1", first)
	if err := g.RegisterConnection("c1", second); !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
	if !second.closed || first.closed {
		t.Fatalf("expected only the new connection to be closed")
	}
}

func TestBrokenObserverIsDropped(t *testing.T) {
	g := NewGame("g1", "test")
	conn := &recordingConn{}
	g.RegisterConnection("c1", conn)
	conn.mu.Lock()
	conn.fail = true
	conn.mu.Unlock()

	g.Reset()
	if g.HasConnections() {
		t.Fatalf("expected the failing observer to be dropped")
	}
}

// TestBroadcastsFollowCommandOrder runs commands concurrently and checks the
// last frame an observer sees is the final state of the game.
func TestBroadcastsFollowCommandOrder(t *testing.T) {
	g := NewGame("g1", "test")
	conn := &recordingConn{}
	g.RegisterConnection("c1", conn)
	play(t, g, [4]int{2, 1, 3, 2}, [4]int{5, 0, 4, 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				g.Undo()
			} else {
				g.Redo()
			}
		}(i)
	}
	wg.Wait()

	states := conn.states(t)
	last, err := json.Marshal(states[len(states)-1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	final, err := json.Marshal(g.State())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(last) != string(final) {
		t.Fatalf("expected the last broadcast to match the final state\n got %s\nwant %s", last, final)
	}
}
