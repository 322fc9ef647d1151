package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	gc := NewGameController(service.NewGameService(service.NewGameManager(0)))
	gc.Register(app.Group("/api/game"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body []byte) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/game/create", nil)
	if status != fiber.StatusOK {
		t.Fatalf("create: status %d: %s", status, body)
	}
	var created struct {
		GameID string          `json:"game_id"`
		Name   string          `json:"name"`
		State  model.GameState `json:"state"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.GameID == "" || created.Name == "" || created.State.Turn != model.Red {
		t.Fatalf("unexpected create response: %s", body)
	}
	return created.GameID
}

func selectSquare(t *testing.T, app *fiber.App, gameID string, row, col int) (int, bool, model.GameState) {
	t.Helper()
	req, _ := json.Marshal(model.SelectRequest{Row: row, Col: col})
	status, body := do(t, app, http.MethodPost, "/api/game/"+gameID+"/select", req)
	var resp struct {
		Moved bool            `json:"moved"`
		State model.GameState `json:"state"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode select: %v: %s", err, body)
	}
	return status, resp.Moved, resp.State
}

func TestSelectAndMove(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)

	status, moved, state := selectSquare(t, app, id, 2, 1)
	if status != fiber.StatusOK || moved {
		t.Fatalf("expected selection, got status %d moved %v", status, moved)
	}
	if len(state.ValidMoves) != 2 || state.ValidMoves[0].To != (model.Position{Row: 3, Col: 0}) {
		t.Fatalf("unexpected valid moves %+v", state.ValidMoves)
	}

	status, moved, state = selectSquare(t, app, id, 3, 2)
	if status != fiber.StatusOK || !moved || state.Turn != model.White {
		t.Fatalf("expected move, got status %d moved %v turn %s", status, moved, state.Turn)
	}
	if p := state.Board[3][2]; p == nil || p.Color != model.Red {
		t.Fatalf("expected red man at (3,2), got %+v", p)
	}
}

func TestIllegalClicks(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)

	if status, _, _ := selectSquare(t, app, id, 4, 4); status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an empty square, got %d", status)
	}
	selectSquare(t, app, id, 2, 1)
	status, _, state := selectSquare(t, app, id, 4, 4)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an illegal destination, got %d", status)
	}
	if state.Selected != nil || state.Turn != model.Red {
		t.Fatalf("expected state with selection dropped, got %+v", state)
	}

	status, body := do(t, app, http.MethodPost, "/api/game/"+id+"/select", []byte("{"))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed body, got %d: %s", status, body)
	}
}

func TestUndoRedoStatus(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)

	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/undo", nil); status != fiber.StatusConflict {
		t.Fatalf("expected 409 for undo at the start, got %d", status)
	}
	selectSquare(t, app, id, 2, 1)
	selectSquare(t, app, id, 3, 2)
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/undo", nil); status != fiber.StatusOK {
		t.Fatalf("expected undo to succeed, got %d", status)
	}
	status, body := do(t, app, http.MethodPost, "/api/game/"+id+"/redo", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected redo to succeed, got %d", status)
	}
	var state model.GameState
	if err := json.Unmarshal(body, &state); err != nil || state.Turn != model.White {
		t.Fatalf("expected white to move after redo, err=%v", err)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/redo", nil); status != fiber.StatusConflict {
		t.Fatalf("expected 409 for redo with nothing undone, got %d", status)
	}
}

func TestSaveAndLoad(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)
	selectSquare(t, app, id, 2, 1)
	selectSquare(t, app, id, 3, 2)

	status, blob := do(t, app, http.MethodGet, "/api/game/"+id+"/save", nil)
	if status != fiber.StatusOK || len(blob) == 0 {
		t.Fatalf("save: status %d, %d bytes", status, len(blob))
	}

	other := createGame(t, app)
	status, body := do(t, app, http.MethodPost, "/api/game/"+other+"/load", blob)
	if status != fiber.StatusOK {
		t.Fatalf("load: status %d: %s", status, body)
	}
	var state model.GameState
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("decode load: %v", err)
	}
	if state.ID != other || state.Turn != model.White || state.Board[3][2] == nil {
		t.Fatalf("expected loaded position in game %s, got %+v", other, state)
	}

	if status, _ := do(t, app, http.MethodPost, "/api/game/"+other+"/load", []byte("junk")); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a corrupt save, got %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+other+"/load", nil); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for an empty save, got %d", status)
	}
}

func TestUnknownAndDeletedGames(t *testing.T) {
	app := newTestApp()

	if status, _ := do(t, app, http.MethodGet, "/api/game/nope", nil); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _, _ := selectSquare(t, app, "nope", 2, 1); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on select, got %d", status)
	}

	id := createGame(t, app)
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/reset", nil); status != fiber.StatusOK {
		t.Fatalf("expected reset to succeed, got %d", status)
	}
	if status, _ := do(t, app, http.MethodDelete, "/api/game/"+id, nil); status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/game/"+id, nil); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		service.ErrGameNotFound:     fiber.StatusNotFound,
		model.ErrIllegalSelection:   fiber.StatusUnprocessableEntity,
		model.ErrIllegalDestination: fiber.StatusUnprocessableEntity,
		model.ErrNothingToUndo:      fiber.StatusConflict,
		model.ErrGameOver:           fiber.StatusConflict,
		model.ErrCorruptSave:        fiber.StatusBadRequest,
		io.EOF:                      fiber.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}
