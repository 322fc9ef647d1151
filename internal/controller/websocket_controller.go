package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/draughts-backend/internal/middleware"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/benbeisheim/draughts-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	clientID, _ := c.Locals(middleware.ClientIDLocal).(string)

	if err := wsc.gameService.RegisterConnection(gameID, clientID, c); err != nil {
		log.Warnf("game %s: register client %s: %v", gameID, clientID, err)
		if !errors.Is(err, model.ErrDuplicateConnection) {
			c.Close()
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, clientID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: client %s read: %v", gameID, clientID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, clientID, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			wsc.sendError(gameID, clientID, err)
		}
	}
}

// handleMessage applies one client command. State updates reach every
// observer through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var req model.SelectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("parse select: %w", err)
		}
		_, _, err := wsc.gameService.Select(gameID, req)
		return err
	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(gameID)
		return err
	case ws.MessageTypeRedo:
		_, err := wsc.gameService.Redo(gameID)
		return err
	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID, clientID string, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	msg := ws.Message{Type: ws.MessageTypeError, Payload: payload}
	if err := wsc.gameService.Notify(gameID, clientID, msg); err != nil {
		log.Warnf("game %s: notify client %s: %v", gameID, clientID, err)
	}
}
