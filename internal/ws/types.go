package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeSelect    MessageType = "select"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeRedo      MessageType = "redo"
	MessageTypeReset     MessageType = "reset"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is the body of a MessageTypeError message.
type ErrorPayload struct {
	Error string `json:"error"`
}
