package model

// Conn is the part of a WebSocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is an observer of a game session.
type Client struct {
	ID   string
	Conn Conn
}
