package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ClientIDHeader = "X-Client-ID"
	clientIDQuery  = "clientId"

	// ClientIDLocal is the Locals key holding the client id.
	ClientIDLocal = "clientID"
)

// EnsureClientID makes every request carry a client id, taken from the
// X-Client-ID header or the clientId query parameter, or minted on the spot.
// The id is echoed back so the client can reuse it.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(ClientIDLocal) != nil {
			return c.Next()
		}

		clientID := c.Get(ClientIDHeader)
		if clientID == "" {
			clientID = c.Query(clientIDQuery)
		}
		if clientID == "" {
			clientID = uuid.New().String()
		}

		c.Locals(ClientIDLocal, clientID)
		c.Set(ClientIDHeader, clientID)
		return c.Next()
	}
}

// ClientID returns the id stored by EnsureClientID.
func ClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(ClientIDLocal).(string)
	return id
}
