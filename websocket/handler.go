package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Origin is enforced by the CORS layer; the upgrade itself accepts all
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// HandleWebSocket upgrades an authenticated request and registers the
// connection with the hub so notification dispatch can reach it
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{UserID: userID, Conn: conn}
	hub.register <- client

	client.send(Notification{
		Type:    "connected",
		Message: "WebSocket connection established",
		UserID:  userID.Hex(),
	})

	go drainUntilClosed(hub, client)
	return nil
}

// drainUntilClosed consumes inbound frames (the protocol is push-only) and
// unregisters the client once the peer goes away
func drainUntilClosed(hub *Hub, client *Client) {
	defer func() { hub.unregister <- client }()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
