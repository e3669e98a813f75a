package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"banca/config"
	"banca/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const authDeadline = 10 * time.Second

// authFrame is the first message a client must send after connecting (and
// after every reconnect). The id comes from the verified token, never from
// a client-supplied field.
type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Upgrade upgrades the connection and waits for the auth frame before any
// event is delivered.
func Upgrade(cfg *config.JWTConfig, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(authDeadline))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame authFrame
		if err := json.Unmarshal(msg, &frame); err != nil || frame.Type != "auth" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"auth frame required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, frame.Token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		conn.SetReadDeadline(time.Time{})

		client := &Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		// Queue the ack before registering: once Register succeeds a
		// concurrent Drain may close Send at any moment.
		ack, _ := json.Marshal(map[string]interface{}{"type": "auth_ok", "user_id": claims.UserID})
		client.Send <- ack
		if !hub.Register(client) {
			conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
		defer client.Close()
		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies events from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
