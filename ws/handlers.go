package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	common "github.com/c14220110/billing-backend/internal/common/models"
	"github.com/c14220110/billing-backend/pkg/utils"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// CORS sudah diatur di level echo
		return true
	},
}

// ServeWS meng-upgrade koneksi setelah token di query ?token= valid.
// Browser tidak bisa mengirim header Authorization saat membuka WebSocket.
func ServeWS(hub *Hub, jm *utils.JWTManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := jm.ValidateJWTToken(c.QueryParam("token"))
		if err != nil || !common.Role(claims.Role).Valid() {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"status":  http.StatusUnauthorized,
				"message": "Invalid token",
				"data":    nil,
			})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		client := &Client{
			Conn:  conn,
			Send:  make(chan []byte, 256),
			Actor: common.Actor{ID: claims.UserID, Role: common.Role(claims.Role)},
		}
		if !hub.register(client) {
			conn.Close()
			return nil
		}

		go client.writePump()
		go client.readPump(hub)
		return nil
	}
}

// readPump hanya menunggu koneksi ditutup; client tidak mengirim pesan.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
