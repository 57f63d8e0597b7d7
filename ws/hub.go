package ws

// Hub menyimpan koneksi client, menerima event invoice dari service,
// lalu menyiarkannya ke semua client yang terhubung.

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/c14220110/billing-backend/internal/billing/models"
	common "github.com/c14220110/billing-backend/internal/common/models"
)

// Client mewakili satu koneksi WebSocket milik pengguna yang sudah login.
type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Actor common.Actor
}

// Hub mengelola semua koneksi client
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	Log        *zap.Logger

	done chan struct{}
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Log:        log,
		done:       make(chan struct{}),
	}
}

// Run berjalan sampai ctx selesai, lalu menutup semua client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.Clients {
				close(client.Send)
				delete(h.Clients, client)
			}
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.Log.Debug("Client registered", zap.Int64("actor_id", client.Actor.ID))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.Log.Debug("Client unregistered", zap.Int64("actor_id", client.Actor.ID))
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					// client terlalu lambat
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Notify mengantrekan event untuk disiarkan. Event dibuang jika antrean penuh.
func (h *Hub) Notify(event models.InvoiceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.Log.Error("Gagal encode event invoice", zap.Int64("invoice_id", event.InvoiceID), zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		h.Log.Warn("Antrean broadcast penuh, event dibuang",
			zap.Int64("invoice_id", event.InvoiceID),
			zap.String("type", event.Type),
		)
	}
}
