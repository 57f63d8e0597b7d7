package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/c14220110/billing-backend/internal/billing/models"
	"github.com/c14220110/billing-backend/pkg/utils"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub := runHub(t)
	client := &Client{Send: make(chan []byte, 4)}
	require.True(t, hub.register(client))

	hub.Notify(models.InvoiceEvent{Type: "invoice.submitted", InvoiceID: 7, InvoiceNumber: "INV-7", Status: models.StatusSubmitted})

	select {
	case msg := <-client.Send:
		var got models.InvoiceEvent
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, int64(7), got.InvoiceID)
		assert.Equal(t, models.StatusSubmitted, got.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("event tidak diterima")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := runHub(t)
	slow := &Client{Send: make(chan []byte, 1)}
	slow.Send <- []byte("antre")
	fast := &Client{Send: make(chan []byte, 1)}
	require.True(t, hub.register(slow))
	require.True(t, hub.register(fast))

	hub.Notify(models.InvoiceEvent{InvoiceID: 1})
	select {
	case <-fast.Send:
	case <-time.After(2 * time.Second):
		t.Fatal("event tidak diterima")
	}
	// register berikutnya baru diproses setelah broadcast selesai
	require.True(t, hub.register(&Client{Send: make(chan []byte, 1)}))

	msg, ok := <-slow.Send
	assert.True(t, ok)
	assert.Equal(t, "antre", string(msg))
	_, ok = <-slow.Send
	assert.False(t, ok, "channel client lambat harus ditutup")
}

func TestNotifyDoesNotBlockWithoutRunner(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.Broadcast)+10; i++ {
			hub.Notify(models.InvoiceEvent{InvoiceID: int64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocking")
	}
}

func TestHubStopsOnCancel(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	client := &Client{Send: make(chan []byte, 1)}
	require.True(t, hub.register(client))

	cancel()
	<-stopped
	_, ok := <-client.Send
	assert.False(t, ok)
	assert.False(t, hub.register(&Client{Send: make(chan []byte)}))
}

func TestServeWS(t *testing.T) {
	hub := runHub(t)
	jm := utils.NewJWTManager("rahasia", time.Hour)

	e := echo.New()
	e.GET("/ws", ServeWS(hub, jm))
	srv := httptest.NewServer(e)
	defer srv.Close()

	t.Run("Rejects bad token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?token=palsu", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Receives events", func(t *testing.T) {
		tok, _, err := jm.GenerateJWTToken(2, "bpjs", "admin_bpjs")
		require.NoError(t, err)

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		// registrasi terjadi setelah handshake, jadi kirim ulang sampai diterima
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					hub.Notify(models.InvoiceEvent{Type: "invoice.approved", InvoiceID: 3, Status: models.StatusApproved})
				}
			}
		}()

		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), `"invoice.approved"`)
	})
}
