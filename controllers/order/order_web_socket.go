package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
)

const (
	writeWait = 5 * time.Second
	sendQueue = 16
)

// FeedMessage is what panel clients receive for every order change.
type FeedMessage struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// feedClient owns one connection. Only its writer goroutine writes to conn.
type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (fc *feedClient) writeLoop() {
	defer fc.conn.Close()
	for data := range fc.send {
		_ = fc.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := fc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// Hub fans order changes out to the connected panel websockets.
type Hub struct {
	mu       sync.Mutex
	clients  map[*feedClient]bool
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*feedClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// OrderWebSocketHandler keeps the connection registered until the client goes away.
func (h *Hub) OrderWebSocketHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, sendQueue)}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	go client.writeLoop()

	defer func() {
		h.mu.Lock()
		h.drop(client)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// drop unregisters client and stops its writer. Callers hold h.mu.
func (h *Hub) drop(client *feedClient) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

// Clients returns the number of connected listeners.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues the order for every client without blocking. A client
// whose queue is full is dropped.
func (h *Hub) Broadcast(eventType string, order models.Order) {
	data, err := json.Marshal(FeedMessage{Type: eventType, Order: order})
	if err != nil {
		logger.Log.WithError(err).Error("failed to encode order feed message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			logger.Log.Warn("order feed client is not keeping up, dropping it")
			h.drop(client)
		}
	}
}
