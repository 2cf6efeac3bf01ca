package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/middleware"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// envelope is the wire format for every pushed event.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is the admin broadcast group. Connections must present a token
// that decodes to an admin principal before they are admitted; events
// published while a client is disconnected are simply missed.
type Hub struct {
	secret   string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(secret string) *Hub {
	return &Hub{
		secret: secret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handle admits admin connections. The token is taken from the `token`
// query parameter or the Authorization header and must carry the admin
// role; anything else is rejected before the upgrade.
func (h *Hub) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			if header := c.GetHeader("Authorization"); header != "" {
				parts := strings.Split(strings.TrimSpace(header), " ")
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					token = parts[1]
				}
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication error"})
			return
		}

		claims, err := middleware.ParseToken(token, h.secret)
		if err != nil {
			logger.L().Warn("socket token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication error"})
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized as admin"})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.L().Warn("socket upgrade failed", zap.Error(err))
			return
		}

		cl := &client{
			conn: conn,
			send: make(chan []byte, sendBufferSize),
		}
		h.register(cl)
		logger.L().Info("admin socket connected", zap.Int("clients", h.clientCount()))

		go cl.writePump()
		go h.readPump(cl)
	}
}

// NewOrder broadcasts a newOrder event to the admin group.
func (h *Hub) NewOrder(event NewOrderEvent) {
	h.broadcast(EventNewOrder, event)
}

// OrderUpdated broadcasts an orderUpdated event to the admin group.
func (h *Hub) OrderUpdated(event OrderUpdatedEvent) {
	h.broadcast(EventOrderUpdated, event)
}

func (h *Hub) broadcast(event string, data interface{}) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		logger.L().Error("failed to marshal socket event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			// Slow consumer: drop the connection rather than block the
			// publisher.
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// readPump discards inbound frames until the connection dies; the
// channel is push-only.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		cl.conn.Close()
	}()
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (cl *client) writePump() {
	defer cl.conn.Close()
	for payload := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
