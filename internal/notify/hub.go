package notify

import (
	"sync"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Conn is the subset of *websocket.Conn the hub uses.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}

// Message is the frame pushed to websocket clients.
type Message struct {
	Type         string               `json:"type"`
	SessionID    string               `json:"session_id"`
	Notification *models.Notification `json:"notification,omitempty"`
}

type client struct {
	conn Conn
	send chan Message
}

// Hub keeps the websocket clients of every page session and pushes
// notifications to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  util.GetLogger(),
	}
}

// Sink returns a Notifier that broadcasts to the clients of sessionID.
func (h *Hub) Sink(sessionID string) Notifier {
	return Func(func(n models.Notification) {
		h.Broadcast(sessionID, n)
	})
}

// Broadcast queues n for every client of sessionID. Clients whose queue is
// full miss the notification rather than stall the caller.
func (h *Hub) Broadcast(sessionID string, n models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{Type: "notification", SessionID: sessionID, Notification: &n}
	for c := range h.clients[sessionID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping notification for slow websocket client",
				zap.String("session_id", sessionID),
				zap.String("notification_id", n.ID))
		}
	}
}

// ClientCount returns the number of clients attached to sessionID.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// CloseSession disconnects every client of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	clients := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()

	for c := range clients {
		_ = c.conn.Close()
	}
}

func (h *Hub) register(sessionID string, c *client) {
	h.mu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*client]struct{})
	}
	h.clients[sessionID][c] = struct{}{}
	h.mu.Unlock()
	util.WebsocketClients.Inc()
}

func (h *Hub) unregister(sessionID string, c *client) {
	h.mu.Lock()
	if clients, ok := h.clients[sessionID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.clients, sessionID)
		}
	}
	h.mu.Unlock()
	util.WebsocketClients.Dec()
}

// Serve attaches conn to sessionID and blocks until the client goes away.
func (h *Hub) Serve(sessionID string, conn Conn) {
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	h.register(sessionID, c)

	done := make(chan struct{})
	go h.writePump(sessionID, c, done)

	defer func() {
		h.unregister(sessionID, c)
		close(done)
		_ = conn.Close()
		h.logger.Debug("WebSocket connection closed", zap.String("session_id", sessionID))
	}()

	c.send <- Message{Type: "connected", SessionID: sessionID}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error",
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(sessionID string, c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.logger.Warn("Failed to push websocket message",
					zap.String("session_id", sessionID),
					zap.Error(err))
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}
