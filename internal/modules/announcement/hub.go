package announcement

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// writeJSON fails once the peer has not drained its socket within wait.
func (c *client) writeJSON(v any, wait time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub keeps the open feed connections. Viewers are anonymous, so
// connections are keyed by a generated id.
type Hub struct {
	clients   map[string]*client
	mutex     sync.RWMutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client), writeWait: writeWait}
}

func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[id] = &client{conn: conn}
	return id
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, ok := h.clients[id]; ok {
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}

// Broadcast sends message to every connection and returns how many
// received it. Writes run concurrently and each is bounded by the write
// deadline; connections that fail or stall are dropped.
func (h *Hub) Broadcast(message any) int {
	h.mutex.RLock()
	targets := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mutex.RUnlock()

	var (
		sent atomic.Int64
		wg   sync.WaitGroup
	)
	for id, c := range targets {
		id, c := id, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.writeJSON(message, h.writeWait); err != nil {
				h.Unregister(id)
				return
			}
			sent.Add(1)
		}()
	}
	wg.Wait()
	return int(sent.Load())
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}
