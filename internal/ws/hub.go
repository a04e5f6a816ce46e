package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub tracks connections subscribed to proposal rooms and fans vote events
// out to them.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool // proposal slug -> clients
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers msg to every client in the room. Slow clients are
// skipped rather than blocked on.
func (h *Hub) Broadcast(room string, msg any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.Send(msg)
	}
}

// RoomSize reports how many clients are subscribed to the room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Client is one websocket subscriber.
type Client struct {
	conn *websocket.Conn
	send chan any
	once sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn, send: make(chan any, 64)}
}

func (c *Client) Send(msg any) {
	select {
	case c.send <- msg:
	default:
		// drop if the client cannot keep up
	}
}

func (c *Client) Close() {
	c.once.Do(func() { close(c.send) })
}
