package ws

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Server exposes the proposal-room websocket endpoint and rebroadcasts vote
// events pushed in by the proposal service.
type Server struct {
	hub    *Hub
	logger *zap.SugaredLogger
}

func NewServer(logger *zap.SugaredLogger) *Server {
	return &Server{hub: NewHub(), logger: logger}
}

// BroadcastVote pushes a vote event to every subscriber of the proposal room.
func (s *Server) BroadcastVote(room, event string, vote any) {
	s.hub.Broadcast(room, fiber.Map{
		"type":      event,
		"room":      room,
		"vote":      vote,
		"timestamp": time.Now().Unix(),
	})
}

// Upgrade gates the route so only websocket requests reach the handler.
func (s *Server) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle subscribes the connection to its proposal room until it drops.
func (s *Server) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		room := conn.Params("room")
		if room == "" {
			_ = conn.Close()
			return
		}

		client := NewClient(conn)
		s.hub.Join(room, client)
		s.logger.Debugf("ws client joined room %s", room)
		defer func() {
			s.hub.Leave(room, client)
			client.Close()
			_ = conn.Close()
		}()

		go writePump(conn, client)

		conn.SetReadLimit(64 * 1024)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
