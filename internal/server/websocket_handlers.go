package server

import (
	"log/slog"

	"promptfeed/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler streams feed events to the connected client.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		id := conn.RemoteAddr().String()

		client, err := s.feedHub.Register(id, conn)
		if err != nil {
			middleware.Logger.Warn("WebSocket feed: registration rejected",
				slog.String("client", id), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.Logger.Info("WebSocket feed: client connected", slog.String("client", id))

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
