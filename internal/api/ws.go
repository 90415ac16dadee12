package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/gateway"
	"go.uber.org/zap"
)

// WSHandler bridges the in-process event bus onto a websocket. Each
// connection is one subscriber; events arrive as JSON frames shaped
// {"event": name, "data": payload}.
type WSHandler struct {
	logger  *zap.Logger
	gateway *gateway.Gateway
}

func NewWSHandler(logger *zap.Logger, gw *gateway.Gateway) *WSHandler {
	return &WSHandler{logger: logger, gateway: gw}
}

// Upgrade gates the route so only websocket requests reach the handler.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		subscriber := h.gateway.Subscribe()
		defer h.gateway.Unsubscribe(subscriber)

		// The read loop only exists to notice the peer going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-subscriber.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					h.logger.Debug("Websocket write failed, dropping subscriber", zap.Error(err))
					return
				}
			case <-closed:
				return
			}
		}
	})
}
