package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sboli/rcstrap/internal/api/dashboard"
	v1 "github.com/sboli/rcstrap/internal/api/v1"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler, dash *dashboard.Handler, ws *WSHandler) {
	// RBM protocol surface
	app.Post("/v1/phones/:phone/agentMessages", v1.NormalizeAgentMessage(), handler.CreateAgentMessage)
	app.Delete("/v1/phones/:phone/agentMessages/:messageId", handler.RevokeAgentMessage)
	app.Post("/v1/phones/:phone/agentEvents", handler.CreateAgentEvent)
	app.Get("/v1/phones/:phone/capabilities", handler.GetCapabilities)
	app.Post("/v1/phones/:phone/testers", handler.InviteTester)
	app.Post("/v1/users\\:batchGet", handler.BatchGetUsers)

	// Operator dashboard
	app.Get("/api/conversations", dash.GetConversations)
	app.Get("/api/conversations/:phone/messages", dash.GetMessages)
	app.Get("/api/messages/:id", dash.GetMessage)
	app.Post("/api/compose", dash.Compose)
	app.Get("/api/config", dash.GetConfig)
	app.Put("/api/config/:key", dash.SetConfig)
	app.Delete("/api/config/:key", dash.ResetConfig)
	app.Get("/api/health", dash.Health)

	// Real-time events
	app.Get("/ws", ws.Upgrade, ws.Serve())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
