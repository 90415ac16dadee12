package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/api"
	"github.com/sboli/rcstrap/internal/api/dashboard"
	v1 "github.com/sboli/rcstrap/internal/api/v1"
	"github.com/sboli/rcstrap/internal/config"
	errmw "github.com/sboli/rcstrap/internal/error"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/metrics"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/repository"
	"github.com/sboli/rcstrap/internal/service"
	"github.com/sboli/rcstrap/internal/webhook"
	"github.com/sboli/rcstrap/pkg/database"
	"github.com/sboli/rcstrap/pkg/httpclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			newDatabase,
			newFiber,
			newGateway,
			newHTTPClient,
			repository.NewMessageRepository,
			repository.NewConfigRepository,
			service.NewConfigService,
			service.NewMessageService,
			newDeliveryReportService,
			newWebhookClient,
			service.NewMessageWorkflowService,
			v1.NewHandler,
			dashboard.NewHandler,
			api.NewWSHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func newFiber() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: errmw.ErrorHandler()})
}

func newDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Message{}, &model.ConfigOverride{}); err != nil {
		return nil, err
	}

	return db, nil
}

func newGateway(logger *zap.Logger) *gateway.Gateway {
	return gateway.New(logger, gateway.DefaultWindow)
}

func newHTTPClient() httpclient.HTTPClient {
	return httpclient.NewHTTPClient(30 * time.Second)
}

func newWebhookClient(cfg service.ConfigService, client httpclient.HTTPClient, logger *zap.Logger) webhook.Client {
	return webhook.NewClient(cfg, client, logger)
}

func newDeliveryReportService(cfg service.ConfigService, messages service.MessageService,
	gw *gateway.Gateway, webhookClient webhook.Client, logger *zap.Logger) service.DeliveryReportService {
	return service.NewDeliveryReportService(cfg, messages, gw, webhookClient, logger)
}

func startServer(app *fiber.App, handler *v1.Handler, dash *dashboard.Handler, ws *api.WSHandler,
	m *metrics.Metrics, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {

	app.Use(api.HTTPMetrics(m, logger))
	api.SetupRoutes(app, handler, dash, ws)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting server", zap.String("port", cfg.API.Port))
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("Server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
