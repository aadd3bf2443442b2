package main

import (
	"context"
	"fmt"
	"time"

	"ragdocs/config"
	"ragdocs/internal/api/documents"
	"ragdocs/internal/api/healthcheck"
	ingestapi "ragdocs/internal/api/ingest"
	queryapi "ragdocs/internal/api/query"
	"ragdocs/internal/api/upload"
	"ragdocs/internal/middleware"
	"ragdocs/pkg/logger"

	"github.com/gofiber/fiber/v3"
	milvus "github.com/milvus-io/milvus-sdk-go/v2/client"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:     config.Cfg.Server.AppName,
		BodyLimit:   config.Cfg.Server.BodyLimit,
		Concurrency: config.Cfg.Server.Concurrency,
	})

	limiter := middleware.NewConnectionLimiter(config.Cfg.Server.Concurrency)
	app.Use(middleware.PanicRecoveryMiddleware())
	app.Use(middleware.ConnectionLimiterMiddleware(limiter))

	// Milvus connectivity check on startup
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	cli, err := milvus.NewClient(ctx, milvus.Config{Address: config.Cfg.Milvus.Address})
	cancel()
	if err != nil {
		logger.Error(err, "%v: milvus connect error", config.ModuleMilvus)
	} else {
		cli.Close()
		logger.Info("%v: milvus ok", config.ModuleMilvus)
	}

	// routes
	healthcheck.RegisterRoutes(app)
	upload.RegisterRoutes(app)
	documents.RegisterRoutes(app)
	ingestapi.RegisterRoutes(app)
	queryapi.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "%v: server error", config.ModuleServer)
	}
}
