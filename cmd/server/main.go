package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/config"
	"github.com/lemo-maschinenbau/reisekosten/internal/export"
	"github.com/lemo-maschinenbau/reisekosten/internal/form"
	httpapi "github.com/lemo-maschinenbau/reisekosten/internal/interfaces/http"
	"github.com/lemo-maschinenbau/reisekosten/internal/rates"
	"github.com/lemo-maschinenbau/reisekosten/pkg/utils"
)

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	configPath := os.Getenv("REISEKOSTEN_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Reisekosten service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// The rate table is a hard dependency: without it the form cannot
	// fill any Pauschalen and exports would be malformed.
	table, err := rates.Load(cfg.Rates.TablePath)
	if err != nil {
		logger.Fatal("Failed to load per-diem rate table", zap.Error(err))
	}
	logger.Info("Per-diem rate table loaded",
		zap.Int("entries", table.Len()),
		zap.String("source", tableSource(cfg.Rates.TablePath)))

	exporter, err := export.NewExporter(export.Config{
		OutputDir:   cfg.Export.OutputDir,
		CompanyName: cfg.Export.CompanyName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document exporter", zap.Error(err))
	}

	sessions := form.NewManager(table, logger)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := httpapi.NewServer(httpapi.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sessions, table, exporter, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

func tableSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
