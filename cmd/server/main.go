package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyloom/website/internal/app/server/config"
	"github.com/keyloom/website/internal/app/server/handlers"
	"github.com/keyloom/website/internal/app/server/middleware"
	"github.com/keyloom/website/internal/app/server/service"
	"github.com/keyloom/website/internal/livereload"
	"github.com/keyloom/website/internal/pkg/buildinfo"
	"github.com/keyloom/website/internal/site/content"
)

// Build information is injected via -ldflags at build time.
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func printBuildInfo() {
	buildinfo.Print(buildVersion, buildDate, buildCommit)
}

func setupServer(logger *logrus.Logger, cfg *config.Config) (*http.Server, *content.Watcher, *livereload.Hub, error) {
	repo, err := content.NewRepository(cfg.ContentDir, cfg.BaseURL, cfg.IncludeDrafts, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		hub     *livereload.Hub
		watcher *content.Watcher
	)
	if cfg.Dev {
		hub = livereload.NewHub(logger)
		watcher, err = content.NewWatcher(repo, func(paths []string) {
			hub.Broadcast(strings.Join(paths, ", "))
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	pageService := service.NewPageService(repo, cfg.Dev)
	handler := handlers.NewHandler(pageService, logger, hub)

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.LoggingMiddleware(logger),
		middleware.ETagMiddleware(),
		middleware.GzipMiddleware(),
	)
	handler.SetupRoutes(router)

	return &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}, watcher, hub, nil
}

func main() {
	printBuildInfo()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg := config.NewConfig()

	srv, watcher, hub, err := setupServer(logger, cfg)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watcher != nil {
		if err := watcher.Start(ctx); err != nil {
			logger.Fatalf("Failed to start content watcher: %v", err)
		}
	}

	go func() {
		logger.WithField("address", cfg.ServerAddress).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}

	if watcher != nil {
		watcher.Stop()
	}
	if hub != nil {
		hub.Close()
	}

	logger.Info("Server stopped gracefully")
}
