package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/keyloom/website/internal/app/builder"
	"github.com/keyloom/website/internal/app/builder/config"
	"github.com/keyloom/website/internal/app/server/service"
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

func main() {
	printBuildInfo()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{})
	logger.SetOutput(os.Stdout)

	cfg := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := content.NewRepository(cfg.ContentDir, cfg.BaseURL, cfg.IncludeDrafts, logger)
	if err != nil {
		logger.Fatalf("Failed to load content: %v", err)
	}

	b := builder.New(service.NewPageService(repo, false), logger, cfg.OutputDir, cfg.Minify, cfg.Concurrency)

	res, err := b.Run(ctx)
	if err != nil {
		logger.Fatalf("Build failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"pages":    res.Pages,
		"assets":   res.Assets,
		"bytes":    res.Bytes,
		"duration": res.Duration,
		"out":      cfg.OutputDir,
	}).Info("Site built")
}
