package config

import (
	"flag"
	"os"
	"strconv"
)

type Config struct {
	ServerAddress string
	ContentDir    string
	BaseURL       string
	Dev           bool
	IncludeDrafts bool
}

func NewConfig() *Config {
	cfg := &Config{
		ServerAddress: "localhost:8080",
		ContentDir:    "content",
		BaseURL:       "",
		Dev:           false,
		IncludeDrafts: false,
	}

	// Parse flags
	flag.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "HTTP server address")
	flag.StringVar(&cfg.ContentDir, "c", cfg.ContentDir, "Content directory")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL override for canonical links")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Dev mode: watch content and push live reloads")
	flag.BoolVar(&cfg.IncludeDrafts, "drafts", cfg.IncludeDrafts, "Serve draft posts")
	flag.Parse()

	// Override with environment variables if present
	if envAddress := os.Getenv("ADDRESS"); envAddress != "" {
		cfg.ServerAddress = envAddress
	}

	if envContentDir := os.Getenv("CONTENT_DIR"); envContentDir != "" {
		cfg.ContentDir = envContentDir
	}

	if envBaseURL := os.Getenv("BASE_URL"); envBaseURL != "" {
		cfg.BaseURL = envBaseURL
	}

	if envDev := os.Getenv("DEV"); envDev != "" {
		cfg.Dev, _ = strconv.ParseBool(envDev)
	}

	if envDrafts := os.Getenv("INCLUDE_DRAFTS"); envDrafts != "" {
		cfg.IncludeDrafts, _ = strconv.ParseBool(envDrafts)
	}

	return cfg
}
