package config

import (
	"flag"
	"os"
	"strconv"
)

type Config struct {
	OutputDir     string
	ContentDir    string
	BaseURL       string
	Minify        bool
	IncludeDrafts bool
	Concurrency   int
}

func NewConfig() *Config {
	cfg := &Config{
		OutputDir:     "public",
		ContentDir:    "content",
		BaseURL:       "",
		Minify:        true,
		IncludeDrafts: false,
		Concurrency:   0,
	}

	// Parse flags
	flag.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Output directory")
	flag.StringVar(&cfg.ContentDir, "c", cfg.ContentDir, "Content directory")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL override for canonical links")
	flag.BoolVar(&cfg.Minify, "minify", cfg.Minify, "Minify HTML, CSS, SVG and XML output")
	flag.BoolVar(&cfg.IncludeDrafts, "drafts", cfg.IncludeDrafts, "Export draft posts")
	flag.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "Concurrent page renders (0 = one per CPU)")
	flag.Parse()

	// Override with environment variables if present
	if envOutputDir := os.Getenv("OUTPUT_DIR"); envOutputDir != "" {
		cfg.OutputDir = envOutputDir
	}

	if envContentDir := os.Getenv("CONTENT_DIR"); envContentDir != "" {
		cfg.ContentDir = envContentDir
	}

	if envBaseURL := os.Getenv("BASE_URL"); envBaseURL != "" {
		cfg.BaseURL = envBaseURL
	}

	if envMinify := os.Getenv("MINIFY"); envMinify != "" {
		cfg.Minify, _ = strconv.ParseBool(envMinify)
	}

	if envDrafts := os.Getenv("INCLUDE_DRAFTS"); envDrafts != "" {
		cfg.IncludeDrafts, _ = strconv.ParseBool(envDrafts)
	}

	if envConcurrency := os.Getenv("CONCURRENCY"); envConcurrency != "" {
		if n, err := strconv.Atoi(envConcurrency); err == nil {
			cfg.Concurrency = n
		}
	}

	return cfg
}
