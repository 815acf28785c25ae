// Package builder exports the rendered site to a static directory tree
// that any file host can serve. It renders through the same page service
// as the HTTP server, so exported pages match served pages byte for byte
// before minification.
package builder

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/keyloom/website/internal/app/server/service"
	"github.com/keyloom/website/internal/site/assets"
)

// Result summarizes a finished build.
type Result struct {
	Pages    int
	Assets   int
	Bytes    int64
	Duration time.Duration
}

// Builder renders every route to disk.
type Builder struct {
	svc         *service.PageService
	logger      *logrus.Logger
	outDir      string
	minify      bool
	concurrency int
}

// New creates a Builder writing to outDir. concurrency <= 0 means one
// worker per CPU.
func New(svc *service.PageService, logger *logrus.Logger, outDir string, minify bool, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Builder{
		svc:         svc,
		logger:      logger,
		outDir:      outDir,
		minify:      minify,
		concurrency: concurrency,
	}
}

// Run renders all routes and copies the embedded assets. Files are written
// atomically, so an interrupted build never leaves a half-written page.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	var pages, bytesOut atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, route := range b.svc.Routes() {
		route := route
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			body, err := route.Render()
			if err != nil {
				return fmt.Errorf("render %s: %w", route.Path, err)
			}
			if b.minify {
				body, err = minifyOutput(route.File, body)
				if err != nil {
					return fmt.Errorf("minify %s: %w", route.Path, err)
				}
			}
			path := filepath.Join(b.outDir, filepath.FromSlash(route.File))
			if err := writeFileAtomic(path, body); err != nil {
				return fmt.Errorf("write %s: %w", route.File, err)
			}

			pages.Add(1)
			bytesOut.Add(int64(len(body)))
			b.logger.WithFields(logrus.Fields{
				"file":  route.File,
				"bytes": len(body),
			}).Debug("page written")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	assetCount, assetBytes, err := b.copyAssets()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Pages:    int(pages.Load()),
		Assets:   assetCount,
		Bytes:    bytesOut.Load() + assetBytes,
		Duration: time.Since(start),
	}, nil
}

// copyAssets mirrors the embedded asset tree under static/ in the output
// directory, minifying the text formats when enabled.
func (b *Builder) copyAssets() (int, int64, error) {
	count := 0
	var total int64

	err := fs.WalkDir(assets.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(assets.FS, path)
		if err != nil {
			return err
		}
		if b.minify {
			data, err = minifyOutput(path, data)
			if err != nil {
				return fmt.Errorf("minify %s: %w", path, err)
			}
		}
		dst := filepath.Join(b.outDir, "static", filepath.FromSlash(path))
		if err := writeFileAtomic(dst, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		count++
		total += int64(len(data))
		return nil
	})
	return count, total, err
}
