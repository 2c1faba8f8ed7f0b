// Package scrape implements the three interchangeable thread-harvesting
// backends: static HTTP, browser-rendered, and the structured message API.
package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/types"
)

// Backend harvests every post reachable from a thread entry URL.
//
// Scrape may return posts alongside an error: pages fetched before the
// failure are still usable, and the caller decides whether to keep them.
type Backend interface {
	// Scrape fetches all pages/messages of the thread at startURL and
	// returns the extracted posts.
	Scrape(ctx context.Context, startURL string) ([]types.Post, error)

	// Close releases any resources held by the backend.
	Close() error

	// Type returns the backend identifier.
	Type() string
}

// New constructs the backend selected by cfg.Scrape.Backend.
func New(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Scrape.Backend {
	case config.BackendStatic:
		return NewStaticBackend(cfg, logger)
	case config.BackendDynamic:
		return NewDynamicBackend(cfg, logger)
	case config.BackendAPI:
		return NewAPIBackend(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Scrape.Backend)
	}
}
