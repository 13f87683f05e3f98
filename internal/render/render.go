// Package render turns a fund page URL into its final HTML.
package render

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vanguard-notifier/internal/config"
	"vanguard-notifier/internal/models"
)

// Renderer fetches a URL and returns the page HTML once client-side rendering
// has settled. Failures are reported as *errors.RenderError.
type Renderer interface {
	Name() string
	Render(ctx context.Context, url string) (models.RenderedPage, error)
}

// Options controls how long a renderer waits for content.
type Options struct {
	Headless         bool
	WaitTimeout      time.Duration
	SettleDelay      time.Duration
	PanelSettleDelay time.Duration
	MinContentLength int
	PanelSelector    string
	UserAgent        string
	WindowWidth      int
	WindowHeight     int
	PollInterval     time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Renderer)
}

// OptionsFromConfig converts renderer configuration into Options.
func OptionsFromConfig(cfg config.RendererConfig) Options {
	return Options{
		Headless:         cfg.Headless,
		WaitTimeout:      cfg.WaitTimeout,
		SettleDelay:      cfg.SettleDelay,
		PanelSettleDelay: cfg.PanelSettleDelay,
		MinContentLength: cfg.MinContentLength,
		PanelSelector:    cfg.PanelSelector,
		UserAgent:        cfg.UserAgent,
		WindowWidth:      cfg.WindowWidth,
		WindowHeight:     cfg.WindowHeight,
		PollInterval:     250 * time.Millisecond,
	}
}

// New creates the renderer selected by cfg.Engine.
func New(cfg config.RendererConfig, logger zerolog.Logger) Renderer {
	opts := OptionsFromConfig(cfg)
	if cfg.Engine == config.EngineHTTP {
		return NewHTTPRenderer(opts, logger)
	}
	return NewChromeRenderer(opts, logger)
}
