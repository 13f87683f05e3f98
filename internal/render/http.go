package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/logging"
	"vanguard-notifier/internal/models"
)

// HTTPRenderer fetches pages with a plain GET. It is suited to pages whose
// tables are present in the served HTML.
type HTTPRenderer struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewHTTPRenderer creates a new HTTPRenderer.
func NewHTTPRenderer(opts Options, logger zerolog.Logger) *HTTPRenderer {
	client := resty.New().SetTimeout(opts.WaitTimeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &HTTPRenderer{
		http:   client,
		logger: logging.WithOperation(logger, "render"),
	}
}

// Name returns the name of the renderer.
func (r *HTTPRenderer) Name() string {
	return "http"
}

// Render fetches url and returns the response body.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (models.RenderedPage, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.NewRenderError(url, "empty url", nil)
	}

	res, err := r.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", errors.NewRenderError(url, "fetching", err)
	}
	if !res.IsSuccess() {
		return "", errors.NewRenderError(url, fmt.Sprintf("unexpected status %d", res.StatusCode()), nil)
	}

	body := res.String()
	r.logger.Info().Str("url", url).Int("length", len(body)).Dur("duration", res.Time()).Msg("Page fetched")
	return models.RenderedPage(body), nil
}
