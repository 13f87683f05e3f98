package render

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/logging"
	"vanguard-notifier/internal/models"
	"vanguard-notifier/pkg/utils"
)

const contentLengthJS = `document.documentElement ? document.documentElement.outerHTML.length : 0`

// ChromeRenderer renders pages in a headless Chrome session driven by
// chromedp. Every Render call owns one browser session and tears it down on
// return, whatever the outcome.
type ChromeRenderer struct {
	opts   Options
	logger zerolog.Logger
}

// NewChromeRenderer creates a new ChromeRenderer.
func NewChromeRenderer(opts Options, logger zerolog.Logger) *ChromeRenderer {
	return &ChromeRenderer{
		opts:   opts,
		logger: logging.WithOperation(logger, "render"),
	}
}

// Name returns the name of the renderer.
func (r *ChromeRenderer) Name() string {
	return "chrome"
}

// AllocatorOptions returns the Chrome flags used for each session.
func (r *ChromeRenderer) AllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.DisableGPU,
	)
	if r.opts.WindowWidth > 0 && r.opts.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(r.opts.WindowWidth, r.opts.WindowHeight))
	}
	if r.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.opts.UserAgent))
	}
	return opts
}

// Render loads url, waits until the document grows past MinContentLength,
// lets it settle, optionally waits for the tab panel, and returns the HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (models.RenderedPage, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.NewRenderError(url, "empty url", nil)
	}

	log := r.logger.With().Str("url", url).Logger()
	log.Info().Msg("Starting browser")

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.AllocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser on the long-lived context so that the timeouts below
	// only bound individual steps.
	if err := chromedp.Run(browserCtx); err != nil {
		return "", errors.NewRenderError(url, "starting browser", err)
	}

	loadCtx, cancelLoad := context.WithTimeout(browserCtx, r.opts.WaitTimeout)
	defer cancelLoad()

	if err := chromedp.Run(loadCtx, chromedp.Navigate(url)); err != nil {
		return "", errors.NewRenderError(url, "navigating", err)
	}

	log.Debug().Msg("Waiting for page to load")
	if err := r.waitForContent(loadCtx); err != nil {
		if loadCtx.Err() != nil {
			err = errors.Join(errors.ErrTimeout, err)
		}
		return "", errors.NewRenderError(url, "waiting for content", err)
	}

	if err := utils.Sleep(browserCtx, r.opts.SettleDelay); err != nil {
		return "", errors.NewRenderError(url, "settling", err)
	}

	r.waitForPanel(browserCtx, log)

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", errors.NewRenderError(url, "reading document", err)
	}

	log.Info().Int("length", len(html)).Msg("Page rendered")
	return models.RenderedPage(html), nil
}

func (r *ChromeRenderer) waitForContent(ctx context.Context) error {
	interval := r.opts.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return utils.PollUntil(ctx, interval, func() (bool, error) {
		var n int
		if err := chromedp.Run(ctx, chromedp.Evaluate(contentLengthJS, &n)); err != nil {
			return false, err
		}
		return n > r.opts.MinContentLength, nil
	})
}

// waitForPanel waits for the optional tab panel. Its absence is logged and
// otherwise ignored.
func (r *ChromeRenderer) waitForPanel(ctx context.Context, log zerolog.Logger) {
	if r.opts.PanelSelector == "" {
		return
	}

	panelCtx, cancel := context.WithTimeout(ctx, r.opts.WaitTimeout)
	defer cancel()

	if err := chromedp.Run(panelCtx, chromedp.WaitReady(r.opts.PanelSelector, chromedp.ByQuery)); err != nil {
		log.Warn().Err(err).Str("selector", r.opts.PanelSelector).Msg("Tab panel not found, continuing")
		return
	}

	log.Debug().Msg("Tab panel found, waiting for content")
	if err := utils.Sleep(ctx, r.opts.PanelSettleDelay); err != nil {
		log.Debug().Err(err).Msg("Panel settle interrupted")
	}
}
