// Package runner drives the fetch, extract and notify cycle for each fund.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/extract"
	"vanguard-notifier/internal/logging"
	"vanguard-notifier/internal/models"
	"vanguard-notifier/internal/notify"
	"vanguard-notifier/internal/render"
	"vanguard-notifier/pkg/utils"
)

// DefaultPacing is the pause between funds in a multi-fund run.
const DefaultPacing = 3 * time.Second

// State is a step of the per-fund state machine.
type State string

const (
	StateFetching       State = "fetching"
	StateExtracting     State = "extracting"
	StateNotifying      State = "notifying"
	StateErrorNotifying State = "error_notifying"
	StateDone           State = "done"
)

// Outcome summarises how a fund's run ended.
type Outcome string

const (
	// OutcomeNotified means a price alert was delivered.
	OutcomeNotified Outcome = "notified"
	// OutcomeNoData means the page held no price data; nothing was sent.
	OutcomeNoData Outcome = "no_data"
	// OutcomeUndelivered means an alert was built but delivery failed.
	OutcomeUndelivered Outcome = "undelivered"
	// OutcomeFailed means a stage failed and an error notification was attempted.
	OutcomeFailed Outcome = "failed"
)

// Extractor converts a rendered page into an extraction result.
type Extractor interface {
	Extract(page models.RenderedPage) (extract.Result, error)
}

// FundReport records what happened to one fund.
type FundReport struct {
	Fund     models.Fund
	States   []State
	Outcome  Outcome
	Status   extract.Status
	Message  string
	Err      error
	Duration time.Duration
}

// Final returns the last state reached.
func (r FundReport) Final() State {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}

// Summary aggregates a multi-fund run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Reports   []FundReport
}

// PanicError wraps a value recovered from a panicking stage.
type PanicError struct {
	Stage State
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Stage, e.Value)
}

// Driver runs funds one after another.
type Driver struct {
	renderer  render.Renderer
	notifier  notify.Notifier
	extractor Extractor
	pacing    time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
	logger    zerolog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithPacing sets the pause between funds.
func WithPacing(d time.Duration) Option {
	return func(dr *Driver) { dr.pacing = d }
}

// WithExtractor replaces the extraction pipeline.
func WithExtractor(e Extractor) Option {
	return func(dr *Driver) { dr.extractor = e }
}

// WithSleeper replaces the pacing sleep, mainly for tests.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(dr *Driver) { dr.sleep = fn }
}

// NewDriver creates a new Driver.
func NewDriver(r render.Renderer, n notify.Notifier, logger zerolog.Logger, opts ...Option) *Driver {
	d := &Driver{
		renderer:  r,
		notifier:  n,
		extractor: extract.NewPipeline(logger),
		pacing:    DefaultPacing,
		sleep:     utils.Sleep,
		now:       time.Now,
		logger:    logging.WithOperation(logger, "run"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes funds in order, pausing between them. Per-fund failures are
// reported through notifications and the summary, never as an error; the
// only error is ErrNoFunds for an empty list.
func (d *Driver) Run(ctx context.Context, funds []models.Fund) (Summary, error) {
	if len(funds) == 0 {
		d.logger.Warn().Msg("No funds configured")
		return Summary{}, errors.ErrNoFunds
	}

	d.logger.Info().Int("funds", len(funds)).Msg("Starting run")

	summary := Summary{Total: len(funds)}
	for i, fund := range funds {
		if ctx.Err() != nil {
			d.logger.Warn().Err(ctx.Err()).Int("remaining", len(funds)-i).Msg("Run interrupted")
			break
		}

		rep := d.RunFund(ctx, fund)
		summary.Reports = append(summary.Reports, rep)
		if rep.Outcome == OutcomeFailed {
			summary.Failed++
		} else {
			summary.Succeeded++
		}

		if i < len(funds)-1 && d.pacing > 0 {
			d.logger.Debug().Dur("pacing", d.pacing).Msg("Waiting before next fund")
			if err := d.sleep(ctx, d.pacing); err != nil {
				d.logger.Warn().Err(err).Msg("Pacing interrupted")
			}
		}
	}

	d.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Run complete")
	return summary, nil
}

// RunFund takes one fund through Fetching, Extracting and Notifying. Any
// failure is converted into a single error notification.
func (d *Driver) RunFund(ctx context.Context, fund models.Fund) FundReport {
	start := d.now()
	rep := FundReport{Fund: fund}
	log := logging.WithFund(d.logger, fund.Name)
	defer func() { rep.Duration = d.now().Sub(start) }()

	d.enter(&rep, StateFetching, log)
	log.Info().Str("url", fund.URL).Msg("Fetching fund page")

	var page models.RenderedPage
	err := protect(StateFetching, func() error {
		var err error
		page, err = d.renderer.Render(ctx, fund.URL)
		return err
	})
	var panicErr *PanicError
	switch {
	case errors.As(err, &panicErr):
		rep.Err = err
		log.Error().Err(err).Msg("Render panicked")
		d.notifyError(ctx, &rep, fmt.Sprintf(
			"Unexpected error occurred while scraping %s: %v", fund.Name, err), log)
		return rep
	case err != nil:
		rep.Err = err
		log.Error().Err(err).Msg("Render failed")
		d.notifyError(ctx, &rep, fmt.Sprintf(
			"Failed to scrape %s. Please check your internet connection and try again.", fund.Name), log)
		return rep
	}

	d.enter(&rep, StateExtracting, log)
	var res extract.Result
	err = protect(StateExtracting, func() error {
		var err error
		res, err = d.extractor.Extract(page)
		return err
	})
	if err != nil {
		rep.Err = err
		log.Error().Err(err).Msg("Extraction failed")
		d.notifyError(ctx, &rep, fmt.Sprintf(
			"Unexpected error occurred while scraping %s: %v", fund.Name, err), log)
		return rep
	}

	rep.Status = res.Status
	if !res.HasAlert() {
		log.Info().Err(res.Reason()).Int("tables", res.TableCount).Msg("No valid price data found")
		rep.Outcome = OutcomeNoData
		d.enter(&rep, StateDone, log)
		return rep
	}

	d.enter(&rep, StateNotifying, log)
	alert := models.Alert{
		Title:    fund.Name,
		Body:     res.Terse,
		Detail:   res.Verbose,
		Severity: models.SeverityNormal,
		Created:  d.now(),
	}
	rep.Message = alert.Body

	err = protect(StateNotifying, func() error {
		return d.notifier.SendPriceUpdate(ctx, alert)
	})

	switch {
	case errors.As(err, &panicErr):
		rep.Err = err
		log.Error().Err(err).Msg("Notification stage failed")
		d.notifyError(ctx, &rep, fmt.Sprintf(
			"Unexpected error occurred while scraping %s: %v", fund.Name, err), log)
		return rep
	case err != nil:
		rep.Err = err
		rep.Outcome = OutcomeUndelivered
		log.Warn().Err(err).Msg("Price update not delivered")
	default:
		rep.Outcome = OutcomeNotified
	}

	d.enter(&rep, StateDone, log)
	return rep
}

func (d *Driver) notifyError(ctx context.Context, rep *FundReport, message string, log zerolog.Logger) {
	d.enter(rep, StateErrorNotifying, log)
	rep.Outcome = OutcomeFailed
	rep.Message = message

	err := protect(StateErrorNotifying, func() error {
		return d.notifier.SendError(ctx, message, rep.Fund.Name)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Error notification not delivered")
	}

	d.enter(rep, StateDone, log)
}

func (d *Driver) enter(rep *FundReport, next State, log zerolog.Logger) {
	logging.LogTransition(log, string(rep.Final()), string(next))
	rep.States = append(rep.States, next)
}

// protect runs fn, converting a panic into a *PanicError.
func protect(stage State, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: stage, Value: r}
		}
	}()
	return fn()
}
