package runner

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/extract"
	"vanguard-notifier/internal/models"
	"vanguard-notifier/internal/notify"
)

const pricePage = `<table>
<tr><th>Date</th><th>Buy</th><th>Sell</th><th>NAV</th></tr>
<tr><td>01/02</td><td>$1.10</td><td>$1.05</td><td>$1.08</td></tr>
<tr><td>31/01</td><td>$1.00</td><td>$0.95</td><td>$0.98</td></tr>
</table>`

type fakeRenderer struct {
	pages  map[string]string
	fail   map[string]bool
	panics map[string]bool
	calls  []string
}

func (r *fakeRenderer) Name() string { return "fake" }

func (r *fakeRenderer) Render(ctx context.Context, url string) (models.RenderedPage, error) {
	r.calls = append(r.calls, url)
	if r.panics[url] {
		panic("renderer blew up")
	}
	if r.fail[url] {
		return "", errors.NewRenderError(url, "timed out", errors.ErrTimeout)
	}
	return models.RenderedPage(r.pages[url]), nil
}

type sentError struct {
	message string
	fund    string
}

type fakeNotifier struct {
	mu          sync.Mutex
	updates     []models.Alert
	errors      []sentError
	updateErr   error
	panicUpdate bool
}

func (n *fakeNotifier) Send(ctx context.Context, notif notify.Notification) error { return nil }

func (n *fakeNotifier) SendPriceUpdate(ctx context.Context, alert models.Alert) error {
	if n.panicUpdate {
		panic("channel exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, alert)
	return n.updateErr
}

func (n *fakeNotifier) SendError(ctx context.Context, message, fund string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, sentError{message: message, fund: fund})
	return nil
}

type panicExtractor struct{}

func (panicExtractor) Extract(page models.RenderedPage) (extract.Result, error) {
	panic("index out of range")
}

type recordingSleeper struct {
	calls []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func newTestDriver(r *fakeRenderer, n *fakeNotifier, opts ...Option) (*Driver, *recordingSleeper) {
	s := &recordingSleeper{}
	opts = append([]Option{WithSleeper(s.sleep)}, opts...)
	return NewDriver(r, n, zerolog.Nop(), opts...), s
}

func TestRunFund_PriceAlert(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": pricePage}}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n)

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeNotified, rep.Outcome)
	assert.Equal(t, []State{StateFetching, StateExtracting, StateNotifying, StateDone}, rep.States)
	require.Len(t, n.updates, 1)
	assert.Equal(t, "Growth", n.updates[0].Title)
	assert.Equal(t, "VG Fund 01/02: $1.10/$1.05 UP +10.0%", n.updates[0].Body)
	assert.Contains(t, n.updates[0].Detail, "Price Change")
	assert.Equal(t, models.SeverityNormal, n.updates[0].Severity)
	assert.Empty(t, n.errors)
}

func TestRunFund_RenderFailureSendsOneError(t *testing.T) {
	r := &fakeRenderer{fail: map[string]bool{"https://a": true}}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n)

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeFailed, rep.Outcome)
	assert.Equal(t, []State{StateFetching, StateErrorNotifying, StateDone}, rep.States)
	assert.True(t, errors.Is(rep.Err, errors.ErrRenderFailed))
	assert.Empty(t, n.updates)
	require.Len(t, n.errors, 1)
	assert.Equal(t, "Growth", n.errors[0].fund)
	assert.Equal(t, "Failed to scrape Growth. Please check your internet connection and try again.", n.errors[0].message)
}

func TestRunFund_NoDataSendsNothing(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": "<html><body>Loading</body></html>"}}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n)

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeNoData, rep.Outcome)
	assert.Equal(t, extract.StatusNoTable, rep.Status)
	assert.Equal(t, StateDone, rep.Final())
	assert.Empty(t, n.updates)
	assert.Empty(t, n.errors)
}

func TestRunFund_ExtractionPanicIsRecovered(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": pricePage}}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n, WithExtractor(panicExtractor{}))

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeFailed, rep.Outcome)
	var pe *PanicError
	require.True(t, errors.As(rep.Err, &pe))
	assert.Equal(t, StateExtracting, pe.Stage)
	require.Len(t, n.errors, 1)
	assert.True(t, strings.HasPrefix(n.errors[0].message, "Unexpected error occurred while scraping Growth:"))
}

func TestRunFund_RenderPanicIsRecovered(t *testing.T) {
	r := &fakeRenderer{
		pages:  map[string]string{"https://b": pricePage},
		panics: map[string]bool{"https://a": true},
	}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n)

	funds := []models.Fund{
		{Name: "A", URL: "https://a"},
		{Name: "B", URL: "https://b"},
	}
	var summary Summary
	require.NotPanics(t, func() {
		var err error
		summary, err = d.Run(context.Background(), funds)
		require.NoError(t, err)
	})

	assert.Equal(t, []string{"https://a", "https://b"}, r.calls)
	require.Len(t, summary.Reports, 2)

	failed := summary.Reports[0]
	assert.Equal(t, OutcomeFailed, failed.Outcome)
	assert.Equal(t, []State{StateFetching, StateErrorNotifying, StateDone}, failed.States)
	var pe *PanicError
	require.True(t, errors.As(failed.Err, &pe))
	assert.Equal(t, StateFetching, pe.Stage)

	require.Len(t, n.errors, 1)
	assert.Equal(t, "A", n.errors[0].fund)
	assert.Contains(t, n.errors[0].message, "renderer blew up")

	assert.Equal(t, OutcomeNotified, summary.Reports[1].Outcome)
	require.Len(t, n.updates, 1)
	assert.Equal(t, "B", n.updates[0].Title)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunFund_NotifyPanicIsRecovered(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": pricePage}}
	n := &fakeNotifier{panicUpdate: true}
	d, _ := newTestDriver(r, n)

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeFailed, rep.Outcome)
	assert.Equal(t, []State{StateFetching, StateExtracting, StateNotifying, StateErrorNotifying, StateDone}, rep.States)
	require.Len(t, n.errors, 1)
	assert.Contains(t, n.errors[0].message, "channel exploded")
}

func TestRunFund_DeliveryFailureIsNotEscalated(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": pricePage}}
	n := &fakeNotifier{updateErr: errors.NewNotificationError("ntfy", 500, nil)}
	d, _ := newTestDriver(r, n)

	rep := d.RunFund(context.Background(), models.Fund{Name: "Growth", URL: "https://a"})

	assert.Equal(t, OutcomeUndelivered, rep.Outcome)
	assert.True(t, errors.Is(rep.Err, errors.ErrNotificationFailed))
	assert.Empty(t, n.errors)
}

func TestRun_PacesBetweenFundsOnly(t *testing.T) {
	r := &fakeRenderer{
		pages: map[string]string{"https://a": pricePage, "https://c": pricePage},
		fail:  map[string]bool{"https://b": true},
	}
	n := &fakeNotifier{}
	d, s := newTestDriver(r, n, WithPacing(3*time.Second))

	funds := []models.Fund{
		{Name: "A", URL: "https://a"},
		{Name: "B", URL: "https://b"},
		{Name: "C", URL: "https://c"},
	}
	summary, err := d.Run(context.Background(), funds)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a", "https://b", "https://c"}, r.calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, s.calls)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, n.updates, 2)
	require.Len(t, n.errors, 1)
	assert.Equal(t, "B", n.errors[0].fund)
}

func TestRun_NoFunds(t *testing.T) {
	r := &fakeRenderer{}
	n := &fakeNotifier{}
	d, s := newTestDriver(r, n)

	summary, err := d.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrNoFunds))
	assert.Zero(t, summary.Total)
	assert.Empty(t, r.calls)
	assert.Empty(t, s.calls)
	assert.Empty(t, n.updates)
	assert.Empty(t, n.errors)
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{"https://a": pricePage}}
	n := &fakeNotifier{}
	d, _ := newTestDriver(r, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := d.Run(ctx, []models.Fund{{Name: "A", URL: "https://a"}})
	require.NoError(t, err)
	assert.Empty(t, summary.Reports)
	assert.Empty(t, r.calls)
}
