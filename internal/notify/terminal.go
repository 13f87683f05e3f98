package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"vanguard-notifier/internal/config"
)

// TerminalChannel prints notifications to a console writer. It is useful
// when running by hand or when no push service is reachable.
type TerminalChannel struct {
	out     io.Writer
	enabled bool
	bell    bool
	verbose bool
	mu      sync.Mutex
}

// NewTerminalChannel creates a new TerminalChannel writing to out.
func NewTerminalChannel(cfg config.TerminalConfig, out io.Writer) *TerminalChannel {
	return &TerminalChannel{
		out:     out,
		enabled: cfg.Enabled && out != nil,
		bell:    cfg.Bell,
		verbose: cfg.Verbose,
	}
}

// Name returns the name of the channel.
func (tc *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled returns whether the channel is enabled.
func (tc *TerminalChannel) IsEnabled() bool {
	return tc.enabled
}

// Send writes the notification. Writes are serialised so concurrent sends do
// not interleave.
func (tc *TerminalChannel) Send(ctx context.Context, n Notification) error {
	if !tc.enabled {
		return nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.bell && n.Type != NotificationTest {
		fmt.Fprint(tc.out, "\a")
	}
	_, err := fmt.Fprintln(tc.out, FormatNotification(n, tc.verbose))
	return err
}

// FormatNotification formats a notification for terminal display. Colour is
// applied only when the process writes to a terminal.
func FormatNotification(n Notification, verbose bool) string {
	var indicator *color.Color
	var label string
	switch n.Type {
	case NotificationError:
		indicator, label = color.New(color.FgRed, color.Bold), "❌ ERROR"
	case NotificationTest:
		indicator, label = color.New(color.FgWhite), "🧪 TEST"
	default:
		indicator, label = color.New(color.FgCyan), "📊 UPDATE"
	}

	var sb strings.Builder
	sb.WriteString(indicator.Sprintf("[%s] %s", n.Timestamp.Format("15:04:05"), label))
	if n.Title != "" {
		sb.WriteString(" | " + n.Title)
	}

	if verbose && n.Detail != "" {
		for _, line := range strings.Split(n.Detail, "\n") {
			sb.WriteString("\n    " + line)
		}
		return sb.String()
	}

	sb.WriteString(" | " + n.Message)
	return sb.String()
}
