// Package notify provides notification functionality for fund price alerts.
package notify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vanguard-notifier/internal/config"
	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/logging"
	"vanguard-notifier/internal/models"
)

// DefaultTitle is used for price updates sent without a fund name.
const DefaultTitle = "Vanguard Fund Price Update"

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendPriceUpdate(ctx context.Context, alert models.Alert) error
	SendError(ctx context.Context, message, fund string) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string // single line, for push channels
	Detail    string // multi-line, for richer channels
	Timestamp time.Time
}

// Body returns the detail when present, else the message.
func (n Notification) Body() string {
	if n.Detail != "" {
		return n.Detail
	}
	return n.Message
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationUpdate NotificationType = "update"
	NotificationError  NotificationType = "error"
	NotificationTest   NotificationType = "test"
)

// NotificationLevel represents the notification level filter.
type NotificationLevel string

const (
	LevelAll         NotificationLevel = config.LevelAll
	LevelUpdatesOnly NotificationLevel = config.LevelUpdatesOnly
	LevelErrorsOnly  NotificationLevel = config.LevelErrorsOnly
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []NotificationChannel
	level    NotificationLevel
	logger   zerolog.Logger
	mu       sync.RWMutex
}

// NewMultiNotifier creates a new MultiNotifier with the given configuration.
func NewMultiNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]NotificationChannel, 0),
		level:    NotificationLevel(cfg.Level),
		logger:   logging.WithOperation(logger, "notify"),
	}

	if mn.level == "" {
		mn.level = LevelAll
	}

	if cfg.Ntfy.Enabled {
		mn.AddChannel(NewNtfyChannel(cfg.Ntfy))
	}
	if cfg.Webhook.Enabled {
		mn.AddChannel(NewWebhookChannel(cfg.Webhook))
	}
	if cfg.Terminal.Enabled {
		mn.AddChannel(NewTerminalChannel(cfg.Terminal, os.Stdout))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// Channels returns the names of the enabled channels.
func (mn *MultiNotifier) Channels() []string {
	mn.mu.RLock()
	defer mn.mu.RUnlock()

	var names []string
	for _, ch := range mn.channels {
		if ch.IsEnabled() {
			names = append(names, ch.Name())
		}
	}
	return names
}

// shouldSend checks if a notification should be sent based on the level filter.
func (mn *MultiNotifier) shouldSend(notifType NotificationType) bool {
	switch mn.level {
	case LevelUpdatesOnly:
		return notifType != NotificationError
	case LevelErrorsOnly:
		return notifType != NotificationUpdate
	default:
		return true
	}
}

// Send sends a notification to all enabled channels. Failures are collected
// per channel; there is no retry.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !mn.shouldSend(n.Type) {
		mn.logger.Debug().Str("type", string(n.Type)).Str("level", string(mn.level)).Msg("Notification filtered")
		return nil
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []error
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		start := time.Now()
		err := ch.Send(ctx, n)
		logging.LogNotification(mn.logger, ch.Name(), n.Title, time.Since(start), err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SendPriceUpdate sends an extracted price alert. The alert title is
// normally the fund name.
func (mn *MultiNotifier) SendPriceUpdate(ctx context.Context, alert models.Alert) error {
	if alert.Title == "" {
		alert.Title = DefaultTitle
	}
	return mn.SendAlert(ctx, alert)
}

// SendError sends an error notification naming the fund in both title and
// body.
func (mn *MultiNotifier) SendError(ctx context.Context, message, fund string) error {
	return mn.SendAlert(ctx, ErrorAlert(message, fund))
}

// SendAlert sends an alert, choosing the notification type from its
// severity.
func (mn *MultiNotifier) SendAlert(ctx context.Context, alert models.Alert) error {
	return mn.Send(ctx, Notification{
		Type:      TypeForAlert(alert),
		Title:     alert.Title,
		Message:   alert.Body,
		Detail:    alert.Detail,
		Timestamp: alert.Created,
	})
}

// TypeForAlert maps an alert severity to a notification type.
func TypeForAlert(alert models.Alert) NotificationType {
	if alert.IsError() {
		return NotificationError
	}
	return NotificationUpdate
}

// ErrorAlert builds the error alert for a fund.
func ErrorAlert(message, fund string) models.Alert {
	title := "Vanguard Scraper Error"
	if fund != "" {
		title = fmt.Sprintf("%s: %s", title, fund)
	}
	body := "Error in Vanguard scraper: " + message
	if fund != "" && !strings.Contains(message, fund) {
		body = fmt.Sprintf("Error in Vanguard scraper (%s): %s", fund, message)
	}
	return models.Alert{
		Title:    title,
		Body:     body,
		Severity: models.SeverityError,
		Created:  time.Now(),
	}
}

// SendTest sends a test notification to every channel.
func (mn *MultiNotifier) SendTest(ctx context.Context) error {
	return mn.Send(ctx, Notification{
		Type:    NotificationTest,
		Title:   "Test Notification",
		Message: "🧪 Test notification from Vanguard Stock Notifier",
	})
}

// NoOpNotifier is a notifier that does nothing (for testing or disabled notifications).
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, notif Notification) error {
	return nil
}

// SendPriceUpdate does nothing.
func (n *NoOpNotifier) SendPriceUpdate(ctx context.Context, alert models.Alert) error {
	return nil
}

// SendError does nothing.
func (n *NoOpNotifier) SendError(ctx context.Context, message, fund string) error {
	return nil
}
