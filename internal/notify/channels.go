package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"vanguard-notifier/internal/config"
	"vanguard-notifier/internal/errors"
)

const userAgent = "VanguardNotifier/1.0"

// NtfyChannel publishes notifications to an ntfy topic URL. The body is the
// single-line message; title, priority and tags travel as headers.
type NtfyChannel struct {
	url           string
	priority      string
	tags          string
	errorPriority string
	errorTags     string
	enabled       bool
	http          *resty.Client
}

// NewNtfyChannel creates a new NtfyChannel.
func NewNtfyChannel(cfg config.NtfyConfig) *NtfyChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NtfyChannel{
		url:           cfg.URL,
		priority:      cfg.Priority,
		tags:          cfg.Tags,
		errorPriority: cfg.ErrorPriority,
		errorTags:     cfg.ErrorTags,
		enabled:       cfg.Enabled && cfg.URL != "",
		http:          resty.New().SetTimeout(timeout).SetHeader("User-Agent", userAgent),
	}
}

// Name returns the name of the channel.
func (c *NtfyChannel) Name() string {
	return "ntfy"
}

// IsEnabled returns whether the channel is enabled.
func (c *NtfyChannel) IsEnabled() bool {
	return c.enabled
}

// headers returns the priority and tags for a notification type. Errors use
// a fixed high-priority tag set.
func (c *NtfyChannel) headers(t NotificationType) (string, string) {
	if t == NotificationError {
		return c.errorPriority, c.errorTags
	}
	return c.priority, c.tags
}

// Send posts the notification. Only a 200 response counts as delivered.
func (c *NtfyChannel) Send(ctx context.Context, n Notification) error {
	if !c.enabled {
		return nil
	}

	priority, tags := c.headers(n.Type)
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetHeader("Title", n.Title).
		SetBody(n.Message)
	if priority != "" {
		req.SetHeader("Priority", priority)
	}
	if tags != "" {
		req.SetHeader("Tags", tags)
	}

	res, err := req.Post(c.url)
	if err != nil {
		return errors.NewNotificationError(c.Name(), 0, err)
	}
	if res.StatusCode() != 200 {
		return errors.NewNotificationError(c.Name(), res.StatusCode(), nil)
	}
	return nil
}

// WebhookChannel posts notifications to a Slack-compatible incoming webhook.
type WebhookChannel struct {
	url     string
	enabled bool
	http    *resty.Client
}

// NewWebhookChannel creates a new WebhookChannel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		http:    resty.New().SetTimeout(timeout).SetHeader("User-Agent", userAgent),
	}
}

// Name returns the name of the channel.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled returns whether the channel is enabled.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// webhookPayload is the body posted to the webhook.
type webhookPayload struct {
	Text      string `json:"text"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// Send posts the verbose body of the notification.
func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	if !w.enabled {
		return nil
	}

	text := n.Body()
	if n.Type == NotificationError {
		text = "*" + n.Title + "*\n" + text
	}

	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{
			Text:      text,
			Title:     n.Title,
			Type:      string(n.Type),
			Timestamp: n.Timestamp.Format(time.RFC3339),
		}).
		Post(w.url)
	if err != nil {
		return errors.NewNotificationError(w.Name(), 0, err)
	}
	if !res.IsSuccess() {
		return errors.NewNotificationError(w.Name(), res.StatusCode(), nil)
	}
	return nil
}
