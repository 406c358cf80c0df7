// Package notify delivers presence-change notifications to a
// Pushbullet-compatible push endpoint. Delivery is best effort: the
// monitor never retries a failed notification.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/projectdiscovery/gcache"
	"github.com/projectdiscovery/gologger"
	envutil "github.com/projectdiscovery/utils/env"
	"github.com/tidwall/gjson"
)

var (
	// DefaultURL is the push endpoint, overridable via environment.
	DefaultURL = envutil.GetEnvOrDefault("HOSTWATCH_NOTIFY_URL", "https://api.pushbullet.com/v2/pushes")
	// DefaultCooldown suppresses identical notifications sent within
	// this window.
	DefaultCooldown = 30 * time.Second
)

// Event is one notification payload.
type Event struct {
	Title string
	Body  string
}

// Notifier sends one event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// WebhookOptions configures the push endpoint.
type WebhookOptions struct {
	URL      string
	APIKey   string
	Device   string // optional device iden to route to
	Channel  string // optional channel tag to route to
	Cooldown time.Duration
	// Silent logs events instead of pushing them (dry-run mode).
	Silent bool
}

// Webhook posts note-style events to the configured endpoint. Identical
// events inside the cooldown window are dropped so a flapping target does
// not flood the channel.
type Webhook struct {
	options WebhookOptions
	client  *http.Client
	sent    gcache.Cache[string, struct{}]
}

// NewWebhook creates a webhook notifier.
func NewWebhook(options WebhookOptions) *Webhook {
	if options.URL == "" {
		options.URL = DefaultURL
	}
	if options.Cooldown <= 0 {
		options.Cooldown = DefaultCooldown
	}

	transport := http.DefaultTransport

	client := &http.Client{
		Timeout: 10 * time.Second,
		// custom RoundTripper to add the access token to every request
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("Access-Token", options.APIKey)
			req.Header.Set("Content-Type", "application/json")
			return transport.RoundTrip(req)
		}),
	}

	sent := gcache.New[string, struct{}](128).
		LRU().
		Expiration(options.Cooldown).
		Build()

	return &Webhook{
		options: options,
		client:  client,
		sent:    sent,
	}
}

// Notify posts the event. Duplicate events within the cooldown window are
// silently dropped.
func (w *Webhook) Notify(ctx context.Context, event Event) error {
	key := event.Title + "\x00" + event.Body
	if w.sent.Has(key) {
		gologger.Verbose().Msgf("suppressing duplicate notification %q", event.Title)
		return nil
	}

	if w.options.Silent {
		gologger.Info().Msgf("silent mode, skipping push %q: %s", event.Title, event.Body)
		_ = w.sent.Set(key, struct{}{})
		return nil
	}

	payload := map[string]interface{}{
		"type":  "note",
		"title": event.Title,
		"body":  event.Body,
	}
	if w.options.Device != "" {
		payload["device_iden"] = w.options.Device
	}
	if w.options.Channel != "" {
		payload["channel_tag"] = w.options.Channel
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.options.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read notification response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("notification rejected: %s", msg)
	}

	if iden := gjson.GetBytes(respBody, "iden").String(); iden != "" {
		gologger.Verbose().Msgf("notification %s delivered", iden)
	}

	_ = w.sent.Set(key, struct{}{})
	return nil
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (rf roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return rf(req)
}
