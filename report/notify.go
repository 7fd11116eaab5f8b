package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/qaforge/apiharness/config"
)

const notifyTimeout = 10 * time.Second

// Notifier delivers a post-run summary to an external channel. Notification
// failures are reported to the caller but never affect the run's outcome.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, r Report) error
}

// NotifiersFromSettings builds the notifiers enabled by configuration.
func NotifiersFromSettings(settings config.NotifySettings) []Notifier {
	var ret []Notifier
	if settings.SlackWebhookURL != "" {
		ret = append(ret, &SlackNotifier{WebhookURL: settings.SlackWebhookURL})
	}
	if settings.DiscordWebhookURL != "" {
		ret = append(ret, &DiscordNotifier{WebhookURL: settings.DiscordWebhookURL})
	}
	return ret
}

// SlackNotifier posts the run summary to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

func (n *SlackNotifier) Name() string { return "slack" }

func (n *SlackNotifier) Notify(ctx context.Context, r Report) error {
	return postJSON(ctx, n.HTTPClient, n.WebhookURL, map[string]string{
		"text": summaryWithFailures(r),
	})
}

// DiscordNotifier posts the run summary to a Discord webhook.
type DiscordNotifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

func (n *DiscordNotifier) Name() string { return "discord" }

func (n *DiscordNotifier) Notify(ctx context.Context, r Report) error {
	return postJSON(ctx, n.HTTPClient, n.WebhookURL, map[string]string{
		"content": summaryWithFailures(r),
	})
}

func summaryWithFailures(r Report) string {
	var sb strings.Builder
	sb.WriteString(r.Summary())
	for _, t := range r.Tests {
		if t.Outcome != "failed" {
			continue
		}
		sb.WriteString("\n• ")
		sb.WriteString(t.Name)
		if len(t.Errors) > 0 {
			sb.WriteString(": ")
			sb.WriteString(t.Errors[0])
		}
	}
	return sb.String()
}

func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}) error {
	if client == nil {
		client = &http.Client{Timeout: notifyTimeout}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP status %d", resp.StatusCode)
	}
	return nil
}
