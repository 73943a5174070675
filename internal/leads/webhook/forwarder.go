// Package webhook forwards lead payloads to the configured external webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"portfolio_backend/platform/config"
	"portfolio_backend/platform/logger"
)

const forwardTimeout = 10 * time.Second

// Forwarder POSTs JSON payloads to the lead webhook. Delivery is
// fire-and-forget: the response body is ignored and there are no retries.
type Forwarder struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

func NewForwarder(cfg config.LeadWebhookConfig, log *logger.Logger) *Forwarder {
	return &Forwarder{
		url:    cfg.GetLeadWebhookURL(),
		client: &http.Client{Timeout: forwardTimeout},
		log:    log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (f *Forwarder) Enabled() bool {
	return f.url != ""
}

// Forward delivers the payload. Failures are logged, never returned to the
// caller's user-facing path; the error is surfaced only so workers can count it.
func (f *Forwarder) Forward(ctx context.Context, kind string, payload any) error {
	if !f.Enabled() {
		f.log.WebhookForwarded(kind, false, "webhook not configured")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		f.log.WebhookForwarded(kind, false, "marshal: "+err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		f.log.WebhookForwarded(kind, false, err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.WebhookForwarded(kind, false, err.Error())
		return err
	}
	// Response body is deliberately ignored.
	resp.Body.Close()

	f.log.WebhookForwarded(kind, true, "")
	return nil
}
