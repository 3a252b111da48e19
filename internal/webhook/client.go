package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Payload is the workflow webhook contract. Field names are what the
// receiving automation expects; do not rename them.
type Payload struct {
	Day             string `json:"Day"` // "Day {n}"
	Recipient       string `json:"Recipient"`
	CustomerMessage string `json:"CustomerMessage"`
	CustomerName    string `json:"CustomerName"`
	MessageType     string `json:"MessageType"` // email|text
}

// Sender is what the messaging layer needs; the worker and tests swap in
// their own implementations.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// Client POSTs JSON to the workflow endpoint and treats any non-2xx as a
// delivery failure. Delivery confirmation is explicit here; there is no
// fire-and-forget mode, so the audit log can always record the real outcome.
type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  newLogger(),
	}
}

func (c *Client) Send(ctx context.Context, p Payload) error {
	if c.url == "" {
		return fmt.Errorf("workflow webhook url not configured")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("recipient", p.Recipient).Msg("webhook rejected")
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	c.log.Debug().Str("recipient", p.Recipient).Str("type", p.MessageType).Msg("webhook delivered")
	return nil
}
