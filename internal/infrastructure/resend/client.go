// Package resend sends transactional email through an HTTP API keyed by a bearer token.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/loanlead-api/internal/pkg/outbound"
)

const defaultBaseURL = "https://api.resend.com"

// Client sends email via the /emails endpoint.
type Client struct {
	APIKey  string
	From    string
	BaseURL string
	HTTP    *outbound.Client
}

func NewClient(apiKey, from, baseURL string, hc *outbound.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if hc == nil {
		hc = outbound.New(0, 0)
	}
	return &Client{APIKey: apiKey, From: from, BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendEmail sends an HTML email. Any 2xx status is success.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	if c.APIKey == "" {
		return fmt.Errorf("resend: API key not configured")
	}
	raw, err := json.Marshal(sendRequest{From: c.From, To: []string{to}, Subject: subject, HTML: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return fmt.Errorf("resend: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
