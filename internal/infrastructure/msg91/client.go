// Package msg91 sends locally generated codes through a templated SMS flow API keyed by an auth key.
package msg91

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/loanlead-api/internal/pkg/outbound"
)

const defaultBaseURL = "https://control.msg91.com/api/v5/flow"

// Client sends templated SMS messages.
type Client struct {
	AuthKey     string
	TemplateID  string
	BaseURL     string
	CountryCode string
	HTTP        *outbound.Client
}

// NewClient returns a client. An empty baseURL uses the public flow endpoint.
func NewClient(authKey, templateID, baseURL, countryCode string, hc *outbound.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if hc == nil {
		hc = outbound.New(0, 0)
	}
	return &Client{
		AuthKey:     authKey,
		TemplateID:  templateID,
		BaseURL:     baseURL,
		CountryCode: countryCode,
		HTTP:        hc,
	}
}

type recipient struct {
	Mobiles string `json:"mobiles"`
	OTP     string `json:"otp"`
}

type flowRequest struct {
	TemplateID string      `json:"template_id"`
	ShortURL   string      `json:"short_url"`
	Recipients []recipient `json:"recipients"`
}

type flowResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Send delivers code to the 10-digit mobile using the configured template.
// A 2xx reply still fails when the body reports an error.
func (c *Client) Send(ctx context.Context, mobile, code string) error {
	if c.AuthKey == "" || c.TemplateID == "" {
		return fmt.Errorf("msg91: auth key or template not configured")
	}
	raw, err := json.Marshal(flowRequest{
		TemplateID: c.TemplateID,
		ShortURL:   "0",
		Recipients: []recipient{{Mobiles: c.CountryCode + mobile, OTP: code}},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("authkey", c.AuthKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("msg91: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("msg91: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	var fr flowResponse
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &fr); err != nil {
			return fmt.Errorf("msg91: decode response: %w", err)
		}
	}
	if fr.Type == "error" || fr.Error != "" {
		msg := fr.Message
		if msg == "" {
			msg = fr.Error
		}
		return fmt.Errorf("msg91: provider error: %s", msg)
	}
	return nil
}
