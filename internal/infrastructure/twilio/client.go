// Package twilio sends SMS through a messaging API authenticated with HTTP basic auth.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/loanlead-api/internal/pkg/outbound"
)

const defaultBaseURL = "https://api.twilio.com"

// Client posts messages to the Messages resource of one account.
type Client struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HTTP       *outbound.Client
}

func NewClient(accountSID, authToken, from, baseURL string, hc *outbound.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if hc == nil {
		hc = outbound.New(0, 0)
	}
	return &Client{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       hc,
	}
}

// SendSMS sends body to the E.164 number to. Any 2xx status is success.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if c.AccountSID == "" || c.AuthToken == "" {
		return fmt.Errorf("twilio: credentials not configured")
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.BaseURL, url.PathEscape(c.AccountSID))
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.AccountSID, c.AuthToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return fmt.Errorf("twilio: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
