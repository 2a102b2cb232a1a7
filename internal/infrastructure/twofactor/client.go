// Package twofactor is a client for a hosted OTP service that generates, delivers and
// verifies codes itself. This service only ever sees the opaque session token.
package twofactor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/loanlead-api/internal/pkg/outbound"
)

const defaultBaseURL = "https://2factor.in/API/V1"

const (
	statusSuccess  = "Success"
	detailsMatched = "OTP Matched"
)

// ErrNotMatched is returned by VerifySession when the provider explicitly rejects the code.
var ErrNotMatched = errors.New("twofactor: code not matched")

// Client calls the hosted OTP API.
type Client struct {
	APIKey   string
	BaseURL  string
	Template string
	HTTP     *outbound.Client
}

// NewClient returns a client for apiKey. An empty baseURL uses the public endpoint.
func NewClient(apiKey, baseURL, template string, hc *outbound.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if hc == nil {
		hc = outbound.New(0, 0)
	}
	return &Client{
		APIKey:   apiKey,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Template: template,
		HTTP:     hc,
	}
}

type apiResponse struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

// IssueAndSend asks the provider to generate and send a code to mobile and returns the
// provider session token.
func (c *Client) IssueAndSend(ctx context.Context, mobile string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("twofactor: API key not configured")
	}
	path := fmt.Sprintf("%s/%s/SMS/%s/AUTOGEN", c.BaseURL, url.PathEscape(c.APIKey), url.PathEscape(mobile))
	if c.Template != "" {
		path += "/" + url.PathEscape(c.Template)
	}
	res, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	if res.Status != statusSuccess || res.Details == "" {
		return "", fmt.Errorf("twofactor: issue rejected status=%s details=%s", res.Status, res.Details)
	}
	return res.Details, nil
}

// VerifySession checks code against the provider session. It returns nil only when the
// provider explicitly reports a match, ErrNotMatched on an explicit mismatch, and any
// other error for transport or protocol failures.
func (c *Client) VerifySession(ctx context.Context, session, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("twofactor: API key not configured")
	}
	path := fmt.Sprintf("%s/%s/SMS/VERIFY/%s/%s", c.BaseURL, url.PathEscape(c.APIKey),
		url.PathEscape(session), url.PathEscape(code))
	res, err := c.get(ctx, path)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.res.Status != "" {
			return fmt.Errorf("%w: %s", ErrNotMatched, se.res.Details)
		}
		return err
	}
	if res.Status == statusSuccess && res.Details == detailsMatched {
		return nil
	}
	return fmt.Errorf("%w: status=%s details=%s", ErrNotMatched, res.Status, res.Details)
}

// statusError is a non-200 reply, keeping any decoded provider body.
type statusError struct {
	code int
	body string
	res  apiResponse
}

func (e *statusError) Error() string {
	return fmt.Sprintf("twofactor: request failed status=%d body=%s", e.code, e.body)
}

func (c *Client) get(ctx context.Context, rawURL string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twofactor: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("twofactor: read body: %w", err)
	}
	var res apiResponse
	decodeErr := json.Unmarshal(b, &res)
	if resp.StatusCode != http.StatusOK {
		se := &statusError{code: resp.StatusCode, body: string(b)}
		if decodeErr == nil {
			se.res = res
		}
		return nil, se
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("twofactor: decode response: %w", decodeErr)
	}
	return &res, nil
}
