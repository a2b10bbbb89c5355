// Package twilio provides a client for the Twilio Lookup v1 carrier API.
package twilio

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

// Client defines the carrier lookup operation used by the verify stage.
type Client interface {
	// LookupCarrier fetches carrier data for an E.164 phone number.
	LookupCarrier(ctx context.Context, e164 string) (*LookupResponse, error)
}

// LookupResponse is the parsed Lookup v1 response.
type LookupResponse struct {
	PhoneNumber    string  `json:"phone_number"`
	NationalFormat string  `json:"national_format"`
	CountryCode    string  `json:"country_code"`
	Carrier        Carrier `json:"carrier"`
}

// Carrier holds the line type and carrier name.
type Carrier struct {
	Type string `json:"type"` // mobile, landline, voip
	Name string `json:"name"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
	retry      resilience.RetryConfig
}

// NewClient creates a Twilio Lookup client authenticated with account
// credentials.
func NewClient(accountSID, authToken string, opts ...Option) Client {
	c := &httpClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    "https://lookups.twilio.com/v1",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) LookupCarrier(ctx context.Context, e164 string) (*LookupResponse, error) {
	if e164 == "" {
		return nil, eris.New("twilio: phone number is required")
	}

	reqURL := c.baseURL + "/PhoneNumbers/" + url.PathEscape(e164) + "?Type=carrier"

	retry := c.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("twilio", "lookup")
	}

	body, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "twilio: create request")
		}
		req.SetBasicAuth(c.accountSID, c.authToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "twilio: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "twilio: read response body")
		}

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("twilio: status %d: %s", resp.StatusCode, string(respBody)),
				resp.StatusCode,
			)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("twilio: unexpected status %d: %s", resp.StatusCode, string(respBody))
		}

		return respBody, nil
	})
	if err != nil {
		return nil, err
	}

	var result LookupResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "twilio: unmarshal response")
	}
	return &result, nil
}
