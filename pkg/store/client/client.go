package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/posture-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Config carries everything the client needs to reach one tenant.
type Config struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	CustomerName string
	CloudAccount string
	TimeRange    domain.TimeRange
	SupportAPI   bool
	// Insecure disables TLS verification, for endpoints behind TLS-intercepting
	// VPN gateways that present a private root CA.
	Insecure bool
}

// Client talks to the tenant API. Login must be called before any other
// method; the session token is attached to every subsequent request.
type Client struct {
	cfg   Config
	http  *http.Client
	token string
}

func New(cfg Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			// The alert job download can be large; match the long read timeout
			// the API itself documents.
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
}

type timeRangeValue struct {
	Unit   string `json:"unit"`
	Amount int    `json:"amount"`
}

type timeRange struct {
	Value timeRangeValue `json:"value"`
	Type  string         `json:"type"`
}

type queryFilter struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Operator string `json:"operator"`
}

// requestBody covers every POST body shape the API accepts; empty fields are
// omitted from the encoded JSON.
type requestBody struct {
	CustomerName string        `json:"customerName,omitempty"`
	AccountIDs   []string      `json:"accountIds,omitempty"`
	TimeRange    *timeRange    `json:"timeRange,omitempty"`
	Filters      []queryFilter `json:"filters,omitempty"`
	GroupBy      string        `json:"groupBy,omitempty"`
	Limit        int           `json:"limit,omitempty"`
}

func (c *Client) relativeTimeRange() *timeRange {
	return &timeRange{
		Value: timeRangeValue{Unit: c.cfg.TimeRange.Unit, Amount: c.cfg.TimeRange.Amount},
		Type:  "relative",
	}
}

// supportBody returns the base body for support endpoints, which scope every
// query by customer name instead of the session tenant.
func (c *Client) supportBody() requestBody {
	return requestBody{CustomerName: c.cfg.CustomerName}
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		logger.Debug().Str("method", method).Str("path", path).RawJSON("body", encoded).Msg("api request")
		reqBody = bytes.NewReader(encoded)
	} else {
		logger.Debug().Str("method", method).Str("path", path).Msg("api request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json; charset=UTF-8, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("x-redlock-auth", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, respBody)
	}

	logger.Debug().Str("path", path).Int("bytes", len(respBody)).Msg("api response")
	return respBody, nil
}

// get issues a GET against either the standard or the support variant of a
// path, depending on the capability flag. Support endpoints are POSTs scoped
// by customer name.
func (c *Client) get(ctx context.Context, standardPath, supportPath string) ([]byte, error) {
	if c.cfg.SupportAPI {
		return c.do(ctx, http.MethodPost, supportPath, c.supportBody())
	}
	return c.do(ctx, http.MethodGet, standardPath, nil)
}
