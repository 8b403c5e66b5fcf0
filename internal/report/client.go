// Package report produces the bulk usage report: rows are fetched from the
// deployed reporting endpoint and rendered, with computed totals, into a
// spreadsheet on disk.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"auditlog/internal/domain"
	"auditlog/pkg/domainerrors"
)

// Client fetches pre-aggregated usage rows from the reporting API. The API is
// a black-box HTTP dependency; this client owns nothing beyond the call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a usage client for the reporting API at baseURL,
// authenticating with the operator API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// FetchByProvider retrieves the per-(provider, source) message counts for the
// calendar date range [from, to]. Any transport failure, non-200 status, or
// undecodable body is an external-fetch error; the caller aborts cleanly.
func (c *Client) FetchByProvider(ctx context.Context, from, to string) ([]domain.ProviderUsage, error) {
	endpoint := fmt.Sprintf("%s/report/by-provider?from=%s&to=%s",
		c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeExternalFetch, "build usage request", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeExternalFetch, "fetch usage rows", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.New(domainerrors.CodeExternalFetch,
			fmt.Sprintf("usage endpoint returned status %d", resp.StatusCode))
	}

	var rows []domain.ProviderUsage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeExternalFetch, "decode usage rows", err)
	}
	return rows, nil
}
