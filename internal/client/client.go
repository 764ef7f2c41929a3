package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ChartStack/internal/model"
)

const genericFetchError = "failed to load chart data"

// Client fetches datasets and candle payloads from the chart API. It
// implements view.DataClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client with optional proxy support.
func New(baseURL, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Datasets retrieves the catalog listing.
func (c *Client) Datasets(ctx context.Context) ([]model.DatasetSummary, error) {
	var summaries []model.DatasetSummary
	if err := c.get(ctx, c.BaseURL+"/api/datasets", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Candles retrieves the chart payload for a dataset+interval combination.
func (c *Client) Candles(ctx context.Context, interval, dataset string) (*model.ChartPayload, error) {
	endpoint := fmt.Sprintf("%s/api/candles?interval=%s&dataset=%s",
		c.BaseURL, url.QueryEscape(interval), url.QueryEscape(dataset))
	payload := &model.ChartPayload{}
	if err := c.get(ctx, endpoint, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", detailMessage(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// detailMessage extracts the user-facing detail string from an error body,
// falling back to a generic message when the body is not parseable.
func detailMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return genericFetchError
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Detail == "" {
		return genericFetchError
	}
	return payload.Detail
}
