package updater

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"ChartStack/internal/flow"
	"ChartStack/internal/model"
)

// RemoteFetcher implements Fetcher against the market-data REST API.
type RemoteFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRemoteFetcher creates a fetcher with optional proxy support.
func NewRemoteFetcher(baseURL, apiKey, proxyURL string) *RemoteFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RemoteFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RemoteFetcher) Name() string { return "remote" }

// remoteBar is the expected JSON shape of one upstream OHLCV row.
type remoteBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// remoteFlowRow is the expected JSON shape of one investor-flow row.
type remoteFlowRow struct {
	Date     string  `json:"date"`
	Investor string  `json:"investor"`
	Sell     float64 `json:"sell"`
	Buy      float64 `json:"buy"`
	Net      float64 `json:"net"`
}

func (f *RemoteFetcher) FetchBars(ticker, fromDate, toDate string) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/ohlcv?ticker=%s&from=%s&to=%s",
		f.BaseURL, url.QueryEscape(ticker), fromDate, toDate)
	var rows []remoteBar
	if err := f.getJSON(endpoint, &rows); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	bars := make([]model.OHLCV, len(rows))
	for i, row := range rows {
		bars[i] = model.OHLCV{
			Time:   time.Unix(row.Timestamp, 0),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *RemoteFetcher) FetchInvestorFlow(ticker, fromDate, toDate string) ([]flow.Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/investor-flow?ticker=%s&from=%s&to=%s",
		f.BaseURL, url.QueryEscape(ticker), fromDate, toDate)
	var rows []remoteFlowRow
	if err := f.getJSON(endpoint, &rows); err != nil {
		return nil, fmt.Errorf("fetch investor flow: %w", err)
	}
	records := make([]flow.Record, len(rows))
	for i, row := range rows {
		records[i] = flow.Record{
			Date: row.Date,
			Role: row.Investor,
			Sell: row.Sell,
			Buy:  row.Buy,
			Net:  row.Net,
		}
	}
	return records, nil
}

func (f *RemoteFetcher) getJSON(endpoint string, out any) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
