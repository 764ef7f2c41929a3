package updater

import (
	"time"

	"ChartStack/internal/flow"
	"ChartStack/internal/model"
)

// Fetcher defines the interface for fetching remote market data during a
// dataset refresh. Dates are YYYYMMDD strings, matching the upstream API.
type Fetcher interface {
	FetchBars(ticker, fromDate, toDate string) ([]model.OHLCV, error)
	FetchInvestorFlow(ticker, fromDate, toDate string) ([]flow.Record, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.OHLCV
	Flow []flow.Record
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_, _, _ string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}

func (m *MockFetcher) FetchInvestorFlow(_, _, _ string) ([]flow.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Flow, nil
}

// GenerateMockBars builds count synthetic daily bars ending yesterday.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
