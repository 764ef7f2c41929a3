package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDatasets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/datasets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"BTC_daily","label":"BTC daily","range":"2024-01-01 ~ 2024-06-01","rows":100,"default":true,"cvd":false}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "")
	summaries, err := c.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "BTC_daily" || !summaries[0].Default {
		t.Errorf("summaries = %+v", summaries)
	}
}

func TestCandles_QueryAndDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("interval") != "3d" || q.Get("dataset") != "BTC_daily" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candles":[{"time":"2024-01-03","open":1,"high":2,"low":0.5,"close":1.5}],
			"volumes":[{"time":"2024-01-03","value":100}],
			"rsi":[{"time":"2024-01-03","value":0}],
			"obv":[{"time":"2024-01-03","value":0}],
			"cvd":null
		}`))
	}))
	defer ts.Close()

	c := New(ts.URL, "")
	payload, err := c.Candles(context.Background(), "3d", "BTC_daily")
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}
	if len(payload.Candles) != 1 {
		t.Fatalf("candles = %d", len(payload.Candles))
	}
	if got := payload.Candles[0].Time.Key(); got != "2024-01-03" {
		t.Errorf("time key = %q", got)
	}
	if payload.CVD != nil {
		t.Error("cvd should be nil")
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"unsupported interval \"5m\" (allowed: 1d, 3d, 1w)"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, "").Candles(context.Background(), "5m", "BTC_daily")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != `unsupported interval "5m" (allowed: 1d, 3d, 1w)` {
		t.Errorf("error = %q", err)
	}
}

func TestErrorGenericFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html body", "<html>502 Bad Gateway</html>"},
		{"empty detail", `{"detail":""}`},
		{"empty body", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := New(ts.URL, "").Datasets(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != genericFetchError {
				t.Errorf("error = %q, want %q", err, genericFetchError)
			}
		})
	}
}
