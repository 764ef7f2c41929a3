package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"ChartStack/internal/calculator"
	"ChartStack/internal/dataset"
	"ChartStack/internal/flow"
	"ChartStack/internal/model"
)

// FlowSource provides investor-flow deltas for the cvd payload section.
// *flow.Store satisfies it.
type FlowSource interface {
	HasData(dataset string) (bool, error)
	Deltas(dataset string) (map[string][]model.Point, error)
}

// Server exposes the chart API: the dataset catalog, candle payloads with
// derived indicator series, and a websocket feed of refresh notices.
type Server struct {
	catalog *dataset.Catalog
	flows   FlowSource
	hub     *Hub

	mu       sync.Mutex
	payloads map[string]*model.ChartPayload
}

// NewServer creates a Server. flows may be nil when no flow store is
// configured; the cvd section is then always null.
func NewServer(catalog *dataset.Catalog, flows FlowSource) *Server {
	return &Server{
		catalog:  catalog,
		flows:    flows,
		hub:      NewHub(),
		payloads: make(map[string]*model.ChartPayload),
	}
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/datasets", s.handleDatasets)
	mux.HandleFunc("/api/candles", s.handleCandles)
	mux.HandleFunc("/ws", s.hub.HandleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] chart API listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// Invalidate drops cached bars and payloads for a dataset and notifies
// websocket clients. Called by the updater after a refresh.
func (s *Server) Invalidate(datasetID string, rowsAdded int) {
	s.catalog.Invalidate(datasetID)

	s.mu.Lock()
	for key := range s.payloads {
		if datasetID == "" || keyDataset(key) == datasetID {
			delete(s.payloads, key)
		}
	}
	s.mu.Unlock()

	s.hub.Broadcast(RefreshNotice{Type: "refresh", Dataset: datasetID, RowsAdded: rowsAdded})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	ids, err := s.catalog.IDs()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	defaultID, err := s.catalog.DefaultID()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]model.DatasetSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := s.catalog.Summary(id)
		if err != nil {
			log.Printf("[WARN] skipping dataset %s: %v", id, err)
			continue
		}
		summary.Default = id == defaultID
		summary.CVD = s.hasFlowData(id)
		summaries = append(summaries, summary)
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	interval, err := dataset.NormalizeInterval(r.URL.Query().Get("interval"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	datasetID, err := s.catalog.NormalizeID(r.URL.Query().Get("dataset"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.payload(datasetID, interval)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// payload returns the cached chart payload for a dataset+interval, building
// it on first use.
func (s *Server) payload(datasetID, interval string) (*model.ChartPayload, error) {
	key := datasetID + "|" + interval

	s.mu.Lock()
	if cached, ok := s.payloads[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	built, err := s.buildPayload(datasetID, interval)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.payloads[key] = built
	s.mu.Unlock()
	return built, nil
}

func (s *Server) buildPayload(datasetID, interval string) (*model.ChartPayload, error) {
	bars, err := s.catalog.Bars(datasetID)
	if err != nil {
		return nil, err
	}
	working, err := dataset.Resample(bars, interval)
	if err != nil {
		return nil, err
	}

	rsi, err := calculator.CalculateRSISeries(working, calculator.DefaultRSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("compute rsi: %w", err)
	}
	obv := calculator.CalculateOBVSeries(working)

	payload := &model.ChartPayload{
		Candles: make([]model.Candle, len(working)),
		Volumes: make([]model.Point, len(working)),
		RSI:     make([]model.Point, len(working)),
		OBV:     make([]model.Point, len(working)),
	}
	for i, bar := range working {
		when := model.NewTime(bar.Time)
		payload.Candles[i] = model.Candle{Time: when, Open: bar.Open, High: bar.High, Low: bar.Low, Close: bar.Close}
		payload.Volumes[i] = model.Point{Time: when, Value: bar.Volume}
		payload.RSI[i] = model.Point{Time: when, Value: rsi[i]}
		payload.OBV[i] = model.Point{Time: when, Value: obv[i]}
	}

	if s.hasFlowData(datasetID) {
		deltas, err := s.flows.Deltas(datasetID)
		if err != nil {
			return nil, fmt.Errorf("load flow deltas: %w", err)
		}
		accumulated := flow.Accumulate(deltas)
		payload.CVD = &model.CVDPayload{Series: accumulated.Series, Table: accumulated.Table}
	}
	return payload, nil
}

func (s *Server) hasFlowData(datasetID string) bool {
	if s.flows == nil {
		return false
	}
	ok, err := s.flows.HasData(datasetID)
	if err != nil {
		log.Printf("[WARN] flow lookup for %s: %v", datasetID, err)
		return false
	}
	return ok
}

func keyDataset(cacheKey string) string {
	for i := 0; i < len(cacheKey); i++ {
		if cacheKey[i] == '|' {
			return cacheKey[:i]
		}
	}
	return cacheKey
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

// writeDetail writes the error body shape the viewer expects: a detail
// string it can surface directly to the user.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
