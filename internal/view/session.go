package view

import (
	"context"
	"fmt"
	"log"

	"ChartStack/internal/indexer"
	"ChartStack/internal/model"
)

// DataClient fetches datasets and chart payloads. Implementations wrap the
// HTTP API; the session never touches the wire itself.
type DataClient interface {
	Datasets(ctx context.Context) ([]model.DatasetSummary, error)
	Candles(ctx context.Context, interval, dataset string) (*model.ChartPayload, error)
}

// Session owns the viewer's mutable state: current dataset and interval,
// hover position, the request token, and the lookup structures rebuilt on
// every load. All methods run on the UI event goroutine; only the network
// fetch inside LoadInterval suspends.
type Session struct {
	client DataClient
	coord  *Coordinator
	zoom   *ZoomEngine

	token    uint64
	dataset  string
	interval string

	hoverKey     model.TimeKey
	hoverLogical float64
	hasHover     bool

	status *indexer.StatusView
	ledger model.FlowTable

	// OnPayload, when set, receives every freshly applied payload so the
	// embedder can push series data into its chart surface.
	OnPayload func(*model.ChartPayload)
}

// NewSession creates a Session around a data client, coordinator, and zoom
// engine.
func NewSession(client DataClient, coord *Coordinator, zoom *ZoomEngine) *Session {
	return &Session{
		client:   client,
		coord:    coord,
		zoom:     zoom,
		interval: "1d",
		status:   indexer.NewStatusView(nil, nil, nil, nil),
	}
}

// Dataset returns the currently applied dataset id.
func (s *Session) Dataset() string { return s.dataset }

// Interval returns the currently applied interval.
func (s *Session) Interval() string { return s.interval }

// Ledger returns the flow table from the last applied payload.
func (s *Session) Ledger() model.FlowTable { return s.ledger }

// Bootstrap loads the dataset catalog and applies the default dataset at the
// current interval.
func (s *Session) Bootstrap(ctx context.Context) error {
	summaries, err := s.client.Datasets(ctx)
	if err != nil {
		return fmt.Errorf("load dataset catalog: %w", err)
	}
	if len(summaries) == 0 {
		return fmt.Errorf("dataset catalog is empty")
	}
	chosen := summaries[0]
	for _, summary := range summaries {
		if summary.Default {
			chosen = summary
			break
		}
	}
	return s.LoadInterval(ctx, s.interval, chosen.ID)
}

// LoadInterval fetches and applies the payload for a dataset+interval
// combination. A load superseded by a newer request is discarded entirely,
// leaving all previously applied state untouched.
func (s *Session) LoadInterval(ctx context.Context, interval, dataset string) error {
	token := s.beginLoad()
	payload, err := s.client.Candles(ctx, interval, dataset)
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", dataset, interval, err)
	}
	s.completeLoad(token, interval, dataset, payload)
	return nil
}

// beginLoad issues a new request token, invalidating any in-flight load.
func (s *Session) beginLoad() uint64 {
	s.token++
	return s.token
}

// completeLoad applies a fetched payload if its token is still current.
// Stale responses are dropped without partial application.
func (s *Session) completeLoad(token uint64, interval, dataset string, payload *model.ChartPayload) {
	if token != s.token {
		log.Printf("[INFO] discarding stale load for %s/%s (token %d < %d)", dataset, interval, token, s.token)
		return
	}

	s.dataset = dataset
	s.interval = interval
	s.ClearHover()

	s.status = indexer.NewStatusView(payload.Candles, payload.Volumes, payload.RSI, payload.OBV)
	if payload.CVD != nil {
		s.ledger = payload.CVD.Table
	} else {
		s.ledger = model.FlowTable{}
	}

	if s.OnPayload != nil {
		s.OnPayload(payload)
	}
	s.coord.Reset()
}

// SetHover records the crosshair position: the TimeKey under the cursor for
// the status line and the logical coordinate for the zoom anchor fallback.
func (s *Session) SetHover(key model.TimeKey, logical float64) {
	s.hoverKey = key
	s.hoverLogical = logical
	s.hasHover = true
}

// ClearHover drops the pointer context, e.g. when the pointer leaves the
// chart. The status line then falls back to the most recently seen key.
func (s *Session) ClearHover() {
	s.hoverKey = ""
	s.hasHover = false
}

// Status returns the formatted status line for the current hover position.
func (s *Session) Status() indexer.Status {
	return s.status.Status(s.hoverKey)
}

// HandleWheel feeds a wheel event on a pane into the zoom engine, supplying
// the session's hover position as the anchor fallback. The coordinator picks
// up the resulting range change through the pane's own notification.
func (s *Session) HandleWheel(pane Pane, evt WheelEvent) bool {
	return s.zoom.HandleWheel(pane, evt, s.hoverLogical, s.hasHover)
}

// Reset restores all panes to the primary pane's full-content range.
func (s *Session) Reset() {
	s.coord.Reset()
}
