package updater

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"ChartStack/internal/dataset"
	"ChartStack/internal/flow"
	"ChartStack/internal/model"

	"github.com/robfig/cron/v3"
)

// marketOpenHour is attached to appended bar timestamps so refreshed rows
// match the clock component of the seeded CSVs.
const marketOpenHour = 9

// Updater keeps the dataset CSVs and the investor-flow store up to date by
// fetching only the missing trading-day window per dataset.
type Updater struct {
	Catalog *dataset.Catalog
	Store   *flow.Store
	Fetcher Fetcher
	Tickers map[string]string

	// FallbackDays is the window fetched when a CSV is empty.
	FallbackDays int

	// OnRefresh is called after a dataset gained rows, e.g. to invalidate
	// server caches and notify clients.
	OnRefresh func(datasetID string, rowsAdded int)

	cron *cron.Cron
}

// LoadTickerMap reads the dataset-id to upstream-ticker mapping from a JSON
// file.
func LoadTickerMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker map: %w", err)
	}
	tickers := make(map[string]string)
	if err := json.Unmarshal(data, &tickers); err != nil {
		return nil, fmt.Errorf("parse ticker map: %w", err)
	}
	return tickers, nil
}

// RegisterCron schedules UpdateAll with the given cron spec (with seconds).
func (u *Updater) RegisterCron(spec string) error {
	u.cron = cron.New(cron.WithSeconds())
	if _, err := u.cron.AddFunc(spec, u.UpdateAll); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (u *Updater) Start() {
	if u.cron != nil {
		u.cron.Start()
		log.Println("[INFO] updater scheduler started")
	}
}

// Stop stops the cron scheduler gracefully.
func (u *Updater) Stop() {
	if u.cron != nil {
		u.cron.Stop()
		log.Println("[INFO] updater scheduler stopped")
	}
}

// UpdateAll iterates through mapped datasets and refreshes missing windows.
func (u *Updater) UpdateAll() {
	ids := make([]string, 0, len(u.Tickers))
	for id := range u.Tickers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		added, err := u.UpdateDataset(id)
		if err != nil {
			log.Printf("[ERROR] [%s] update failed: %v", id, err)
			continue
		}
		if added == 0 {
			log.Printf("[INFO] [%s] already up to date", id)
		} else {
			log.Printf("[INFO] [%s] appended %d new rows", id, added)
		}
	}
}

// UpdateDataset refreshes a single dataset. Returns the number of appended
// bars.
func (u *Updater) UpdateDataset(id string) (int, error) {
	ticker, ok := u.Tickers[id]
	if !ok {
		return 0, fmt.Errorf("no ticker mapped for dataset %q", id)
	}

	local, err := u.Catalog.Bars(id)
	if err != nil {
		return 0, fmt.Errorf("load local bars: %w", err)
	}

	start, end, ok := u.fetchWindow(local)
	if !ok {
		return 0, nil
	}

	remote, err := u.Fetcher.FetchBars(ticker, start.Format("20060102"), end.Format("20060102"))
	if err != nil {
		return 0, fmt.Errorf("fetch remote bars: %w", err)
	}

	fresh := filterWindow(remote, start, end)
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := appendBarsCSV(u.Catalog.Path(id), fresh); err != nil {
		return 0, fmt.Errorf("append csv: %w", err)
	}

	if err := u.refreshFlow(id, ticker, start, end); err != nil {
		log.Printf("[WARN] [%s] investor flow refresh failed: %v", id, err)
	}
	if u.Store != nil {
		if err := u.Store.RecordRefresh(id, len(fresh)); err != nil {
			log.Printf("[WARN] [%s] record refresh: %v", id, err)
		}
	}
	if u.OnRefresh != nil {
		u.OnRefresh(id, len(fresh))
	}
	return len(fresh), nil
}

func (u *Updater) refreshFlow(id, ticker string, start, end time.Time) error {
	if u.Store == nil {
		return nil
	}
	records, err := u.Fetcher.FetchInvestorFlow(ticker, start.Format("20060102"), end.Format("20060102"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return u.Store.SaveRecords(id, records)
}

// fetchWindow computes the missing [start, end] day window. ok is false when
// the CSV already covers today.
func (u *Updater) fetchWindow(local []model.OHLCV) (start, end time.Time, ok bool) {
	today := truncateDay(time.Now())
	fallback := u.FallbackDays
	if fallback <= 0 {
		fallback = 730
	}
	if len(local) == 0 {
		start = today.AddDate(0, 0, -fallback)
	} else {
		last := truncateDay(local[len(local)-1].Time)
		start = last.AddDate(0, 0, 1)
	}
	if start.After(today) {
		return time.Time{}, time.Time{}, false
	}
	return start, today, true
}

func filterWindow(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	var out []model.OHLCV
	for _, bar := range bars {
		day := truncateDay(bar.Time)
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, bar)
	}
	return out
}

// appendBarsCSV appends fresh rows to an existing dataset CSV, stamping the
// market-open clock on each date.
func appendBarsCSV(path string, bars []model.OHLCV) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, bar := range bars {
		stamped := time.Date(bar.Time.Year(), bar.Time.Month(), bar.Time.Day(),
			marketOpenHour, 0, 0, 0, bar.Time.Location())
		record := []string{
			stamped.Format("2006-01-02 15:04:05"),
			formatFloat(bar.Open),
			formatFloat(bar.High),
			formatFloat(bar.Low),
			formatFloat(bar.Close),
			formatFloat(bar.Volume),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
