package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ChartStack/internal/model"
)

// Catalog manages the CSV datasets under a data directory. Each <id>.csv file
// is one dataset; parsed bars are cached until Invalidate is called.
type Catalog struct {
	dir       string
	defaultID string

	mu    sync.Mutex
	cache map[string][]model.OHLCV
}

// NewCatalog creates a Catalog rooted at dir. preferredDefault is used as the
// default dataset when present; otherwise the first dataset wins.
func NewCatalog(dir, preferredDefault string) *Catalog {
	return &Catalog{
		dir:       dir,
		defaultID: preferredDefault,
		cache:     make(map[string][]model.OHLCV),
	}
}

// IDs returns the sorted dataset ids currently on disk.
func (c *Catalog) IDs() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("data directory not found: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no csv datasets in %s", c.dir)
	}
	sort.Strings(ids)
	return ids, nil
}

// DefaultID returns the preferred default dataset if it exists, else the
// first catalog entry.
func (c *Catalog) DefaultID() (string, error) {
	ids, err := c.IDs()
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		if id == c.defaultID {
			return id, nil
		}
	}
	return ids[0], nil
}

// NormalizeID validates a requested dataset id, resolving an empty request to
// the default dataset.
func (c *Catalog) NormalizeID(id string) (string, error) {
	target := strings.TrimSpace(id)
	if target == "" {
		return c.DefaultID()
	}
	ids, err := c.IDs()
	if err != nil {
		return "", err
	}
	for _, known := range ids {
		if known == target {
			return target, nil
		}
	}
	return "", fmt.Errorf("unsupported dataset %q, available: %s", target, strings.Join(ids, ", "))
}

// Bars loads (or returns cached) bars for the given dataset id.
func (c *Catalog) Bars(id string) ([]model.OHLCV, error) {
	c.mu.Lock()
	if bars, ok := c.cache[id]; ok {
		c.mu.Unlock()
		return bars, nil
	}
	c.mu.Unlock()

	bars, err := LoadCSV(c.Path(id))
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("dataset %s has no valid chart data", id)
	}

	c.mu.Lock()
	c.cache[id] = bars
	c.mu.Unlock()
	return bars, nil
}

// Path returns the CSV path for a dataset id.
func (c *Catalog) Path(id string) string {
	return filepath.Join(c.dir, id+".csv")
}

// Invalidate drops the cached bars for a dataset, forcing a reload on the
// next Bars call. An empty id drops everything.
func (c *Catalog) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		c.cache = make(map[string][]model.OHLCV)
		return
	}
	delete(c.cache, id)
}

// Summary builds the catalog listing entry for one dataset.
func (c *Catalog) Summary(id string) (model.DatasetSummary, error) {
	bars, err := c.Bars(id)
	if err != nil {
		return model.DatasetSummary{}, err
	}
	first := bars[0].Time.Format("2006-01-02")
	last := bars[len(bars)-1].Time.Format("2006-01-02")
	return model.DatasetSummary{
		ID:    id,
		Label: strings.ReplaceAll(id, "_", " "),
		Range: fmt.Sprintf("%s ~ %s", first, last),
		Rows:  len(bars),
	}, nil
}
