package flow

import (
	"math"
	"sort"

	"ChartStack/internal/model"
)

// DefaultRoles is the display fallback when no flow data names any category.
var DefaultRoles = []string{"individuals", "foreigners", "institutions", "others"}

// Result holds the accumulated output: ascending per-role chart series and
// the descending ledger table for display.
type Result struct {
	Series map[string][]model.Point
	Table  model.FlowTable
}

// Accumulate turns per-role signed flow deltas into running totals.
//
// Deltas are grouped by TimeKey and summed per role (several observations may
// share a date); dates are then walked in ascending order with one running
// total per role, seeded at 0. Every role contributes a point on every date,
// a role absent on a date carries its previous total forward. The chart
// series stay ascending while the ledger rows are reversed for display.
func Accumulate(deltas map[string][]model.Point) *Result {
	roles := make([]string, 0, len(deltas))
	for role := range deltas {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	// Group by date, summing duplicate (date, role) observations
	byDate := make(map[model.TimeKey]map[string]float64)
	for role, points := range deltas {
		for _, p := range points {
			key := p.Time.Key()
			if byDate[key] == nil {
				byDate[key] = make(map[string]float64)
			}
			byDate[key][role] += sanitize(p.Value)
		}
	}

	dates := make([]model.TimeKey, 0, len(byDate))
	for key := range byDate {
		dates = append(dates, key)
	}
	// Lexicographic order equals chronological order for YYYY-MM-DD keys
	sort.Strings(dates)

	totals := make(map[string]float64, len(roles))
	series := make(map[string][]model.Point, len(roles))
	rows := make([]model.FlowRow, 0, len(dates))

	for _, date := range dates {
		when, err := model.ParseTimeKey(date)
		if err != nil {
			continue
		}
		row := model.FlowRow{"date": date}
		for _, role := range roles {
			totals[role] += byDate[date][role]
			series[role] = append(series[role], model.Point{Time: when, Value: totals[role]})
			row[role] = totals[role]
		}
		rows = append(rows, row)
	}

	// Most recent first for the table view
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	return &Result{
		Series: series,
		Table: model.FlowTable{
			Columns: buildColumns(roles),
			Rows:    rows,
		},
	}
}

func buildColumns(roles []string) []model.FlowColumn {
	if len(roles) == 0 {
		roles = DefaultRoles
	}
	columns := make([]model.FlowColumn, 0, len(roles)+1)
	columns = append(columns, model.FlowColumn{Key: "date", Label: "Date"})
	for _, role := range roles {
		columns = append(columns, model.FlowColumn{Key: role, Label: role})
	}
	return columns
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
