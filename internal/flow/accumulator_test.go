package flow

import (
	"math"
	"testing"

	"ChartStack/internal/model"
)

func day(y, m, d int) model.Time { return model.Time{Year: y, Month: m, Day: d} }

func TestAccumulate_RunningTotals(t *testing.T) {
	result := Accumulate(map[string][]model.Point{
		"foreigners": {
			{Time: day(2024, 1, 1), Value: 100},
			{Time: day(2024, 1, 2), Value: -40},
			{Time: day(2024, 1, 2), Value: 10},
		},
	})

	series := result.Series["foreigners"]
	if len(series) != 2 {
		t.Fatalf("series length = %d, want 2", len(series))
	}
	if series[0].Time.Key() != "2024-01-01" || series[0].Value != 100 {
		t.Errorf("series[0] = %s/%v, want 2024-01-01/100", series[0].Time.Key(), series[0].Value)
	}
	if series[1].Time.Key() != "2024-01-02" || series[1].Value != 70 {
		t.Errorf("series[1] = %s/%v, want 2024-01-02/70", series[1].Time.Key(), series[1].Value)
	}

	rows := result.Table.Rows
	if len(rows) != 2 {
		t.Fatalf("ledger rows = %d, want 2", len(rows))
	}
	// Ledger is reversed: most recent first.
	if rows[0]["date"] != "2024-01-02" || rows[0]["foreigners"] != 70.0 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1]["date"] != "2024-01-01" || rows[1]["foreigners"] != 100.0 {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestAccumulate_AbsentRoleCarriesForward(t *testing.T) {
	result := Accumulate(map[string][]model.Point{
		"foreigners":   {{Time: day(2024, 1, 1), Value: 50}},
		"institutions": {{Time: day(2024, 1, 2), Value: 30}},
	})

	// Every role appears on every date, flat where it had no delta.
	for role, want := range map[string][]float64{
		"foreigners":   {50, 50},
		"institutions": {0, 30},
	} {
		series := result.Series[role]
		if len(series) != 2 {
			t.Fatalf("%s: series length = %d, want 2", role, len(series))
		}
		for i, v := range want {
			if series[i].Value != v {
				t.Errorf("%s[%d] = %v, want %v", role, i, series[i].Value, v)
			}
		}
	}

	for _, row := range result.Table.Rows {
		for _, role := range []string{"foreigners", "institutions"} {
			if _, ok := row[role]; !ok {
				t.Errorf("row %v missing column %s", row["date"], role)
			}
		}
	}
}

func TestAccumulate_InvalidDeltasCountAsZero(t *testing.T) {
	result := Accumulate(map[string][]model.Point{
		"foreigners": {
			{Time: day(2024, 1, 1), Value: math.NaN()},
			{Time: day(2024, 1, 2), Value: 25},
		},
	})
	series := result.Series["foreigners"]
	if series[0].Value != 0 {
		t.Errorf("NaN delta accumulated to %v, want 0", series[0].Value)
	}
	if series[1].Value != 25 {
		t.Errorf("total after NaN = %v, want 25", series[1].Value)
	}
}

func TestAccumulate_DefaultColumnsWhenEmpty(t *testing.T) {
	result := Accumulate(nil)
	if len(result.Table.Rows) != 0 {
		t.Errorf("empty input produced %d rows", len(result.Table.Rows))
	}
	// date + the default display roles
	if len(result.Table.Columns) != len(DefaultRoles)+1 {
		t.Errorf("columns = %d, want %d", len(result.Table.Columns), len(DefaultRoles)+1)
	}
	if result.Table.Columns[0].Key != "date" {
		t.Errorf("first column = %q, want date", result.Table.Columns[0].Key)
	}
}

func TestAccumulate_ChronologicalOrderFromMixedInput(t *testing.T) {
	result := Accumulate(map[string][]model.Point{
		"foreigners": {
			{Time: day(2024, 2, 10), Value: 5},
			{Time: day(2023, 12, 31), Value: 1},
			{Time: day(2024, 1, 15), Value: 2},
		},
	})
	series := result.Series["foreigners"]
	wantKeys := []string{"2023-12-31", "2024-01-15", "2024-02-10"}
	wantVals := []float64{1, 3, 8}
	for i := range wantKeys {
		if series[i].Time.Key() != wantKeys[i] || series[i].Value != wantVals[i] {
			t.Errorf("series[%d] = %s/%v, want %s/%v",
				i, series[i].Time.Key(), series[i].Value, wantKeys[i], wantVals[i])
		}
	}
}
