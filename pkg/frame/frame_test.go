package frame

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

// rawTable builds a result table with the full set of metadata columns
// around the given data columns.
func rawTable(times []time.Time, cols []string, values [][]interface{}) Table {
	t := Table{
		Columns: append([]string{"result", "table", "_start", "_stop", "_measurement", "topic", "host", "_time"}, cols...),
	}
	for i, ts := range times {
		row := []interface{}{"_result", int64(0), t0, t2, "measurement_data", "sensors/measurement/ual-4", "ingest-1", ts}
		row = append(row, values[i]...)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestNormalizeEmptyResults(t *testing.T) {
	tests := []struct {
		name string
		raw  RawResult
	}{
		{"empty result", Empty()},
		{"empty sequence", Many(nil)},
		{"sequence of zero tables", Many([]Table{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Normalize(tt.raw, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !f.IsEmpty() {
				t.Errorf("expected empty frame, got %d rows", len(f.Rows))
			}
			if len(f.Columns) != 0 || f.IndexName != "" {
				t.Errorf("expected untouched empty frame, got columns %v index %q", f.Columns, f.IndexName)
			}
		})
	}
}

func TestNormalizeEmptyTableKeepsColumns(t *testing.T) {
	// A table with a header but no rows signals "no data"; it must come
	// back unchanged, with no column drop and no index.
	raw := Single(Table{Columns: []string{"result", "_time", "CO"}})
	f, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f.Columns, []string{"result", "_time", "CO"}) {
		t.Errorf("columns changed: %v", f.Columns)
	}
	if f.IndexName != "" {
		t.Errorf("index set on empty table: %q", f.IndexName)
	}
}

func TestNormalizeDropsMetadata(t *testing.T) {
	raw := Single(rawTable(
		[]time.Time{t0, t1},
		[]string{"CO", "sht_temp"},
		[][]interface{}{{1.5, 21.0}, {1.7, 22.0}},
	))
	f, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f.Columns, []string{"CO", "sht_temp"}) {
		t.Errorf("expected only data columns, got %v", f.Columns)
	}
	if f.IndexName != TimeColumn {
		t.Errorf("expected %s index, got %q", TimeColumn, f.IndexName)
	}
	if !f.Index[0].Equal(t0) || !f.Index[1].Equal(t1) {
		t.Errorf("index mismatch: %v", f.Index)
	}
	if f.Rows[0][0] != 1.5 || f.Rows[1][1] != 22.0 {
		t.Errorf("cell values mismatch: %v", f.Rows)
	}
}

func TestNormalizeMetadataColumnOrder(t *testing.T) {
	// Metadata columns are dropped wherever they appear.
	raw := Single(Table{
		Columns: []string{"CO", "host", "_time", "table", "result"},
		Rows: [][]interface{}{
			{2.5, "ingest-1", t0, int64(0), "_result"},
		},
	})
	f, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f.Columns, []string{"CO"}) {
		t.Errorf("expected [CO], got %v", f.Columns)
	}
	if f.Rows[0][0] != 2.5 {
		t.Errorf("cell value mismatch: %v", f.Rows)
	}
}

func TestNormalizeRename(t *testing.T) {
	tests := []struct {
		name    string
		rename  map[string]string
		columns []string
	}{
		{"nil map", nil, []string{"CO", "TEMP"}},
		{"matching keys", map[string]string{"CO": "CO_lubw", "TEMP": "LUBW_TEMP"}, []string{"CO_lubw", "LUBW_TEMP"}},
		{"absent keys ignored", map[string]string{"NO2": "NO2_lubw"}, []string{"CO", "TEMP"}},
		{"partial", map[string]string{"CO": "CO_lubw"}, []string{"CO_lubw", "TEMP"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Single(rawTable(
				[]time.Time{t0},
				[]string{"CO", "TEMP"},
				[][]interface{}{{0.3, 14.2}},
			))
			f, err := Normalize(raw, tt.rename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(f.Columns, tt.columns) {
				t.Errorf("expected columns %v, got %v", tt.columns, f.Columns)
			}
			if f.Rows[0][0] != 0.3 || f.Rows[0][1] != 14.2 {
				t.Errorf("values moved during rename: %v", f.Rows)
			}
		})
	}
}

func TestNormalizeConcatenatesFragments(t *testing.T) {
	x := rawTable([]time.Time{t0, t1}, []string{"CO"}, [][]interface{}{{1.0}, {2.0}})
	y := rawTable([]time.Time{t2, t2.Add(time.Hour), t2.Add(2 * time.Hour)}, []string{"CO"},
		[][]interface{}{{3.0}, {4.0}, {5.0}})

	f, err := Normalize(Many([]Table{x, y}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(f.Rows))
	}
	for i, want := range []float64{1.0, 2.0, 3.0, 4.0, 5.0} {
		if f.Rows[i][0] != want {
			t.Errorf("row %d: expected %v, got %v", i, want, f.Rows[i][0])
		}
	}
}

func TestNormalizeFragmentColumnOrder(t *testing.T) {
	// Fragments may deliver the same columns in a different order; the
	// cells are remapped to the first fragment's layout.
	x := Table{Columns: []string{"_time", "CO"}, Rows: [][]interface{}{{t0, 1.0}}}
	y := Table{Columns: []string{"CO", "_time"}, Rows: [][]interface{}{{2.0, t1}}}

	f, err := Normalize(Many([]Table{x, y}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Rows[0][0] != 1.0 || f.Rows[1][0] != 2.0 {
		t.Errorf("remap failed: %v", f.Rows)
	}
	if !f.Index[1].Equal(t1) {
		t.Errorf("index mismatch: %v", f.Index)
	}
}

func TestNormalizeSchemaMismatch(t *testing.T) {
	x := Table{Columns: []string{"_time", "CO"}, Rows: [][]interface{}{{t0, 1.0}}}
	y := Table{Columns: []string{"_time", "NO2"}, Rows: [][]interface{}{{t1, 2.0}}}

	_, err := Normalize(Many([]Table{x, y}), nil)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestNormalizeBadTimeValue(t *testing.T) {
	raw := Single(Table{
		Columns: []string{"_time", "CO"},
		Rows:    [][]interface{}{{"not-a-time", 1.0}},
	})
	if _, err := Normalize(raw, nil); err == nil {
		t.Fatal("expected error for non-time _time value")
	}
}

func TestNormalizeKeepsDuplicateTimestamps(t *testing.T) {
	raw := Single(rawTable(
		[]time.Time{t0, t0},
		[]string{"CO"},
		[][]interface{}{{1.0}, {2.0}},
	))
	f, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Index) != 2 {
		t.Fatalf("duplicates dropped: %v", f.Index)
	}
}

func TestReindex(t *testing.T) {
	f := Frame{
		IndexName: TimeColumn,
		Index:     []time.Time{t0, t1},
		Columns:   []string{"CO_ual", "CO_lubw"},
		Rows:      [][]interface{}{{1.0, 5.0}, {2.0, 6.0}},
	}

	out := f.Reindex([]string{"CO_ual", "RAW_ADC_CO_A", "CO_lubw"})
	if !reflect.DeepEqual(out.Columns, []string{"CO_ual", "RAW_ADC_CO_A", "CO_lubw"}) {
		t.Fatalf("columns mismatch: %v", out.Columns)
	}
	for i := range out.Rows {
		if out.Rows[i][1] != nil {
			t.Errorf("row %d: absent column not nil: %v", i, out.Rows[i][1])
		}
	}
	if out.Rows[0][0] != 1.0 || out.Rows[1][2] != 6.0 {
		t.Errorf("values misplaced: %v", out.Rows)
	}
	if out.IndexName != TimeColumn || len(out.Index) != 2 {
		t.Errorf("index not preserved")
	}
}
