package frame

import (
	"fmt"
	"time"
)

// TimeColumn is the timestamp column emitted by Flux queries. During
// normalization it becomes the frame's index.
const TimeColumn = "_time"

// metadataColumns are the bookkeeping columns InfluxDB attaches to
// every result. They carry no measurement data and are dropped during
// normalization. Absence of any of them is not an error.
var metadataColumns = []string{"result", "table", "_start", "_stop", "_measurement", "topic", "host"}

// Frame is a cleaned result table: data columns only, indexed by
// timestamp. The index preserves arrival order and is not deduplicated;
// whether it is unique depends on the upstream data.
type Frame struct {
	IndexName string
	Index     []time.Time
	Columns   []string
	Rows      [][]interface{}
}

// IsEmpty reports whether the frame holds no data rows.
func (f Frame) IsEmpty() bool {
	return len(f.Rows) == 0
}

// Col returns the position of a column, or -1 if absent.
func (f Frame) Col(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Normalize turns a raw query result into a Frame: fragments are
// concatenated, metadata columns dropped, the rename map applied, and
// the _time column promoted to the index. An empty result yields an
// empty frame, untouched, with no error.
func Normalize(raw RawResult, rename map[string]string) (Frame, error) {
	t, err := raw.flatten()
	if err != nil {
		return Frame{}, err
	}
	if len(t.Rows) == 0 {
		return Frame{Columns: t.Columns}, nil
	}

	drop := make(map[int]bool)
	for _, meta := range metadataColumns {
		for i, c := range t.Columns {
			if c == meta {
				drop[i] = true
			}
		}
	}
	timeIdx := -1
	f := Frame{}
	for i, c := range t.Columns {
		if drop[i] {
			continue
		}
		if c == TimeColumn {
			timeIdx = i
			continue
		}
		if alias, ok := rename[c]; ok {
			c = alias
		}
		f.Columns = append(f.Columns, c)
	}

	for _, row := range t.Rows {
		cells := make([]interface{}, 0, len(f.Columns))
		for i := range t.Columns {
			if drop[i] || i == timeIdx {
				continue
			}
			cells = append(cells, row[i])
		}
		f.Rows = append(f.Rows, cells)
		if timeIdx >= 0 {
			ts, ok := row[timeIdx].(time.Time)
			if !ok {
				return Frame{}, fmt.Errorf("column %s: expected time.Time, got %T", TimeColumn, row[timeIdx])
			}
			f.Index = append(f.Index, ts)
		}
	}
	if timeIdx >= 0 {
		f.IndexName = TimeColumn
	}
	return f, nil
}

// Reindex projects the frame onto a fixed column list, preserving the
// index. Requested columns absent from the frame come back as
// entirely-nil columns.
func (f Frame) Reindex(columns []string) Frame {
	out := Frame{
		IndexName: f.IndexName,
		Index:     f.Index,
		Columns:   append([]string(nil), columns...),
	}
	src := make([]int, len(columns))
	for i, c := range columns {
		src[i] = f.Col(c)
	}
	for _, row := range f.Rows {
		cells := make([]interface{}, len(columns))
		for i, j := range src {
			if j >= 0 {
				cells[i] = row[j]
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}
