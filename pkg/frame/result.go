// Package frame holds the tabular data model for query results: the
// raw tables returned by InfluxDB, the cleaned and time-indexed frame
// derived from them, and the join used to align two sources.
package frame

import (
	"errors"
	"fmt"
)

// Table is a raw rectangle of values as returned by the query executor.
// Column order is not significant.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

type resultKind int

const (
	kindEmpty resultKind = iota
	kindSingle
	kindMany
)

// RawResult is the shape of an executed query: no tables, a single
// table, or an ordered sequence of tables. Construct values with
// Empty, Single, or Many.
type RawResult struct {
	kind   resultKind
	single Table
	many   []Table
}

// Empty returns a RawResult carrying no data.
func Empty() RawResult {
	return RawResult{kind: kindEmpty}
}

// Single returns a RawResult carrying one table.
func Single(t Table) RawResult {
	return RawResult{kind: kindSingle, single: t}
}

// Many returns a RawResult carrying a sequence of tables in order.
func Many(tables []Table) RawResult {
	return RawResult{kind: kindMany, many: tables}
}

// ErrSchemaMismatch is returned when the fragments of a multi-table
// result do not share one column set.
var ErrSchemaMismatch = errors.New("result fragments have mismatched schemas")

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, c := range a {
		set[c] = true
	}
	for _, c := range b {
		if !set[c] {
			return false
		}
	}
	return true
}

// flatten reduces a RawResult to one table. Fragments of a multi-table
// result are concatenated in sequence order with row order preserved;
// their cells are remapped to the first fragment's column order. A
// fragment with a different column set fails with ErrSchemaMismatch.
func (r RawResult) flatten() (Table, error) {
	switch r.kind {
	case kindEmpty:
		return Table{}, nil
	case kindSingle:
		return r.single, nil
	case kindMany:
		if len(r.many) == 0 {
			return Table{}, nil
		}
		out := Table{Columns: r.many[0].Columns}
		for i, t := range r.many {
			if !sameColumnSet(out.Columns, t.Columns) {
				return Table{}, fmt.Errorf("fragment %d: %w", i, ErrSchemaMismatch)
			}
			remap := make([]int, len(out.Columns))
			for j, c := range out.Columns {
				for k, tc := range t.Columns {
					if tc == c {
						remap[j] = k
						break
					}
				}
			}
			for _, row := range t.Rows {
				cells := make([]interface{}, len(out.Columns))
				for j, k := range remap {
					cells[j] = row[k]
				}
				out.Rows = append(out.Rows, cells)
			}
		}
		return out, nil
	default:
		return Table{}, fmt.Errorf("unhandled result kind %d", r.kind)
	}
}
