package frame

import "time"

// JoinMode selects which timestamps survive a join.
type JoinMode string

const (
	JoinInner JoinMode = "inner"
	JoinOuter JoinMode = "outer"
	JoinLeft  JoinMode = "left"
	JoinRight JoinMode = "right"
)

// Join aligns two frames on their timestamp index. Column names present
// on both sides get the respective suffix. Duplicate timestamps are not
// deduplicated; a row matches the first occurrence on the other side.
//
// Inner keeps timestamps present on both sides, in the left frame's
// arrival order. Outer keeps the left order and appends right-only
// timestamps in the right frame's order, with nil cells for the missing
// side. Left and right behave accordingly. An unknown or empty mode
// joins inner.
func (f Frame) Join(other Frame, mode JoinMode, lsuffix, rsuffix string) Frame {
	colliding := make(map[string]bool)
	for _, c := range f.Columns {
		if other.Col(c) >= 0 {
			colliding[c] = true
		}
	}

	out := Frame{IndexName: f.IndexName}
	if out.IndexName == "" {
		out.IndexName = other.IndexName
	}
	for _, c := range f.Columns {
		if colliding[c] {
			c += lsuffix
		}
		out.Columns = append(out.Columns, c)
	}
	for _, c := range other.Columns {
		if colliding[c] {
			c += rsuffix
		}
		out.Columns = append(out.Columns, c)
	}

	rightAt := indexLookup(other)
	leftAt := indexLookup(f)

	appendRow := func(ts time.Time, left, right []interface{}) {
		cells := make([]interface{}, 0, len(out.Columns))
		cells = append(cells, pad(left, len(f.Columns))...)
		cells = append(cells, pad(right, len(other.Columns))...)
		out.Rows = append(out.Rows, cells)
		out.Index = append(out.Index, ts)
	}

	switch mode {
	case JoinLeft:
		for i, ts := range f.Index {
			appendRow(ts, f.Rows[i], rowAt(other, rightAt, ts.UnixNano()))
		}
	case JoinRight:
		for j, ts := range other.Index {
			appendRow(ts, rowAt(f, leftAt, ts.UnixNano()), other.Rows[j])
		}
	case JoinOuter:
		for i, ts := range f.Index {
			appendRow(ts, f.Rows[i], rowAt(other, rightAt, ts.UnixNano()))
		}
		for j, ts := range other.Index {
			if _, seen := leftAt[ts.UnixNano()]; !seen {
				appendRow(ts, nil, other.Rows[j])
			}
		}
	default:
		for i, ts := range f.Index {
			if _, ok := rightAt[ts.UnixNano()]; ok {
				appendRow(ts, f.Rows[i], rowAt(other, rightAt, ts.UnixNano()))
			}
		}
	}
	return out
}

// indexLookup maps each timestamp to its first row position.
func indexLookup(f Frame) map[int64]int {
	at := make(map[int64]int, len(f.Index))
	for i, ts := range f.Index {
		if _, ok := at[ts.UnixNano()]; !ok {
			at[ts.UnixNano()] = i
		}
	}
	return at
}

func rowAt(f Frame, at map[int64]int, ts int64) []interface{} {
	if i, ok := at[ts]; ok {
		return f.Rows[i]
	}
	return nil
}

// pad extends a possibly-nil row to width cells.
func pad(row []interface{}, width int) []interface{} {
	if len(row) == width {
		return row
	}
	padded := make([]interface{}, width)
	copy(padded, row)
	return padded
}
