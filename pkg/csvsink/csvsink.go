// Package csvsink writes frames to CSV files.
package csvsink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urbanairlab/ualexport/pkg/frame"
)

// Writer persists frames as CSV. The index column, when named, comes
// first with its name as the header. An empty frame with a named index
// produces a header-only file; without one, an entirely empty file.
type Writer struct{}

// New returns a CSV writer.
func New() *Writer {
	return &Writer{}
}

// Write serializes the frame to path.
func (w *Writer) Write(f frame.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if f.IsEmpty() && len(f.Columns) == 0 {
		if f.IndexName == "" {
			return nil
		}
		if err := cw.Write([]string{f.IndexName}); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	hasIndex := f.IndexName != "" && len(f.Index) == len(f.Rows)
	var header []string
	if hasIndex {
		header = append(header, f.IndexName)
	}
	header = append(header, f.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for i, row := range f.Rows {
		record = record[:0]
		if hasIndex {
			record = append(record, f.Index[i].Format(time.RFC3339))
		}
		for _, cell := range row {
			record = append(record, formatCell(cell))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
