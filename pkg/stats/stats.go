// Package stats computes comparison statistics between a sensor column
// and a reference column of a joined frame.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/urbanairlab/ualexport/pkg/frame"
)

// Comparison summarizes how a sensor column tracks a reference column
// over the rows where both carry numeric values.
type Comparison struct {
	N        int
	MeanBias float64 // sensor minus reference
	RMSE     float64
	PearsonR float64
}

// Compare evaluates sensorCol against refCol. Rows where either cell is
// missing or non-numeric are skipped. A frame with no overlapping data
// yields N == 0 and zeroed statistics.
func Compare(f frame.Frame, sensorCol, refCol string) (Comparison, error) {
	si := f.Col(sensorCol)
	if si < 0 {
		return Comparison{}, fmt.Errorf("column %q not present in frame", sensorCol)
	}
	ri := f.Col(refCol)
	if ri < 0 {
		return Comparison{}, fmt.Errorf("column %q not present in frame", refCol)
	}

	var sensor, ref []float64
	for _, row := range f.Rows {
		s, ok1 := asFloat(row[si])
		r, ok2 := asFloat(row[ri])
		if ok1 && ok2 {
			sensor = append(sensor, s)
			ref = append(ref, r)
		}
	}
	if len(sensor) == 0 {
		return Comparison{}, nil
	}

	diffs := make([]float64, len(sensor))
	var sumSq float64
	for i := range sensor {
		diffs[i] = sensor[i] - ref[i]
		sumSq += diffs[i] * diffs[i]
	}
	c := Comparison{
		N:        len(sensor),
		MeanBias: stat.Mean(diffs, nil),
		RMSE:     math.Sqrt(sumSq / float64(len(sensor))),
	}
	if len(sensor) > 1 {
		c.PearsonR = stat.Correlation(sensor, ref, nil)
	}
	return c, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}
