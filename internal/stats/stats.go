// Package stats computes summary statistics over raw sample rows.
package stats

import (
	"fmt"
	"math"

	"github.com/strataviz/frameserve/internal/shared"
)

// Summary holds min/max/mean and the population standard deviation of a
// sample row. Std divides by N, not N-1, so identical rows produce
// identical values regardless of where they were computed.
type Summary struct {
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// Compute returns the Summary of row. A single pass over byte-valued
// samples is numerically fine at the row lengths this service handles.
func Compute(row []byte) (Summary, error) {
	if len(row) == 0 {
		return Summary{}, fmt.Errorf("compute stats: empty row: %w", shared.ErrInvalidInput)
	}

	minV := float64(row[0])
	maxV := float64(row[0])
	var sum, sumSq float64

	for _, s := range row {
		v := float64(s)
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
		sumSq += v * v
	}

	n := float64(len(row))
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return Summary{
		Min:  minV,
		Max:  maxV,
		Mean: mean,
		Std:  math.Sqrt(variance),
	}, nil
}
