// Package resample shrinks or stretches 1-D sample rows with a
// Lanczos-3 windowed-sinc kernel.
package resample

import (
	"fmt"
	"math"

	"github.com/strataviz/frameserve/internal/shared"
)

// lanczosA is the kernel support radius. 3 matches the highest-quality
// setting of common image libraries.
const lanczosA = 3

// Resize resamples row to targetWidth samples. When shrinking, the
// kernel support is widened by the scale factor so the result stays
// anti-aliased. Output samples are rounded and clamped to 0-255.
// The result depends only on (row, targetWidth).
func Resize(row []byte, targetWidth int) ([]byte, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("resize: empty row: %w", shared.ErrInvalidInput)
	}
	if targetWidth <= 0 {
		return nil, fmt.Errorf("resize: target width %d: %w", targetWidth, shared.ErrInvalidInput)
	}

	if targetWidth == len(row) {
		out := make([]byte, len(row))
		copy(out, row)
		return out, nil
	}

	scale := float64(len(row)) / float64(targetWidth)

	// Widen the filter when downsampling so it acts as a low-pass.
	support := float64(lanczosA)
	if scale > 1 {
		support *= scale
	}

	out := make([]byte, targetWidth)
	for i := 0; i < targetWidth; i++ {
		// Center of output sample i in input coordinates.
		center := (float64(i) + 0.5) * scale

		lo := int(math.Floor(center - support))
		hi := int(math.Ceil(center + support))
		if lo < 0 {
			lo = 0
		}
		if hi > len(row) {
			hi = len(row)
		}

		var acc, weightSum float64
		for j := lo; j < hi; j++ {
			x := (float64(j) + 0.5 - center)
			if scale > 1 {
				x /= scale
			}
			w := lanczos(x)
			if w == 0 {
				continue
			}
			acc += w * float64(row[j])
			weightSum += w
		}

		v := 0.0
		if weightSum != 0 {
			v = acc / weightSum
		}
		out[i] = clampByte(math.Round(v))
	}

	return out, nil
}

func lanczos(x float64) float64 {
	if x == 0 {
		return 1
	}
	ax := math.Abs(x)
	if ax >= lanczosA {
		return 0
	}
	px := math.Pi * x
	return lanczosA * math.Sin(px) * math.Sin(px/lanczosA) / (px * px)
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
