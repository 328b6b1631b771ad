package frame

import (
	"encoding/base64"
	"fmt"

	"github.com/strataviz/frameserve/internal/colormap"
	"github.com/strataviz/frameserve/internal/compress"
	"github.com/strataviz/frameserve/internal/dto"
	"github.com/strataviz/frameserve/internal/resample"
	"github.com/strataviz/frameserve/internal/shared"
	"github.com/strataviz/frameserve/internal/stats"
)

// Codec runs the two frame pipelines: Ingest turns a raw sample row
// into a storable Record, Serve turns a stored Record into a colorized
// response frame. A Codec holds only immutable configuration, so one
// instance serves concurrent requests without locking.
type Codec struct {
	originalWidth int
	resizedWidth  int
	compression   compress.Codec
}

func NewCodec(originalWidth, resizedWidth int, compression compress.Codec) (*Codec, error) {
	if originalWidth <= 0 || resizedWidth <= 0 {
		return nil, fmt.Errorf("codec widths %d/%d must be positive: %w",
			originalWidth, resizedWidth, shared.ErrInvalidInput)
	}
	return &Codec{
		originalWidth: originalWidth,
		resizedWidth:  resizedWidth,
		compression:   compression,
	}, nil
}

func (c *Codec) OriginalWidth() int { return c.originalWidth }
func (c *Codec) ResizedWidth() int  { return c.resizedWidth }

// Ingest validates, resizes, measures and compresses one raw row.
// Pure function of (depth, raw) given the codec's configuration.
func (c *Codec) Ingest(depth float64, raw []byte) (*Record, error) {
	if len(raw) != c.originalWidth {
		return nil, fmt.Errorf("ingest depth %v: row has %d samples, want %d: %w",
			depth, len(raw), c.originalWidth, shared.ErrInvalidInput)
	}

	resized, err := resample.Resize(raw, c.resizedWidth)
	if err != nil {
		return nil, err
	}

	summary, err := stats.Compute(resized)
	if err != nil {
		return nil, err
	}

	compressedOriginal, err := c.compression.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("ingest depth %v: compress original: %w", depth, err)
	}
	compressedResized, err := c.compression.Compress(resized)
	if err != nil {
		return nil, fmt.Errorf("ingest depth %v: compress resized: %w", depth, err)
	}

	return &Record{
		Depth:        depth,
		OriginalData: compressedOriginal,
		ResizedData:  compressedResized,
		Metadata: Metadata{
			Min:                      summary.Min,
			Max:                      summary.Max,
			Mean:                     summary.Mean,
			Std:                      summary.Std,
			CompressionRatioOriginal: compress.Ratio(len(raw), len(compressedOriginal)),
			CompressionRatioResized:  compress.Ratio(len(resized), len(compressedResized)),
		},
	}, nil
}

// Serve decompresses a stored record's resized buffer, colorizes it
// and base64-encodes the RGB row. The record is never mutated, so
// concurrent serves of the same record are safe. Callers resolve the
// colormap before calling so unknown names fail without any
// decompression work.
func (c *Codec) Serve(rec *Record, m colormap.Map) (*dto.FrameResponse, error) {
	row, err := c.compression.Decompress(rec.ResizedData)
	if err != nil {
		return nil, fmt.Errorf("serve depth %v: %w", rec.Depth, err)
	}
	if len(row) != c.resizedWidth {
		return nil, fmt.Errorf("serve depth %v: decompressed to %d samples, want %d: %w",
			rec.Depth, len(row), c.resizedWidth, shared.ErrCorruptData)
	}

	rgb, err := m.Apply(row)
	if err != nil {
		return nil, fmt.Errorf("serve depth %v: %w", rec.Depth, err)
	}

	return &dto.FrameResponse{
		Depth: rec.Depth,
		Data:  base64.StdEncoding.EncodeToString(rgb),
		Metadata: dto.FrameMetadata{
			Min:                      rec.Metadata.Min,
			Max:                      rec.Metadata.Max,
			Mean:                     rec.Metadata.Mean,
			Std:                      rec.Metadata.Std,
			CompressionRatioOriginal: rec.Metadata.CompressionRatioOriginal,
			CompressionRatioResized:  rec.Metadata.CompressionRatioResized,
		},
	}, nil
}
