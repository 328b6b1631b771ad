// Package ingest reads depth-indexed sample rows from CSV and loads
// them through the frame codec into the store.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// SampleRow is one raw ingestion row: a depth key and its fixed-width
// sample sequence. It exists only between the CSV reader and the
// codec; nothing persists it as-is.
type SampleRow struct {
	Depth   float64
	Samples []byte
}

// RowError marks a problem confined to a single CSV row. Rows carrying
// a RowError can be skipped without abandoning the rest of the file.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader parses a CSV stream with a `depth` column and `col1..colN`
// sample columns, in any column order.
type Reader struct {
	csv        *csv.Reader
	width      int
	depthCol   int
	sampleCols []int
	row        int
}

// NewReader consumes the header line and resolves column positions.
func NewReader(r io.Reader, width int) (*Reader, error) {
	if width <= 0 {
		return nil, errors.Errorf("sample width %d must be positive", width)
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}

	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	depthCol, ok := byName["depth"]
	if !ok {
		return nil, errors.New("CSV header is missing the depth column")
	}

	sampleCols := make([]int, width)
	for i := 0; i < width; i++ {
		name := "col" + strconv.Itoa(i+1)
		col, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("CSV header is missing column %s", name)
		}
		sampleCols[i] = col
	}

	return &Reader{
		csv:        cr,
		width:      width,
		depthCol:   depthCol,
		sampleCols: sampleCols,
		row:        1,
	}, nil
}

// Next returns the next sample row. Problems confined to one row come
// back as *RowError so callers can skip and continue; io.EOF signals a
// clean end of input.
func (r *Reader) Next() (SampleRow, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return SampleRow{}, io.EOF
	}
	r.row++
	if err != nil {
		if parseErr, ok := err.(*csv.ParseError); ok {
			return SampleRow{}, &RowError{Row: r.row, Err: parseErr}
		}
		return SampleRow{}, errors.Wrapf(err, "reading row %d", r.row)
	}

	depth, err := strconv.ParseFloat(record[r.depthCol], 64)
	if err != nil {
		return SampleRow{}, &RowError{Row: r.row, Err: errors.Wrap(err, "parsing depth")}
	}
	if depth < 0 {
		return SampleRow{}, &RowError{Row: r.row, Err: errors.Errorf("depth %v must be non-negative", depth)}
	}

	samples := make([]byte, r.width)
	for i, col := range r.sampleCols {
		if col >= len(record) {
			return SampleRow{}, &RowError{Row: r.row, Err: errors.Errorf("missing column col%d", i+1)}
		}
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return SampleRow{}, &RowError{Row: r.row, Err: errors.Wrapf(err, "parsing col%d", i+1)}
		}
		if v < 0 || v > 255 {
			return SampleRow{}, &RowError{Row: r.row, Err: errors.Errorf("col%d value %d outside 0-255", i+1, v)}
		}
		samples[i] = byte(v)
	}

	return SampleRow{Depth: depth, Samples: samples}, nil
}
