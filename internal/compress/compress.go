// Package compress provides the reversible byte-stream codec used for
// stored frame buffers.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/strataviz/frameserve/internal/shared"
)

// Codec compresses and decompresses byte buffers. Implementations must
// satisfy Decompress(Compress(b)) == b for every b, including empty.
// Implementations are safe for concurrent use.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Gzip is a gzip Codec with a fixed, injected compression level. The
// level is constructor configuration rather than process-wide state so
// tests can run different levels side by side.
type Gzip struct {
	level int
}

var _ Codec = (*Gzip)(nil)

// NewGzip returns a gzip codec at the given level (1-9).
func NewGzip(level int) (*Gzip, error) {
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzip level %d out of range [1, 9]: %w", level, shared.ErrInvalidInput)
	}
	return &Gzip{level: level}, nil
}

// MustGzip is NewGzip for statically known levels.
func MustGzip(level int) *Gzip {
	c, err := NewGzip(level)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Gzip) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates data. Any malformed stream, truncation or
// checksum mismatch surfaces as shared.ErrCorruptData.
func (c *Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress: %v: %w", err, shared.ErrCorruptData)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress: %v: %w", err, shared.ErrCorruptData)
	}

	return out, nil
}

// Ratio reports rawLen/compressedLen, the informational compression
// ratio stored in frame metadata. Returns 0 when compressedLen is 0.
func Ratio(rawLen, compressedLen int) float64 {
	if compressedLen == 0 {
		return 0
	}
	return float64(rawLen) / float64(compressedLen)
}
