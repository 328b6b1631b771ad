package ingest

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/strataviz/frameserve/internal/frame"
)

const DefaultBatchSize = 100

// Result summarizes one ingestion run.
type Result struct {
	Processed int
	Skipped   int
}

// Pipeline drives rows from a Reader through the frame codec and into
// the store in all-or-nothing batches. Rows that fail to parse or
// encode are logged with their row number and skipped; store failures
// abort the run.
type Pipeline struct {
	codec     *frame.Codec
	store     *frame.Store
	batchSize int
	logger    *slog.Logger
}

func NewPipeline(codec *frame.Codec, store *frame.Store, batchSize int, logger *slog.Logger) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		codec:     codec,
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, src *Reader) (Result, error) {
	var result Result
	batch := make([]*frame.Record, 0, p.batchSize)

	flush := func() error {
		n, err := p.store.PutBatch(ctx, batch)
		if err != nil {
			return errors.Wrapf(err, "flushing batch of %d records", len(batch))
		}
		result.Processed += n
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				p.logger.Warn("skipping malformed row", "row", rowErr.Row, "error", rowErr.Err)
				result.Skipped++
				continue
			}
			return result, err
		}

		rec, err := p.codec.Ingest(row.Depth, row.Samples)
		if err != nil {
			p.logger.Warn("skipping row that failed to encode", "depth", row.Depth, "error", err)
			result.Skipped++
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
			p.logger.Info("batch stored", "processed", result.Processed, "skipped", result.Skipped)
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return result, err
		}
	}

	return result, nil
}
