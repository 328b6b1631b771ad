// Command ingest loads a CSV of depth-indexed sample rows into the
// frame store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataviz/frameserve/internal/bootstrap"
	"github.com/strataviz/frameserve/internal/compress"
	"github.com/strataviz/frameserve/internal/frame"
	"github.com/strataviz/frameserve/internal/ingest"
)

var batchSize int

var rootCmd = &cobra.Command{
	Use:   "ingest <csv-file>",
	Short: "Ingest depth-indexed sample rows from a CSV file",
	Long: `Reads a CSV with a depth column and col1..colN sample columns,
runs each row through the frame pipeline (resize, statistics,
compression) and stores the results in batches.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.Flags().IntVar(&batchSize, "batch-size", ingest.DefaultBatchSize,
		"number of frames to store per transaction")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := bootstrap.LoadConfig()
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	store := frame.NewStore(db)
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	compression, err := compress.NewGzip(cfg.CompressionLevel)
	if err != nil {
		return err
	}
	codec, err := frame.NewCodec(cfg.OriginalWidth, cfg.ResizedWidth, compression)
	if err != nil {
		return err
	}

	reader, err := ingest.NewReader(f, cfg.OriginalWidth)
	if err != nil {
		return fmt.Errorf("reading CSV: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	size := batchSize
	if size <= 0 {
		size = cfg.IngestBatchSize
	}
	pipeline := ingest.NewPipeline(codec, store, size, log)

	result, err := pipeline.Run(ctx, reader)
	if err != nil {
		return fmt.Errorf("ingestion aborted after %d rows: %w", result.Processed, err)
	}

	fmt.Printf("Ingestion complete: %d frames stored, %d rows skipped\n",
		result.Processed, result.Skipped)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
