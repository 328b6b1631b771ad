// Command clear empties the frame store. Destructive; requires --yes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataviz/frameserve/internal/bootstrap"
	"github.com/strataviz/frameserve/internal/frame"
)

func main() {
	yes := flag.Bool("yes", false, "confirm deletion of all stored frames")
	flag.Parse()

	if !*yes {
		fmt.Fprintln(os.Stderr, "This deletes every stored frame. Re-run with --yes to confirm.")
		os.Exit(1)
	}

	cfg := bootstrap.LoadConfig()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	store := frame.NewStore(db)
	deleted, err := store.Clear(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to clear frames: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Deleted %d frames\n", deleted)
}
