package frame

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataviz/frameserve/internal/shared"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestDB(t))
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func testRecord(depth float64) *Record {
	return &Record{
		Depth:        depth,
		OriginalData: []byte{1, 2, 3},
		ResizedData:  []byte{4, 5, 6},
		Metadata: Metadata{
			Min: 10, Max: 200, Mean: 100, Std: 40,
			CompressionRatioOriginal: 2.5,
			CompressionRatioResized:  2.1,
		},
	}
}

func TestStore_Migrate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.Migrate(); err != nil {
		t.Errorf("Migrate() error = %v", err)
	}
	if !db.Migrator().HasTable(&Record{}) {
		t.Error("expected image_frames table to exist")
	}
}

func TestStore_PutBatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	records := []*Record{testRecord(100.1), testRecord(100.2), testRecord(100.3)}
	n, err := store.PutBatch(ctx, records)
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}
	if n != 3 {
		t.Errorf("PutBatch() = %d, want 3", n)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestStore_PutBatch_Empty(t *testing.T) {
	store := setupTestStore(t)

	n, err := store.PutBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("PutBatch(nil) error = %v", err)
	}
	if n != 0 {
		t.Errorf("PutBatch(nil) = %d, want 0", n)
	}
}

func TestStore_QueryByDepthRange_OrderedAscending(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Insert out of order; the query must return ascending depths.
	_, err := store.PutBatch(ctx, []*Record{
		testRecord(300.0), testRecord(100.0), testRecord(200.0),
	})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	var depths []float64
	err = store.QueryByDepthRange(ctx, 0, 1000, 0, func(rec *Record) error {
		depths = append(depths, rec.Depth)
		return nil
	})
	if err != nil {
		t.Fatalf("QueryByDepthRange() error = %v", err)
	}

	want := []float64{100.0, 200.0, 300.0}
	if len(depths) != len(want) {
		t.Fatalf("got %d records, want %d", len(depths), len(want))
	}
	for i := range want {
		if depths[i] != want[i] {
			t.Errorf("depths[%d] = %v, want %v", i, depths[i], want[i])
		}
	}
}

func TestStore_QueryByDepthRange_BoundsInclusive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.PutBatch(ctx, []*Record{
		testRecord(99.9), testRecord(100.0), testRecord(150.0), testRecord(200.0), testRecord(200.5),
	})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	var got int
	err = store.QueryByDepthRange(ctx, 100.0, 200.0, 0, func(rec *Record) error {
		got++
		if rec.Depth < 100.0 || rec.Depth > 200.0 {
			t.Errorf("record depth %v outside [100, 200]", rec.Depth)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("QueryByDepthRange() error = %v", err)
	}
	if got != 3 {
		t.Errorf("got %d records, want 3 (bounds are inclusive)", got)
	}
}

func TestStore_QueryByDepthRange_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.PutBatch(ctx, []*Record{
		testRecord(1), testRecord(2), testRecord(3), testRecord(4),
	})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	var depths []float64
	err = store.QueryByDepthRange(ctx, 0, 10, 2, func(rec *Record) error {
		depths = append(depths, rec.Depth)
		return nil
	})
	if err != nil {
		t.Fatalf("QueryByDepthRange() error = %v", err)
	}
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 2 {
		t.Errorf("limited query returned %v, want [1 2]", depths)
	}
}

func TestStore_QueryByDepthRange_InvertedRange(t *testing.T) {
	store := setupTestStore(t)

	called := false
	err := store.QueryByDepthRange(context.Background(), 100, 50, 10, func(*Record) error {
		called = true
		return nil
	})
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if called {
		t.Error("callback must not run for an inverted range")
	}
}

func TestStore_QueryByDepthRange_CallbackErrorAborts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.PutBatch(ctx, []*Record{testRecord(1), testRecord(2), testRecord(3)})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	boom := errors.New("boom")
	var seen int
	err = store.QueryByDepthRange(ctx, 0, 10, 0, func(*Record) error {
		seen++
		if seen == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected the callback error back unchanged, got %v", err)
	}
	if seen != 2 {
		t.Errorf("callback ran %d times, want 2 (scan must abort on first error)", seen)
	}
}

func TestStore_QueryByDepthRange_RoundTripsRecord(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	in := testRecord(9000.1)
	if _, err := store.PutBatch(ctx, []*Record{in}); err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	var out *Record
	err := store.QueryByDepthRange(ctx, 9000, 9001, 1, func(rec *Record) error {
		out = rec
		return nil
	})
	if err != nil {
		t.Fatalf("QueryByDepthRange() error = %v", err)
	}
	if out == nil {
		t.Fatal("expected one record back")
	}

	if out.Depth != 9000.1 {
		t.Errorf("Depth = %v, want 9000.1", out.Depth)
	}
	if string(out.OriginalData) != string(in.OriginalData) ||
		string(out.ResizedData) != string(in.ResizedData) {
		t.Error("byte buffers did not round trip")
	}
	if out.Metadata != in.Metadata {
		t.Errorf("metadata did not round trip: %+v vs %+v", out.Metadata, in.Metadata)
	}
}

func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.PutBatch(ctx, []*Record{testRecord(1), testRecord(2)})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	deleted, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Clear() = %d, want 2", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after clear = %d, want 0", count)
	}
}
