package frame

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataviz/frameserve/internal/shared"
)

// Store is the row store adapter backing the codec. It owns all
// persisted records; the codec only borrows them during a serve call.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// PutBatch inserts records in a single transaction: either every
// record becomes durable or none does, so stored statistics and ratios
// always describe rows that actually landed. Returns the number
// inserted.
func (s *Store) PutBatch(ctx context.Context, records []*Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return 0, fmt.Errorf("put batch of %d records: %v: %w", len(records), err, shared.ErrStore)
	}
	return len(records), nil
}

// QueryByDepthRange streams the records with minDepth <= depth <=
// maxDepth through fn in ascending depth order, one record at a time.
// limit <= 0 means unbounded. The first fn error aborts the scan and
// is returned unchanged.
func (s *Store) QueryByDepthRange(ctx context.Context, minDepth, maxDepth float64, limit int, fn func(*Record) error) error {
	if minDepth > maxDepth {
		return fmt.Errorf("depth range [%v, %v] inverted: %w", minDepth, maxDepth, shared.ErrInvalidInput)
	}

	query := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("depth >= ? AND depth <= ?", minDepth, maxDepth).
		Order("depth ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.Rows()
	if err != nil {
		return fmt.Errorf("query depth range [%v, %v]: %v: %w", minDepth, maxDepth, err, shared.ErrStore)
	}
	defer rows.Close()

	for rows.Next() {
		var rec Record
		if err := s.db.ScanRows(rows, &rec); err != nil {
			return fmt.Errorf("scan frame record: %v: %w", err, shared.ErrStore)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate depth range [%v, %v]: %v: %w", minDepth, maxDepth, err, shared.ErrStore)
	}
	return nil
}

// Clear deletes every stored frame and reports how many went away.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear frames: %v: %w", result.Error, shared.ErrStore)
	}
	return result.RowsAffected, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count frames: %v: %w", err, shared.ErrStore)
	}
	return count, nil
}
