package frame

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is the per-frame statistics block stored alongside the
// compressed buffers. Statistics are computed over the resized row
// before compression; the ratios are informational.
type Metadata struct {
	Min                      float64 `json:"min"`
	Max                      float64 `json:"max"`
	Mean                     float64 `json:"mean"`
	Std                      float64 `json:"std"`
	CompressionRatioOriginal float64 `json:"compression_ratio_original"`
	CompressionRatioResized  float64 `json:"compression_ratio_resized"`
}

func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", value)
	}

	return json.Unmarshal(bytes, m)
}

// Record is one persisted frame: a depth key plus two independently
// compressed buffers. Records are immutable after ingestion; the only
// delete path is the bulk clear.
type Record struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Depth        float64  `gorm:"type:numeric(10,2);not null;index:idx_depth_range" json:"depth"`
	OriginalData []byte   `gorm:"type:bytea;not null" json:"-"`
	ResizedData  []byte   `gorm:"type:bytea;not null" json:"-"`
	Metadata     Metadata `gorm:"column:metadata;type:json;not null" json:"metadata"`
}

func (Record) TableName() string {
	return "image_frames"
}
