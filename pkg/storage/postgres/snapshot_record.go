package postgres

import "time"

// snapshotSlot is the primary key of the only row the table ever holds.
const snapshotSlot = 1

// SnapshotRecord is the last observed price snapshot.
type SnapshotRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false"`
	Gold      float64   `gorm:"type:double precision;not null"`
	Silver    float64   `gorm:"type:double precision;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name for GORM.
func (SnapshotRecord) TableName() string {
	return "price_snapshot"
}
