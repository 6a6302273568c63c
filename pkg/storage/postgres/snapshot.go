package postgres

import (
	"context"
	"errors"

	"metalwatch/internal/metals"
	"metalwatch/pkg/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const backend = "postgres"

// SnapshotStore keeps the last snapshot in a single fixed-id row.
type SnapshotStore struct {
	client *PostgresClient
}

func NewSnapshotStore(client *PostgresClient) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Load(ctx context.Context) (metals.Snapshot, bool, error) {
	var record SnapshotRecord
	err := s.client.DB.WithContext(ctx).
		Where("id = ?", snapshotSlot).
		Take(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return metals.Snapshot{}, false, nil
	}
	if err != nil {
		return metals.Snapshot{}, false, &storage.StoreError{Backend: backend, Op: "load", Err: err}
	}

	return metals.Snapshot{Gold: record.Gold, Silver: record.Silver}, true, nil
}

// Save upserts the slot row in one statement.
func (s *SnapshotStore) Save(ctx context.Context, snap metals.Snapshot) error {
	record := &SnapshotRecord{ID: snapshotSlot, Gold: snap.Gold, Silver: snap.Silver}

	tx := s.client.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gold", "silver", "updated_at"}),
	}).Create(record)

	if tx.Error != nil {
		return &storage.StoreError{Backend: backend, Op: "save", Err: tx.Error}
	}
	return nil
}

// Clear removes the slot row, returning the store to its first-run state.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	return s.client.DB.WithContext(ctx).
		Where("id = ?", snapshotSlot).
		Delete(&SnapshotRecord{}).Error
}
