// Package storage defines the single-slot snapshot store shared by every backend.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"metalwatch/internal/metals"
)

// Store keeps the most recent price snapshot. There is exactly one slot:
// Save overwrites it wholesale and Load reports ok=false while it is empty.
type Store interface {
	Load(ctx context.Context) (snap metals.Snapshot, ok bool, err error)
	Save(ctx context.Context, snap metals.Snapshot) error
}

// StoreError wraps a backend failure, including a stored record that is not a valid snapshot.
type StoreError struct {
	Backend string
	Op      string // "load" or "save"
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DecodeSnapshot parses the persisted record {"gold": <number>, "silver": <number>}.
// Both fields are required so a truncated or foreign record is not read as zero prices.
func DecodeSnapshot(data []byte) (metals.Snapshot, error) {
	var raw struct {
		Gold   *float64 `json:"gold"`
		Silver *float64 `json:"silver"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return metals.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if raw.Gold == nil || raw.Silver == nil {
		return metals.Snapshot{}, errors.New("decode snapshot: gold and silver are required")
	}
	return metals.Snapshot{Gold: *raw.Gold, Silver: *raw.Silver}, nil
}
