// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/checkin/internal/ports/secondary"
)

// SlotRepository implements secondary.SlotStore with SQLite.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository creates a new SQLite slot repository.
func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Read retrieves a slot payload by name.
func (r *SlotRepository) Read(ctx context.Context, name string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE name = ?",
		name,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", name, err)
	}

	return value, true, nil
}

// Write replaces a slot payload, creating the slot if needed.
func (r *SlotRepository) Write(ctx context.Context, name string, payload []byte) error {
	if payload == nil {
		payload = []byte{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		name, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}

	return nil
}

// Ensure SlotRepository implements the interface
var _ secondary.SlotStore = (*SlotRepository)(nil)
