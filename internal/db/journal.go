package db

import (
	"context"
	"fmt"
	"time"

	"steward/internal/lifecycle"

	"github.com/google/uuid"
)

// Transition is a recorded lifecycle transition
type Transition struct {
	ID         string    `db:"id" json:"id"`
	FromStatus string    `db:"from_status" json:"from"`
	ToStatus   string    `db:"to_status" json:"to"`
	Note       string    `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TransitionLister is the read side of the journal, consumed by the server.
type TransitionLister interface {
	Recent(ctx context.Context, limit int) ([]*Transition, error)
}

// TransitionRepo stores lifecycle transitions. It implements
// lifecycle.Journal on the write side.
type TransitionRepo struct {
	db *DB
}

// NewTransitionRepo creates a new transition repository
func NewTransitionRepo(db *DB) *TransitionRepo {
	return &TransitionRepo{db: db}
}

// Record inserts a transition row
func (r *TransitionRepo) Record(ctx context.Context, from, to lifecycle.Status, note string) error {
	if !r.db.Connected() {
		return fmt.Errorf("database is not connected")
	}

	query := r.db.pool.Rebind(`
		INSERT INTO transitions (id, from_status, to_status, note, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.pool.ExecContext(ctx, query,
		uuid.New().String(), string(from), string(to), note, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}

	return nil
}

// Recent returns the most recent transitions, newest first
func (r *TransitionRepo) Recent(ctx context.Context, limit int) ([]*Transition, error) {
	if !r.db.Connected() {
		return nil, fmt.Errorf("database is not connected")
	}
	if limit <= 0 {
		limit = 50
	}

	query := r.db.pool.Rebind(`
		SELECT id, from_status, to_status, note, created_at
		FROM transitions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)

	var transitions []*Transition
	if err := r.db.pool.SelectContext(ctx, &transitions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}

	return transitions, nil
}
