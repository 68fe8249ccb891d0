package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Transition is a single persisted membership change.
type Transition struct {
	ID         int64     `db:"id"`
	Scope      string    `db:"scope"`
	ChatID     int64     `db:"chat_id"`
	UserID     int64     `db:"user_id"`
	Username   string    `db:"username"`
	OldStatus  string    `db:"old_status"`
	NewStatus  string    `db:"new_status"`
	ObservedAt time.Time `db:"observed_at"`
}

// StatusCount aggregates transitions by their resulting status.
type StatusCount struct {
	NewStatus string `db:"new_status"`
	Count     int64  `db:"count"`
}

// SQLStore persists transitions in Postgres.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// InsertTransition appends one transition to the journal.
func (s *SQLStore) InsertTransition(ctx context.Context, t *Transition) error {
	if t == nil {
		return fmt.Errorf("audit: nil transition")
	}
	if t.ObservedAt.IsZero() {
		t.ObservedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO member_transitions
			(scope, chat_id, user_id, username, old_status, new_status, observed_at)
		VALUES
			(:scope, :chat_id, :user_id, :username, :old_status, :new_status, :observed_at)`
	if _, err := s.db.NamedExecContext(ctx, q, t); err != nil {
		return fmt.Errorf("audit: insert transition: %w", err)
	}
	return nil
}

// RecentByChat returns the newest transitions observed in a chat.
func (s *SQLStore) RecentByChat(ctx context.Context, chatID int64, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
		SELECT id, scope, chat_id, user_id, username, old_status, new_status, observed_at
		FROM member_transitions
		WHERE chat_id = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT $2`
	var out []Transition
	if err := s.db.SelectContext(ctx, &out, q, chatID, limit); err != nil {
		return nil, fmt.Errorf("audit: select recent: %w", err)
	}
	return out, nil
}

// CountByStatus aggregates a chat's journal by resulting status.
func (s *SQLStore) CountByStatus(ctx context.Context, chatID int64) ([]StatusCount, error) {
	const q = `
		SELECT new_status, COUNT(*) AS count
		FROM member_transitions
		WHERE chat_id = $1
		GROUP BY new_status
		ORDER BY new_status`
	var out []StatusCount
	if err := s.db.SelectContext(ctx, &out, q, chatID); err != nil {
		return nil, fmt.Errorf("audit: count by status: %w", err)
	}
	return out, nil
}
