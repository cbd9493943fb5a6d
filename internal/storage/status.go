package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type StatusChange struct {
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// RecordStatus appends status for userID unless it equals the last recorded
// status. It reports whether a row was written.
func (s *Storage) RecordStatus(ctx context.Context, userID, status string, at time.Time) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var last string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM status_history WHERE user_id = ? ORDER BY id DESC LIMIT 1
	`, userID).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, err
	case last == status:
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO status_history (user_id, status, changed_at) VALUES (?, ?, ?)
	`, userID, status, at.UnixMilli()); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// StatusHistory returns the newest changes first.
func (s *Storage) StatusHistory(ctx context.Context, limit int) ([]StatusChange, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, status, changed_at FROM status_history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatusChange{}
	for rows.Next() {
		var c StatusChange
		var ms int64
		if err := rows.Scan(&c.UserID, &c.Status, &ms); err != nil {
			return nil, err
		}
		c.ChangedAt = time.UnixMilli(ms).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}
