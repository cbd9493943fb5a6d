package storage

import (
	"context"
	"time"

	"github.com/Krex381/krexdll/internal/logging"
)

type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type VisitorStats struct {
	TotalVisitors    int64     `json:"total_visitors"`
	UniqueVisitors   int64     `json:"unique_visitors"`
	VisitorsToday    int64     `json:"visitors_today"`
	VisitorsThisWeek int64     `json:"visitors_this_week"`
	RecentVisitors   []Visitor `json:"recent_visitors"`
}

const recentVisitorsLimit = 50

// RecordVisit stores a page view. Only the hash of ip is kept.
func (s *Storage) RecordVisit(ctx context.Context, ip, userAgent, path string, at time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, at.UnixMilli())
	return err
}

// Stats aggregates visits relative to now. "Today" starts at UTC midnight.
func (s *Storage) Stats(ctx context.Context, now time.Time) (*VisitorStats, error) {
	stats := &VisitorStats{RecentVisitors: []Visitor{}}

	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.AddDate(0, 0, -7)

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors
	`, dayStart.UnixMilli(), weekStart.UnixMilli()).Scan(
		&stats.TotalVisitors, &stats.UniqueVisitors, &stats.VisitorsToday, &stats.VisitorsThisWeek)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?
	`, recentVisitorsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v Visitor
		var ms int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ms); err != nil {
			return nil, err
		}
		v.Timestamp = time.UnixMilli(ms).UTC()
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return stats, rows.Err()
}

// PruneVisits deletes visits older than before and returns how many went.
func (s *Storage) PruneVisits(ctx context.Context, before time.Time) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RunPruner deletes visits older than retention once at start and then
// every interval until ctx is done.
func (s *Storage) RunPruner(ctx context.Context, retention, every time.Duration, log logging.Logger) error {
	prune := func() {
		n, err := s.PruneVisits(ctx, time.Now().Add(-retention))
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn(ctx, "pruning visitors failed", "error", err)
		case n > 0:
			log.Info(ctx, "visitor data pruned", "deleted", n)
		}
	}

	prune()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			prune()
		}
	}
}
