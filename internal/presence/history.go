package presence

import (
	"context"
	"time"

	"github.com/Krex381/krexdll/internal/logging"
)

// StatusRecorder persists status changes. It reports whether a row was
// written.
type StatusRecorder interface {
	RecordStatus(ctx context.Context, userID, status string, at time.Time) (bool, error)
}

// RecordHistory writes the normalised status of every snapshot to rec until
// ctx is done. Snapshots without a presence are skipped.
func RecordHistory(ctx context.Context, s *Store, rec StatusRecorder, log logging.Logger) error {
	updates, cancel := s.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-updates:
			if snap.Presence == nil {
				continue
			}
			p := *snap.Presence
			status := NormalizeStatus(p.DiscordStatus)
			changed, err := rec.RecordStatus(ctx, p.OwnerID(), status, snap.UpdatedAt)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warn(ctx, "recording status failed", "error", err)
				continue
			}
			if changed {
				log.Debug(ctx, "status changed", "status", status)
			}
		}
	}
}
