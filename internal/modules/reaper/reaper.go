package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"appointments/internal/pkg/logger"
)

// Purger deletes holds whose expiry is at or before ref.
type Purger interface {
	PurgeExpired(ctx context.Context, ref time.Time) (int64, error)
}

// Gate decides whether an opportunistic purge may run at now.
type Gate interface {
	Allow(ctx context.Context, now time.Time) bool
}

// Reaper removes expired holds. It never runs on a schedule: hot paths call
// MaybePurge, and correctness never depends on it because every hold read
// filters on expires_at > now.
type Reaper struct {
	purger Purger
	gate   Gate
	log    *zap.Logger
}

func New(purger Purger, gate Gate, log *zap.Logger) *Reaper {
	return &Reaper{purger: purger, gate: gate, log: logger.OrNop(log)}
}

// PurgeExpired deletes every hold expired at ref, ignoring the gate.
func (r *Reaper) PurgeExpired(ctx context.Context, ref time.Time) (int64, error) {
	n, err := r.purger.PurgeExpired(ctx, ref)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.log.Debug("expired holds purged", zap.Int64("count", n), zap.Time("ref", ref))
	}
	return n, nil
}

// MaybePurge purges when the gate allows it. Failures are logged and swallowed.
func (r *Reaper) MaybePurge(ctx context.Context, now time.Time) {
	if r == nil || !r.gate.Allow(ctx, now) {
		return
	}
	if _, err := r.PurgeExpired(ctx, now); err != nil {
		r.log.Warn("expired hold purge failed", zap.Error(err))
	}
}
