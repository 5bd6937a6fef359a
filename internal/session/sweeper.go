package session

import (
	"context"
	"time"
)

// SweeperConfig holds configuration for the idle session sweeper.
type SweeperConfig struct {
	// MaxIdle is how long a session may go without a lookup before it is
	// closed. Zero disables sweeping.
	MaxIdle time.Duration

	// Interval defines how often to check for idle sessions.
	// If zero, defaults to one minute.
	Interval time.Duration
}

// Sweep closes and forgets every session untouched for longer than maxIdle.
// Sessions with a request in flight are kept regardless of age. It returns
// the number of sessions removed.
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.cfg.Now().Add(-maxIdle)

	r.mu.Lock()
	var expired []closer
	for id, e := range r.sessions {
		if !e.touched.Before(cutoff) || e.session.Status().InFlight() {
			continue
		}
		expired = append(expired, e.session)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.cfg.Logger.DebugContext(ctx, "closing idle session",
			"session_id", s.ID(),
			"session_kind", string(s.Kind()))
		s.Close(ctx)
	}
	return len(expired)
}

// RunSweeper periodically removes idle sessions until ctx is canceled.
// It always returns nil so it can run inside an errgroup next to the server.
func (r *Registry) RunSweeper(ctx context.Context, cfg SweeperConfig) error {
	if cfg.MaxIdle <= 0 {
		return nil
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(ctx, cfg.MaxIdle); n > 0 {
				r.cfg.Logger.InfoContext(ctx, "swept idle sessions",
					"count", n,
					"remaining", r.Len())
			}
		}
	}
}
