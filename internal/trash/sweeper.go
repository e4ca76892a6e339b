// Package trash runs the recently-deleted expiry sweep. Entries older than
// the retention window are dropped automatically, without confirmation.
package trash

import (
	"context"
	"time"

	"github.com/dori/mindlist/internal/store"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is how often the expiry sweep runs.
const DefaultInterval = 24 * time.Hour

// Sweeper periodically dispatches the cleanup action against a store.
type Sweeper struct {
	store    *store.Store
	interval time.Duration
	log      *logrus.Entry
}

// NewSweeper creates a sweeper for the given store. A non-positive interval
// falls back to DefaultInterval.
func NewSweeper(st *store.Store, interval time.Duration, logger *logrus.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Sweeper{
		store:    st,
		interval: interval,
		log:      logger.WithField("component", "trash"),
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
// Blocks; run it in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	s.SweepOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce drops expired trash entries and logs how many were removed.
func (s *Sweeper) SweepOnce() {
	before := len(s.store.State().RecentlyDeleted)
	after := len(s.store.Dispatch(store.CleanupOldDeletedItems{Now: time.Now()}).RecentlyDeleted)
	if removed := before - after; removed > 0 {
		s.log.WithField("removed", removed).Info("expired trash entries purged")
	}
}
