// Package reaper runs the periodic share-code sweep: deactivate expired
// codes, then purge the ones past the grace period.
package reaper

import (
	"context"
	"log"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/service"
)

type Runner struct {
	cleanup  service.CleanupService
	interval time.Duration
}

func New(cleanup service.CleanupService, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Runner{cleanup: cleanup, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
// Each record update commits on its own, so stopping mid-sweep leaves
// nothing corrupted; the next sweep picks up the stragglers.
func (r *Runner) Run(ctx context.Context) {
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("cleanup task stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep deactivates before purging so a code is always observed inactive
// before it disappears.
func (r *Runner) sweep(ctx context.Context) {
	if _, err := r.cleanup.DeactivateExpired(ctx); err != nil {
		log.Printf("deactivate sweep failed: %v", err)
	}
	if _, err := r.cleanup.PurgeOld(ctx); err != nil {
		log.Printf("purge sweep failed: %v", err)
	}
}
