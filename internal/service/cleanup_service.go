package service

import (
	"context"
	"log"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/clock"
	"github.com/Kyle-Pantig/catalog/internal/repository"
)

// PurgeGracePeriod is how long an expired code is kept around (for audit and
// debugging) before it is deleted for good.
const PurgeGracePeriod = 7 * 24 * time.Hour

type CleanupService interface {
	// DeactivateExpired flips is_active off on every expired code. Safe to
	// re-run; a second pass finds nothing.
	DeactivateExpired(ctx context.Context) (int, error)
	// PurgeOld hard-deletes codes whose expiration lies further back than
	// the grace period.
	PurgeOld(ctx context.Context) (int, error)
}

type cleanupService struct {
	codeRepo repository.ShareCodeRepository
	clk      clock.Clock
}

func NewCleanupService(codeRepo repository.ShareCodeRepository, clk clock.Clock) CleanupService {
	return &cleanupService{codeRepo: codeRepo, clk: clk}
}

func (s *cleanupService) DeactivateExpired(ctx context.Context) (int, error) {
	now := s.clk.Now()
	codes, err := s.codeRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for i := range codes {
		code := &codes[i]
		if code.ExpiresAt == nil || !clock.Normalize(*code.ExpiresAt).Before(now) {
			continue
		}
		if err := s.codeRepo.Deactivate(ctx, code.ID); err != nil {
			log.Printf("failed to deactivate share code %s: %v", code.ID, err)
			continue
		}
		deactivated++
	}
	if deactivated > 0 {
		log.Printf("deactivated %d expired share codes", deactivated)
	}
	return deactivated, nil
}

func (s *cleanupService) PurgeOld(ctx context.Context) (int, error) {
	cutoff := s.clk.Now().Add(-PurgeGracePeriod)
	codes, err := s.codeRepo.FindWithExpiry(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range codes {
		code := &codes[i]
		if code.ExpiresAt == nil || !clock.Normalize(*code.ExpiresAt).Before(cutoff) {
			continue
		}
		if err := s.codeRepo.Delete(ctx, code.ID); err != nil {
			log.Printf("failed to delete share code %s: %v", code.ID, err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		log.Printf("cleaned up %d share codes expired before %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}
