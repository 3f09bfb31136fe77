package reservation

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/utils"
)

// Sweeper removes expired holds in the background. Expiry itself is
// enforced at read time everywhere (a stale hold is never confirmable and
// never shows as held); the sweep only reclaims storage and triggers the
// availability push that flips swept slots back to available.
type Sweeper struct {
	Repo     inventoryRepo.InventoryRepository
	Notifier Notifier
	Interval time.Duration

	now     func() time.Time
	running atomic.Bool
}

// NewSweeper wires an expiry sweeper sharing the slot instance locks with
// the hold and confirmation services.
func NewSweeper(repo inventoryRepo.InventoryRepository, notifier Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		Repo:     repo,
		Notifier: notifier,
		Interval: interval,
		now:      time.Now,
	}
}

// Run blocks, sweeping on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	logger := utils.GetLogger()
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	logger.Info("expiry sweeper started", zap.Duration("interval", s.Interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single pass and returns how many holds it removed.
// Overlapping passes coalesce: if one is already in flight the call is a
// no-op. Per-record failures are logged and skipped, never aborting the
// pass.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	if !s.running.CompareAndSwap(false, true) {
		return 0
	}
	defer s.running.Store(false)

	logger := utils.GetLogger()
	expired, err := s.Repo.ListExpiredHolds(ctx, s.now())
	if err != nil {
		logger.Warn("expiry sweep: listing expired holds failed", zap.Error(err))
		return 0
	}

	removed := 0
	for i := range expired {
		hold := &expired[i]
		mu := slotLocks.lock(hold.Key())
		ok, err := s.Repo.DeleteHeld(ctx, hold.ID)
		mu.Unlock()
		if err != nil {
			logger.Warn("expiry sweep: delete failed",
				zap.String("bookingID", hold.ID), zap.Error(err))
			continue
		}
		if ok {
			removed++
			logger.Debug("expired hold swept",
				zap.String("bookingID", hold.ID), zap.String("key", hold.Key().String()))
		}
	}

	if removed > 0 {
		logger.Info("expiry sweep removed holds", zap.Int("count", removed))
		if s.Notifier != nil {
			s.Notifier.NotifyStateChanged()
		}
	}
	return removed
}
