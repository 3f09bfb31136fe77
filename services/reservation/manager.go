package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogRepo "deskhive/database/repository/catalog"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/models"
	"deskhive/utils"
)

// DefaultHoldService implements HoldService against the inventory store.
// The check-and-insert on a slot instance runs under that instance's
// stripe of the key lock, so two concurrent holds on the same
// (desk, slot, date) cannot both succeed.
type DefaultHoldService struct {
	Repo     inventoryRepo.InventoryRepository
	Catalog  catalogRepo.CatalogRepository
	Notifier Notifier
	TTL      time.Duration

	now func() time.Time
}

// NewHoldService wires a hold manager with the configured TTL.
func NewHoldService(repo inventoryRepo.InventoryRepository, catalog catalogRepo.CatalogRepository, notifier Notifier, ttl time.Duration) *DefaultHoldService {
	return &DefaultHoldService{
		Repo:     repo,
		Catalog:  catalog,
		Notifier: notifier,
		TTL:      ttl,
		now:      time.Now,
	}
}

func (s *DefaultHoldService) CreateHold(ctx context.Context, userID string, deskID, slotID int, date string) (*models.Reservation, error) {
	if err := validateRequest(userID, deskID, slotID, date); err != nil {
		return nil, err
	}

	// The tuple must identify an existing slot instance.
	if _, err := s.Catalog.GetDesk(ctx, deskID); err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, newError(CodeValidation, "unknown desk %d", deskID)
		}
		return nil, newError(CodeTransientStore, "desk lookup: %v", err)
	}
	if _, err := s.Catalog.GetSlot(ctx, slotID); err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, newError(CodeValidation, "unknown slot %d", slotID)
		}
		return nil, newError(CodeTransientStore, "slot lookup: %v", err)
	}

	key := models.SlotInstanceKey{DeskID: deskID, SlotID: slotID, Date: date}
	mu := slotLocks.lock(key)
	defer mu.Unlock()

	now := s.now()

	err := withStoreRetry(ctx, "find live reservation", func() error {
		_, err := s.Repo.FindLiveByKey(ctx, key, now)
		return err
	})
	switch {
	case err == nil:
		return nil, newError(CodeSlotUnavailable, "desk %d slot %d on %s is already held or booked", deskID, slotID, date)
	case !errors.Is(err, inventoryRepo.ErrNotFound):
		return nil, err
	}

	hold := &models.Reservation{
		ID:          uuid.New().String(),
		UserID:      userID,
		DeskID:      deskID,
		SlotID:      slotID,
		BookingDate: date,
		Status:      models.StatusHeld,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.TTL),
	}
	if err := withStoreRetry(ctx, "insert hold", func() error {
		return s.Repo.Insert(ctx, hold)
	}); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("hold created",
		zap.String("bookingID", hold.ID),
		zap.String("userID", userID),
		zap.String("key", key.String()),
		zap.Time("expiresAt", hold.ExpiresAt))

	s.notify()
	return hold, nil
}

// ReleaseHold removes a hold. The original holder may always release;
// anyone may clear a hold that has already expired. A hold that no longer
// exists is treated as released.
func (s *DefaultHoldService) ReleaseHold(ctx context.Context, bookingID, userID string) error {
	if bookingID == "" {
		return newError(CodeValidation, "booking_id is required")
	}

	var res *models.Reservation
	err := withStoreRetry(ctx, "find hold", func() error {
		var ferr error
		res, ferr = s.Repo.FindByID(ctx, bookingID)
		return ferr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil // already released, expired, or confirmed away
	}
	if err != nil {
		return err
	}
	if res.Status != models.StatusHeld {
		return nil
	}

	now := s.now()
	if res.UserID != userID && res.ExpiresAt.After(now) {
		return newError(CodeHoldOwnerMismatch, "hold %s belongs to another user", bookingID)
	}

	mu := slotLocks.lock(res.Key())
	defer mu.Unlock()

	var removed bool
	if err := withStoreRetry(ctx, "delete hold", func() error {
		var derr error
		removed, derr = s.Repo.DeleteHeld(ctx, bookingID)
		return derr
	}); err != nil {
		return err
	}

	if removed {
		utils.GetLogger().Info("hold released",
			zap.String("bookingID", bookingID), zap.String("userID", userID))
		s.notify()
	}
	return nil
}

func (s *DefaultHoldService) HoldStatus(ctx context.Context, deskID, slotID int, date string) (*models.HoldStatus, error) {
	if err := validateKey(deskID, slotID, date); err != nil {
		return nil, err
	}

	key := models.SlotInstanceKey{DeskID: deskID, SlotID: slotID, Date: date}
	var res *models.Reservation
	err := withStoreRetry(ctx, "find live reservation", func() error {
		var ferr error
		res, ferr = s.Repo.FindLiveByKey(ctx, key, s.now())
		return ferr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return &models.HoldStatus{IsHeld: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if res.Status != models.StatusHeld {
		return &models.HoldStatus{IsHeld: false}, nil
	}
	return &models.HoldStatus{
		IsHeld:     true,
		HeldByUser: res.UserID,
		ExpiresAt:  res.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *DefaultHoldService) notify() {
	if s.Notifier != nil {
		s.Notifier.NotifyStateChanged()
	}
}

func validateRequest(userID string, deskID, slotID int, date string) error {
	if userID == "" {
		return newError(CodeValidation, "user_id is required")
	}
	return validateKey(deskID, slotID, date)
}

func validateKey(deskID, slotID int, date string) error {
	if deskID <= 0 {
		return newError(CodeValidation, "desk_id must be positive")
	}
	if slotID <= 0 {
		return newError(CodeValidation, "slot_id must be positive")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return newError(CodeValidation, "booking_date must be YYYY-MM-DD")
	}
	return nil
}
