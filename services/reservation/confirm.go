package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	catalogRepo "deskhive/database/repository/catalog"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/models"
	"deskhive/utils"
)

// DefaultBookingService implements BookingService. Confirmation validates
// the hold against current time, then promotes it with a single guarded
// status transition so there is no window in which the slot instance is
// free or owned twice.
type DefaultBookingService struct {
	Repo     inventoryRepo.InventoryRepository
	Catalog  catalogRepo.CatalogRepository
	Notifier Notifier
	Invoices InvoiceQueuer

	now func() time.Time
}

// NewBookingService wires the confirmation service. The invoice queuer may
// be nil (invoicing disabled).
func NewBookingService(repo inventoryRepo.InventoryRepository, catalog catalogRepo.CatalogRepository, notifier Notifier, invoices InvoiceQueuer) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:     repo,
		Catalog:  catalog,
		Notifier: notifier,
		Invoices: invoices,
		now:      time.Now,
	}
}

func (s *DefaultBookingService) Confirm(ctx context.Context, bookingID string, deskID, slotID int, date, userID string) (*models.Reservation, error) {
	if bookingID == "" {
		return nil, newError(CodeValidation, "booking_id is required")
	}
	if err := validateRequest(userID, deskID, slotID, date); err != nil {
		return nil, err
	}

	key := models.SlotInstanceKey{DeskID: deskID, SlotID: slotID, Date: date}
	mu := slotLocks.lock(key)
	defer mu.Unlock()

	var hold *models.Reservation
	err := withStoreRetry(ctx, "find hold", func() error {
		var ferr error
		hold, ferr = s.Repo.FindByID(ctx, bookingID)
		return ferr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, newError(CodeHoldNotFound, "hold %s not found", bookingID)
	}
	if err != nil {
		return nil, err
	}

	if hold.Status != models.StatusHeld {
		// Already promoted (or cancelled): the hold no longer exists.
		return nil, newError(CodeHoldNotFound, "hold %s no longer exists", bookingID)
	}
	if hold.UserID != userID {
		return nil, newError(CodeHoldOwnerMismatch, "hold %s belongs to another user", bookingID)
	}
	if hold.Key() != key {
		return nil, newError(CodeSlotMismatch, "hold %s is for desk %d slot %d on %s",
			bookingID, hold.DeskID, hold.SlotID, hold.BookingDate)
	}
	// Expiry is checked against current time, never against state cached
	// at hold creation; a stale hold is void even before the sweep runs.
	if !hold.ExpiresAt.After(s.now()) {
		return nil, newError(CodeHoldExpired, "hold %s expired at %s", bookingID, hold.ExpiresAt.UTC().Format(time.RFC3339))
	}

	details, err := s.buildDetails(ctx, hold)
	if err != nil {
		return nil, err
	}

	var booked *models.Reservation
	err = withStoreRetry(ctx, "promote hold", func() error {
		var perr error
		booked, perr = s.Repo.Promote(ctx, bookingID, s.now(), details)
		return perr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		// Lost a race with expiry sweep or release since the fetch.
		return nil, newError(CodeHoldNotFound, "hold %s no longer exists", bookingID)
	}
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking confirmed",
		zap.String("bookingID", booked.ID),
		zap.String("userID", userID),
		zap.String("key", key.String()))

	s.notify()
	s.enqueueInvoice(ctx, booked.ID)
	return booked, nil
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Reservation, error) {
	if bookingID == "" {
		return nil, newError(CodeValidation, "booking_id is required")
	}
	if userID == "" {
		return nil, newError(CodeValidation, "user_id is required")
	}

	var cancelled *models.Reservation
	err := withStoreRetry(ctx, "cancel booking", func() error {
		var cerr error
		cancelled, cerr = s.Repo.CancelBooking(ctx, bookingID, userID)
		return cerr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, newError(CodeBookingNotFound, "booking %s not found for user", bookingID)
	}
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingID", bookingID), zap.String("userID", userID))

	s.notify()
	return cancelled, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Reservation, error) {
	if userID == "" {
		return nil, newError(CodeValidation, "user_id is required")
	}
	var records []models.Reservation
	err := withStoreRetry(ctx, "list bookings", func() error {
		var lerr error
		records, lerr = s.Repo.ListByUser(ctx, userID)
		return lerr
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *DefaultBookingService) GetInvoice(ctx context.Context, bookingID, userID string) (*models.Invoice, error) {
	var booking *models.Reservation
	err := withStoreRetry(ctx, "find booking", func() error {
		var ferr error
		booking, ferr = s.Repo.FindByID(ctx, bookingID)
		return ferr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, newError(CodeBookingNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, newError(CodeBookingNotFound, "booking %s not found for user", bookingID)
	}

	var inv *models.Invoice
	err = withStoreRetry(ctx, "find invoice", func() error {
		var ferr error
		inv, ferr = s.Repo.FindInvoiceByBookingID(ctx, bookingID)
		return ferr
	})
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, newError(CodeInvoiceNotReady, "invoice for booking %s is not ready yet", bookingID)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// buildDetails assembles the denormalized snapshot stored on the booking.
// A missing price is tolerated (recorded as zero); a missing desk or slot
// is not, since the hold was validated against the catalog at creation.
func (s *DefaultBookingService) buildDetails(ctx context.Context, hold *models.Reservation) (*models.BookingDetails, error) {
	desk, err := s.Catalog.GetDesk(ctx, hold.DeskID)
	if err != nil {
		return nil, newError(CodeTransientStore, "desk lookup: %v", err)
	}
	slot, err := s.Catalog.GetSlot(ctx, hold.SlotID)
	if err != nil {
		return nil, newError(CodeTransientStore, "slot lookup: %v", err)
	}

	price, err := s.Catalog.GetPrice(ctx, desk.DeskTypeID, slot.ID)
	if err != nil && !errors.Is(err, catalogRepo.ErrNotFound) {
		return nil, newError(CodeTransientStore, "price lookup: %v", err)
	}

	return &models.BookingDetails{
		DeskName:        desk.Name,
		FloorNumber:     desk.FloorNumber,
		BuildingName:    desk.BuildingName,
		BuildingAddress: desk.BuildingAddress,
		City:            desk.City,
		SlotType:        slot.SlotType,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		TimeZone:        slot.TimeZone,
		Price:           price,
	}, nil
}

func (s *DefaultBookingService) notify() {
	if s.Notifier != nil {
		s.Notifier.NotifyStateChanged()
	}
}

func (s *DefaultBookingService) enqueueInvoice(ctx context.Context, bookingID string) {
	if s.Invoices == nil {
		return
	}
	if err := s.Invoices.EnqueueInvoice(ctx, bookingID); err != nil {
		utils.GetLogger().Warn("failed to enqueue invoice task",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
