package inventoryRepo

import (
	"context"
	"errors"
	"time"

	"deskhive/models"
)

// ErrNotFound is returned when a reservation (or invoice) does not exist,
// or when a guarded transition found no matching document.
var ErrNotFound = errors.New("reservation not found")

// InventoryRepository is the single source of truth for slot instance
// occupancy. All mutation goes through the reservation services; the
// availability engine only reads.
type InventoryRepository interface {
	// Insert stores a new reservation record (a fresh hold).
	Insert(ctx context.Context, res *models.Reservation) error

	// FindByID fetches a reservation regardless of status.
	FindByID(ctx context.Context, id string) (*models.Reservation, error)

	// FindLiveByKey returns the reservation occupying the slot instance at
	// the given time (a booked record, or a held one with expiry in the
	// future), or ErrNotFound if the instance is free.
	FindLiveByKey(ctx context.Context, key models.SlotInstanceKey, now time.Time) (*models.Reservation, error)

	// Promote transitions a reservation from held to booked in a single
	// guarded update, writing the confirmation timestamp and the
	// denormalized booking details. Returns ErrNotFound if the record is
	// no longer in held status.
	Promote(ctx context.Context, id string, confirmedAt time.Time, details *models.BookingDetails) (*models.Reservation, error)

	// DeleteHeld removes a reservation only if it is still in held status.
	// Reports whether a record was actually removed.
	DeleteHeld(ctx context.Context, id string) (bool, error)

	// ListExpiredHolds returns held reservations whose expiry has passed.
	ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Reservation, error)

	// ListForDate returns all reservations for a booking date; callers
	// filter liveness themselves via Reservation.LiveAt.
	ListForDate(ctx context.Context, date string) ([]models.Reservation, error)

	// ListByUser returns a user's booked and cancelled reservations,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)

	// CancelBooking transitions a booked reservation owned by userID to
	// cancelled. Returns ErrNotFound if no such booking exists.
	CancelBooking(ctx context.Context, id, userID string) (*models.Reservation, error)

	// InsertInvoice stores an invoice generated for a confirmed booking.
	InsertInvoice(ctx context.Context, inv *models.Invoice) error

	// FindInvoiceByBookingID fetches the invoice for a booking.
	FindInvoiceByBookingID(ctx context.Context, bookingID string) (*models.Invoice, error)
}
