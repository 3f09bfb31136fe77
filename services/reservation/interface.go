package reservation

import (
	"context"

	"deskhive/models"
)

// HoldService manages temporary exclusive reservations of slot instances.
type HoldService interface {
	// CreateHold places a time-bounded exclusive hold on a slot instance.
	CreateHold(ctx context.Context, userID string, deskID, slotID int, date string) (*models.Reservation, error)
	// ReleaseHold removes a hold. Idempotent: a missing hold is success.
	ReleaseHold(ctx context.Context, bookingID, userID string) error
	// HoldStatus reports whether a slot instance currently carries a live hold.
	HoldStatus(ctx context.Context, deskID, slotID int, date string) (*models.HoldStatus, error)
}

// BookingService promotes holds into confirmed bookings and serves
// booking history.
type BookingService interface {
	// Confirm atomically promotes a valid, unexpired hold owned by userID
	// into a confirmed booking.
	Confirm(ctx context.Context, bookingID string, deskID, slotID int, date, userID string) (*models.Reservation, error)
	// CancelBooking transitions a confirmed booking to cancelled, freeing
	// its slot instance.
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.Reservation, error)
	// ListUserBookings returns the user's booking history, newest first.
	ListUserBookings(ctx context.Context, userID string) ([]models.Reservation, error)
	// GetInvoice fetches the invoice generated for a confirmed booking.
	GetInvoice(ctx context.Context, bookingID, userID string) (*models.Invoice, error)
}

// Notifier is told after every inventory mutation so the live availability
// channel can re-push each subscriber's view. Implementations must never
// block the mutation path.
type Notifier interface {
	NotifyStateChanged()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func()

func (f NotifierFunc) NotifyStateChanged() { f() }

// InvoiceQueuer enqueues asynchronous invoice generation for a confirmed
// booking. Enqueue failures are logged by callers, never surfaced to the
// confirming client.
type InvoiceQueuer interface {
	EnqueueInvoice(ctx context.Context, bookingID string) error
}
