package models

import "time"

// Reservation statuses. A reservation starts life as a hold and is either
// promoted to booked, cancelled, or removed by expiry.
const (
	StatusHeld      = "held"
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// Reservation is a row in the booking transactions collection. While the
// status is "held" it is a time-bounded exclusive hold; once promoted to
// "booked" it is a permanent booking. The promotion is a single status
// transition so the slot instance is never observable as free in between.
type Reservation struct {
	ID          string          `bson:"id" json:"booking_id"`
	UserID      string          `bson:"user_id" json:"user_id"`
	DeskID      int             `bson:"desk_id" json:"desk_id"`
	SlotID      int             `bson:"slot_id" json:"slot_id"`
	BookingDate string          `bson:"booking_date" json:"booking_date"`
	Status      string          `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time       `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	ConfirmedAt time.Time       `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	Details     *BookingDetails `bson:"details,omitempty" json:"details,omitempty"`
}

// Key returns the slot instance this reservation occupies.
func (r *Reservation) Key() SlotInstanceKey {
	return SlotInstanceKey{DeskID: r.DeskID, SlotID: r.SlotID, Date: r.BookingDate}
}

// LiveAt reports whether the reservation occupies its slot instance at the
// given time. A booked reservation is always live; a held one only until
// its expiry, whether or not the sweep has removed it yet.
func (r *Reservation) LiveAt(now time.Time) bool {
	switch r.Status {
	case StatusBooked:
		return true
	case StatusHeld:
		return r.ExpiresAt.After(now)
	default:
		return false
	}
}

// BookingDetails is the denormalized snapshot written at confirmation time
// so invoices and history render without re-joining the catalog.
type BookingDetails struct {
	DeskName        string  `bson:"desk_name" json:"desk_name"`
	FloorNumber     int     `bson:"floor_number" json:"floor_number"`
	BuildingName    string  `bson:"building_name" json:"building_name"`
	BuildingAddress string  `bson:"building_address" json:"building_address"`
	City            string  `bson:"city" json:"city"`
	SlotType        string  `bson:"slot_type" json:"slot_type"`
	StartTime       string  `bson:"start_time" json:"start_time"`
	EndTime         string  `bson:"end_time" json:"end_time"`
	TimeZone        string  `bson:"time_zone" json:"time_zone"`
	Price           float64 `bson:"price" json:"price"`
}

// HoldReceipt is returned to the client that placed a hold.
type HoldReceipt struct {
	BookingID string    `json:"booking_id"`
	DeskID    int       `json:"desk_id"`
	SlotID    int       `json:"slot_id"`
	Date      string    `json:"booking_date"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HoldStatus reports whether a slot instance is currently on hold.
type HoldStatus struct {
	IsHeld     bool   `json:"is_held"`
	HeldByUser string `json:"held_by,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Invoice is generated asynchronously after a booking is confirmed.
type Invoice struct {
	InvoiceID string    `bson:"invoice_id" json:"invoice_id"`
	BookingID string    `bson:"booking_id" json:"booking_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Amount    float64   `bson:"amount" json:"amount"`
	Status    string    `bson:"status" json:"status"` // e.g. "issued"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
