package models

import "fmt"

// Slot is a recurring booking window template attached to every desk.
// Immutable once created; it recurs per booking date.
type Slot struct {
	ID        int    `bson:"id" json:"slot_id"`
	SlotType  string `bson:"slot_type" json:"slot_type"` // e.g. "half-day", "full-day"
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
	TimeZone  string `bson:"time_zone" json:"time_zone"`
}

// SlotPrice maps a (desk type, slot) pair to its price.
type SlotPrice struct {
	DeskTypeID int     `bson:"desk_type_id" json:"desk_type_id"`
	SlotID     int     `bson:"slot_id" json:"slot_id"`
	Price      float64 `bson:"price" json:"price"`
}

// SlotInstanceKey identifies the actual bookable unit: one desk, one slot
// template, one date. It is the scope of the hold/confirm protocol.
type SlotInstanceKey struct {
	DeskID int    `bson:"desk_id" json:"desk_id"`
	SlotID int    `bson:"slot_id" json:"slot_id"`
	Date   string `bson:"booking_date" json:"booking_date"` // "YYYY-MM-DD"
}

func (k SlotInstanceKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.DeskID, k.SlotID, k.Date)
}

// Slot instance statuses as reported to clients.
const (
	SlotStatusAvailable = "available"
	SlotStatusHeld      = "held"
	SlotStatusBooked    = "booked"
)
