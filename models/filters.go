package models

// FilterCriteria is a client's view filter. An empty slice (or zero value)
// for a dimension means no restriction on that dimension; dimensions are
// combined with AND.
type FilterCriteria struct {
	LocationIDs  []string `json:"location_ids"`
	DeskTypeIDs  []int    `json:"desk_type_ids"`
	SlotTypeIDs  []int    `json:"slot_type_ids"`
	BookingDate  string   `json:"booking_date"`
}

// MatchesDesk applies the desk-level dimensions (location, desk type).
func (f FilterCriteria) MatchesDesk(d Desk) bool {
	if len(f.LocationIDs) > 0 && !containsString(f.LocationIDs, d.LocationID) {
		return false
	}
	if len(f.DeskTypeIDs) > 0 && !containsInt(f.DeskTypeIDs, d.DeskTypeID) {
		return false
	}
	return true
}

// MatchesSlot applies the slot-level dimension.
func (f FilterCriteria) MatchesSlot(s Slot) bool {
	return len(f.SlotTypeIDs) == 0 || containsInt(f.SlotTypeIDs, s.ID)
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// SlotAvailability is one slot's live state within a desk payload.
type SlotAvailability struct {
	SlotID    int     `json:"slot_id"`
	SlotType  string  `json:"slot_type"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	TimeZone  string  `json:"time_zone"`
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
}

// DeskAvailability is one desk with the live state of all its slots for a
// given booking date. This is the unit of the desk_update stream payload.
type DeskAvailability struct {
	Desk  `json:",inline"`
	Slots []SlotAvailability `json:"slots"`
}

// AvailabilitySnapshot is the payload pushed over the live channel and
// returned by the HTTP availability endpoint.
type AvailabilitySnapshot struct {
	Desks []DeskAvailability `json:"desks"`
}
