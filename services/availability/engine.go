package availability

import (
	"context"
	"sort"
	"time"

	catalogRepo "deskhive/database/repository/catalog"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/models"
)

// QueryEngine computes filtered availability views.
type QueryEngine interface {
	// Evaluate joins the desk catalog with live reservation state for the
	// filter's booking date. Empty filter dimensions impose no
	// restriction; dimensions combine with AND. Pure read.
	Evaluate(ctx context.Context, filters models.FilterCriteria) (*models.AvailabilitySnapshot, error)
}

// DefaultQueryEngine implements QueryEngine against the catalog and
// inventory repositories. Slot status is computed at query time from
// current reservation state, never cached: an expired hold counts as
// available even before the sweep removes it.
type DefaultQueryEngine struct {
	Catalog   catalogRepo.CatalogRepository
	Inventory inventoryRepo.InventoryRepository

	now func() time.Time
}

func NewQueryEngine(catalog catalogRepo.CatalogRepository, inventory inventoryRepo.InventoryRepository) *DefaultQueryEngine {
	return &DefaultQueryEngine{
		Catalog:   catalog,
		Inventory: inventory,
		now:       time.Now,
	}
}

func (e *DefaultQueryEngine) Evaluate(ctx context.Context, filters models.FilterCriteria) (*models.AvailabilitySnapshot, error) {
	date := filters.BookingDate
	if date == "" {
		date = e.now().Format("2006-01-02")
	}

	desks, err := e.Catalog.ListDesks(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := e.Catalog.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := e.Catalog.ListPrices(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := e.Inventory.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	now := e.now()
	occupancy := make(map[models.SlotInstanceKey]string, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		if !r.LiveAt(now) {
			continue
		}
		key := r.Key()
		// A booked record wins over anything else on the same key.
		if r.Status == models.StatusBooked || occupancy[key] == "" {
			occupancy[key] = statusFor(r)
		}
	}

	priceBy := make(map[[2]int]float64, len(prices))
	for _, p := range prices {
		priceBy[[2]int{p.DeskTypeID, p.SlotID}] = p.Price
	}

	snapshot := &models.AvailabilitySnapshot{Desks: []models.DeskAvailability{}}
	for _, desk := range desks {
		if !filters.MatchesDesk(desk) {
			continue
		}

		entry := models.DeskAvailability{Desk: desk}
		for _, slot := range slots {
			if !filters.MatchesSlot(slot) {
				continue
			}

			key := models.SlotInstanceKey{DeskID: desk.ID, SlotID: slot.ID, Date: date}
			status := occupancy[key]
			if status == "" {
				status = models.SlotStatusAvailable
			}

			entry.Slots = append(entry.Slots, models.SlotAvailability{
				SlotID:    slot.ID,
				SlotType:  slot.SlotType,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				TimeZone:  slot.TimeZone,
				Status:    status,
				Price:     priceBy[[2]int{desk.DeskTypeID, slot.ID}],
			})
		}
		sort.Slice(entry.Slots, func(i, j int) bool {
			return entry.Slots[i].SlotID < entry.Slots[j].SlotID
		})
		snapshot.Desks = append(snapshot.Desks, entry)
	}

	sort.Slice(snapshot.Desks, func(i, j int) bool {
		return snapshot.Desks[i].ID < snapshot.Desks[j].ID
	})
	return snapshot, nil
}

func statusFor(r *models.Reservation) string {
	if r.Status == models.StatusBooked {
		return models.SlotStatusBooked
	}
	return models.SlotStatusHeld
}
