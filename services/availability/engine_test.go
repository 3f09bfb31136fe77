package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogRepo "deskhive/database/repository/catalog"
	"deskhive/models"
)

const testDate = "2025-06-02"

type stubCatalog struct {
	desks  []models.Desk
	slots  []models.Slot
	prices []models.SlotPrice
}

func (s *stubCatalog) ListDesks(ctx context.Context) ([]models.Desk, error) { return s.desks, nil }
func (s *stubCatalog) GetDesk(ctx context.Context, deskID int) (*models.Desk, error) {
	for i := range s.desks {
		if s.desks[i].ID == deskID {
			return &s.desks[i], nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}
func (s *stubCatalog) ListSlots(ctx context.Context) ([]models.Slot, error) { return s.slots, nil }
func (s *stubCatalog) GetSlot(ctx context.Context, slotID int) (*models.Slot, error) {
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			return &s.slots[i], nil
		}
	}
	return nil, catalogRepo.ErrNotFound
}
func (s *stubCatalog) ListDeskTypes(ctx context.Context) ([]models.DeskType, error) {
	return nil, nil
}
func (s *stubCatalog) ListLocations(ctx context.Context) ([]models.Location, error) {
	return nil, nil
}
func (s *stubCatalog) ListPrices(ctx context.Context) ([]models.SlotPrice, error) {
	return s.prices, nil
}
func (s *stubCatalog) GetPrice(ctx context.Context, deskTypeID, slotID int) (float64, error) {
	for _, p := range s.prices {
		if p.DeskTypeID == deskTypeID && p.SlotID == slotID {
			return p.Price, nil
		}
	}
	return 0, catalogRepo.ErrNotFound
}

type stubInventory struct {
	reservations []models.Reservation
}

func (s *stubInventory) Insert(ctx context.Context, res *models.Reservation) error { return nil }
func (s *stubInventory) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) FindLiveByKey(ctx context.Context, key models.SlotInstanceKey, now time.Time) (*models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) Promote(ctx context.Context, id string, confirmedAt time.Time, details *models.BookingDetails) (*models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) DeleteHeld(ctx context.Context, id string) (bool, error) { return false, nil }
func (s *stubInventory) ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) ListForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range s.reservations {
		if r.BookingDate == date {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *stubInventory) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) CancelBooking(ctx context.Context, id, userID string) (*models.Reservation, error) {
	return nil, nil
}
func (s *stubInventory) InsertInvoice(ctx context.Context, inv *models.Invoice) error { return nil }
func (s *stubInventory) FindInvoiceByBookingID(ctx context.Context, bookingID string) (*models.Invoice, error) {
	return nil, nil
}

func testEngine(reservations []models.Reservation) *DefaultQueryEngine {
	catalog := &stubCatalog{
		desks: []models.Desk{
			{ID: 1, Name: "Desk A", DeskTypeID: 1, LocationID: "blr"},
			{ID: 2, Name: "Desk B", DeskTypeID: 2, LocationID: "pnq"},
		},
		slots: []models.Slot{
			{ID: 1, SlotType: "Morning"},
			{ID: 2, SlotType: "Full Day"},
		},
		prices: []models.SlotPrice{
			{DeskTypeID: 1, SlotID: 1, Price: 150},
			{DeskTypeID: 1, SlotID: 2, Price: 300},
			{DeskTypeID: 2, SlotID: 1, Price: 200},
		},
	}
	engine := NewQueryEngine(catalog, &stubInventory{reservations: reservations})
	engine.now = func() time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	}
	return engine
}

func slotStatus(t *testing.T, snap *models.AvailabilitySnapshot, deskID, slotID int) string {
	t.Helper()
	for _, d := range snap.Desks {
		if d.ID != deskID {
			continue
		}
		for _, s := range d.Slots {
			if s.SlotID == slotID {
				return s.Status
			}
		}
	}
	t.Fatalf("desk %d slot %d not in snapshot", deskID, slotID)
	return ""
}

func TestEvaluateEmptyFiltersShowsEverything(t *testing.T) {
	engine := testEngine(nil)

	snap, err := engine.Evaluate(context.Background(), models.FilterCriteria{BookingDate: testDate})
	require.NoError(t, err)

	require.Len(t, snap.Desks, 2)
	for _, d := range snap.Desks {
		require.Len(t, d.Slots, 2)
		for _, s := range d.Slots {
			assert.Equal(t, models.SlotStatusAvailable, s.Status)
		}
	}
}

func TestEvaluateStatuses(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	engine := testEngine([]models.Reservation{
		{ID: "h1", UserID: "u1", DeskID: 1, SlotID: 1, BookingDate: testDate,
			Status: models.StatusHeld, ExpiresAt: now.Add(time.Minute)},
		{ID: "b1", UserID: "u2", DeskID: 1, SlotID: 2, BookingDate: testDate,
			Status: models.StatusBooked},
		{ID: "h2", UserID: "u3", DeskID: 2, SlotID: 1, BookingDate: testDate,
			Status: models.StatusHeld, ExpiresAt: now.Add(-time.Minute)},
		{ID: "c1", UserID: "u4", DeskID: 2, SlotID: 2, BookingDate: testDate,
			Status: models.StatusCancelled},
	})

	snap, err := engine.Evaluate(context.Background(), models.FilterCriteria{BookingDate: testDate})
	require.NoError(t, err)

	assert.Equal(t, models.SlotStatusHeld, slotStatus(t, snap, 1, 1))
	assert.Equal(t, models.SlotStatusBooked, slotStatus(t, snap, 1, 2))
	// An expired hold reads available even before the sweep removes it.
	assert.Equal(t, models.SlotStatusAvailable, slotStatus(t, snap, 2, 1))
	// Cancelled bookings free the slot.
	assert.Equal(t, models.SlotStatusAvailable, slotStatus(t, snap, 2, 2))
}

func TestEvaluateFilters(t *testing.T) {
	engine := testEngine(nil)

	snap, err := engine.Evaluate(context.Background(), models.FilterCriteria{
		LocationIDs: []string{"blr"},
		BookingDate: testDate,
	})
	require.NoError(t, err)
	require.Len(t, snap.Desks, 1)
	assert.Equal(t, 1, snap.Desks[0].ID)

	snap, err = engine.Evaluate(context.Background(), models.FilterCriteria{
		DeskTypeIDs: []int{2},
		SlotTypeIDs: []int{1},
		BookingDate: testDate,
	})
	require.NoError(t, err)
	require.Len(t, snap.Desks, 1)
	assert.Equal(t, 2, snap.Desks[0].ID)
	require.Len(t, snap.Desks[0].Slots, 1)
	assert.Equal(t, 1, snap.Desks[0].Slots[0].SlotID)
	assert.Equal(t, 200.0, snap.Desks[0].Slots[0].Price)

	// Filters that match nothing yield an empty list, not an error.
	snap, err = engine.Evaluate(context.Background(), models.FilterCriteria{
		LocationIDs: []string{"nyc"},
		BookingDate: testDate,
	})
	require.NoError(t, err)
	assert.Empty(t, snap.Desks)
}

func TestEvaluateDateDefaultsToToday(t *testing.T) {
	engine := testEngine([]models.Reservation{
		{ID: "b1", UserID: "u1", DeskID: 1, SlotID: 1, BookingDate: testDate,
			Status: models.StatusBooked},
	})

	snap, err := engine.Evaluate(context.Background(), models.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusBooked, slotStatus(t, snap, 1, 1))
}
