package reservation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	catalogRepo "deskhive/database/repository/catalog"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/models"
)

// fakeClock is a controllable time source shared by services under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeInventoryRepo is an in-memory InventoryRepository.
type fakeInventoryRepo struct {
	mu       sync.Mutex
	records  map[string]models.Reservation
	invoices map[string]models.Invoice
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		records:  make(map[string]models.Reservation),
		invoices: make(map[string]models.Invoice),
	}
}

func (f *fakeInventoryRepo) Insert(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[res.ID] = *res
	return nil
}

func (f *fakeInventoryRepo) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, inventoryRepo.ErrNotFound
	}
	return &r, nil
}

func (f *fakeInventoryRepo) FindLiveByKey(ctx context.Context, key models.SlotInstanceKey, now time.Time) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Key() == key && r.LiveAt(now) {
			out := r
			return &out, nil
		}
	}
	return nil, inventoryRepo.ErrNotFound
}

func (f *fakeInventoryRepo) Promote(ctx context.Context, id string, confirmedAt time.Time, details *models.BookingDetails) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.Status != models.StatusHeld {
		return nil, inventoryRepo.ErrNotFound
	}
	r.Status = models.StatusBooked
	r.ConfirmedAt = confirmedAt
	r.Details = details
	f.records[id] = r
	out := r
	return &out, nil
}

func (f *fakeInventoryRepo) DeleteHeld(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.Status != models.StatusHeld {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeInventoryRepo) ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.records {
		if r.Status == models.StatusHeld && !r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) ListForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.records {
		if r.BookingDate == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.records {
		if r.UserID == userID && r.Status != models.StatusHeld {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ConfirmedAt.After(out[j].ConfirmedAt)
	})
	return out, nil
}

func (f *fakeInventoryRepo) CancelBooking(ctx context.Context, id, userID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || r.Status != models.StatusBooked || r.UserID != userID {
		return nil, inventoryRepo.ErrNotFound
	}
	r.Status = models.StatusCancelled
	f.records[id] = r
	out := r
	return &out, nil
}

func (f *fakeInventoryRepo) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[inv.BookingID] = *inv
	return nil
}

func (f *fakeInventoryRepo) FindInvoiceByBookingID(ctx context.Context, bookingID string) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[bookingID]
	if !ok {
		return nil, inventoryRepo.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInventoryRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// flakyInventoryRepo fails a set number of reads before recovering,
// exercising the transient retry path.
type flakyInventoryRepo struct {
	*fakeInventoryRepo
	mu           sync.Mutex
	readFailures int
}

func (f *flakyInventoryRepo) failNext() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readFailures > 0 {
		f.readFailures--
		return true
	}
	return false
}

func (f *flakyInventoryRepo) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	if f.failNext() {
		return nil, errors.New("connection reset")
	}
	return f.fakeInventoryRepo.FindByID(ctx, id)
}

func (f *flakyInventoryRepo) FindLiveByKey(ctx context.Context, key models.SlotInstanceKey, now time.Time) (*models.Reservation, error) {
	if f.failNext() {
		return nil, errors.New("connection reset")
	}
	return f.fakeInventoryRepo.FindLiveByKey(ctx, key, now)
}

func (f *flakyInventoryRepo) FindInvoiceByBookingID(ctx context.Context, bookingID string) (*models.Invoice, error) {
	if f.failNext() {
		return nil, errors.New("connection reset")
	}
	return f.fakeInventoryRepo.FindInvoiceByBookingID(ctx, bookingID)
}

// fakeCatalogRepo serves a small fixed catalog.
type fakeCatalogRepo struct {
	desks  map[int]models.Desk
	slots  map[int]models.Slot
	prices map[[2]int]float64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		desks: map[int]models.Desk{
			1: {ID: 1, Name: "Desk A", DeskTypeID: 1, LocationID: "blr", BuildingName: "North Tower", City: "Bengaluru"},
			2: {ID: 2, Name: "Desk B", DeskTypeID: 2, LocationID: "pnq", BuildingName: "West Wing", City: "Pune"},
		},
		slots: map[int]models.Slot{
			1: {ID: 1, SlotType: "Morning", StartTime: "09:00", EndTime: "13:00", TimeZone: "Asia/Kolkata"},
			2: {ID: 2, SlotType: "Full Day", StartTime: "09:00", EndTime: "18:00", TimeZone: "Asia/Kolkata"},
		},
		prices: map[[2]int]float64{
			{1, 1}: 150,
			{1, 2}: 300,
			{2, 1}: 200,
		},
	}
}

func (f *fakeCatalogRepo) ListDesks(ctx context.Context) ([]models.Desk, error) {
	out := make([]models.Desk, 0, len(f.desks))
	for _, d := range f.desks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalogRepo) GetDesk(ctx context.Context, deskID int) (*models.Desk, error) {
	d, ok := f.desks[deskID]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &d, nil
}

func (f *fakeCatalogRepo) ListSlots(ctx context.Context) ([]models.Slot, error) {
	out := make([]models.Slot, 0, len(f.slots))
	for _, s := range f.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalogRepo) GetSlot(ctx context.Context, slotID int) (*models.Slot, error) {
	s, ok := f.slots[slotID]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &s, nil
}

func (f *fakeCatalogRepo) ListDeskTypes(ctx context.Context) ([]models.DeskType, error) {
	return []models.DeskType{{ID: 1, Name: "Hot Desk"}, {ID: 2, Name: "Cabin"}}, nil
}

func (f *fakeCatalogRepo) ListLocations(ctx context.Context) ([]models.Location, error) {
	return []models.Location{{ID: "blr", Name: "Bengaluru"}, {ID: "pnq", Name: "Pune"}}, nil
}

func (f *fakeCatalogRepo) ListPrices(ctx context.Context) ([]models.SlotPrice, error) {
	var out []models.SlotPrice
	for k, p := range f.prices {
		out = append(out, models.SlotPrice{DeskTypeID: k[0], SlotID: k[1], Price: p})
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetPrice(ctx context.Context, deskTypeID, slotID int) (float64, error) {
	p, ok := f.prices[[2]int{deskTypeID, slotID}]
	if !ok {
		return 0, catalogRepo.ErrNotFound
	}
	return p, nil
}

// countingNotifier records state change notifications.
type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) NotifyStateChanged() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// recordingQueuer captures invoice enqueue requests.
type recordingQueuer struct {
	mu         sync.Mutex
	bookingIDs []string
}

func (q *recordingQueuer) EnqueueInvoice(ctx context.Context, bookingID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.bookingIDs = append(q.bookingIDs, bookingID)
	return nil
}

func (q *recordingQueuer) enqueued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.bookingIDs...)
}
