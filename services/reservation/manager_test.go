package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2025-06-02"

func newTestHoldService(repo *fakeInventoryRepo, clock *fakeClock, notifier Notifier) *DefaultHoldService {
	svc := NewHoldService(repo, newFakeCatalogRepo(), notifier, 3*time.Minute)
	svc.now = clock.Now
	return svc
}

func TestCreateHold(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	notifier := &countingNotifier{}
	svc := newTestHoldService(repo, clock, notifier)

	hold, err := svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	assert.NotEmpty(t, hold.ID)
	assert.Equal(t, "user-1", hold.UserID)
	assert.Equal(t, clock.Now().Add(3*time.Minute), hold.ExpiresAt)
	assert.Equal(t, 1, notifier.count())
}

func TestCreateHoldOnOccupiedSlot(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	svc := newTestHoldService(repo, clock, &countingNotifier{})

	_, err := svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	_, err = svc.CreateHold(context.Background(), "user-2", 1, 1, testDate)
	assert.True(t, IsCode(err, CodeSlotUnavailable), "got %v", err)

	// A different slot instance is unaffected.
	_, err = svc.CreateHold(context.Background(), "user-2", 1, 2, testDate)
	assert.NoError(t, err)
}

func TestCreateHoldConcurrentSameKey(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	svc := newTestHoldService(repo, clock, &countingNotifier{})

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateHold(context.Background(), "user-1", 2, 1, testDate)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t, IsCode(err, CodeSlotUnavailable), "got %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, repo.count())
}

func TestCreateHoldValidation(t *testing.T) {
	svc := newTestHoldService(newFakeInventoryRepo(), newFakeClock(), &countingNotifier{})

	cases := []struct {
		name   string
		userID string
		deskID int
		slotID int
		date   string
	}{
		{"missing user", "", 1, 1, testDate},
		{"bad desk", "user-1", 0, 1, testDate},
		{"bad slot", "user-1", 1, -1, testDate},
		{"bad date", "user-1", 1, 1, "02-06-2025"},
		{"unknown desk", "user-1", 99, 1, testDate},
		{"unknown slot", "user-1", 1, 99, testDate},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateHold(context.Background(), tt.userID, tt.deskID, tt.slotID, tt.date)
			assert.True(t, IsCode(err, CodeValidation), "got %v", err)
		})
	}
}

func TestCreateHoldAfterPreviousExpired(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	svc := newTestHoldService(repo, clock, &countingNotifier{})

	_, err := svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	// Once the first hold lapses the slot is takeable again, even though
	// the sweep has not run.
	clock.Advance(4 * time.Minute)
	_, err = svc.CreateHold(context.Background(), "user-2", 1, 1, testDate)
	assert.NoError(t, err)
}

func TestReleaseHoldIdempotent(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	notifier := &countingNotifier{}
	svc := newTestHoldService(repo, clock, notifier)

	hold, err := svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	require.NoError(t, svc.ReleaseHold(context.Background(), hold.ID, "user-1"))
	assert.Equal(t, 0, repo.count())
	callsAfterFirst := notifier.count()

	// Second release of the same hold succeeds without a state change.
	require.NoError(t, svc.ReleaseHold(context.Background(), hold.ID, "user-1"))
	assert.Equal(t, callsAfterFirst, notifier.count())
}

func TestReleaseHoldOwnerMismatch(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	svc := newTestHoldService(repo, clock, &countingNotifier{})

	hold, err := svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	err = svc.ReleaseHold(context.Background(), hold.ID, "user-2")
	assert.True(t, IsCode(err, CodeHoldOwnerMismatch), "got %v", err)
	assert.Equal(t, 1, repo.count())

	// Anyone may clear a hold whose expiry has already passed.
	clock.Advance(4 * time.Minute)
	assert.NoError(t, svc.ReleaseHold(context.Background(), hold.ID, "user-2"))
	assert.Equal(t, 0, repo.count())
}

func TestHoldStatusRetriesTransientFailures(t *testing.T) {
	inner := newFakeInventoryRepo()
	clock := newFakeClock()
	holdSvc := newTestHoldService(inner, clock, &countingNotifier{})

	_, err := holdSvc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	flaky := &flakyInventoryRepo{fakeInventoryRepo: inner, readFailures: 2}
	svc := NewHoldService(flaky, newFakeCatalogRepo(), &countingNotifier{}, 3*time.Minute)
	svc.now = clock.Now

	// Two failures fit inside the retry budget.
	status, err := svc.HoldStatus(context.Background(), 1, 1, testDate)
	require.NoError(t, err)
	assert.True(t, status.IsHeld)

	// A store that keeps failing surfaces as a transient error.
	flaky.readFailures = 10
	_, err = svc.HoldStatus(context.Background(), 1, 1, testDate)
	assert.True(t, IsCode(err, CodeTransientStore), "got %v", err)
}

func TestHoldStatus(t *testing.T) {
	repo := newFakeInventoryRepo()
	clock := newFakeClock()
	svc := newTestHoldService(repo, clock, &countingNotifier{})

	status, err := svc.HoldStatus(context.Background(), 1, 1, testDate)
	require.NoError(t, err)
	assert.False(t, status.IsHeld)

	_, err = svc.CreateHold(context.Background(), "user-1", 1, 1, testDate)
	require.NoError(t, err)

	status, err = svc.HoldStatus(context.Background(), 1, 1, testDate)
	require.NoError(t, err)
	assert.True(t, status.IsHeld)
	assert.Equal(t, "user-1", status.HeldByUser)
	assert.NotEmpty(t, status.ExpiresAt)

	// Expired hold no longer reports as held, sweep or no sweep.
	clock.Advance(4 * time.Minute)
	status, err = svc.HoldStatus(context.Background(), 1, 1, testDate)
	require.NoError(t, err)
	assert.False(t, status.IsHeld)
}
