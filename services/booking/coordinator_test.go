package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parkly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCoordinator(store *fakeStore) *DefaultCoordinator {
	tariffs := &fakeTariffRepo{store: store}
	bookings := &fakeBookingRepo{store: store}
	return &DefaultCoordinator{
		FacilityRepo: &fakeFacilityRepo{store: store},
		SpaceRepo:    &fakeSpaceRepo{store: store},
		BookingRepo:  bookings,
		Tariffs:      &TariffResolver{Repo: tariffs},
		Availability: &AvailabilityChecker{Repo: bookings},
		Logger:       zap.NewNop(),
	}
}

func seedFacility(store *fakeStore, facilityID string, capacity, freeSpaces int) {
	store.addFacility(models.Facility{
		ID:                facilityID,
		Name:              "Garage " + facilityID,
		Status:            models.FacilityOpen,
		Location:          models.NewGeoPoint(2.35, 48.85),
		CapacityTotal:     capacity,
		CapacityAvailable: capacity,
	})
	for i := 0; i < freeSpaces; i++ {
		store.addSpace(models.Space{
			ID:         facilityID + "-s" + string(rune('a'+i)),
			FacilityID: facilityID,
			Label:      "A" + string(rune('1'+i)),
			Type:       models.SpaceStandard,
			Status:     models.SpaceFree,
		})
	}
	store.addTariff(models.TariffRecord{
		ID:            "tariff-" + facilityID,
		FacilityID:    facilityID,
		SpaceType:     models.SpaceStandard,
		HourlyRate:    2.5,
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func TestCreateBookingConfirms(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 2, 2)
	coord := newTestCoordinator(store)

	resp, err := coord.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Garage f1", resp.FacilityName)
	assert.Equal(t, 5.0, resp.TotalAmount) // 2h at 2.50/h

	b := store.bookings[resp.BookingID]
	require.NotNil(t, b)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, "tariff-f1", b.AppliedTariff.TariffRecordID)
	assert.Equal(t, 2.5, b.AppliedTariff.Rate)
	assert.Equal(t, 1, store.facilities["f1"].CapacityAvailable)
	assert.Equal(t, models.SpaceReserved, store.spaces[b.SpaceID].Status)
}

func TestCreateBookingPrefersLowestLabel(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 3, 3)
	coord := newTestCoordinator(store)

	resp, err := coord.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "A1", resp.SpaceLabel)
}

func TestCreateBookingNoCandidates(t *testing.T) {
	store := newFakeStore()
	coord := newTestCoordinator(store)

	_, err := coord.CreateBooking(context.Background(), validInput())
	var noAvail *NoAvailabilityError
	require.True(t, errors.As(err, &noAvail))
}

func TestCreateBookingSkipsOverlappingSpace(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 2, 1)
	coord := newTestCoordinator(store)

	input := validInput()
	input.WindowStart = time.Now().Add(72 * time.Hour)
	input.WindowEnd = input.WindowStart.Add(2 * time.Hour)
	first, err := coord.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	// Adjacent half-open windows share an endpoint without overlapping.
	input.WindowStart = input.WindowEnd
	input.WindowEnd = input.WindowStart.Add(2 * time.Hour)
	_, err = coord.CreateBooking(context.Background(), input)
	var noAvail *NoAvailabilityError
	require.True(t, errors.As(err, &noAvail), "space is still reserved, not free")

	// Freeing the space makes the adjacent window bookable.
	require.NoError(t, coord.CancelBooking(context.Background(), first.BookingID, "client-1"))
	resp, err := coord.CreateBooking(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestCreateBookingMissingTariffSkipsCandidate(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 1, 1)
	store.tariffs = nil // facility has spaces but no price schedule
	coord := newTestCoordinator(store)

	_, err := coord.CreateBooking(context.Background(), validInput())
	var noAvail *NoAvailabilityError
	require.True(t, errors.As(err, &noAvail))
}

func TestCreateBookingSurfacesConfigurationDefect(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 1, 1)
	coord := newTestCoordinator(store)

	input := validInput()
	input.BookingType = models.BookingDaily
	input.WindowEnd = input.WindowStart.Add(24 * time.Hour)

	// The active tariff has no daily rate.
	_, err := coord.CreateBooking(context.Background(), input)
	var confErr *ConfigurationError
	require.True(t, errors.As(err, &confErr))
}

// Store failures must surface as-is; only contention on a candidate is
// allowed to fall through to the next one.
func TestCreateBookingSurfacesStoreErrors(t *testing.T) {
	errStore := errors.New("mongo: connection reset by peer")

	t.Run("free space lookup fails", func(t *testing.T) {
		store := newFakeStore()
		seedFacility(store, "f1", 1, 1)
		coord := newTestCoordinator(store)
		coord.SpaceRepo = &fakeSpaceRepo{store: store, freeSpaceErr: errStore}

		_, err := coord.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errStore)
		var noAvail *NoAvailabilityError
		assert.False(t, errors.As(err, &noAvail))
	})

	t.Run("overlap probe fails", func(t *testing.T) {
		store := newFakeStore()
		seedFacility(store, "f1", 1, 1)
		coord := newTestCoordinator(store)
		coord.Availability = &AvailabilityChecker{Repo: &fakeBookingRepo{store: store, overlapErr: errStore}}

		_, err := coord.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errStore)
	})

	t.Run("reservation transaction fails", func(t *testing.T) {
		store := newFakeStore()
		seedFacility(store, "f1", 1, 1)
		coord := newTestCoordinator(store)
		coord.BookingRepo = &fakeBookingRepo{store: store, reserveErr: errStore}

		_, err := coord.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errStore)
	})
}

func TestConcurrentCreateBookingOneWinner(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 1, 1)
	coord := newTestCoordinator(store)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.CreateBooking(context.Background(), validInput())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		var noAvail *NoAvailabilityError
		require.True(t, errors.As(err, &noAvail), "unexpected error: %v", err)
		lost++
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
	assert.Equal(t, 0, store.facilities["f1"].CapacityAvailable)
}

func TestCancelBooking(t *testing.T) {
	seed := func(t *testing.T, windowStart time.Time) (*fakeStore, *DefaultCoordinator, string) {
		store := newFakeStore()
		seedFacility(store, "f1", 1, 1)
		coord := newTestCoordinator(store)

		input := validInput()
		input.WindowStart = windowStart
		input.WindowEnd = windowStart.Add(2 * time.Hour)
		resp, err := coord.CreateBooking(context.Background(), input)
		require.NoError(t, err)
		return store, coord, resp.BookingID
	}
	farStart := time.Now().Add(72 * time.Hour)

	t.Run("frees space and capacity", func(t *testing.T) {
		store, coord, id := seed(t, farStart)
		require.NoError(t, coord.CancelBooking(context.Background(), id, "client-1"))

		assert.Equal(t, models.BookingCancelled, store.bookings[id].Status)
		assert.Equal(t, 1, store.facilities["f1"].CapacityAvailable)
		assert.Equal(t, models.SpaceFree, store.spaces[store.bookings[id].SpaceID].Status)
	})

	t.Run("repeat cancellation is a no-op", func(t *testing.T) {
		store, coord, id := seed(t, farStart)
		require.NoError(t, coord.CancelBooking(context.Background(), id, "client-1"))
		require.NoError(t, coord.CancelBooking(context.Background(), id, "client-1"))
		// Capacity must not be returned twice.
		assert.Equal(t, 1, store.facilities["f1"].CapacityAvailable)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, coord, _ := seed(t, farStart)
		err := coord.CancelBooking(context.Background(), "nope", "client-1")
		var notFound *NotFoundError
		require.True(t, errors.As(err, &notFound))
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		store, coord, id := seed(t, farStart)
		err := coord.CancelBooking(context.Background(), id, "someone-else")
		var notOwner *NotOwnerError
		require.True(t, errors.As(err, &notOwner))
		assert.Equal(t, models.BookingConfirmed, store.bookings[id].Status)
	})

	t.Run("inside the lead window", func(t *testing.T) {
		store, coord, id := seed(t, time.Now().Add(2*time.Hour))
		err := coord.CancelBooking(context.Background(), id, "client-1")
		var tooLate *TooLateError
		require.True(t, errors.As(err, &tooLate))
		assert.Equal(t, models.BookingConfirmed, store.bookings[id].Status)
		assert.Equal(t, 0, store.facilities["f1"].CapacityAvailable)
	})
}

func TestLifecycleTransitions(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 1, 1)
	coord := newTestCoordinator(store)

	resp, err := coord.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)
	id := resp.BookingID
	spaceID := store.bookings[id].SpaceID

	require.NoError(t, coord.StartBooking(context.Background(), id))
	assert.Equal(t, models.BookingInProgress, store.bookings[id].Status)
	assert.Equal(t, models.SpaceOccupied, store.spaces[spaceID].Status)

	require.NoError(t, coord.CompleteBooking(context.Background(), id))
	assert.Equal(t, models.BookingCompleted, store.bookings[id].Status)
	assert.Equal(t, models.SpaceFree, store.spaces[spaceID].Status)
	assert.Equal(t, 1, store.facilities["f1"].CapacityAvailable)

	// Replays of stale lifecycle tasks are harmless.
	require.NoError(t, coord.StartBooking(context.Background(), id))
	require.NoError(t, coord.CompleteBooking(context.Background(), id))
	assert.Equal(t, 1, store.facilities["f1"].CapacityAvailable)
}

func TestRecordPayment(t *testing.T) {
	store := newFakeStore()
	seedFacility(store, "f1", 1, 1)
	coord := newTestCoordinator(store)

	resp, err := coord.CreateBooking(context.Background(), validInput())
	require.NoError(t, err)

	payment := models.Payment{Ref: "pi_123", Method: "stripe", Status: "requires_payment_method"}
	require.NoError(t, coord.RecordPayment(context.Background(), resp.BookingID, payment))
	assert.Equal(t, "pi_123", store.bookings[resp.BookingID].Payment.Ref)

	err = coord.RecordPayment(context.Background(), "nope", payment)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}
