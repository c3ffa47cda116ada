package booking

import (
	"testing"
	"time"

	"parkly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityOverlaps(t *testing.T) {
	store := newFakeStore()
	checker := &AvailabilityChecker{Repo: &fakeBookingRepo{store: store}}

	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	store.bookings["b1"] = &models.Booking{
		ID: "b1", SpaceID: "s1", Status: models.BookingConfirmed,
		WindowStart: start, WindowEnd: end,
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical window", start, end, true},
		{"contained window", start.Add(30 * time.Minute), end.Add(-30 * time.Minute), true},
		{"straddles the start", start.Add(-time.Hour), start.Add(time.Hour), true},
		{"straddles the end", end.Add(-time.Hour), end.Add(time.Hour), true},
		{"ends exactly at start", start.Add(-time.Hour), start, false},
		{"starts exactly at end", end, end.Add(time.Hour), false},
		{"disjoint before", start.Add(-3 * time.Hour), start.Add(-2 * time.Hour), false},
		{"disjoint after", end.Add(2 * time.Hour), end.Add(3 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			busy, err := checker.Overlaps("s1", tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, busy)
		})
	}

	t.Run("other space is independent", func(t *testing.T) {
		busy, err := checker.Overlaps("s2", start, end)
		require.NoError(t, err)
		assert.False(t, busy)
	})

	t.Run("cancelled bookings do not block", func(t *testing.T) {
		store.bookings["b1"].Status = models.BookingCancelled
		busy, err := checker.Overlaps("s1", start, end)
		require.NoError(t, err)
		assert.False(t, busy)
	})
}
