package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocation = time.FixedZone("IST", 5*3600+1800)

// monday is a fixed operating day well in the future of any test clock.
func monday() time.Time {
	return time.Date(2030, time.June, 3, 0, 0, 0, 0, testLocation)
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestGenerateFirstHalf(t *testing.T) {
	starts := Generate(monday(), FirstHalf)

	require.Len(t, starts, 9)
	assert.Equal(t, at(monday(), 10, 0), starts[0])
	assert.Equal(t, at(monday(), 12, 40), starts[len(starts)-1])

	for _, start := range starts {
		assert.True(t, start.Before(at(monday(), 13, 0)), "start %v must precede the closing boundary", start)
	}
}

func TestGenerateSecondHalf(t *testing.T) {
	starts := Generate(monday(), SecondHalf)

	require.Len(t, starts, 12)
	assert.Equal(t, at(monday(), 14, 30), starts[0])
	assert.Equal(t, at(monday(), 18, 10), starts[len(starts)-1])

	for _, start := range starts {
		assert.True(t, start.Before(at(monday(), 18, 30)), "start %v must precede the closing boundary", start)
	}
}

func TestGenerateAscendingAndSpaced(t *testing.T) {
	starts := Generate(monday(), SecondHalf)

	for i := 1; i < len(starts); i++ {
		assert.Equal(t, SlotDuration, starts[i].Sub(starts[i-1]))
	}
}

func TestGenerateHalfNone(t *testing.T) {
	assert.Empty(t, Generate(monday(), HalfNone))
}

func TestFilterAvailableGatesClosedHalf(t *testing.T) {
	now := at(monday(), 8, 0)
	candidates := Generate(monday(), SecondHalf)

	cases := []struct {
		name   string
		status Status
	}{
		{"not set", StatusNotSet},
		{"not available", StatusNotAvailable},
		{"leave", StatusLeave},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			avail := DailyAvailability{FirstHalf: StatusCalling, SecondHalf: tc.status}

			assert.Empty(t, FilterAvailable(candidates, avail, SecondHalf, nil, now))
		})
	}
}

func TestFilterAvailableExcludesPastStarts(t *testing.T) {
	avail := DailyAvailability{FirstHalf: StatusCalling}
	candidates := Generate(monday(), FirstHalf)

	// Clock sits exactly on the 11:00 start; 11:00 itself is no longer offered.
	now := at(monday(), 11, 0)

	available := FilterAvailable(candidates, avail, FirstHalf, nil, now)

	require.NotEmpty(t, available)
	assert.Equal(t, at(monday(), 11, 20), available[0])

	for _, start := range available {
		assert.True(t, start.After(now))
	}
}

func TestFilterAvailableExcludesBookedInstants(t *testing.T) {
	avail := DailyAvailability{FirstHalf: StatusFieldWork}
	candidates := Generate(monday(), FirstHalf)
	now := at(monday(), 8, 0)

	booked := []time.Time{at(monday(), 10, 20), at(monday(), 12, 0)}

	available := FilterAvailable(candidates, avail, FirstHalf, booked, now)

	require.Len(t, available, 7)
	assert.NotContains(t, available, at(monday(), 10, 20))
	assert.NotContains(t, available, at(monday(), 12, 0))
}

func TestFilterAvailablePreservesOrder(t *testing.T) {
	avail := DailyAvailability{SecondHalf: StatusCalling}
	candidates := Generate(monday(), SecondHalf)
	now := at(monday(), 8, 0)

	available := FilterAvailable(candidates, avail, SecondHalf, []time.Time{at(monday(), 15, 10)}, now)

	for i := 1; i < len(available); i++ {
		assert.True(t, available[i-1].Before(available[i]))
	}
}

func TestIsDateBookable(t *testing.T) {
	today := monday()
	open := DailyAvailability{FirstHalf: StatusCalling, SecondHalf: StatusNotSet}

	cases := []struct {
		name     string
		day      time.Time
		avail    DailyAvailability
		exists   bool
		expected bool
	}{
		{"open weekday", today.AddDate(0, 0, 1), open, true, true},
		{"same day", today, open, true, true},
		{"past day", today.AddDate(0, 0, -1), open, true, false},
		{"sunday", time.Date(2030, time.June, 9, 0, 0, 0, 0, testLocation), open, true, false},
		{"no record", today.AddDate(0, 0, 1), DailyAvailability{}, false, false},
		{"both halves not set", today.AddDate(0, 0, 1), DailyAvailability{FirstHalf: StatusNotSet, SecondHalf: StatusNotSet}, true, false},
		{"only leave set", today.AddDate(0, 0, 1), DailyAvailability{FirstHalf: StatusLeave}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDateBookable(tc.day, tc.avail, tc.exists, today))
		})
	}
}

func TestStatusIsBookable(t *testing.T) {
	assert.True(t, StatusCalling.IsBookable())
	assert.True(t, StatusFieldWork.IsBookable())
	assert.False(t, StatusNotSet.IsBookable())
	assert.False(t, StatusNotAvailable.IsBookable())
	assert.False(t, StatusLeave.IsBookable())
}

func TestParseHalf(t *testing.T) {
	assert.Equal(t, FirstHalf, ParseHalf("first_half"))
	assert.Equal(t, SecondHalf, ParseHalf("second_half"))
	assert.Equal(t, HalfNone, ParseHalf(""))
	assert.Equal(t, HalfNone, ParseHalf("afternoon"))
}

func TestHalfOf(t *testing.T) {
	assert.Equal(t, FirstHalf, HalfOf(at(monday(), 12, 40)))
	assert.Equal(t, SecondHalf, HalfOf(at(monday(), 13, 0)))
	assert.Equal(t, SecondHalf, HalfOf(at(monday(), 14, 30)))
}
