// Package slot implements the appointment slot calendar: fixed half-day
// windows, 20-minute starts, availability gating and conflict filtering.
// Everything here is pure; callers pass in the current time and the booked
// state explicitly.
package slot

import "time"

// Status is an evaluator's declared availability for one half of a day.
type Status string

const (
	StatusNotSet       Status = "Not Set"
	StatusCalling      Status = "Calling"
	StatusFieldWork    Status = "Field Work"
	StatusNotAvailable Status = "Not Available"
	StatusLeave        Status = "Leave"
)

// IsBookable reports whether appointments may be placed in a half with
// this status.
func (s Status) IsBookable() bool {
	return s == StatusCalling || s == StatusFieldWork
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotSet, StatusCalling, StatusFieldWork, StatusNotAvailable, StatusLeave:
		return true
	}

	return false
}

// Half selects one of the two bookable windows of a day.
type Half int

const (
	HalfNone Half = iota
	FirstHalf
	SecondHalf
)

const (
	HalfParamFirst  = "first_half"
	HalfParamSecond = "second_half"
)

// ParseHalf maps the wire value to a Half. Unknown values map to HalfNone.
func ParseHalf(value string) Half {
	switch value {
	case HalfParamFirst:
		return FirstHalf
	case HalfParamSecond:
		return SecondHalf
	}

	return HalfNone
}

func (h Half) String() string {
	switch h {
	case FirstHalf:
		return HalfParamFirst
	case SecondHalf:
		return HalfParamSecond
	}

	return ""
}

// DailyAvailability is one evaluator's declared statuses for a single day.
// The zero value has both halves Not Set and is fully unbookable.
type DailyAvailability struct {
	FirstHalf  Status
	SecondHalf Status
}

// ForHalf returns the status governing the given half.
func (d DailyAvailability) ForHalf(half Half) Status {
	switch half {
	case FirstHalf:
		return d.FirstHalf
	case SecondHalf:
		return d.SecondHalf
	}

	return StatusNotSet
}

const (
	// SlotDuration is the fixed appointment length.
	SlotDuration = 20 * time.Minute

	// NonOperatingDay is the weekly closed day.
	NonOperatingDay = time.Sunday
)

// Business-hour windows. Starts are aligned to the window open; the
// closing boundary is exclusive, so 12:40 is the last first-half start
// and 18:10 the last second-half start.
const (
	firstHalfOpenHour    = 10
	firstHalfOpenMinute  = 0
	firstHalfCloseHour   = 13
	firstHalfCloseMinute = 0

	secondHalfOpenHour    = 14
	secondHalfOpenMinute  = 30
	secondHalfCloseHour   = 18
	secondHalfCloseMinute = 30
)

func window(day time.Time, half Half) (time.Time, time.Time) {
	year, month, date := day.Date()
	loc := day.Location()

	switch half {
	case FirstHalf:
		open := time.Date(year, month, date, firstHalfOpenHour, firstHalfOpenMinute, 0, 0, loc)
		close := time.Date(year, month, date, firstHalfCloseHour, firstHalfCloseMinute, 0, 0, loc)

		return open, close
	case SecondHalf:
		open := time.Date(year, month, date, secondHalfOpenHour, secondHalfOpenMinute, 0, 0, loc)
		close := time.Date(year, month, date, secondHalfCloseHour, secondHalfCloseMinute, 0, 0, loc)

		return open, close
	}

	return time.Time{}, time.Time{}
}

// Generate returns every slot start of the given half on day, in ascending
// order. It is independent of availability and booking state; HalfNone
// yields no slots.
func Generate(day time.Time, half Half) []time.Time {
	if half == HalfNone {
		return nil
	}

	open, close := window(day, half)

	var starts []time.Time
	for current := open; current.Before(close); current = current.Add(SlotDuration) {
		starts = append(starts, current)
	}

	return starts
}

// FilterAvailable narrows candidate starts to those actually bookable:
// the half must be gated open, starts must lie strictly in the future of
// now, and starts colliding with an already booked instant are dropped.
// Ascending order of candidates is preserved.
func FilterAvailable(candidates []time.Time, avail DailyAvailability, half Half, booked []time.Time, now time.Time) []time.Time {
	if !avail.ForHalf(half).IsBookable() {
		return nil
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Unix()] = struct{}{}
	}

	var available []time.Time

	for _, candidate := range candidates {
		if !candidate.After(now) {
			continue
		}

		if _, ok := taken[candidate.Unix()]; ok {
			continue
		}

		available = append(available, candidate)
	}

	return available
}

// IsDateBookable reports whether day can host appointments at all: not in
// the past, not the weekly closed day, and with an availability record
// that opens at least one half.
func IsDateBookable(day time.Time, avail DailyAvailability, exists bool, today time.Time) bool {
	dayStart := truncateToDay(day)
	todayStart := truncateToDay(today)

	if dayStart.Before(todayStart) {
		return false
	}

	if day.Weekday() == NonOperatingDay {
		return false
	}

	if !exists {
		return false
	}

	if avail.FirstHalf == StatusNotSet && avail.SecondHalf == StatusNotSet {
		return false
	}

	return true
}

// HalfOf places an instant in its display half. The boundary between
// halves sits at 13:00.
func HalfOf(t time.Time) Half {
	if t.Hour() < firstHalfCloseHour {
		return FirstHalf
	}

	return SecondHalf
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
