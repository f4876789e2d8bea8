package service

import "leadflow/shared/failure"

// Booking rejections. None of these mutate any state; callers may retry
// with fresh data.
var (
	ErrDayNotBookable        = failure.UnprocessableEntity("day is not bookable")
	ErrHalfNotSelected       = failure.BadRequestFromString("a half of the day must be selected")
	ErrHalfNotBookable       = failure.UnprocessableEntity("selected half is not bookable")
	ErrSlotNoLongerAvailable = failure.Conflict("slot is no longer available")
)
