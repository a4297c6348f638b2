package booking

import (
	"errors"
	"time"
)

// Bookings hold half-open intervals: [start, end). Two intervals conflict iff
// each starts before the other ends, so back-to-back slots never collide.
func Overlaps(start, end, otherStart, otherEnd time.Time) bool {
	return start.Before(otherEnd) && end.After(otherStart)
}

// ValidateInterval enforces start < end. Applied uniformly on create and
// update.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("start and end times are required")
	}
	if !start.Before(end) {
		return errors.New("end time must be after start time")
	}
	return nil
}
