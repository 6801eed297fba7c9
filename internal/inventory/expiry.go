package inventory

import "time"

// DefaultNearExpiryDays is the window, in days, in which a lot is near expiry.
const DefaultNearExpiryDays = 7

// Classify maps an expiry date to a lot status as seen on day today, using
// the default near-expiry window.
func Classify(expiresAt, today time.Time) Status {
	return ClassifyWithin(expiresAt, today, DefaultNearExpiryDays)
}

// ClassifyWithin is Classify with an explicit near-expiry window.
// Both dates are reduced to calendar days in today's location.
func ClassifyWithin(expiresAt, today time.Time, nearDays int) Status {
	days := DaysRemaining(expiresAt, today)

	switch {
	case days < 0:
		return StatusExpired
	case days <= nearDays:
		return StatusNearExpiry
	default:
		return StatusActive
	}
}

// DaysRemaining returns the whole number of calendar days from today until
// expiresAt. Negative means the date has passed.
func DaysRemaining(expiresAt, today time.Time) int {
	loc := today.Location()

	ey, em, ed := expiresAt.In(loc).Date()
	ty, tm, td := today.Date()

	// Compare on UTC midnights so DST shifts never produce fractional days.
	exp := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	now := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(exp.Sub(now).Hours() / 24)
}
