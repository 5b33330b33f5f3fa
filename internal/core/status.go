package core

import (
	"math"
	"time"
)

// DaysLeft returns the number of full or partial days between now and the
// expiry date, rounded up. A subscription expiring later today yields 0.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// StatusOf classifies a subscription by the days remaining until expiry.
// The expiry date is inclusive of its own day: daysLeft == 0 is expiring,
// not expired.
func StatusOf(expiry, now time.Time) Status {
	d := DaysLeft(expiry, now)
	switch {
	case d < 0:
		return StatusExpired
	case d <= 3:
		return StatusExpiring
	case d <= 7:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// NextExpiry advances an expiry date by one billing cycle, in calendar
// months/years so renewal anniversaries stay stable.
func NextExpiry(expiry time.Time, cycle BillingCycle) time.Time {
	switch cycle {
	case Quarterly:
		return expiry.AddDate(0, 3, 0)
	case Yearly:
		return expiry.AddDate(1, 0, 0)
	default:
		return expiry.AddDate(0, 1, 0)
	}
}
