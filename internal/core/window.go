package core

import "sort"

// ExpiringWithin selects subscriptions whose expiry date falls in the
// closed interval [today, today+days] in calendar days, sorted ascending
// by expiry date with ties keeping input order. A record expiring exactly
// days out is included. Records without an expiry date are skipped.
//
// Note this is a rolling window; the dashboard's expiringThisMonth counter
// uses a calendar-month boundary instead. The two are intentionally
// different and must not share a window.
func ExpiringWithin(s Snapshot, days int) []Subscription {
	today := dateOf(s.Now)
	target := today.AddDate(0, 0, days)

	var out []Subscription
	for _, sub := range s.Subscriptions {
		if sub.ExpiryDate.IsZero() {
			continue
		}
		if sub.ExpiryDate.Before(today) || sub.ExpiryDate.After(target) {
			continue
		}
		out = append(out, sub)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(out[j].ExpiryDate)
	})
	return out
}
