package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestExpiringWithinBoundaries(t *testing.T) {
	now := NewDate(2025, 2, 10)
	cases := []struct {
		days   int
		expiry time.Time
		want   bool
	}{
		{7, NewDate(2025, 2, 10), true},  // today
		{7, NewDate(2025, 2, 17), true},  // exactly 7 days out
		{7, NewDate(2025, 2, 18), false}, // 8 days out
		{7, NewDate(2025, 2, 9), false},  // already expired
		{1, NewDate(2025, 2, 11), true},
		{30, NewDate(2025, 3, 12), true},
	}
	for _, tc := range cases {
		snap := Snapshot{Now: now, Subscriptions: []Subscription{
			sub("svc", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), tc.expiry),
		}}
		got := len(ExpiringWithin(snap, tc.days)) == 1
		if got != tc.want {
			t.Errorf("days=%d expiry=%s: included=%v, want %v", tc.days, tc.expiry.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestExpiringWithinSortStable(t *testing.T) {
	now := NewDate(2025, 2, 10)
	a := sub("a", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), NewDate(2025, 2, 14))
	b := sub("b", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), NewDate(2025, 2, 12))
	c := sub("c", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), NewDate(2025, 2, 14)) // ties with a
	noDate := sub("skip", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), time.Time{})

	snap := Snapshot{Now: now, Subscriptions: []Subscription{a, b, c, noDate}}
	got := ExpiringWithin(snap, 7)

	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Name != "b" || got[1].Name != "a" || got[2].Name != "c" {
		t.Errorf("order = %s,%s,%s; want b,a,c", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestExpiringWithinCriticalPolicy(t *testing.T) {
	// The critical threshold is caller policy, but it must agree with the
	// engine's own day math.
	now := NewDate(2025, 2, 10)
	in3 := sub("in3", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), NewDate(2025, 2, 13))
	in5 := sub("in5", uuid.Nil, "10", CNY, Monthly, NewDate(2024, 1, 1), NewDate(2025, 2, 15))

	snap := Snapshot{Now: now, Subscriptions: []Subscription{in3, in5}}
	critical := 0
	for _, s := range ExpiringWithin(snap, 7) {
		if DaysLeft(s.ExpiryDate, now) <= 3 {
			critical++
		}
	}
	if critical != 1 {
		t.Fatalf("critical = %d, want 1", critical)
	}
}
