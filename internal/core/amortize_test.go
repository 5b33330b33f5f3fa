package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyCost(t *testing.T) {
	cases := []struct {
		cost  string
		cycle BillingCycle
		want  string
	}{
		{"45", Monthly, "45"},
		{"120", Yearly, "10"},
		{"30", Quarterly, "10"},
		{"888", Yearly, "74"},
		{"0", Yearly, "0"},
	}
	for _, tc := range cases {
		cost := decimal.RequireFromString(tc.cost)
		got := MonthlyCost(cost, tc.cycle)
		if !Round2(got).Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s %s: got %s, want %s", tc.cost, tc.cycle, got, tc.want)
		}
	}
}

func TestMonthlyCostRoundTrip(t *testing.T) {
	// yearly*12 and quarterly*3 recover the original cost up to rounding.
	for _, raw := range []string{"0.01", "1", "19", "99.99", "888", "1234.56"} {
		cost := decimal.RequireFromString(raw)

		y := MonthlyCost(cost, Yearly).Mul(decimal.NewFromInt(12))
		if !Round2(y).Equal(Round2(cost)) {
			t.Errorf("yearly round trip %s: got %s", raw, y)
		}

		q := MonthlyCost(cost, Quarterly).Mul(decimal.NewFromInt(3))
		if !Round2(q).Equal(Round2(cost)) {
			t.Errorf("quarterly round trip %s: got %s", raw, q)
		}
	}
}

func TestRound2OnlyAtBoundary(t *testing.T) {
	// 100/12 summed 12 times then rounded must equal 100.00 exactly;
	// rounding each step first would drift.
	part := MonthlyCost(decimal.RequireFromString("100"), Yearly)
	sum := decimal.Zero
	for i := 0; i < 12; i++ {
		sum = sum.Add(part)
	}
	if !Round2(sum).Equal(decimal.RequireFromString("100")) {
		t.Fatalf("got %s, want 100", Round2(sum))
	}
}
