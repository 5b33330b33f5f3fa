package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	rate := decimal.RequireFromString("7.2")
	cases := []struct {
		amount   string
		from, to Currency
		want     string
	}{
		{"100", CNY, CNY, "100"},
		{"100", USD, USD, "100"},
		{"72", CNY, USD, "10"},
		{"10", USD, CNY, "72"},
	}
	for _, tc := range cases {
		got := Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to, rate)
		if !Round2(got).Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s %s->%s: got %s, want %s", tc.amount, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, rate := range []string{"7.2", "6.85", "1", "0.5"} {
		r := decimal.RequireFromString(rate)
		for _, amount := range []string{"0.01", "19", "45.5", "888"} {
			x := decimal.RequireFromString(amount)
			back := Convert(Convert(x, CNY, USD, r), USD, CNY, r)
			if !Round2(back).Equal(Round2(x)) {
				t.Errorf("rate=%s amount=%s: round trip got %s", rate, amount, back)
			}
		}
	}
}

func TestRatesTableConvert(t *testing.T) {
	// The rate table resolves any pair through per-currency CNY factors.
	rates := NewRates(decimal.RequireFromString("7.2"))
	got := rates.Convert(decimal.RequireFromString("36"), CNY, USD)
	if !Round2(got).Equal(decimal.RequireFromString("5")) {
		t.Fatalf("got %s, want 5", got)
	}
}
