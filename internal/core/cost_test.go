package core

import "testing"

func TestParseCost(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"45", "45", true},
		{"19.90", "19.90", true},
		{"19,90", "19.90", true},
		{" 888 ", "888", true},
		{"0", "0", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCost(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Errorf("%q: got %s err=%v, want %s", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Errorf("%q: expected error", tc.in)
		}
	}
}

func TestParseCurrencyAndCycle(t *testing.T) {
	if c, err := ParseCurrency(" usd "); err != nil || c != USD {
		t.Errorf("usd: got %s err=%v", c, err)
	}
	if _, err := ParseCurrency("EUR"); err == nil {
		t.Error("EUR: expected error")
	}
	if b, err := ParseBillingCycle("Quarterly"); err != nil || b != Quarterly {
		t.Errorf("Quarterly: got %s err=%v", b, err)
	}
	if _, err := ParseBillingCycle("weekly"); err == nil {
		t.Error("weekly: expected error")
	}
}

func TestParseRate(t *testing.T) {
	if r, err := ParseRate("7.2"); err != nil || r.String() != "7.2" {
		t.Errorf("got %s err=%v", r, err)
	}
	for _, bad := range []string{"0", "-7.2", "x"} {
		if _, err := ParseRate(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
