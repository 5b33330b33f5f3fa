// Package core implements the derived-state engine of the subscription
// tracker: lifecycle status, amortization, currency conversion, dashboard
// aggregates and expiry-window selection, all as pure functions over an
// explicit snapshot.
//
// This file holds the ingestion-boundary parsers. Malformed input is
// rejected here once; the engine itself never re-validates or coerces.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCost parses a decimal cost string. Both dot and comma decimal
// separators are accepted. Negative values are rejected, never clamped.
func ParseCost(v string) (decimal.Decimal, error) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	if v == "" {
		return decimal.Zero, ErrNegativeCost
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, ErrNegativeCost
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeCost
	}
	return d, nil
}

// ParseCurrency maps a currency code to its enumerator.
func ParseCurrency(v string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(v)))
	if !c.Valid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

// ParseBillingCycle maps a billing-cycle name to its enumerator.
func ParseBillingCycle(v string) (BillingCycle, error) {
	b := BillingCycle(strings.ToLower(strings.TrimSpace(v)))
	if !b.Valid() {
		return "", ErrInvalidCycle
	}
	return b, nil
}

// ParseRate parses the configured CNY-per-USD exchange rate. A zero or
// negative rate is a configuration error.
func ParseRate(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return d, nil
}
