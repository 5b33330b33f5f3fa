package core

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// Rates resolves conversions through a per-currency factor table keyed by
// currency code. The factor is the CNY value of one unit of the currency,
// so adding a currency is a single new entry rather than a new branch.
type Rates map[Currency]decimal.Decimal

// NewRates builds the rate table from the single configured scalar,
// CNY per 1 USD. The rate must already be validated positive.
func NewRates(cnyPerUSD decimal.Decimal) Rates {
	return Rates{CNY: one, USD: cnyPerUSD}
}

// Convert translates an amount between two known currencies. Amounts pass
// through unrounded; rounding happens at the aggregation boundary.
func (r Rates) Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(r[from]).Div(r[to])
}

// Convert translates an amount between currencies using the CNY-per-USD
// scalar rate.
func Convert(amount decimal.Decimal, from, to Currency, rate decimal.Decimal) decimal.Decimal {
	return NewRates(rate).Convert(amount, from, to)
}
