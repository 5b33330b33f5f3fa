package core

import "github.com/shopspring/decimal"

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
)

// MonthlyCost normalizes a billing-cycle cost to an equivalent monthly rate.
// The result is not rounded; callers round once at the presentation or
// aggregation boundary.
func MonthlyCost(cost decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case Quarterly:
		return cost.Div(three)
	case Yearly:
		return cost.Div(twelve)
	default:
		return cost
	}
}

// Round2 rounds a monetary value to two decimal places. Applied only after
// summation, never between arithmetic steps.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
