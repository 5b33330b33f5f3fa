package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// MoneyByCurrency keeps one scalar total per native currency. No
	// cross-currency conversion happens at this level.
	MoneyByCurrency struct {
		CNY decimal.Decimal
		USD decimal.Decimal
	}

	DashboardStats struct {
		TotalServices     int
		ExpiringThisMonth int
		MonthlyExpense    MoneyByCurrency
		ActiveServices    int
	}

	// CategoryCount is one slice of the category distribution chart.
	CategoryCount struct {
		Name  string
		Value int
		Color string
	}

	// TrendPoint is one calendar month of the expense trend. Key is the
	// YYYY-MM month key, Month the display label.
	TrendPoint struct {
		Key   string
		Month string
		CNY   decimal.Decimal
		USD   decimal.Decimal
	}

	// CategoryValue is the amortized monthly spend of one category folded
	// into a single target currency.
	CategoryValue struct {
		Name  string
		Value decimal.Decimal
		Color string
	}
)

func (m *MoneyByCurrency) add(c Currency, v decimal.Decimal) {
	if c == USD {
		m.USD = m.USD.Add(v)
	} else {
		m.CNY = m.CNY.Add(v)
	}
}

// MonthLabel renders the display label for a trend month.
func MonthLabel(m time.Month) string {
	return fmt.Sprintf("%d月", int(m))
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeDashboardStats derives the dashboard counters from a snapshot.
// Statuses are recomputed from dates so the counters stay consistent with
// StatusOf regardless of what the stored status column says.
func ComputeDashboardStats(s Snapshot) DashboardStats {
	today := dateOf(s.Now)
	monthEnd := time.Date(s.Now.Year(), s.Now.Month()+1, 0, 0, 0, 0, 0, s.Now.Location())

	var stats DashboardStats
	var expense MoneyByCurrency
	for _, sub := range s.Subscriptions {
		stats.TotalServices++

		if !sub.ExpiryDate.IsZero() &&
			!sub.ExpiryDate.Before(today) && !sub.ExpiryDate.After(monthEnd) {
			stats.ExpiringThisMonth++
		}

		switch StatusOf(sub.ExpiryDate, s.Now) {
		case StatusExpired:
			continue
		case StatusActive:
			stats.ActiveServices++
		}
		expense.add(sub.Currency, MonthlyCost(sub.Cost, sub.BillingCycle))
	}

	stats.MonthlyExpense = MoneyByCurrency{
		CNY: Round2(expense.CNY),
		USD: Round2(expense.USD),
	}
	return stats
}

// CategoryDistribution counts subscriptions per category in category sort
// order. Categories without subscriptions are omitted; subscriptions whose
// category is missing from the set count toward no slice.
func CategoryDistribution(s Snapshot) []CategoryCount {
	counts := make(map[uuid.UUID]int, len(s.Categories))
	for _, sub := range s.Subscriptions {
		if sub.CategoryID != uuid.Nil {
			counts[sub.CategoryID]++
		}
	}

	var out []CategoryCount
	for _, cat := range sortedCategories(s.Categories) {
		if n := counts[cat.ID]; n > 0 {
			out = append(out, CategoryCount{Name: cat.Name, Value: n, Color: cat.Color})
		}
	}
	return out
}

// ComputeExpenseTrend returns exactly months entries, oldest first, ending
// at the current calendar month. A subscription contributes its amortized
// monthly cost to a month iff its validity interval overlaps that month:
// startDate <= monthEnd and (no expiry or expiry >= monthStart).
// Subscriptions without a start date are skipped; SkippedRecords reports
// them.
func ComputeExpenseTrend(s Snapshot, months int) []TrendPoint {
	if months <= 0 {
		return nil
	}
	points := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(s.Now.Year(), s.Now.Month()-time.Month(i), 1, 0, 0, 0, 0, s.Now.Location())
		monthEnd := time.Date(monthStart.Year(), monthStart.Month()+1, 0, 0, 0, 0, 0, s.Now.Location())

		var sum MoneyByCurrency
		for _, sub := range s.Subscriptions {
			if sub.StartDate.IsZero() {
				continue
			}
			if sub.StartDate.After(monthEnd) {
				continue
			}
			if !sub.ExpiryDate.IsZero() && sub.ExpiryDate.Before(monthStart) {
				continue
			}
			sum.add(sub.Currency, MonthlyCost(sub.Cost, sub.BillingCycle))
		}

		points = append(points, TrendPoint{
			Key:   monthStart.Format("2006-01"),
			Month: MonthLabel(monthStart.Month()),
			CNY:   Round2(sum.CNY),
			USD:   Round2(sum.USD),
		})
	}
	return points
}

// CategoryValues folds the amortized monthly cost of every categorized
// subscription into the target currency, one entry per category in sort
// order. Zero-value categories are omitted.
func CategoryValues(s Snapshot, target Currency) []CategoryValue {
	rates := NewRates(s.Settings.ExchangeRate)

	totals := make(map[uuid.UUID]decimal.Decimal, len(s.Categories))
	for _, sub := range s.Subscriptions {
		if sub.CategoryID == uuid.Nil {
			continue
		}
		v := rates.Convert(MonthlyCost(sub.Cost, sub.BillingCycle), sub.Currency, target)
		totals[sub.CategoryID] = totals[sub.CategoryID].Add(v)
	}

	var out []CategoryValue
	for _, cat := range sortedCategories(s.Categories) {
		if v, ok := totals[cat.ID]; ok && v.IsPositive() {
			out = append(out, CategoryValue{Name: cat.Name, Value: Round2(v), Color: cat.Color})
		}
	}
	return out
}

// SkippedRecords reports subscriptions excluded from date-windowed
// aggregates because a date is missing: no start date (trend) or no expiry
// date (expiry windows). One bad record must not abort a computation, but
// the exclusion stays diagnosable.
func (s Snapshot) SkippedRecords() []uuid.UUID {
	var ids []uuid.UUID
	for _, sub := range s.Subscriptions {
		if sub.StartDate.IsZero() || sub.ExpiryDate.IsZero() {
			ids = append(ids, sub.ID)
		}
	}
	return ids
}

func sortedCategories(cats []Category) []Category {
	out := make([]Category, len(cats))
	copy(out, cats)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}
