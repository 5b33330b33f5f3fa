// Package export renders subscription reports to terminals and xlsx files.
package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"subtracker/internal/core"
)

// RenderExpiringTable prints the subscriptions expiring within the window,
// soonest first, with a footer carrying the amortized monthly totals of the
// listed rows per native currency.
func RenderExpiringTable(w io.Writer, snap core.Snapshot, days int) {
	expiring := core.ExpiringWithin(snap, days)

	fmt.Fprintf(w, "Found %d of %d subscriptions expiring within %d days\n\n",
		len(expiring), len(snap.Subscriptions), days)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Provider", "Expiry", "Days Left", "Status", "Monthly"})

	var totalCNY, totalUSD decimal.Decimal
	for _, sub := range expiring {
		daysLeft := core.DaysLeft(sub.ExpiryDate, snap.Now)
		status := statusCell(core.StatusOf(sub.ExpiryDate, snap.Now))

		monthly := core.MonthlyCost(sub.Cost, sub.BillingCycle)
		if sub.Currency == core.USD {
			totalUSD = totalUSD.Add(monthly)
		} else {
			totalCNY = totalCNY.Add(monthly)
		}

		t.AppendRow(table.Row{
			sub.Name,
			sub.Provider,
			sub.ExpiryDate.Format("2006-01-02"),
			daysLeft,
			status,
			formatMoney(monthly, sub.Currency),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		"", "", "", "",
		text.Bold.Sprint("Total"),
		text.Bold.Sprint(formatMoney(core.Round2(totalCNY), core.CNY) + " " + formatMoney(core.Round2(totalUSD), core.USD)),
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

// RenderTrendTable prints the amortized expense trend, oldest month first.
func RenderTrendTable(w io.Writer, snap core.Snapshot, months int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Month", "CNY", "USD"})

	for _, p := range core.ComputeExpenseTrend(snap, months) {
		t.AppendRow(table.Row{p.Key, p.CNY.StringFixed(2), p.USD.StringFixed(2)})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func statusCell(s core.Status) string {
	switch s {
	case core.StatusExpired:
		return text.FgHiBlack.Sprint("EXPIRED")
	case core.StatusExpiring:
		return text.FgRed.Sprint("EXPIRING")
	case core.StatusExpiringSoon:
		return text.FgYellow.Sprint("EXPIRING SOON")
	default:
		return text.FgGreen.Sprint("ACTIVE")
	}
}

func formatMoney(v decimal.Decimal, c core.Currency) string {
	if c == core.USD {
		return "$" + v.StringFixed(2)
	}
	return "¥" + v.StringFixed(2)
}
