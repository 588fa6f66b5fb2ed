package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{60, "1h 0m"},
		{125, "2h 5m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, invoice.FormatMinutes(tt.minutes))
	}
}

func TestExtraMinutes(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		scheduledMins int
		actualMins    int
		want          int
	}{
		{name: "Overran", scheduledMins: 60, actualMins: 90, want: 30},
		{name: "OnTime", scheduledMins: 60, actualMins: 60, want: 0},
		{name: "Short", scheduledMins: 60, actualMins: 45, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.ExtraMinutes(
				base, base.Add(time.Duration(tt.scheduledMins)*time.Minute),
				base, base.Add(time.Duration(tt.actualMins)*time.Minute),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtraTimeCost(t *testing.T) {
	assertDecimal(t, "12.00", invoice.ExtraTimeCost(60, dec("8.00"), dec("1.5")))
	assertDecimal(t, "8.50", invoice.ExtraTimeCost(30, dec("17.00"), dec("1")))
	assertDecimal(t, "0", invoice.ExtraTimeCost(0, dec("17.00"), dec("1")))
	assertDecimal(t, "3.33", invoice.ExtraTimeCost(10, dec("20.00"), dec("1")))
}

func TestSummarizeExtraTime(t *testing.T) {
	records := []*invoice.ExtraTimeRecord{
		{ExtraMinutes: 45, TotalCost: dec("12.00")},
		{ExtraMinutes: 30, TotalCost: dec("8.50")},
	}

	got := invoice.SummarizeExtraTime(records)

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 75, got.TotalMinutes)
	assert.Equal(t, "1h 15m", got.Duration)
	assertDecimal(t, "20.50", got.TotalCost)
}

func TestSummarizeExpenses(t *testing.T) {
	entries := []*invoice.ExpenseEntry{
		{Amount: dec("100.00"), StaffPayAmount: new(dec("80.00")), AdminCostPercent: new(dec("10"))},
		{Amount: dec("25.50")},
	}

	got := invoice.SummarizeExpenses(entries)

	assert.Equal(t, 2, got.Count)
	assertDecimal(t, "125.50", got.Total)
	assertDecimal(t, "80.00", got.StaffPay)
	assertDecimal(t, "10.00", got.AdminCosts)
}

func TestSubtractClamped(t *testing.T) {
	assertDecimal(t, "100.00", invoice.SubtractClamped(dec("125.50"), dec("25.50")))
	assertDecimal(t, "0", invoice.SubtractClamped(dec("5.00"), dec("8.50")))
}

func TestCurrentTotal_FallsBackToAmount(t *testing.T) {
	inv := &invoice.Invoice{Amount: dec("40.00")}
	assertDecimal(t, "40.00", inv.CurrentTotal())

	inv.Total = new(dec("55.00"))
	assertDecimal(t, "55.00", inv.CurrentTotal())
}

func TestBuildLedger(t *testing.T) {
	inv := &invoice.Invoice{}
	items := []*invoice.LineItem{
		{Quantity: dec("2"), UnitPrice: dec("20.00"), LineTotal: invoice.LineTotal(dec("2"), dec("20.00"))},
	}
	expenses := []*invoice.ExpenseEntry{{Amount: dec("25.50")}}
	extra := []*invoice.ExtraTimeRecord{{ExtraMinutes: 30, TotalCost: dec("8.50")}}

	l := invoice.BuildLedger(inv, items, expenses, extra)

	assertDecimal(t, "40.00", l.LineItemsTotal)
	assertDecimal(t, "74.00", l.ComputedTotal)
	assert.Equal(t, "0h 30m", l.ExtraTimeSummary.Duration)
}
