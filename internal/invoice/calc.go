package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// ExpenseSummary folds the expense entries of an invoice.
type ExpenseSummary struct {
	Count      int
	Total      decimal.Decimal
	StaffPay   decimal.Decimal
	AdminCosts decimal.Decimal
}

// SummarizeExpenses totals amounts, staff pay-through and the admin cost
// (amount x percent / 100) of each entry.
func SummarizeExpenses(entries []*ExpenseEntry) ExpenseSummary {
	s := ExpenseSummary{Count: len(entries)}

	for _, e := range entries {
		s.Total = s.Total.Add(e.Amount)

		if e.StaffPayAmount != nil {
			s.StaffPay = s.StaffPay.Add(*e.StaffPayAmount)
		}

		if e.AdminCostPercent != nil {
			s.AdminCosts = s.AdminCosts.Add(e.Amount.Mul(*e.AdminCostPercent).Div(hundred).Round(2))
		}
	}

	return s
}

// ExtraTimeSummary folds the extra-time records of an invoice.
type ExtraTimeSummary struct {
	Count        int
	TotalMinutes int
	TotalCost    decimal.Decimal
	Duration     string
}

func SummarizeExtraTime(records []*ExtraTimeRecord) ExtraTimeSummary {
	s := ExtraTimeSummary{Count: len(records)}

	for _, r := range records {
		s.TotalMinutes += r.ExtraMinutes
		s.TotalCost = s.TotalCost.Add(r.TotalCost)
	}

	s.Duration = FormatMinutes(s.TotalMinutes)

	return s
}

// FormatMinutes renders minutes as "Hh Mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ExtraMinutes is how far the actual visit ran over the scheduled one, never negative.
func ExtraMinutes(scheduledStart, scheduledEnd, actualStart, actualEnd time.Time) int {
	extra := actualEnd.Sub(actualStart) - scheduledEnd.Sub(scheduledStart)
	if extra <= 0 {
		return 0
	}

	return int(extra / time.Minute)
}

// ExtraTimeCost prices extra minutes at hourlyRate scaled by the overtime multiplier.
func ExtraTimeCost(minutes int, hourlyRate, overtimeRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).
		Mul(hourlyRate).
		Mul(overtimeRate).
		Div(sixty).
		Round(2)
}

// LineTotal is quantity x unit price, rounded to pence.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// SubtractClamped returns total - amount, never below zero.
func SubtractClamped(total, amount decimal.Decimal) decimal.Decimal {
	res := total.Sub(amount)
	if res.IsNegative() {
		return decimal.Zero
	}

	return res
}

func sumLineItems(items []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}

	return total
}

// BuildLedger assembles the read model and its derived totals.
func BuildLedger(inv *Invoice, items []*LineItem, expenses []*ExpenseEntry, extra []*ExtraTimeRecord) *Ledger {
	l := &Ledger{
		Invoice:          inv,
		LineItems:        items,
		Expenses:         expenses,
		ExtraTime:        extra,
		ExpenseSummary:   SummarizeExpenses(expenses),
		ExtraTimeSummary: SummarizeExtraTime(extra),
		LineItemsTotal:   sumLineItems(items),
	}

	l.ComputedTotal = l.LineItemsTotal.Add(l.ExpenseSummary.Total).Add(l.ExtraTimeSummary.TotalCost)

	return l
}
