package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

type invoiceResponse struct {
	ID           uuid.UUID        `json:"id"`
	ClientID     uuid.UUID        `json:"client_id"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	Total        *decimal.Decimal `json:"total"`
	CurrentTotal decimal.Decimal  `json:"current_total"`
	Locked       bool             `json:"locked"`
	LockedAt     *time.Time       `json:"locked_at,omitempty"`
	LockedBy     *uuid.UUID       `json:"locked_by,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    *time.Time       `json:"updated_at,omitempty"`
}

type lineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	BookingID   *uuid.UUID      `json:"booking_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type expenseEntryResponse struct {
	ID               uuid.UUID        `json:"id"`
	Category         string           `json:"category"`
	Description      string           `json:"description"`
	Amount           decimal.Decimal  `json:"amount"`
	StaffPayAmount   *decimal.Decimal `json:"staff_pay_amount,omitempty"`
	AdminCostPercent *decimal.Decimal `json:"admin_cost_percent,omitempty"`
	SourceExpenseID  *uuid.UUID       `json:"source_expense_id,omitempty"`
}

type extraTimeResponse struct {
	ID             uuid.UUID       `json:"id"`
	StaffID        uuid.UUID       `json:"staff_id"`
	ClientID       uuid.UUID       `json:"client_id"`
	BookingID      *uuid.UUID      `json:"booking_id,omitempty"`
	WorkDate       string          `json:"work_date"`
	ScheduledStart time.Time       `json:"scheduled_start"`
	ScheduledEnd   time.Time       `json:"scheduled_end"`
	ActualStart    time.Time       `json:"actual_start"`
	ActualEnd      time.Time       `json:"actual_end"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	OvertimeRate   decimal.Decimal `json:"overtime_rate"`
	ExtraMinutes   int             `json:"extra_minutes"`
	Duration       string          `json:"duration"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Invoiced       bool            `json:"invoiced"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
}

type expenseSummaryResponse struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	StaffPay   decimal.Decimal `json:"staff_pay"`
	AdminCosts decimal.Decimal `json:"admin_costs"`
}

type extraTimeSummaryResponse struct {
	Count        int             `json:"count"`
	TotalMinutes int             `json:"total_minutes"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Duration     string          `json:"duration"`
}

type ledgerResponse struct {
	Invoice          invoiceResponse          `json:"invoice"`
	LineItems        []lineItemResponse       `json:"line_items"`
	Expenses         []expenseEntryResponse   `json:"expenses"`
	ExtraTime        []extraTimeResponse      `json:"extra_time"`
	ExpenseSummary   expenseSummaryResponse   `json:"expense_summary"`
	ExtraTimeSummary extraTimeSummaryResponse `json:"extra_time_summary"`
	LineItemsTotal   decimal.Decimal          `json:"line_items_total"`
	ComputedTotal    decimal.Decimal          `json:"computed_total"`
}

func toInvoiceResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:           inv.ID,
		ClientID:     inv.ClientID,
		StartDate:    inv.StartDate.Format(time.DateOnly),
		EndDate:      inv.EndDate.Format(time.DateOnly),
		Total:        inv.Total,
		CurrentTotal: inv.CurrentTotal(),
		Locked:       inv.Locked,
		LockedAt:     inv.LockedAt,
		LockedBy:     inv.LockedBy,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toInvoiceList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toInvoiceResponse(inv)
	}

	return resp
}

func toExpenseEntries(entries []*invoice.ExpenseEntry) []expenseEntryResponse {
	resp := make([]expenseEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = expenseEntryResponse{
			ID:               e.ID,
			Category:         e.Category,
			Description:      e.Description,
			Amount:           e.Amount,
			StaffPayAmount:   e.StaffPayAmount,
			AdminCostPercent: e.AdminCostPercent,
			SourceExpenseID:  e.SourceExpenseID,
		}
	}

	return resp
}

func toExtraTime(r *invoice.ExtraTimeRecord) extraTimeResponse {
	return extraTimeResponse{
		ID:             r.ID,
		StaffID:        r.StaffID,
		ClientID:       r.ClientID,
		BookingID:      r.BookingID,
		WorkDate:       r.WorkDate.Format(time.DateOnly),
		ScheduledStart: r.ScheduledStart,
		ScheduledEnd:   r.ScheduledEnd,
		ActualStart:    r.ActualStart,
		ActualEnd:      r.ActualEnd,
		HourlyRate:     r.HourlyRate,
		OvertimeRate:   r.OvertimeRate,
		ExtraMinutes:   r.ExtraMinutes,
		Duration:       invoice.FormatMinutes(r.ExtraMinutes),
		TotalCost:      r.TotalCost,
		Invoiced:       r.Invoiced,
		InvoiceID:      r.InvoiceID,
	}
}

func toExtraTimeList(records []*invoice.ExtraTimeRecord) []extraTimeResponse {
	resp := make([]extraTimeResponse, len(records))
	for i, r := range records {
		resp[i] = toExtraTime(r)
	}

	return resp
}

func toLedgerResponse(l *invoice.Ledger) ledgerResponse {
	items := make([]lineItemResponse, len(l.LineItems))
	for i, li := range l.LineItems {
		items[i] = lineItemResponse{
			ID:          li.ID,
			BookingID:   li.BookingID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			LineTotal:   li.LineTotal,
		}
	}

	return ledgerResponse{
		Invoice:   toInvoiceResponse(l.Invoice),
		LineItems: items,
		Expenses:  toExpenseEntries(l.Expenses),
		ExtraTime: toExtraTimeList(l.ExtraTime),
		ExpenseSummary: expenseSummaryResponse{
			Count:      l.ExpenseSummary.Count,
			Total:      l.ExpenseSummary.Total,
			StaffPay:   l.ExpenseSummary.StaffPay,
			AdminCosts: l.ExpenseSummary.AdminCosts,
		},
		ExtraTimeSummary: extraTimeSummaryResponse{
			Count:        l.ExtraTimeSummary.Count,
			TotalMinutes: l.ExtraTimeSummary.TotalMinutes,
			TotalCost:    l.ExtraTimeSummary.TotalCost,
			Duration:     l.ExtraTimeSummary.Duration,
		},
		LineItemsTotal: l.LineItemsTotal,
		ComputedTotal:  l.ComputedTotal,
	}
}
