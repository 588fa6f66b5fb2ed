package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a billable period for one client.
type Invoice struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ClientID       uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	Total          *decimal.Decimal // nil until the ledger has been totalled
	Amount         decimal.Decimal  // legacy total column
	Locked         bool
	LockedAt       *time.Time
	LockedBy       *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	Version        int64 // bumped by every ledger transaction
}

// CurrentTotal returns Total, falling back to the legacy Amount when Total is unset.
func (i *Invoice) CurrentTotal() decimal.Decimal {
	if i.Total != nil {
		return *i.Total
	}

	return i.Amount
}

// LineItem is one billable visit on an invoice.
type LineItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	BookingID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// ExpenseEntry is a copy of a standalone expense billed on an invoice.
type ExpenseEntry struct {
	ID               uuid.UUID
	InvoiceID        uuid.UUID
	OrganizationID   uuid.UUID
	Category         string
	Description      string
	Amount           decimal.Decimal
	StaffPayAmount   *decimal.Decimal
	AdminCostPercent *decimal.Decimal
	SourceExpenseID  *uuid.UUID
	CreatedAt        time.Time
}

// ExtraTimeRecord is a staff overtime claim. TotalCost is frozen when the record is created.
type ExtraTimeRecord struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	StaffID        uuid.UUID
	ClientID       uuid.UUID
	BookingID      *uuid.UUID
	WorkDate       time.Time
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    time.Time
	ActualEnd      time.Time
	HourlyRate     decimal.Decimal
	OvertimeRate   decimal.Decimal
	ExtraMinutes   int
	TotalCost      decimal.Decimal
	Invoiced       bool
	InvoiceID      *uuid.UUID
	CreatedAt      time.Time
}

// Ledger is the full read model of an invoice.
type Ledger struct {
	Invoice   *Invoice
	LineItems []*LineItem
	Expenses  []*ExpenseEntry
	ExtraTime []*ExtraTimeRecord

	ExpenseSummary   ExpenseSummary
	ExtraTimeSummary ExtraTimeSummary
	LineItemsTotal   decimal.Decimal
	ComputedTotal    decimal.Decimal
}
