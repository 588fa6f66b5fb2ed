package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Uncategorised is used when neither the import row nor a learned rule names a category.
const Uncategorised = "uncategorised"

// Expense is a cost incurred by a branch, optionally claimed by a staff member,
// that can later be attached to a client invoice.
type Expense struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	StaffID        *uuid.UUID      `json:"staff_id,omitempty"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"`
	IncurredOn     time.Time       `json:"incurred_on"`
	Invoiced       bool            `json:"invoiced"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}
