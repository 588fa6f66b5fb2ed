package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	DeleteExpense(ctx context.Context, orgID uuid.UUID, id uuid.UUID) error

	BeginImport(ctx context.Context, orgID uuid.UUID, minDate time.Time, maxDate time.Time) (ImportTx, error)
}

// ImportTx holds the organization's import lock for a date range until Commit or Rollback.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Expense, error)
	CreateExpenses(ctx context.Context, expenses []*Expense) error
	Commit() error
	Rollback() error
}

// Categorizer suggests a category for a raw bank or claim description.
type Categorizer interface {
	Suggest(ctx context.Context, orgID uuid.UUID, rawDescription string) (string, error)
}

type Service struct {
	repo        Repository
	categorizer Categorizer
}

func NewService(repo Repository, categorizer Categorizer) *Service {
	return &Service{repo: repo, categorizer: categorizer}
}

type CreateParams struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	StaffID        *uuid.UUID      `json:"staff_id,omitempty"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"`
	IncurredOn     time.Time       `json:"incurred_on"`
}

func (p CreateParams) validate() error {
	switch {
	case p.OrganizationID == uuid.Nil:
		return &ValidationError{Field: "organization_id", Reason: "is required"}
	case p.BranchID == uuid.Nil:
		return &ValidationError{Field: "branch_id", Reason: "is required"}
	case strings.TrimSpace(p.Description) == "":
		return &ValidationError{Field: "description", Reason: "is required"}
	case p.Amount.IsNegative():
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	case p.IncurredOn.IsZero():
		return &ValidationError{Field: "incurred_on", Reason: "is required"}
	}

	return nil
}

type ListFilter struct {
	OrganizationID uuid.UUID
	Uninvoiced     bool
	StaffID        *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	params = s.categorize(ctx, params)

	e := newExpense(params)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, orgID, id)
}

type ImportResult struct {
	Imported  []*Expense     `json:"imported"`
	New       []CreateParams `json:"new,omitempty"`
	Conflicts []Conflict     `json:"conflicts,omitempty"`
}

// Conflict pairs an incoming row with the stored expense it duplicates.
type Conflict struct {
	Incoming CreateParams `json:"incoming"`
	Existing *Expense     `json:"existing"`
}

// ImportBatch stores params unless any of them duplicates an existing expense
// of the same organization, in which case nothing is written and the split is
// returned for the caller to resolve.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	orgID, err := s.prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, orgID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Expense, len(duplicates))

	for _, d := range duplicates {
		lookup[keyOf(d.IncurredOn, d.Amount, d.RawDescription)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.IncurredOn, p.Amount, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	expenses := paramsToExpenses(newParams)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: expenses}, nil
}

// CreateBatch stores params without duplicate detection. It is used once the
// caller has resolved the conflicts reported by ImportBatch.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	orgID, err := s.prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, orgID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	expenses := paramsToExpenses(params)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return expenses, nil
}

// prepare validates and categorizes params in place. All rows must belong to one organization.
func (s *Service) prepare(ctx context.Context, params []CreateParams) (uuid.UUID, error) {
	orgID := params[0].OrganizationID

	for i := range params {
		if err := params[i].validate(); err != nil {
			return uuid.Nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		if params[i].OrganizationID != orgID {
			return uuid.Nil, &ValidationError{Field: "organization_id", Reason: "all rows must share one organization"}
		}

		params[i] = s.categorize(ctx, params[i])
	}

	return orgID, nil
}

func (s *Service) categorize(ctx context.Context, p CreateParams) CreateParams {
	if p.RawDescription == "" {
		p.RawDescription = p.Description
	}

	if strings.TrimSpace(p.Category) != "" {
		return p
	}

	p.Category = Uncategorised

	if s.categorizer == nil {
		return p
	}

	category, err := s.categorizer.Suggest(ctx, p.OrganizationID, p.RawDescription)
	if err != nil {
		slog.Warn("failed to suggest category", "raw_description", p.RawDescription, "error", err)
		return p
	}

	if category != "" {
		p.Category = category
	}

	return p
}

type dupKey struct {
	Date           string
	Amount         string
	RawDescription string
}

func keyOf(date time.Time, amount decimal.Decimal, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		RawDescription: raw,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].IncurredOn
	maxDate := params[0].IncurredOn

	for _, p := range params[1:] {
		if p.IncurredOn.Before(minDate) {
			minDate = p.IncurredOn
		}

		if p.IncurredOn.After(maxDate) {
			maxDate = p.IncurredOn
		}
	}

	return minDate, maxDate
}

func newExpense(p CreateParams) *Expense {
	return &Expense{
		OrganizationID: p.OrganizationID,
		BranchID:       p.BranchID,
		StaffID:        p.StaffID,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Amount:         p.Amount.Round(2),
		IncurredOn:     p.IncurredOn,
	}
}

func paramsToExpenses(params []CreateParams) []*Expense {
	expenses := make([]*Expense, len(params))
	for i, p := range params {
		expenses[i] = newExpense(p)
	}

	return expenses
}
