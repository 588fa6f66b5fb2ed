package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

// Ledgers is the read side of the invoice service.
type Ledgers interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
	Ledger(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*invoice.Ledger, error)
}

// Item is one exported invoice ledger.
type Item struct {
	Ledger   *invoice.Ledger
	FileName string
	FilePath string // empty when the ledger was written to an archive
}

// Service renders invoice ledgers as CSV.
type Service struct {
	ledgers Ledgers
}

func NewService(ledgers Ledgers) *Service {
	return &Service{ledgers: ledgers}
}

var header = []string{"section", "description", "quantity", "unit_price", "amount"}

// WriteCSV writes one row per visit, expense entry and extra-time record,
// followed by the summary rows.
func WriteCSV(w io.Writer, l *invoice.Ledger) error {
	cw := csv.NewWriter(w)

	rows := [][]string{header}

	for _, li := range l.LineItems {
		rows = append(rows, []string{"visit", li.Description, li.Quantity.StringFixed(2), li.UnitPrice.StringFixed(2), li.LineTotal.StringFixed(2)})
	}

	for _, e := range l.Expenses {
		desc := e.Category
		if e.Description != "" {
			desc += ": " + e.Description
		}

		rows = append(rows, []string{"expense", desc, "1", e.Amount.StringFixed(2), e.Amount.StringFixed(2)})
	}

	for _, x := range l.ExtraTime {
		desc := fmt.Sprintf("Extra time %s (%s)", x.WorkDate.Format("2006-01-02"), invoice.FormatMinutes(x.ExtraMinutes))
		hours := decimal.NewFromInt(int64(x.ExtraMinutes)).Div(decimal.NewFromInt(60))
		rate := x.HourlyRate.Mul(x.OvertimeRate)

		rows = append(rows, []string{"extra_time", desc, hours.StringFixed(2), rate.StringFixed(2), x.TotalCost.StringFixed(2)})
	}

	rows = append(rows,
		[]string{"total", "Visits", "", "", l.LineItemsTotal.StringFixed(2)},
		[]string{"total", "Expenses", "", "", l.ExpenseSummary.Total.StringFixed(2)},
		[]string{"total", "Extra time", "", "", l.ExtraTimeSummary.TotalCost.StringFixed(2)},
		[]string{"total", "Invoice total", "", "", l.Invoice.CurrentTotal().StringFixed(2)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing ledger csv: %w", err)
	}

	return nil
}

// FileName is "invoice_<start>_<end>_<short id>.csv".
func FileName(inv *invoice.Invoice) string {
	return fmt.Sprintf("invoice_%s_%s_%s.csv",
		inv.StartDate.Format("20060102"), inv.EndDate.Format("20060102"), inv.ID.String()[:8])
}

func (s *Service) collect(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Ledger, error) {
	invoices, err := s.ledgers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	ledgers := make([]*invoice.Ledger, 0, len(invoices))

	for _, inv := range invoices {
		l, err := s.ledgers.Ledger(ctx, filter.OrganizationID, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("loading ledger %s: %w", inv.ID, err)
		}

		ledgers = append(ledgers, l)
	}

	return ledgers, nil
}

// Export writes the ledger of every invoice matching filter to outputDir.
func (s *Service) Export(ctx context.Context, filter invoice.ListFilter, outputDir string) ([]Item, error) {
	ledgers, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(ledgers))

	for _, l := range ledgers {
		name := FileName(l.Invoice)
		path := filepath.Join(outputDir, name)

		if err := writeFile(path, l); err != nil {
			return nil, err
		}

		items = append(items, Item{Ledger: l, FileName: name, FilePath: path})
	}

	return items, nil
}

func writeFile(path string, l *invoice.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, l); err != nil {
		return err
	}

	return f.Close()
}

// Archive streams a zip of the matching ledgers plus a summary.txt to w.
func (s *Service) Archive(ctx context.Context, filter invoice.ListFilter, w io.Writer) ([]Item, error) {
	ledgers, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}

	zw := zip.NewWriter(w)
	items := make([]Item, 0, len(ledgers))

	for _, l := range ledgers {
		name := FileName(l.Invoice)

		zf, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}

		if err := WriteCSV(zf, l); err != nil {
			return nil, err
		}

		items = append(items, Item{Ledger: l, FileName: name})
	}

	zf, err := zw.Create("summary.txt")
	if err != nil {
		return nil, fmt.Errorf("adding summary: %w", err)
	}

	if _, err := io.WriteString(zf, Summary(items)); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return items, nil
}

// Summary lists each exported invoice on one line, suitable for an email body.
func Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		inv := item.Ledger.Invoice

		status := "open"
		if inv.Locked {
			status = "locked"
		}

		fmt.Fprintf(&sb, "* %s to %s | %s | £%s | %s\n",
			inv.StartDate.Format("2006-01-02"), inv.EndDate.Format("2006-01-02"),
			status, inv.CurrentTotal().StringFixed(2), item.FileName)
	}

	return sb.String()
}
