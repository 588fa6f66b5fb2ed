// Package csvimport reads staff expense claims and company card statements
// exported as CSV and turns them into expense params.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/careledger/internal/encoding"
	"github.com/MrJamesThe3rd/careledger/internal/expense"
)

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02.01.2006"}

var delimiters = []rune{',', ';', '\t'}

// Parser auto-detects the delimiter and the export profile from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads r with any supported profile.
func (p *Parser) Parse(r io.Reader) ([]expense.CreateParams, error) {
	return p.ParseProfile(r, "")
}

// ParseProfile reads r, only accepting the named profile when name is not empty.
func (p *Parser) ParseProfile(r io.Reader, name string) ([]expense.CreateParams, error) {
	candidates := profiles

	if name != "" {
		prof := profileByName(name)
		if prof == nil {
			return nil, fmt.Errorf("unknown import profile %q", name)
		}

		candidates = []Profile{*prof}
	}

	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("decoded import file", "charset", utf8r.Charset)

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, delim := range delimiters {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		rows, err := reader.ReadAll()
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(candidates, rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("no matching import format found: expected columns for %s or %s",
		ProfileStaffClaims, ProfileCardStatement)
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func detectProfile(candidates []Profile, rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range candidates {
			if matchesProfile(&candidates[i], cols) {
				return &candidates[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts expenses from data rows. Rows without a parseable date
// (blank lines, totals, footers) are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]expense.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	catIdx := -1
	if p.CategoryCol != "" {
		catIdx = cols[p.CategoryCol]
	}

	var out []expense.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, ok, err := rowAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		out = append(out, expense.CreateParams{
			Category:       strings.ToLower(cellValue(row, catIdx)),
			Description:    desc,
			RawDescription: desc,
			Amount:         amount.Round(2),
			IncurredOn:     date,
		})
	}

	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount returns ok=false for rows that are not expenses: refunds, credits and zero amounts.
func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool, error) {
	switch p.AmountMode {
	case amountSingle:
		d, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid amount: %w", err)
		}

		return d, d.IsPositive(), nil
	case amountSplit:
		s := cellValue(row, cols[p.DebitCol])
		if s == "" {
			return decimal.Zero, false, nil
		}

		d, err := parseAmount(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid debit: %w", err)
		}

		d = d.Abs()

		return d, d.IsPositive(), nil
	}

	return decimal.Zero, false, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
