package csvimport_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/careledger/internal/expense/csvimport"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_StaffClaims(t *testing.T) {
	csv := `Date,Category,Description,Amount
14/05/2025,Travel,Mileage to Mrs Patel,"£1,012.40"
15/05/2025,PPE,Gloves,3.99
16/05/2025,Travel,Refund,-2.00
`

	p := csvimport.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2025, 5, 14), got[0].IncurredOn)
	assert.Equal(t, "travel", got[0].Category)
	assert.Equal(t, "Mileage to Mrs Patel", got[0].Description)
	assert.Equal(t, "1012.40", got[0].Amount.StringFixed(2))

	assert.Equal(t, "ppe", got[1].Category)
	assert.Equal(t, "3.99", got[1].Amount.StringFixed(2))
}

func TestParser_CardStatement(t *testing.T) {
	csv := `Company card statement
Account;**** 8016

Transaction Date;Posting Date;Merchant;Debit;Credit
2025-05-02;2025-05-03;UBER   *TRIP;47,91;
2025-05-04;2025-05-05;REFUND AMAZON;;25,00
2025-05-06;2025-05-07;BOOTS PHARMACY;1.204,10;
;;;Page 1/2;
`

	p := csvimport.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2025, 5, 2), got[0].IncurredOn)
	assert.Equal(t, "UBER   *TRIP", got[0].RawDescription)
	assert.Equal(t, "47.91", got[0].Amount.StringFixed(2))
	assert.Empty(t, got[0].Category)

	assert.Equal(t, "1204.10", got[1].Amount.StringFixed(2))
}

func TestParser_ForcedProfile(t *testing.T) {
	csv := "Date,Category,Description,Amount\n14/05/2025,Travel,Taxi,9.00\n"

	p := csvimport.NewParser()

	_, err := p.ParseProfile(strings.NewReader(csv), csvimport.ProfileCardStatement)
	assert.Error(t, err)

	got, err := p.ParseProfile(strings.NewReader(csv), csvimport.ProfileStaffClaims)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = p.ParseProfile(strings.NewReader(csv), "bank")
	assert.ErrorContains(t, err, "unknown import profile")
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "Date;Category;Description;Amount\n14/05/2025;Food;CAFÉ CENTRAL;£4,50\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := csvimport.NewParser()
	got, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ CENTRAL", got[0].RawDescription)
	assert.Equal(t, "4.50", got[0].Amount.StringFixed(2))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{"Empty", "", "no matching import format"},
		{"MissingDescription", "Date,Category,Description,Amount\n14/05/2025,Travel,,9.00\n", "description"},
		{"BadAmount", "Date,Category,Description,Amount\n14/05/2025,Travel,Taxi,nine\n", "invalid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvimport.NewParser().Parse(strings.NewReader(tt.csv))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParser_HeaderOnlyAndFooters(t *testing.T) {
	csv := "Date,Category,Description,Amount\nTotal,,,13.00\n"

	got, err := csvimport.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, got)
}
