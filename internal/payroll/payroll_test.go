package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/payroll"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestIncomeTax(t *testing.T) {
	tests := []struct {
		annual string
		want   string
	}{
		{"10000", "0"},
		{"12570", "0"},
		{"30000", "3486"},
		{"60000", "11432"},
		{"110000", "33432"},
		{"150000", "53703"},
	}

	for _, tt := range tests {
		t.Run(tt.annual, func(t *testing.T) {
			assertDecimal(t, tt.want, payroll.IncomeTax(dec(tt.annual)))
		})
	}
}

func TestNationalInsurance(t *testing.T) {
	tests := []struct {
		annual string
		want   string
	}{
		{"12000", "0"},
		{"30000", "1394.40"},
		{"60000", "3210.60"},
		{"110000", "4210.60"},
	}

	for _, tt := range tests {
		t.Run(tt.annual, func(t *testing.T) {
			assertDecimal(t, tt.want, payroll.NationalInsurance(dec(tt.annual)))
		})
	}
}

func TestStudentLoan(t *testing.T) {
	got, err := payroll.StudentLoan(dec("30000"), payroll.Plan2)
	require.NoError(t, err)
	assertDecimal(t, "243.45", got)

	got, err = payroll.StudentLoan(dec("20000"), payroll.Plan1)
	require.NoError(t, err)
	assertDecimal(t, "0", got)

	got, err = payroll.StudentLoan(dec("31000"), payroll.Postgraduate)
	require.NoError(t, err)
	assertDecimal(t, "600", got)

	_, err = payroll.StudentLoan(dec("30000"), "plan9")
	assert.Error(t, err)
}

func TestCalculate_Monthly(t *testing.T) {
	res, err := payroll.Calculate(payroll.Input{
		Gross:  dec("2500"),
		Period: payroll.Monthly,
		Loans:  []payroll.LoanPlan{payroll.Plan2},
	})
	require.NoError(t, err)

	assertDecimal(t, "290.50", res.IncomeTax)
	assertDecimal(t, "116.20", res.NationalInsurance)
	assertDecimal(t, "20.29", res.StudentLoan)
	assertDecimal(t, "426.99", res.TotalDeductions)
	assertDecimal(t, "2073.01", res.NetPay)
}

func TestCalculate_Annual(t *testing.T) {
	res, err := payroll.Calculate(payroll.Input{Gross: dec("60000"), Period: payroll.Annual})
	require.NoError(t, err)

	assertDecimal(t, "11432", res.IncomeTax)
	assertDecimal(t, "3210.60", res.NationalInsurance)
	assertDecimal(t, "0", res.StudentLoan)
	assertDecimal(t, "45357.40", res.NetPay)
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   payroll.Input
	}{
		{"NegativeGross", payroll.Input{Gross: dec("-1"), Period: payroll.Monthly}},
		{"UnknownPeriod", payroll.Input{Gross: dec("100"), Period: "fortnightly"}},
		{"TwoUndergraduatePlans", payroll.Input{
			Gross: dec("100"), Period: payroll.Weekly, Loans: []payroll.LoanPlan{payroll.Plan1, payroll.Plan2},
		}},
		{"UnknownPlan", payroll.Input{Gross: dec("100"), Period: payroll.Weekly, Loans: []payroll.LoanPlan{"plan3"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payroll.Calculate(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestCalculate_PostgraduateWithUndergraduate(t *testing.T) {
	res, err := payroll.Calculate(payroll.Input{
		Gross:  dec("36000"),
		Period: payroll.Annual,
		Loans:  []payroll.LoanPlan{payroll.Plan2, payroll.Postgraduate},
	})
	require.NoError(t, err)

	// (36000-27295)*0.09 + (36000-21000)*0.06
	assertDecimal(t, "1683.45", res.StudentLoan)
}
