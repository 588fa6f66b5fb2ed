// Package payroll computes UK 2024/25 employee deductions for carers' pay.
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Annual  Period = "annual"
)

func (p Period) perYear() (int64, error) {
	switch p {
	case Weekly:
		return 52, nil
	case Monthly:
		return 12, nil
	case Annual:
		return 1, nil
	}

	return 0, fmt.Errorf("unknown pay period %q", p)
}

type LoanPlan string

const (
	Plan1        LoanPlan = "plan1"
	Plan2        LoanPlan = "plan2"
	Plan4        LoanPlan = "plan4"
	Plan5        LoanPlan = "plan5"
	Postgraduate LoanPlan = "postgraduate"
)

type loanTerms struct {
	threshold decimal.Decimal
	rate      decimal.Decimal
}

var loanPlans = map[LoanPlan]loanTerms{
	Plan1:        {decimal.NewFromInt(24990), decimal.RequireFromString("0.09")},
	Plan2:        {decimal.NewFromInt(27295), decimal.RequireFromString("0.09")},
	Plan4:        {decimal.NewFromInt(31395), decimal.RequireFromString("0.09")},
	Plan5:        {decimal.NewFromInt(25000), decimal.RequireFromString("0.09")},
	Postgraduate: {decimal.NewFromInt(21000), decimal.RequireFromString("0.06")},
}

var (
	personalAllowance = decimal.NewFromInt(12570)
	taperThreshold    = decimal.NewFromInt(100000)
	basicBand         = decimal.NewFromInt(37700)
	additionalFrom    = decimal.NewFromInt(125140)
	basicRate         = decimal.RequireFromString("0.20")
	higherRate        = decimal.RequireFromString("0.40")
	additionalRate    = decimal.RequireFromString("0.45")

	niPrimaryThreshold = decimal.NewFromInt(12570)
	niUpperLimit       = decimal.NewFromInt(50270)
	niMainRate         = decimal.RequireFromString("0.08")
	niUpperRate        = decimal.RequireFromString("0.02")

	two = decimal.NewFromInt(2)
)

var ErrNegativePay = errors.New("gross pay must not be negative")

type Input struct {
	Gross  decimal.Decimal `json:"gross"`
	Period Period          `json:"period"`
	Loans  []LoanPlan      `json:"loans"`
}

type Result struct {
	Gross             decimal.Decimal `json:"gross"`
	IncomeTax         decimal.Decimal `json:"income_tax"`
	NationalInsurance decimal.Decimal `json:"national_insurance"`
	StudentLoan       decimal.Decimal `json:"student_loan"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	NetPay            decimal.Decimal `json:"net_pay"`
}

func positive(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// IncomeTax is the annual tax on annual gross income.
func IncomeTax(annual decimal.Decimal) decimal.Decimal {
	allowance := personalAllowance
	if annual.GreaterThan(taperThreshold) {
		allowance = positive(allowance.Sub(annual.Sub(taperThreshold).Div(two)))
	}

	taxable := positive(annual.Sub(allowance))

	basic := decimal.Min(taxable, basicBand)
	higher := positive(decimal.Min(taxable, additionalFrom).Sub(basicBand))
	additional := positive(taxable.Sub(additionalFrom))

	return basic.Mul(basicRate).
		Add(higher.Mul(higherRate)).
		Add(additional.Mul(additionalRate))
}

// NationalInsurance is the annual employee Class 1 contribution.
func NationalInsurance(annual decimal.Decimal) decimal.Decimal {
	main := positive(decimal.Min(annual, niUpperLimit).Sub(niPrimaryThreshold))
	upper := positive(annual.Sub(niUpperLimit))

	return main.Mul(niMainRate).Add(upper.Mul(niUpperRate))
}

// StudentLoan is the annual repayment for one plan.
func StudentLoan(annual decimal.Decimal, plan LoanPlan) (decimal.Decimal, error) {
	terms, ok := loanPlans[plan]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown student loan plan %q", plan)
	}

	return positive(annual.Sub(terms.threshold)).Mul(terms.rate), nil
}

func validateLoans(loans []LoanPlan) error {
	undergrad := 0

	for _, p := range loans {
		if _, ok := loanPlans[p]; !ok {
			return fmt.Errorf("unknown student loan plan %q", p)
		}

		if p != Postgraduate {
			undergrad++
		}
	}

	if undergrad > 1 {
		return errors.New("at most one undergraduate loan plan applies")
	}

	return nil
}

// Calculate annualises gross pay, applies the annual rules and returns the
// per-period deductions rounded to pence.
func Calculate(in Input) (Result, error) {
	if in.Gross.IsNegative() {
		return Result{}, ErrNegativePay
	}

	periods, err := in.Period.perYear()
	if err != nil {
		return Result{}, err
	}

	if err := validateLoans(in.Loans); err != nil {
		return Result{}, err
	}

	n := decimal.NewFromInt(periods)
	annual := in.Gross.Mul(n)

	perPeriod := func(d decimal.Decimal) decimal.Decimal {
		return d.Div(n).Round(2)
	}

	loan := decimal.Zero

	for _, p := range in.Loans {
		l, _ := StudentLoan(annual, p)
		loan = loan.Add(perPeriod(l))
	}

	res := Result{
		Gross:             in.Gross.Round(2),
		IncomeTax:         perPeriod(IncomeTax(annual)),
		NationalInsurance: perPeriod(NationalInsurance(annual)),
		StudentLoan:       loan,
	}

	res.TotalDeductions = res.IncomeTax.Add(res.NationalInsurance).Add(res.StudentLoan)
	res.NetPay = res.Gross.Sub(res.TotalDeductions)

	return res, nil
}
