package csvimport

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one amount column; negative values are refunds.
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns; only debits are expenses.
	amountSplit
)

// Profile describes the column layout of a supported CSV export.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	CategoryCol string // optional
	AmountMode  amountMode
	AmountCol   string // used when AmountMode == amountSingle
	DebitCol    string // used when AmountMode == amountSplit
	CreditCol   string // used when AmountMode == amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.CategoryCol != "" {
		cols = append(cols, p.CategoryCol)
	}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

const (
	ProfileStaffClaims   = "staff-claims"
	ProfileCardStatement = "card-statement"
)

// profiles is tried in order during auto-detection.
var profiles = []Profile{
	{
		Name:       ProfileCardStatement,
		DateCol:    "transaction date",
		DescCol:    "merchant",
		AmountMode: amountSplit,
		DebitCol:   "debit",
		CreditCol:  "credit",
	},
	{
		Name:        ProfileStaffClaims,
		DateCol:     "date",
		DescCol:     "description",
		CategoryCol: "category",
		AmountMode:  amountSingle,
		AmountCol:   "amount",
	},
}

func profileByName(name string) *Profile {
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i]
		}
	}

	return nil
}
