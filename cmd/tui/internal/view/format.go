package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// FormatAmount formats a money amount with two decimals and a pound sign.
func FormatAmount(d decimal.Decimal) string {
	return "£" + d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatTime formats a visit time in the local zone.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// ShortID is the first block of a UUID, enough to tell rows apart on screen.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
