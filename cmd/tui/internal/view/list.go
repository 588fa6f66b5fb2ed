package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/invoice"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateLedger
)

// InvoicesModel lists invoices and runs the ledger actions on the selected one.
type InvoicesModel struct {
	CommonModel
	invoices   *invoice.Service
	orgID      uuid.UUID
	reviewerID uuid.UUID

	state  listState
	table  table.Model
	items  []*invoice.Invoice
	ledger *invoice.Ledger

	lockFilterIdx int
	filter        invoice.ListFilter

	loading bool
	err     error
	status  string
}

func NewInvoicesModel(invoices *invoice.Service, orgID, reviewerID uuid.UUID) InvoicesModel {
	columns := []table.Column{
		{Title: "Start", Width: 12},
		{Title: "End", Width: 12},
		{Title: "Client", Width: 10},
		{Title: "Status", Width: 8},
		{Title: "Total", Width: 12},
		{Title: "Invoice", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InvoicesModel{
		invoices:   invoices,
		orgID:      orgID,
		reviewerID: reviewerID,
		table:      t,
		filter:     invoice.ListFilter{OrganizationID: orgID},
		loading:    true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == listStateLedger {
		return "Esc: back to list"
	}
	return "Esc: back | Enter: ledger | l: lock/unlock | g: generate | c: recalculate | s: status filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.items = msg.items
		m.refreshTable()
		return m, nil

	case ledgerMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading ledger: %v", msg.err)
			return m, nil
		}
		m.ledger = msg.ledger
		m.state = listStateLedger
		m.table.Blur()
		return m, nil

	case invoiceActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = msg.done
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateLedger:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.ledger = nil
			m.table.Focus()
		}
	}

	return m, nil
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.lockFilterIdx = (m.lockFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadCmd()
		}

		inv := m.selected()
		if inv == nil {
			return m, nil
		}

		switch keyMsg.String() {
		case "enter":
			return m, m.ledgerCmd(inv.ID)
		case "l":
			return m, m.toggleLockCmd(inv)
		case "g":
			return m, m.generateCmd(inv.ID)
		case "c":
			return m, m.recalculateCmd(inv.ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == listStateLedger && m.ledger != nil {
		return lipgloss.NewStyle().Padding(1).Render(renderLedger(m.ledger) + "\n\n(Esc to go back)")
	}

	lockLabels := []string{"All", "Open", "Locked"}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(lockLabels[m.lockFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func renderLedger(l *invoice.Ledger) string {
	var sb strings.Builder

	inv := l.Invoice
	title := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Invoice %s  %s to %s", ShortID(inv.ID), FormatDate(inv.StartDate), FormatDate(inv.EndDate)))
	sb.WriteString(title + "\n\n")

	sb.WriteString("Visits\n")
	for _, li := range l.LineItems {
		fmt.Fprintf(&sb, "  %-40s %6s x %10s = %10s\n",
			li.Description, li.Quantity.StringFixed(2), FormatAmount(li.UnitPrice), FormatAmount(li.LineTotal))
	}

	sb.WriteString("\nExpenses\n")
	for _, e := range l.Expenses {
		fmt.Fprintf(&sb, "  %-15s %-33s %10s\n", e.Category, e.Description, FormatAmount(e.Amount))
	}

	sb.WriteString("\nExtra time\n")
	for _, x := range l.ExtraTime {
		fmt.Fprintf(&sb, "  %s  %-10s %10s\n",
			FormatDate(x.WorkDate), invoice.FormatMinutes(x.ExtraMinutes), FormatAmount(x.TotalCost))
	}

	fmt.Fprintf(&sb, "\nVisits total:      %s\n", FormatAmount(l.LineItemsTotal))
	fmt.Fprintf(&sb, "Expenses (%d):      %s  staff pay %s  admin %s\n",
		l.ExpenseSummary.Count, FormatAmount(l.ExpenseSummary.Total),
		FormatAmount(l.ExpenseSummary.StaffPay), FormatAmount(l.ExpenseSummary.AdminCosts))
	fmt.Fprintf(&sb, "Extra time (%d):    %s  %s\n",
		l.ExtraTimeSummary.Count, FormatAmount(l.ExtraTimeSummary.TotalCost), l.ExtraTimeSummary.Duration)
	fmt.Fprintf(&sb, "Stored total:      %s\n", FormatAmount(inv.CurrentTotal()))
	fmt.Fprintf(&sb, "Computed total:    %s", FormatAmount(l.ComputedTotal))

	return sb.String()
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *InvoicesModel) applyFilter() {
	switch m.lockFilterIdx {
	case 1:
		m.filter.Locked = new(false)
	case 2:
		m.filter.Locked = new(true)
	default:
		m.filter.Locked = nil
	}
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, inv := range m.items {
		status := "open"
		if inv.Locked {
			status = "locked"
		}
		rows = append(rows, table.Row{
			FormatDate(inv.StartDate),
			FormatDate(inv.EndDate),
			ShortID(inv.ClientID),
			status,
			FormatAmount(inv.CurrentTotal()),
			ShortID(inv.ID),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	items []*invoice.Invoice
	err   error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.invoices.List(ctx, filter)
		return loadInvoicesMsg{items: items, err: err}
	}
}

type ledgerMsg struct {
	ledger *invoice.Ledger
	err    error
}

func (m InvoicesModel) ledgerCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		l, err := m.invoices.Ledger(ctx, m.orgID, id)
		return ledgerMsg{ledger: l, err: err}
	}
}

type invoiceActionMsg struct {
	done string
	err  error
}

func (m InvoicesModel) toggleLockCmd(inv *invoice.Invoice) tea.Cmd {
	id, locked := inv.ID, inv.Locked

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if locked {
			return invoiceActionMsg{done: "Invoice unlocked.", err: m.invoices.Unlock(ctx, m.orgID, id)}
		}

		return invoiceActionMsg{done: "Invoice locked.", err: m.invoices.Lock(ctx, m.orgID, id, m.reviewerID)}
	}
}

func (m InvoicesModel) generateCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.invoices.Generate(ctx, m.orgID, id)
		return invoiceActionMsg{done: fmt.Sprintf("Generated %d line items.", n), err: err}
	}
}

func (m InvoicesModel) recalculateCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		total, err := m.invoices.Recalculate(ctx, m.orgID, id)
		return invoiceActionMsg{done: "Total is now " + FormatAmount(total) + ".", err: err}
	}
}
