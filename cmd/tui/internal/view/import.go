package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/expense"
	"github.com/MrJamesThe3rd/careledger/internal/expense/csvimport"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateProfileSelect importState = iota
	importStateBranch
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type importProfile struct {
	name  string
	label string
}

var importProfiles = []importProfile{
	{"", "Detect automatically"},
	{csvimport.ProfileStaffClaims, "Staff expense claims"},
	{csvimport.ProfileCardStatement, "Company card statement"},
}

type ImportModel struct {
	CommonModel
	expenses *expense.Service
	parser   *csvimport.Parser
	orgID    uuid.UUID

	state         importState
	filePicker    filepicker.Model
	profileCursor int
	branchForm    *huh.Form
	branchID      uuid.UUID

	newParams    []expense.CreateParams
	conflicts    []expense.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(expenses *expense.Service, parser *csvimport.Parser, orgID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		expenses:   expenses,
		parser:     parser,
		orgID:      orgID,
		filePicker: fp,
		selected:   make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateProfileSelect:
			return m.updateProfileSelect(msg)
		case importStateConflicts:
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d expenses.", len(msg.result.Imported))

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = "Possible duplicate expenses"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenses.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateBranch:
		return m.updateBranch(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateBranch, importStateFilePick:
		m.state = importStateProfileSelect
		return m, nil
	case importStateResult:
		m.state = importStateProfileSelect
		m.err = nil
		m.status = ""

		return m, nil
	case importStateConflicts:
		m.state = importStateProfileSelect
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateProfileSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case tea.KeyDown:
		if m.profileCursor < len(importProfiles)-1 {
			m.profileCursor++
		}
	case tea.KeyEnter:
		m.branchForm = m.buildBranchForm()
		m.state = importStateBranch

		return m, m.branchForm.Init()
	}

	return m, nil
}

func (m ImportModel) buildBranchForm() *huh.Form {
	branch := ""
	if m.branchID != uuid.Nil {
		branch = m.branchID.String()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("branch").
				Title("Branch ID").
				Description("Expenses are booked against this branch").
				Value(&branch).
				Validate(func(s string) error {
					if _, err := uuid.Parse(s); err != nil {
						return fmt.Errorf("not a valid branch id")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) updateBranch(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.branchForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.branchForm = f
	}

	if m.branchForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.branchID = uuid.MustParse(m.branchForm.GetString("branch"))
	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateProfileSelect:
		return m.viewProfileSelect()
	case importStateBranch:
		return lipgloss.NewStyle().Padding(1).Render(m.branchForm.View())
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			m.conflictList.View() + "\n\nChecked rows are imported anyway.",
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewProfileSelect() string {
	s := "Select file format:\n\n"

	for i, p := range importProfiles {
		cursor := " "
		if i == m.profileCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s, branch %s):\n\n%s",
			importProfiles[m.profileCursor].label, ShortID(m.branchID), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *expense.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	profile := importProfiles[m.profileCursor].name
	orgID, branchID := m.orgID, m.branchID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.parser.ParseProfile(f, profile)
		if err != nil {
			return importResultMsg{err: err}
		}

		for i := range params {
			params[i].OrganizationID = orgID
			params[i].BranchID = branchID
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.expenses.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	newParams := m.newParams
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		var allParams []expense.CreateParams
		allParams = append(allParams, newParams...)

		for i, c := range conflicts {
			if !selected[i] {
				continue
			}

			allParams = append(allParams, c.Incoming)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := m.expenses.CreateBatch(ctx, allParams)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(created)}
	}
}

// Conflict list item

type conflictItem struct {
	conflict expense.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct {
	selected *map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		FormatDate(incoming.IncurredOn),
		FormatAmount(incoming.Amount),
		incoming.Description,
	)

	invoiced := "uninvoiced"
	if existing.Invoiced {
		invoiced = "invoiced"
	}

	line2 := fmt.Sprintf("      Existing: %s  %s  %s [%s, %s]",
		FormatDate(existing.IncurredOn),
		FormatAmount(existing.Amount),
		existing.Description,
		existing.Category,
		invoiced,
	)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
