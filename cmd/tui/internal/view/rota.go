package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
)

type rotaState int

const (
	rotaStateTimeframe rotaState = iota
	rotaStateList
)

// visitItem wraps a booking to implement list.Item.
type visitItem struct {
	b *booking.Booking
}

func (i visitItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.b.Status))

	carer := "unassigned"
	if i.b.StaffID != nil {
		carer = "carer " + ShortID(*i.b.StaffID)
	}

	return fmt.Sprintf("%s-%s  %s  client %s  %s",
		FormatTime(i.b.StartTime), i.b.EndTime.Local().Format("15:04"), status, ShortID(i.b.ClientID), carer)
}

func (i visitItem) Description() string {
	var flags []string

	if i.b.Missed {
		flags = append(flags, errorStyle.Render("missed"))
	} else if i.b.LateStart {
		flags = append(flags, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("late start"))
	}

	if s := i.b.CancellationRequestStatus; s != nil {
		flags = append(flags, fmt.Sprintf("cancellation %s", *s))
	}

	if s := i.b.RescheduleRequestStatus; s != nil {
		flags = append(flags, fmt.Sprintf("reschedule %s", *s))
	}

	return strings.Join(flags, "  ")
}

func (i visitItem) FilterValue() string {
	return i.b.ClientID.String() + " " + string(i.b.Status)
}

// RotaModel browses the visits of a date range and can run the late-visit check.
type RotaModel struct {
	CommonModel
	bookings *booking.Service
	orgID    uuid.UUID

	state           rotaState
	timeframePicker TimeframePicker
	list            list.Model

	startDate time.Time
	endDate   time.Time
	allTime   bool
	loading   bool
	status    string
}

func NewRotaModel(bookings *booking.Service, orgID uuid.UUID) RotaModel {
	l := list.New([]list.Item{}, visitDelegate{}, 0, 0)
	l.Title = "Visits"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return RotaModel{
		bookings:        bookings,
		orgID:           orgID,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		list:            l,
	}
}

func (m RotaModel) Title() string { return "Visit Rota" }

func (m RotaModel) ShortHelp() string {
	switch m.state {
	case rotaStateTimeframe:
		return "Esc: back | Enter: select"
	case rotaStateList:
		return "Esc: back | a: run late visit check | /: filter"
	}

	return ""
}

func (m RotaModel) Init() tea.Cmd {
	return nil
}

func (m RotaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.loading = true
		m.state = rotaStateList

		return m, m.loadCmd()

	case loadVisitsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.visits))
		for i, b := range msg.visits {
			items[i] = visitItem{b: b}
		}

		m.list.SetItems(items)

		if len(msg.visits) == 0 {
			m.status = "No visits found."
		}

		return m, nil

	case alertsMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error running alerts: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Flagged %d late starts and %d missed visits.", msg.result.LateStarts, msg.result.Missed)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case rotaStateTimeframe:
		return m.updateTimeframe(msg)
	case rotaStateList:
		return m.updateList(msg)
	}

	return m, nil
}

func (m RotaModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m RotaModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = rotaStateTimeframe
			m.timeframePicker.Reset()
			m.status = ""

			return m, nil
		case "a":
			return m, m.alertsCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RotaModel) View() string {
	switch m.state {
	case rotaStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case rotaStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading visits...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
	}

	return ""
}

// Messages

type loadVisitsMsg struct {
	visits []*booking.Booking
	err    error
}

func (m RotaModel) loadCmd() tea.Cmd {
	filter := booking.BookingFilter{OrganizationID: m.orgID}

	if !m.allTime {
		start, end := m.startDate, m.endDate
		filter.From = &start
		filter.To = &end
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		visits, err := m.bookings.ListBookings(ctx, filter)

		return loadVisitsMsg{visits: visits, err: err}
	}
}

type alertsMsg struct {
	result booking.AlertResult
	err    error
}

func (m RotaModel) alertsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.bookings.GenerateVisitAlerts(ctx)

		return alertsMsg{result: res, err: err}
	}
}

// visitDelegate renders items in the list.
type visitDelegate struct{}

func (d visitDelegate) Height() int                             { return 2 }
func (d visitDelegate) Spacing() int                            { return 0 }
func (d visitDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d visitDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(visitItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", desc)
}
