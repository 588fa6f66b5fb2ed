package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Timeframe is a predefined or custom window of visit dates.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeNextWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeNextWeek:
		return "Next Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// weekStart is the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday()+6) % 7
	return t.AddDate(0, 0, -offset)
}

func timeframeToDateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	var start, end time.Time

	switch tf {
	case TimeframeToday:
		start, end = now, now
	case TimeframeThisWeek:
		start = weekStart(now)
		end = start.AddDate(0, 0, 6)
	case TimeframeNextWeek:
		start = weekStart(now).AddDate(0, 0, 7)
		end = start.AddDate(0, 0, 6)
	case TimeframeLastWeek:
		start = weekStart(now).AddDate(0, 0, -7)
		end = start.AddDate(0, 0, 6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, -1)
	}

	return start, end
}

// normalizeDateRange widens start and end to whole days in the local zone.
func normalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.Local)
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
// Start and End are zero values when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	minFrame Timeframe

	form *huh.Form
}

// NewTimeframePicker creates a picker starting from the given minimum timeframe.
func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	return TimeframePicker{
		state:    timeframeStateSelect,
		selected: minFrame,
		minFrame: minFrame,
	}
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}

	return t, nil
}

func validDay(s string) error {
	_, err := parseDay(s)
	return err
}

func newRangeForm() *huh.Form {
	var start, end string

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&start).
				Validate(validDay),

			huh.NewInput().
				Key("end").
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&end).
				Validate(validDay),
		),
	).WithWidth(30).WithShowHelp(false)
}

// Update handles messages for the timeframe picker.
func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	switch m.state {
	case timeframeStateSelect:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.updateSelect(keyMsg)
		}
	case timeframeStateCustom:
		return m.updateCustom(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > m.minFrame {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.state = timeframeStateCustom
			m.form = newRangeForm()

			return m, m.form.Init()
		case TimeframeAll:
			return m, func() tea.Msg {
				return TimeframeSelectedMsg{All: true}
			}
		}

		start, end := normalizeDateRange(timeframeToDateRange(m.selected, time.Now()))

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Start: start, End: end}
		}
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = timeframeStateSelect
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	start, _ := parseDay(m.form.GetString("start"))
	end, _ := parseDay(m.form.GetString("end"))

	if end.Before(start) {
		start, end = end, start
	}

	start, end = normalizeDateRange(start, end)

	return m, func() tea.Msg {
		return TimeframeSelectedMsg{Start: start, End: end}
	}
}

// View renders the timeframe picker.
func (m TimeframePicker) View() string {
	if m.state == timeframeStateCustom {
		return "Enter Custom Range:\n\n" + m.form.View() + "\n(Enter to confirm, Esc to back)"
	}

	s := "Select Timeframe:\n\n"
	for i := m.minFrame; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, i.String())
	}

	return s + "\n(Enter to select, Esc to back)"
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = m.minFrame
	m.form = nil
}
