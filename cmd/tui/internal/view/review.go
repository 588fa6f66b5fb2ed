package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
)

// RequestKind selects which queue the review screen works through.
type RequestKind int

const (
	KindChangeRequests RequestKind = iota
	KindUnavailability
)

func (k RequestKind) String() string {
	if k == KindUnavailability {
		return "Carer Unavailability"
	}

	return "Client Change Requests"
}

type ReviewState int

const (
	StateLoading ReviewState = iota
	StateReviewing
	StateReassigning
	StateDone
)

// pendingItem is one queued request, whichever kind it is.
type pendingItem struct {
	id      uuid.UUID
	summary string
}

type ReviewModel struct {
	CommonModel
	bookings   *booking.Service
	orgID      uuid.UUID
	reviewerID uuid.UUID
	kind       RequestKind

	state ReviewState

	queue      []pendingItem
	current    *pendingItem
	totalCount int

	notesInput textinput.Model
	staffInput textinput.Model

	status string
}

func NewReviewModel(bookings *booking.Service, orgID, reviewerID uuid.UUID, kind RequestKind) ReviewModel {
	notes := textinput.New()
	notes.Placeholder = "Notes for the requester (optional)"
	notes.Width = 60

	staff := textinput.New()
	staff.Placeholder = "Carer ID"
	staff.CharLimit = 36
	staff.Width = 40
	staff.Prompt = "New carer: "

	return ReviewModel{
		bookings:   bookings,
		orgID:      orgID,
		reviewerID: reviewerID,
		kind:       kind,
		notesInput: notes,
		staffInput: staff,
		state:      StateLoading,
		status:     "Loading pending requests...",
	}
}

func (m ReviewModel) Title() string { return m.kind.String() }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case StateReviewing:
		return "Enter: approve | Ctrl+R: reject | Tab: skip | Esc: back"
	case StateReassigning:
		return "Enter: reassign | Esc: leave unassigned"
	}

	return "Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateReviewing:
			switch msg.String() {
			case "esc":
				return m, Back
			case "enter":
				return m, m.decideCmd(booking.Approve)
			case "ctrl+r":
				return m, m.decideCmd(booking.Reject)
			case "tab":
				m.nextRequest()
				return m, textinput.Blink
			}

		case StateReassigning:
			switch msg.String() {
			case "esc":
				m.staffInput.Blur()
				m.nextRequest()

				return m, textinput.Blink
			case "enter":
				staffID, err := uuid.Parse(strings.TrimSpace(m.staffInput.Value()))
				if err != nil {
					m.status = "Invalid carer ID"
					return m, nil
				}

				return m, m.reassignCmd(staffID)
			}

		default:
			if msg.String() == "esc" {
				return m, Back
			}
		}

	case loadPendingMsg:
		if msg.err != nil {
			m.state = StateDone
			m.status = fmt.Sprintf("Error loading requests: %v", msg.err)

			break
		}

		m.queue = msg.items
		m.totalCount = len(m.queue)

		if len(m.queue) > 0 {
			m.nextRequest()
			return m, textinput.Blink
		}

		m.state = StateDone
		m.status = "No pending requests."

	case decisionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			break
		}

		if m.kind == KindUnavailability && msg.decision == booking.Approve {
			m.state = StateReassigning
			m.status = "Approved. Assign the visit to another carer?"
			m.notesInput.Blur()
			m.staffInput.SetValue("")
			m.staffInput.Focus()

			return m, textinput.Blink
		}

		m.nextRequest()

		return m, textinput.Blink

	case reassignMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error reassigning: %v", msg.err)
			break
		}

		m.staffInput.Blur()
		m.nextRequest()

		return m, textinput.Blink
	}

	switch m.state {
	case StateReviewing:
		m.notesInput, cmd = m.notesInput.Update(msg)
	case StateReassigning:
		m.staffInput, cmd = m.staffInput.Update(msg)
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	content := ""

	switch m.state {
	case StateReviewing:
		content = fmt.Sprintf("%s\n\n%s\n\nAdmin notes:\n%s\n\n(Enter approve, Ctrl+R reject, Tab skip, Esc back)",
			m.status, m.current.summary, m.notesInput.View())
	case StateReassigning:
		content = fmt.Sprintf("%s\n\n%s\n\n%s\n\n(Enter to reassign, Esc to leave unassigned)",
			m.status, m.current.summary, m.staffInput.View())
	default:
		content = m.status + "\n\n(Esc to back)"
	}

	header := lipgloss.NewStyle().Bold(true).Render(m.kind.String())

	return lipgloss.NewStyle().Padding(2).Render(header + "\n\n" + content)
}

func (m *ReviewModel) nextRequest() {
	if len(m.queue) == 0 {
		m.current = nil
		m.state = StateDone
		m.status = "All done! No more pending requests."
		m.notesInput.Blur()

		return
	}

	item := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &item
	m.state = StateReviewing

	currentIdx := m.totalCount - len(m.queue)
	m.status = fmt.Sprintf("Reviewing %d/%d", currentIdx, m.totalCount)
	m.notesInput.SetValue("")
	m.notesInput.Focus()
}

type loadPendingMsg struct {
	items []pendingItem
	err   error
}

func (m ReviewModel) loadPendingCmd() tea.Cmd {
	filter := booking.RequestFilter{OrganizationID: m.orgID, Status: new(booking.RequestPending)}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if m.kind == KindUnavailability {
			reqs, err := m.bookings.ListUnavailability(ctx, filter)
			if err != nil {
				return loadPendingMsg{err: err}
			}

			items := make([]pendingItem, len(reqs))
			for i, r := range reqs {
				items[i] = pendingItem{id: r.ID, summary: unavailabilitySummary(ctx, m.bookings, m.orgID, r)}
			}

			return loadPendingMsg{items: items}
		}

		reqs, err := m.bookings.ListChangeRequests(ctx, filter)
		if err != nil {
			return loadPendingMsg{err: err}
		}

		items := make([]pendingItem, len(reqs))
		for i, r := range reqs {
			items[i] = pendingItem{id: r.ID, summary: changeSummary(ctx, m.bookings, m.orgID, r)}
		}

		return loadPendingMsg{items: items}
	}
}

func visitLine(ctx context.Context, bookings *booking.Service, orgID, id uuid.UUID) string {
	b, err := bookings.GetBooking(ctx, orgID, id)
	if err != nil {
		return fmt.Sprintf("Visit:  %s (unavailable: %v)", ShortID(id), err)
	}

	return fmt.Sprintf("Visit:  %s to %s [%s]", FormatTime(b.StartTime), b.EndTime.Local().Format("15:04"), b.Status)
}

func changeSummary(ctx context.Context, bookings *booking.Service, orgID uuid.UUID, r *booking.ChangeRequest) string {
	lines := []string{
		fmt.Sprintf("Type:   %s", r.Type),
		visitLine(ctx, bookings, orgID, r.BookingID),
		fmt.Sprintf("Client: %s", ShortID(r.ClientID)),
		fmt.Sprintf("Reason: %s", r.Reason),
	}

	if r.Type == booking.RequestReschedule && r.NewDate != nil && r.NewTime != nil {
		lines = append(lines, fmt.Sprintf("Move to: %s %s", *r.NewDate, *r.NewTime))
	}

	return strings.Join(lines, "\n")
}

func unavailabilitySummary(ctx context.Context, bookings *booking.Service, orgID uuid.UUID, r *booking.UnavailabilityRequest) string {
	lines := []string{
		visitLine(ctx, bookings, orgID, r.BookingID),
		fmt.Sprintf("Carer:  %s", ShortID(r.StaffID)),
		fmt.Sprintf("Reason: %s", r.Reason),
	}

	if r.Notes != "" {
		lines = append(lines, fmt.Sprintf("Notes:  %s", r.Notes))
	}

	return strings.Join(lines, "\n")
}

type decisionMsg struct {
	decision booking.Decision
	err      error
}

func (m ReviewModel) decideCmd(decision booking.Decision) tea.Cmd {
	params := booking.ReviewParams{
		OrganizationID: m.orgID,
		RequestID:      m.current.id,
		ReviewerID:     m.reviewerID,
		Decision:       decision,
		AdminNotes:     strings.TrimSpace(m.notesInput.Value()),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if m.kind == KindUnavailability {
			_, err = m.bookings.ReviewUnavailability(ctx, params)
		} else {
			_, err = m.bookings.ReviewChangeRequest(ctx, params)
		}

		return decisionMsg{decision: decision, err: err}
	}
}

type reassignMsg struct {
	err error
}

func (m ReviewModel) reassignCmd(staffID uuid.UUID) tea.Cmd {
	params := booking.ReassignParams{
		OrganizationID: m.orgID,
		RequestID:      m.current.id,
		NewStaffID:     staffID,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.bookings.Reassign(ctx, params)

		return reassignMsg{err: err}
	}
}
