package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/booking"
)

func queued(n int) loadPendingMsg {
	items := make([]pendingItem, n)
	for i := range items {
		items[i] = pendingItem{id: uuid.New(), summary: "Reason: sick"}
	}

	return loadPendingMsg{items: items}
}

func update(t *testing.T, m ReviewModel, msg tea.Msg) ReviewModel {
	t.Helper()

	next, _ := m.Update(msg)
	rm, ok := next.(ReviewModel)
	require.True(t, ok)

	return rm
}

func TestReviewModel_Queue(t *testing.T) {
	m := NewReviewModel(nil, uuid.New(), uuid.New(), KindChangeRequests)

	m = update(t, m, queued(2))
	assert.Equal(t, StateReviewing, m.state)
	assert.Equal(t, "Reviewing 1/2", m.status)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Reviewing 2/2", m.status)

	m = update(t, m, decisionMsg{decision: booking.Reject})
	assert.Equal(t, StateDone, m.state)
	assert.Nil(t, m.current)
}

func TestReviewModel_ApprovedUnavailabilityOffersReassign(t *testing.T) {
	m := NewReviewModel(nil, uuid.New(), uuid.New(), KindUnavailability)

	m = update(t, m, queued(1))
	m = update(t, m, decisionMsg{decision: booking.Approve})
	assert.Equal(t, StateReassigning, m.state)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateReassigning, m.state)
	assert.Equal(t, "Invalid carer ID", m.status)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateDone, m.state)
}

func TestReviewModel_DecisionErrorKeepsRequest(t *testing.T) {
	m := NewReviewModel(nil, uuid.New(), uuid.New(), KindChangeRequests)

	m = update(t, m, queued(1))
	current := m.current

	m = update(t, m, decisionMsg{err: booking.ErrAlreadyResolved})
	assert.Equal(t, StateReviewing, m.state)
	assert.Same(t, current, m.current)
	assert.Contains(t, m.status, "Error saving")
}

func TestRequestKind_String(t *testing.T) {
	assert.Equal(t, "Client Change Requests", KindChangeRequests.String())
	assert.Equal(t, "Carer Unavailability", KindUnavailability.String())
}
