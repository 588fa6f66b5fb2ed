package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframeToDateRange(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 5, 14, 15, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }

	tests := []testCase{
		{"Today", TimeframeToday, now, now},
		{"ThisWeek", TimeframeThisWeek, day(12), day(18)},
		{"NextWeek", TimeframeNextWeek, day(19), day(25)},
		{"LastWeek", TimeframeLastWeek, day(5), day(11)},
		{"ThisMonth", TimeframeThisMonth, day(1), day(31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := timeframeToDateRange(tt.tf, now)
			assert.Equal(t, FormatDate(tt.wantStart), FormatDate(start))
			assert.Equal(t, FormatDate(tt.wantEnd), FormatDate(end))
		})
	}
}

func TestWeekStart_Sunday(t *testing.T) {
	sunday := time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-12", FormatDate(weekStart(sunday)))
}

func TestTimeframePicker_Select(t *testing.T) {
	p := NewTimeframePicker(TimeframeToday)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, TimeframeToday, p.selected)

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.False(t, msg.All)
	assert.Equal(t, 0, msg.Start.Hour())
	assert.Equal(t, 23, msg.End.Hour())
	assert.Equal(t, FormatDate(msg.Start), FormatDate(msg.End))

	for range int(TimeframeAll - TimeframeToday) {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, TimeframeSelectedMsg{All: true}, cmd())
}

func TestTimeframePicker_CustomRangeEscapes(t *testing.T) {
	p := NewTimeframePicker(TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
}
