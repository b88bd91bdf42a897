package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressBar(t *testing.T) {
	if got := progressBar(0.5, 10); strings.Count(got, "█") != 5 {
		t.Errorf("half bar = %q", got)
	}
	if got := progressBar(2.0, 10); strings.Count(got, "░") != 0 {
		t.Errorf("overfull bar = %q", got)
	}
	if got := progressBar(-1, 10); strings.Count(got, "█") != 0 {
		t.Errorf("underfull bar = %q", got)
	}
}

func TestModelUpdate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ch := make(chan tea.Msg, 1)
	m := NewModel([]string{"2017 BX232"}, start, 6, ch)

	next, _ := m.Update(ProgressMsg{Cycle: 3, Total: 6, Epoch: start.AddDate(0, 0, 6)})
	m = next.(Model)
	if m.cycle != 3 {
		t.Errorf("cycle = %d", m.cycle)
	}
	if !strings.Contains(m.View(), "3/6") {
		t.Errorf("view missing progress: %q", m.View())
	}

	next, cmd := m.Update(DoneMsg{Err: errors.New("boom")})
	m = next.(Model)
	if !m.done || m.err == nil {
		t.Error("done message not applied")
	}
	if cmd == nil {
		t.Error("done must produce a quit command")
	}
	if !strings.Contains(m.View(), "FAILED") {
		t.Errorf("view missing failure: %q", m.View())
	}
}

func TestModelQuitKey(t *testing.T) {
	ch := make(chan tea.Msg)
	m := NewModel(nil, time.Now(), 1, ch)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c must quit")
	}
}
