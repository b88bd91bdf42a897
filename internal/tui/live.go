// Package tui renders a live terminal view of a running propagation.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const barWidth = 40

// ProgressMsg reports a completed propagation cycle.
type ProgressMsg struct {
	Cycle int
	Total int
	Epoch time.Time
}

// DoneMsg signals the end of the run.
type DoneMsg struct {
	Err error
}

// Model shows the propagation window, the current cycle and a progress bar.
// Progress arrives over a channel fed by the engine observer.
type Model struct {
	designations []string
	start        time.Time
	updates      <-chan tea.Msg

	cycle, total int
	epoch        time.Time
	done         bool
	err          error
}

func NewModel(designations []string, start time.Time, total int, updates <-chan tea.Msg) Model {
	return Model{
		designations: designations,
		start:        start,
		updates:      updates,
		total:        total,
		epoch:        start,
	}
}

func waitForUpdate(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case ProgressMsg:
		m.cycle, m.total, m.epoch = msg.Cycle, msg.Total, msg.Epoch
		return m, waitForUpdate(m.updates)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("MINORBIT PROPAGATION") + "\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.cycle) / float64(m.total)
	}
	s.WriteString(barStyle.Render(progressBar(percent, barWidth)))
	s.WriteString(fmt.Sprintf("  %d/%d\n\n", m.cycle, m.total))

	s.WriteString(labelStyle.Render("Epoch") + valueStyle.Render(m.epoch.UTC().Format("2006-01-02")) + "\n")
	s.WriteString(labelStyle.Render("Elapsed") + valueStyle.Render(fmt.Sprintf("%.1f d", m.epoch.Sub(m.start).Hours()/24)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(m.designations))) + "\n")

	if m.done {
		if m.err != nil {
			s.WriteString("\n" + errorStyle.Render("FAILED: "+m.err.Error()) + "\n")
		} else {
			s.WriteString("\n" + doneStyle.Render("COMPLETE") + "\n")
		}
	}

	s.WriteString(helpStyle.Render("q: quit"))
	return s.String() + "\n"
}

func progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
