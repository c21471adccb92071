package tui

import (
	"fmt"

	"trainready/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const historyDays = 14

// HistoryModel is the day-by-day advice replay screen
type HistoryModel struct {
	adviceService *service.AdviceService
	history       []service.DailyAdvice
	cursor        int
	loading       bool
	err           error
}

// NewHistoryModel creates a new history model
func NewHistoryModel(as *service.AdviceService) HistoryModel {
	return HistoryModel{
		adviceService: as,
		loading:       true,
	}
}

// Init initializes the history screen
func (m HistoryModel) Init() tea.Cmd {
	return m.loadData
}

type historyLoadedMsg struct {
	history []service.DailyAdvice
	err     error
}

func (m HistoryModel) loadData() tea.Msg {
	history, err := m.adviceService.History(historyDays)
	if err != nil {
		return historyLoadedMsg{err: err}
	}
	return historyLoadedMsg{history: history}
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.history = msg.history
		m.cursor = len(m.history) - 1

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the history screen
func (m HistoryModel) View() string {
	if m.loading {
		return "\n  Replaying recent days..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.history) == 0 {
		return "\n  No history yet."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Last %d Days", len(m.history)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-8s  %6s  %6s  %5s  %-11s  %4s",
		"Day", "Advice", "Ratio", "Ready", "Flags", "Phase", "Load"))
	sections = append(sections, header)

	for i, day := range m.history {
		ratio := "-"
		if day.Workload.Ratio != nil {
			ratio = fmt.Sprintf("%.2f", *day.Workload.Ratio)
		}

		ready := "-"
		if day.Log != nil && day.Log.Readiness != nil {
			ready = fmt.Sprintf("%d", *day.Log.Readiness)
		}

		flags := "-"
		if day.RedFlags != nil {
			flags = fmt.Sprintf("%d", day.RedFlags.Count)
		}

		phase := "-"
		if day.Phase != nil {
			phase = day.Phase.Name
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-8s  %6s  %6s  %5s  %-11s  %4.0f",
			cursor, day.Day, day.Decision.Tag, ratio, ready, flags, phase, day.Workload.AcuteSum)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			tagStyle := lipgloss.NewStyle().Foreground(signalColor(day.Decision.Signal)).Padding(0, 1)
			sections = append(sections, tagStyle.Render(row))
		}
	}

	// Reasons for the selected day
	if m.cursor >= 0 && m.cursor < len(m.history) {
		selected := m.history[m.cursor]
		var lines []string
		for _, reason := range selected.Decision.Reasons {
			lines = append(lines, "  - "+reason.Message)
		}
		if len(lines) > 0 {
			detail := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				cardTitleStyle.Render("Why "+string(selected.Decision.Tag)+" on "+selected.Day),
				lipgloss.JoinVertical(lipgloss.Left, lines...)))
			sections = append(sections, detail)
		}
	}

	help := statusStyle.Render("\n  j/k: select day  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
