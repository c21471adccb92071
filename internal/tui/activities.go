package tui

import (
	"fmt"

	"trainready/internal/service"
	"trainready/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivitiesModel is the synced workouts list screen
type ActivitiesModel struct {
	adviceService *service.AdviceService
	activities    []store.Activity
	cursor        int
	offset        int
	total         int
	pageSize      int
	loading       bool
	err           error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(as *service.AdviceService) ActivitiesModel {
	return ActivitiesModel{
		adviceService: as,
		pageSize:      15,
		loading:       true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	activities []store.Activity
	total      int
	err        error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	activities, err := m.adviceService.RecentActivities(m.pageSize, m.offset)
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	total, err := m.adviceService.ActivityCount()
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	return activitiesLoadedMsg{activities: activities, total: total}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		m.total = msg.total
		if m.cursor >= len(m.activities) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			} else if m.offset+len(m.activities) < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "x":
			// Toggle whether the selected workout counts toward load
			if len(m.activities) > 0 && m.cursor < len(m.activities) {
				a := m.activities[m.cursor]
				if err := m.adviceService.SetIncludeInLoad(a.ID, !a.IncludeInLoad); err != nil {
					m.err = err
					return m, nil
				}
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		}
	}
	return m, nil
}

// View renders the workouts list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading workouts..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.activities) == 0 {
		return "\n  No workouts found. Press 's' to sync with WHOOP."
	}

	var sections []string

	startNum := m.offset + 1
	endNum := m.offset + len(m.activities)
	title := cardTitleStyle.Render(fmt.Sprintf("Workouts (%d-%d of %d)", startNum, endNum, m.total))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-20s  %8s  %6s  %6s  %-8s",
		"Day", "Sport", "Duration", "AvgHR", "Load", "Counts"))
	sections = append(sections, header)

	for i, a := range m.activities {
		avgHR := "-"
		if a.AverageHR != nil {
			avgHR = fmt.Sprintf("%.0f", *a.AverageHR)
		}

		counts := "yes"
		if !a.IncludeInLoad {
			counts = "no"
		}

		day := a.Day
		if a.UsedDefaultTimezone {
			day += "*"
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-20s  %8s  %6s  %6d  %-8s",
			cursor,
			day,
			truncate(a.Sport, 20),
			formatDuration(a.DurationSeconds),
			avgHR,
			a.CorrectedLoad,
			counts,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else if !a.IncludeInLoad {
			sections = append(sections, statusStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  x: toggle load inclusion  j/k: navigate  r: refresh  (* = day resolved without provider timezone)")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
