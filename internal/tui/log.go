package tui

import (
	"fmt"
	"time"

	"trainready/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LogModel is the manual entry screen for subjective readiness and the
// sick/injured flag.
type LogModel struct {
	adviceService *service.AdviceService

	readiness int // pending selection, 0 means none yet
	sick      bool
	loaded    bool
	err       error
}

// NewLogModel creates a new log entry model
func NewLogModel(as *service.AdviceService) LogModel {
	return LogModel{adviceService: as}
}

// Init loads the current day's entry so edits start from what is stored
func (m LogModel) Init() tea.Cmd {
	return m.loadCurrent
}

type logLoadedMsg struct {
	readiness int
	sick      bool
	err       error
}

func (m LogModel) loadCurrent() tea.Msg {
	advice, err := m.adviceService.Today()
	if err != nil {
		return logLoadedMsg{err: err}
	}

	msg := logLoadedMsg{}
	if advice.Log != nil {
		msg.sick = advice.Log.SickOrInjured
		if advice.Log.Readiness != nil {
			msg.readiness = *advice.Log.Readiness
		}
	}
	return msg
}

// Update handles messages
func (m LogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logLoadedMsg:
		m.loaded = true
		m.err = msg.err
		m.readiness = msg.readiness
		m.sick = msg.sick

	case tea.KeyMsg:
		if !m.loaded {
			return m, nil
		}
		switch key := msg.String(); key {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.readiness = int(key[0] - '0')
		case "0":
			m.readiness = 10
		case "t":
			m.sick = !m.sick
		case "enter":
			return m, m.save
		}
	}
	return m, nil
}

func (m LogModel) save() tea.Msg {
	today := time.Now()

	if m.readiness > 0 {
		if err := m.adviceService.SetReadiness(today, m.readiness); err != nil {
			return logLoadedMsg{readiness: m.readiness, sick: m.sick, err: err}
		}
	}
	if err := m.adviceService.SetSickOrInjured(today, m.sick); err != nil {
		return logLoadedMsg{readiness: m.readiness, sick: m.sick, err: err}
	}

	return LogSavedMsg{}
}

// View renders the log entry screen
func (m LogModel) View() string {
	if !m.loaded {
		return "\n  Loading today's entry..."
	}

	var sections []string

	title := cardTitleStyle.Render("Log Today")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	// Readiness scale
	scale := "  Readiness:  "
	for i := 1; i <= 10; i++ {
		label := fmt.Sprintf(" %d ", i)
		if i == m.readiness {
			scale += tableSelectedStyle.Render(label)
		} else {
			scale += tableRowStyle.Render(label)
		}
	}
	sections = append(sections, "", scale)
	sections = append(sections, statusStyle.Render("  1 = completely drained, 10 = ready for anything (press 1-9, 0 for 10)"))

	// Sick toggle
	sickLine := "  Sick or injured:  "
	if m.sick {
		sickLine += errorStyle.Render("YES")
	} else {
		sickLine += successStyle.Render("no")
	}
	sections = append(sections, "", sickLine)
	sections = append(sections, statusStyle.Render("  Press 't' to toggle"))

	sections = append(sections, "", statusStyle.Render("  Press Enter to save"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
