package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Today's advice"},
		{"2", "History"},
		{"3", "Workouts list"},
		{"4 or l", "Log readiness"},
		{"5 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	logSection := m.renderSection("Log Screen", []keyHelp{
		{"1-9, 0", "Set readiness (0 = 10)"},
		{"t", "Toggle sick or injured"},
		{"enter", "Save"},
	})
	sections = append(sections, logSection)

	workoutSection := m.renderSection("Workouts List", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"x", "Toggle load inclusion"},
		{"r", "Refresh list"},
	})
	sections = append(sections, workoutSection)

	adviceSection := m.renderAdviceHelp()
	sections = append(sections, adviceSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(greenColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderAdviceHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(greenColor).Render("Advice Explained"))
	lines = append(lines, "")

	terms := []struct {
		name string
		desc string
	}{
		{"REST", "Full rest day. Very low readiness or multiple red flags."},
		{"RECOVER", "Active recovery only. Sick, one red flag, or workload spike."},
		{"MAINTAIN", "Hold your current plan. The default when nothing stands out."},
		{"PUSH", "Good day for intensity. Strong readiness with room in the workload."},
		{"Ratio (ACWR)", "7-day load vs weekly average over the chronic window. 0.8-1.3 is the sweet spot."},
		{"Load", "Per-workout strain: vendor score, or an HR-reserve estimate, corrected for cycle phase and readiness."},
		{"Red flags", "Short sleep, elevated resting HR, or suppressed HRV vs your 28-day baseline."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, term := range terms {
		lines = append(lines, "  "+helpKeyStyle.Render(term.name))
		lines = append(lines, "  "+mutedStyle.Render(term.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
