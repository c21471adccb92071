package tui

import (
	"fmt"
	"time"

	"trainready/internal/service"
	"trainready/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
)

const trendDays = 28

// TodayModel is the main readiness screen
type TodayModel struct {
	adviceService *service.AdviceService
	db            *store.DB

	advice   *service.DailyAdvice
	trend    []float64
	lastSync *time.Time
	loading  bool
	err      error
}

// NewTodayModel creates a new today model
func NewTodayModel(as *service.AdviceService, db *store.DB) TodayModel {
	return TodayModel{
		adviceService: as,
		db:            db,
		loading:       true,
	}
}

// Init initializes the today screen
func (m TodayModel) Init() tea.Cmd {
	return m.loadData
}

type todayDataMsg struct {
	advice   *service.DailyAdvice
	trend    []float64
	lastSync *time.Time
	err      error
}

func (m TodayModel) loadData() tea.Msg {
	advice, err := m.adviceService.Today()
	if err != nil {
		return todayDataMsg{err: err}
	}

	trend, _, err := m.adviceService.ACWRTrend(trendDays)
	if err != nil {
		return todayDataMsg{err: err}
	}

	var lastSync *time.Time
	if str, err := m.db.GetSyncState("last_workout_sync"); err == nil && str != "" {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			lastSync = &t
		}
	}

	return todayDataMsg{advice: advice, trend: trend, lastSync: lastSync}
}

// Update handles messages
func (m TodayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		m.loading = false
		m.err = msg.err
		m.advice = msg.advice
		m.trend = msg.trend
		m.lastSync = msg.lastSync
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the today screen
func (m TodayModel) View() string {
	if m.loading {
		return "\n  Loading today's readiness..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.advice == nil {
		return "\n  No data available. Press 's' to sync with WHOOP."
	}

	var sections []string

	sections = append(sections, m.renderDecisionCard())

	// Middle row: biometrics and cycle side by side
	bioCard := m.renderBiometricsCard()
	cycleCard := m.renderCycleCard()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, bioCard, "  ", cycleCard))

	sections = append(sections, m.renderWorkloadCard())

	if len(m.advice.Activities) > 0 {
		sections = append(sections, m.renderTodayActivities())
	}

	footer := "Press 'r' to refresh, 'l' to log readiness, 's' to sync"
	if m.lastSync != nil {
		footer += "  |  last sync " + humanize.Time(*m.lastSync)
	}
	sections = append(sections, statusStyle.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TodayModel) renderDecisionCard() string {
	d := m.advice.Decision

	title := cardTitleStyle.Render("Today: " + m.advice.Day)

	lines := []string{
		RenderTag(d.Tag, d.Signal) + "  " + instructionLabel(d.InstructionClass),
		"",
	}
	for _, reason := range d.Reasons {
		lines = append(lines, "  - "+reason.Message)
	}
	if d.PrescriptionHint != "" {
		lines = append(lines, "", successStyle.Render("  Sweet spot: add a small progressive overload"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(72).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TodayModel) renderBiometricsCard() string {
	title := cardTitleStyle.Render("Biometrics")

	sleep, rhr, hrv, readinessStr := "-", "-", "-", "-"
	if l := m.advice.Log; l != nil {
		if l.SleepHours != nil {
			sleep = fmt.Sprintf("%.1f h", *l.SleepHours)
		}
		if l.RestingHR != nil {
			rhr = fmt.Sprintf("%.0f bpm", *l.RestingHR)
		}
		if l.HRV != nil {
			hrv = fmt.Sprintf("%.0f ms", *l.HRV)
		}
		if l.Readiness != nil {
			readinessStr = fmt.Sprintf("%d/10", *l.Readiness)
		}
	}

	lines := []string{
		RenderMetric("Sleep", sleep),
		RenderMetric("Resting HR", rhr),
		RenderMetric("HRV", hrv),
		RenderMetric("Readiness", readinessStr),
	}

	if pct := m.advice.HRVVsBaselinePct; pct != nil {
		lines = append(lines, RenderMetric("HRV vs baseline", fmt.Sprintf("%.0f%%", *pct)))
	}

	lines = append(lines, "", m.renderRedFlagLine())

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TodayModel) renderRedFlagLine() string {
	flags := m.advice.RedFlags
	if flags == nil {
		return statusStyle.Render("Red flags: not computable")
	}
	if flags.Count == 0 {
		return successStyle.Render("No red flags")
	}

	line := warningStyle.Render(fmt.Sprintf("%d red flag(s)", flags.Count))
	for _, reason := range flags.Reasons {
		line += "\n" + warningStyle.Render("  "+reason)
	}
	return line
}

func (m TodayModel) renderCycleCard() string {
	title := cardTitleStyle.Render("Cycle")

	var lines []string
	if phase := m.advice.Phase; phase != nil {
		lines = []string{
			RenderMetric("Phase", phase.Name),
			RenderMetric("Day", fmt.Sprintf("%d", phase.Day)),
		}
	} else {
		lines = []string{statusStyle.Render("Not configured"), statusStyle.Render("Set cycle.last_period_start")}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(30).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TodayModel) renderWorkloadCard() string {
	title := cardTitleStyle.Render("Workload (acute : chronic)")

	w := m.advice.Workload

	ratioStr := "-"
	if w.Ratio != nil {
		ratioStr = fmt.Sprintf("%.2f  %s", *w.Ratio, w.Band)
	}

	lines := []string{
		RenderMetric("7-day load", fmt.Sprintf("%.0f", w.AcuteSum)),
		RenderMetric("Chronic weekly avg", fmt.Sprintf("%.0f", w.ChronicWeeklyAvg)),
		RenderMetric("Ratio", ratioStr),
	}

	if len(m.trend) > 2 {
		graph := asciigraph.Plot(m.trend,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Precision(2),
		)
		lines = append(lines, "", graph)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TodayModel) renderTodayActivities() string {
	title := cardTitleStyle.Render("Today's Workouts")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-20s  %8s  %6s  %6s",
		"Sport", "Duration", "Raw", "Load"))

	rows := []string{header}
	for _, a := range m.advice.Activities {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-20s  %8s  %6.0f  %6d",
			truncate(a.Sport, 20),
			formatDuration(a.DurationSeconds),
			a.RawLoad,
			a.CorrectedLoad,
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func instructionLabel(class string) string {
	switch class {
	case "full_rest":
		return "Full rest day"
	case "active_recovery":
		return "Active recovery only"
	case "progress":
		return "Good day to push"
	default:
		return "Hold your current plan"
	}
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
