package tui

import (
	"trainready/internal/service"
	"trainready/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenToday Screen = iota
	ScreenHistory
	ScreenActivities
	ScreenLog
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	today      TodayModel
	history    HistoryModel
	activities ActivitiesModel
	logEntry   LogModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	db            *store.DB
	adviceService *service.AdviceService
	syncService   *service.SyncService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, adviceService *service.AdviceService, syncService *service.SyncService) *App {
	return &App{
		screen:        ScreenToday,
		db:            db,
		adviceService: adviceService,
		syncService:   syncService,
		today:         NewTodayModel(adviceService, db),
		history:       NewHistoryModel(adviceService),
		activities:    NewActivitiesModel(adviceService),
		logEntry:      NewLogModel(adviceService),
		syncScreen:    NewSyncModel(syncService),
		help:          NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.today.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key := msg.String(); key == "q" || key == "ctrl+c" {
			return a, tea.Quit
		}

		// The log screen owns the digit keys for its readiness scale
		if a.screen == ScreenLog {
			if msg.String() == "esc" {
				a.screen = ScreenToday
				a.today = NewTodayModel(a.adviceService, a.db)
				return a, a.today.Init()
			}
			break
		}

		// Global keybindings (unless a sync is running)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "1":
				a.screen = ScreenToday
				a.today = NewTodayModel(a.adviceService, a.db)
				return a, a.today.Init()
			case "2":
				a.screen = ScreenHistory
				return a, a.history.Init()
			case "3":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "4", "l":
				a.screen = ScreenLog
				a.logEntry = NewLogModel(a.adviceService)
				return a, a.logEntry.Init()
			case "5", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Refresh the today screen after sync
		a.screen = ScreenToday
		a.today = NewTodayModel(a.adviceService, a.db)
		return a, a.today.Init()

	case LogSavedMsg:
		// A new readiness entry changes today's advice
		a.screen = ScreenToday
		a.today = NewTodayModel(a.adviceService, a.db)
		return a, a.today.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenToday:
		var m tea.Model
		m, cmd = a.today.Update(msg)
		a.today = m.(TodayModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenLog:
		var m tea.Model
		m, cmd = a.logEntry.Update(msg)
		a.logEntry = m.(LogModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenToday:
		content = a.today.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenLog:
		content = a.logEntry.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Training Readiness Advisor")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Today", ScreenToday},
		{"2", "History", ScreenHistory},
		{"3", "Workouts", ScreenActivities},
		{"4", "Log", ScreenLog},
		{"5", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}

// LogSavedMsg is sent when a readiness entry is saved
type LogSavedMsg struct{}
