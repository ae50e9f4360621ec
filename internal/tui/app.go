package tui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// Options carries everything the kiosk needs besides its backend.
type Options struct {
	AdminPIN        string
	StationID       string
	NotificationTTL time.Duration
	ShareBaseURL    string
	ExportDir       string
	Logger          *logrus.Logger
	Now             func() time.Time
}

// App is the root Bubble Tea model. It owns the active view, the driver
// session and the admin console and runs every backend call as a tea.Cmd.
type App struct {
	backend kiosk.Backend
	opts    Options
	log     *logrus.Logger
	width   int
	height  int
	clock   time.Time

	view kiosk.View

	// Driver side
	session      kiosk.Session
	keypad       kiosk.Keypad
	pinError     string
	lookupSeq    uint64
	lookingUp    bool
	loginCursor  int
	actionCursor int
	lunchWaiver  bool
	confirming   bool
	busy         bool
	form         *formModel
	safety       safetyModel

	admin      adminModel
	adminEpoch uint64

	showHelp bool
	help     help.Model
	status   string
	isError  bool
}

func NewApp(b kiosk.Backend, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = kiosk.DefaultNotificationTTL
	}
	if opts.StationID == "" {
		opts.StationID = "Kiosk"
	}
	if opts.ExportDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.ExportDir = home
		}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	h := help.New()
	h.ShowAll = false

	return App{
		backend: b,
		opts:    opts,
		log:     log,
		clock:   opts.Now(),
		view:    kiosk.LoginView,
		help:    h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CurrentView reports the active screen.
func (a App) CurrentView() kiosk.View { return a.view }

// Session returns the driver session as the kiosk currently holds it.
func (a App) Session() kiosk.Session { return a.session }

func (a App) resolver() kiosk.Resolver {
	return kiosk.Resolver{Backend: a.backend, AdminPIN: a.opts.AdminPIN}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.admin.setSize(a.width, a.height-4)
		return a, nil

	case tickMsg:
		a.clock = time.Time(msg)
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil

	case lookupResultMsg:
		return a.handleLookup(msg)
	case clockedInMsg:
		return a.handleClockedIn(msg)
	case clockedOutMsg:
		return a.handleClockedOut(msg)
	case formCompletedMsg:
		return a.handleFormCompleted(msg)
	case submittedMsg:
		return a.handleSubmitted(msg)
	case schedulesMsg:
		return a.handleSchedules(msg)
	case exportDoneMsg:
		if msg.err != nil {
			a.log.WithError(msg.err).WithField("op", "export").Error("export failed")
			a.status, a.isError = "Export failed: "+msg.err.Error(), true
			return a, nil
		}
		a.status, a.isError = "Exported to "+msg.path, false
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.admin.release()
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if key.Matches(msg, keys.Help) && a.view.Kind != kiosk.ViewPinEntry {
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		}
		return a.updateKey(msg)
	}

	if cmd, ok := a.updateAdminMsg(msg); ok {
		return a, cmd
	}

	// Anything else belongs to an open huh form (cursor blinks and the like).
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.view.Kind {
	case kiosk.ViewLogin:
		return a.updateLogin(msg)
	case kiosk.ViewPinEntry:
		return a.updatePinEntry(msg)
	case kiosk.ViewActionSelect:
		return a.updateActionSelect(msg)
	case kiosk.ViewSafetySchedules:
		return a.updateSafety(msg)
	case kiosk.ViewAdmin:
		return a.updateAdmin(msg)
	}
	return a, nil
}

// toLogin returns to the start screen. Only clock-out and cancel paths come
// here, so the driver session is always dropped.
func (a *App) toLogin() {
	a.view = kiosk.LoginView
	a.session.Reset()
	a.keypad.Clear()
	a.pinError = ""
	a.lookupSeq++
	a.lookingUp = false
	a.loginCursor = 0
	a.actionCursor = 0
	a.lunchWaiver = false
	a.confirming = false
	a.busy = false
	a.form = nil
	a.safety = safetyModel{}
}

func (a App) ctx() context.Context { return context.Background() }

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.view.Kind {
	case kiosk.ViewLogin:
		content = a.renderLogin()
	case kiosk.ViewPinEntry:
		content = a.renderPinEntry()
	case kiosk.ViewActionSelect:
		content = a.renderActionSelect()
	case kiosk.ViewSafetySchedules:
		content = a.renderSafety()
	case kiosk.ViewAdmin:
		content = a.renderAdmin()
	default:
		if a.form != nil {
			content = a.renderForm()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(a.opts.StationID)
	clock := clockStyle.Render(a.clock.Format("15:04:05"))
	date := mutedStyle.Render(a.clock.Format("Mon Jan 2, 2006") + "  ")

	right := lipgloss.JoinHorizontal(lipgloss.Bottom, date, clock)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, right),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(a.helpKeys())

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

// helpKeys lists the bindings of the active screen.
func (a App) helpKeys() helpKeys {
	if a.form != nil {
		return helpKeys{keys.Back}
	}
	switch a.view.Kind {
	case kiosk.ViewLogin:
		return helpKeys{keys.Driver, keys.Admin, keys.Up, keys.Down, keys.Enter, keys.Quit}
	case kiosk.ViewPinEntry:
		return helpKeys{keys.Enter, keys.Delete, keys.Back}
	case kiosk.ViewActionSelect:
		if a.confirming {
			return helpKeys{keys.Confirm, keys.Back}
		}
		if a.session.ClockedIn() {
			return helpKeys{keys.Up, keys.Down, keys.Enter, keys.Back, keys.Help}
		}
		return helpKeys{keys.Enter, keys.Lunch, keys.Back, keys.Help}
	case kiosk.ViewSafetySchedules:
		return helpKeys{keys.Up, keys.Down, keys.Enter, keys.Back}
	case kiosk.ViewAdmin:
		return a.admin.helpKeys()
	}
	return helpKeys{keys.Quit}
}
