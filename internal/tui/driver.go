package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// =============================================================================
// Login
// =============================================================================

var loginChoices = []string{"Driver", "Admin"}

func (a App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.loginCursor > 0 {
			a.loginCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.loginCursor < len(loginChoices)-1 {
			a.loginCursor++
		}
	case key.Matches(msg, keys.Driver):
		a.openPinEntry(kiosk.DriverPinView)
	case key.Matches(msg, keys.Admin):
		a.openPinEntry(kiosk.AdminPinView)
	case key.Matches(msg, keys.Enter):
		if a.loginCursor == 1 {
			a.openPinEntry(kiosk.AdminPinView)
		} else {
			a.openPinEntry(kiosk.DriverPinView)
		}
	}
	return a, nil
}

func (a *App) openPinEntry(v kiosk.View) {
	a.view = v
	a.keypad.Clear()
	a.pinError = ""
	a.status = ""
}

func (a App) renderLogin() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Welcome"))
	rows = append(rows, subtitleStyle.Render("Choose how to sign in"))
	rows = append(rows, "")
	for i, c := range loginChoices {
		cursor := "  "
		style := normalItemStyle
		if i == a.loginCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c))
	}
	return activePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// =============================================================================
// PIN entry
// =============================================================================

func (a App) updatePinEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		a.toLogin()
		return a, nil
	case key.Matches(msg, keys.Delete):
		a.keypad.Backspace()
		return a, nil
	case key.Matches(msg, keys.Enter):
		return a.submitPin()
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if a.keypad.Press(r) {
				a.pinError = ""
			}
		}
	}
	return a, nil
}

func (a App) submitPin() (tea.Model, tea.Cmd) {
	entered := a.keypad.String()
	if entered == "" {
		return a, nil
	}

	if a.view.Pin == kiosk.PinAdmin {
		if entered != a.opts.AdminPIN {
			a.pinError = kiosk.MsgInvalidPIN
			a.keypad.Clear()
			return a, nil
		}
		a.keypad.Clear()
		return a, a.enterAdmin()
	}

	if a.lookingUp {
		return a, nil
	}
	a.lookupSeq++
	a.lookingUp = true
	a.pinError = ""
	seq := a.lookupSeq
	resolver := a.resolver()
	ctx := a.ctx()
	return a, func() tea.Msg {
		s, err := resolver.Resolve(ctx, entered)
		return lookupResultMsg{seq: seq, session: s, err: err}
	}
}

func (a App) handleLookup(msg lookupResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != a.lookupSeq || a.view != kiosk.DriverPinView {
		return a, nil
	}
	a.lookingUp = false
	if msg.err != nil {
		if kiosk.IsBackendError(msg.err) {
			a.log.WithError(msg.err).WithField("op", "lookup").Error("employee lookup failed")
		}
		a.pinError = kiosk.UserMessage(msg.err)
		a.keypad.Clear()
		return a, nil
	}
	a.session = msg.session
	a.keypad.Clear()
	a.pinError = ""
	a.view = kiosk.ActionSelectView
	a.actionCursor = 0
	a.lunchWaiver = false
	a.confirming = false
	return a, nil
}

func (a App) renderPinEntry() string {
	title := "Enter Employee ID"
	shown := a.keypad.String()
	if a.view.Pin == kiosk.PinAdmin {
		title = "Enter Admin PIN"
		shown = a.keypad.Masked()
	}
	if shown == "" {
		shown = " "
	}

	var rows []string
	rows = append(rows, titleStyle.Render(title))
	rows = append(rows, "")
	rows = append(rows, keypadStyle.Render(shown))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d/%d digits", a.keypad.Len(), kiosk.MaxKeypadDigits)))
	rows = append(rows, "")
	switch {
	case a.lookingUp:
		rows = append(rows, warningStyle.Render("Looking up..."))
	case a.pinError != "":
		rows = append(rows, errorStyle.Render(a.pinError))
	}
	return activePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// =============================================================================
// Action select
// =============================================================================

func (a App) updateActionSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirming {
		return a.updateConfirm(msg)
	}
	if a.busy {
		return a, nil
	}

	actions := kiosk.AvailableActions(a.session)
	switch {
	case key.Matches(msg, keys.Up):
		if a.actionCursor > 0 {
			a.actionCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.actionCursor < len(actions)-1 {
			a.actionCursor++
		}
	case key.Matches(msg, keys.Lunch):
		if !a.session.ClockedIn() {
			a.lunchWaiver = !a.lunchWaiver
		}
	case key.Matches(msg, keys.Back):
		a.toLogin()
	case key.Matches(msg, keys.Enter):
		if a.actionCursor < len(actions) {
			return a.runAction(actions[a.actionCursor])
		}
	}
	return a, nil
}

func (a App) runAction(act kiosk.Action) (tea.Model, tea.Cmd) {
	if !kiosk.Allowed(a.session, act) {
		return a, nil
	}
	a.status = ""

	switch act {
	case kiosk.ActionClockIn:
		return a.clockIn()
	case kiosk.ActionClockOut:
		a.confirming = true
		return a, nil
	case kiosk.ActionSafetySchedules:
		a.view = kiosk.ActionView(act)
		a.safety = safetyModel{loading: true}
		return a, a.loadSchedules()
	}

	v := kiosk.ActionView(act)
	f := newDriverForm(v.Kind, a.session, a.opts.Now())
	if f == nil {
		return a, nil
	}
	a.view = v
	a.form = f
	return a, f.form.Init()
}

func (a App) clockIn() (tea.Model, tea.Cmd) {
	emp := a.session.Employee
	a.busy = true
	waiver := a.lunchWaiver
	b, ctx := a.backend, a.ctx()
	return a, func() tea.Msg {
		te, err := b.CreateTimeEntry(ctx, emp.ID, waiver)
		return clockedInMsg{employeeID: emp.ID, entry: te, err: err}
	}
}

func (a App) handleClockedIn(msg clockedInMsg) (tea.Model, tea.Cmd) {
	if a.session.Employee == nil || a.session.Employee.ID != msg.employeeID {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		a.log.WithError(msg.err).WithFields(logrus.Fields{
			"op":       "clock_in",
			"employee": msg.employeeID,
		}).Error("clock in failed")
		return a, nil
	}
	a.session.StartShift(msg.entry)
	a.lunchWaiver = false
	a.actionCursor = 0
	return a, nil
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	switch {
	case key.Matches(msg, keys.Confirm):
		return a.clockOut()
	case key.Matches(msg, keys.Back), msg.String() == "n":
		a.confirming = false
	}
	return a, nil
}

func (a App) clockOut() (tea.Model, tea.Cmd) {
	te := a.session.TimeEntry
	if te == nil {
		a.toLogin()
		return a, nil
	}
	a.busy = true
	b, ctx, at := a.backend, a.ctx(), a.opts.Now()
	return a, func() tea.Msg {
		_, err := b.CloseTimeEntry(ctx, te.ID, at)
		return clockedOutMsg{entryID: te.ID, err: err}
	}
}

// handleClockedOut resets the kiosk whether or not the backend accepted the
// clock-out.
func (a App) handleClockedOut(msg clockedOutMsg) (tea.Model, tea.Cmd) {
	if a.session.TimeEntry == nil || a.session.TimeEntry.ID != msg.entryID {
		return a, nil
	}
	if msg.err != nil {
		a.log.WithError(msg.err).WithFields(logrus.Fields{
			"op":         "clock_out",
			"employee":   a.session.Employee.ID,
			"time_entry": msg.entryID,
		}).Error("clock out failed")
	}
	a.toLogin()
	return a, nil
}

func (a App) renderActionSelect() string {
	emp := a.session.Employee
	if emp == nil {
		return ""
	}
	flags := a.session.Flags()

	var info []string
	info = append(info, titleStyle.Render(emp.Name))
	if flags.ClockedIn {
		te := a.session.TimeEntry
		info = append(info, successStyle.Render("● Clocked in at "+kiosk.FormatClock(te.ClockIn)))
		info = append(info, mutedStyle.Render("On the clock "+formatDuration(a.clock.Sub(te.ClockIn))))
		info = append(info, "Expected clock-out: "+highlightStyle.Render(kiosk.FormatClock(flags.ExpectedClockOut)))
		if flags.LunchWaiver {
			info = append(info, warningStyle.Render("Lunch waived"))
		}
		info = append(info, "")
		info = append(info, checkLine("DVI", flags.DVICompleted))
		info = append(info, checkLine("Timesheet", flags.TimesheetCompleted))
	} else {
		info = append(info, mutedStyle.Render("Not clocked in"))
		box := "[ ]"
		if a.lunchWaiver {
			box = "[x]"
		}
		info = append(info, "")
		info = append(info, normalItemStyle.Render(box+" Waive lunch (w)"))
	}

	var menu []string
	menu = append(menu, titleStyle.Render("Actions"))
	menu = append(menu, "")
	for i, act := range kiosk.AvailableActions(a.session) {
		cursor := "  "
		style := normalItemStyle
		if i == a.actionCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		menu = append(menu, style.Render(cursor+act.String()))
	}
	if a.busy {
		menu = append(menu, "", warningStyle.Render("Working..."))
	}

	w := (a.width - 6) / 2
	if w < 20 {
		w = 20
	}
	left := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, info...))
	right := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, menu...))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if a.confirming {
		body = lipgloss.JoinVertical(lipgloss.Left, body, a.renderConfirm())
	}
	return body
}

func (a App) renderConfirm() string {
	rows := []string{
		warningStyle.Bold(true).Render("Clock out now?"),
		"",
		mutedStyle.Render("y/enter: confirm  n/esc: cancel"),
	}
	if a.busy {
		rows = append(rows, warningStyle.Render("Clocking out..."))
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func checkLine(label string, done bool) string {
	if done {
		return successStyle.Render("✓ " + label)
	}
	return mutedStyle.Render("○ " + label)
}

// =============================================================================
// Form results
// =============================================================================

func (a App) handleFormCompleted(msg formCompletedMsg) (tea.Model, tea.Cmd) {
	a.view = kiosk.ActionSelectView
	a.form = nil

	emp, te := a.session.Employee, a.session.TimeEntry
	if emp == nil {
		return a, nil
	}
	if msg.err != nil {
		a.status, a.isError = kiosk.UserMessage(msg.err), true
		return a, nil
	}

	b, ctx := a.backend, a.ctx()
	var teID int64
	if te != nil {
		teID = te.ID
	}

	switch p := msg.payload.(type) {
	case kiosk.InspectionPayload:
		if te == nil {
			return a, nil
		}
		return a, func() tea.Msg {
			_, err := b.SubmitInspection(ctx, emp.ID, teID, p)
			return submittedMsg{category: kiosk.CategoryDVI, employeeID: emp.ID, timeEntryID: teID, err: err}
		}
	case kiosk.TimesheetPayload:
		var ref *int64
		if te != nil {
			ref = &teID
		}
		return a, func() tea.Msg {
			_, err := b.SubmitTimesheet(ctx, emp.ID, ref, p)
			return submittedMsg{category: kiosk.CategoryTimesheet, employeeID: emp.ID, timeEntryID: teID, err: err}
		}
	case kiosk.Form:
		return a, func() tea.Msg {
			_, err := b.SubmitRequest(ctx, emp.ID, p)
			return submittedMsg{category: p.Category(), employeeID: emp.ID, timeEntryID: teID, err: err}
		}
	}
	return a, nil
}

// handleSubmitted applies a submission result. Failures are logged and the
// kiosk carries on; the DVI and timesheet flags are set only on success.
func (a App) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.WithError(msg.err).WithFields(logrus.Fields{
			"op":         "submit_" + string(msg.category),
			"employee":   msg.employeeID,
			"time_entry": msg.timeEntryID,
		}).Error("submission failed")
		var ve kiosk.ValidationError
		if errors.As(msg.err, &ve) {
			a.status, a.isError = ve.Error(), true
		}
		return a, nil
	}

	if a.session.Employee == nil || a.session.Employee.ID != msg.employeeID {
		return a, nil
	}
	switch msg.category {
	case kiosk.CategoryDVI:
		if a.session.TimeEntry != nil && a.session.TimeEntry.ID == msg.timeEntryID {
			a.session.MarkDVICompleted()
		}
	case kiosk.CategoryTimesheet:
		a.session.MarkTimesheetCompleted()
	}
	a.status, a.isError = msg.category.Label()+" saved", false
	return a, nil
}

// =============================================================================
// Safety schedules (driver read-only view)
// =============================================================================

type safetyModel struct {
	schedules []kiosk.SafetySchedule
	cursor    int
	open      bool
	loading   bool
}

func (a App) loadSchedules() tea.Cmd {
	b, ctx := a.backend, a.ctx()
	return func() tea.Msg {
		s, err := b.ListSafetySchedules(ctx)
		return schedulesMsg{schedules: s, err: err}
	}
}

func (a App) handleSchedules(msg schedulesMsg) (tea.Model, tea.Cmd) {
	if a.view.Kind != kiosk.ViewSafetySchedules {
		return a, nil
	}
	a.safety.loading = false
	if msg.err != nil {
		a.log.WithError(msg.err).WithField("op", "list_schedules").Error("loading safety schedules failed")
		a.safety.schedules = nil
		return a, nil
	}
	a.safety.schedules = msg.schedules
	a.safety.cursor = 0
	return a, nil
}

func (a App) updateSafety(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.safety
	switch {
	case key.Matches(msg, keys.Back):
		if s.open {
			s.open = false
			return a, nil
		}
		a.view = kiosk.ActionSelectView
		a.safety = safetyModel{}
	case key.Matches(msg, keys.Up):
		if !s.open && s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if !s.open && s.cursor < len(s.schedules)-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(s.schedules) > 0 {
			s.open = true
		}
	}
	return a, nil
}

func (a App) renderSafety() string {
	s := a.safety
	var rows []string
	rows = append(rows, titleStyle.Render("Safety Meeting Schedules"))
	rows = append(rows, "")
	switch {
	case s.loading:
		rows = append(rows, mutedStyle.Render("Loading..."))
	case len(s.schedules) == 0:
		rows = append(rows, mutedStyle.Render("No schedules found"))
	case s.open:
		rows = append(rows, normalItemStyle.Render(strings.TrimRight(kiosk.ScheduleText(s.schedules[s.cursor]), "\n")))
	default:
		for i, sc := range s.schedules {
			cursor := "  "
			style := normalItemStyle
			if i == s.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%s %d", cursor, sc.Month, sc.Year)))
		}
	}
	return activePanelStyle.Width(max(a.width-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
