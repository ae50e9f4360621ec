package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/kiosk/internal/export"
	"github.com/sadopc/kiosk/internal/kiosk"
)

// adminModel is the state of one admin console session. It is rebuilt on
// every entry and released on every exit.
type adminModel struct {
	cache  kiosk.AdminCache
	notes  kiosk.Notifications
	subs   []kiosk.Subscription
	cancel context.CancelFunc
	table  table.Model
	width  int
	height int

	exporting    bool
	exportCursor int

	editor        kiosk.ScheduleEditor
	editorOpen    bool
	meetingCursor int
}

func newAdminModel(now time.Time, width, height int) adminModel {
	m := adminModel{cache: kiosk.NewAdminCache(now), width: width, height: height}
	m.refreshTable()
	return m
}

func (m *adminModel) setSize(w, h int) {
	m.width = w
	m.height = h
	if m.cancel != nil {
		m.refreshTable()
	}
}

// release ends every realtime subscription of the session.
func (m *adminModel) release() {
	if m.cancel != nil {
		m.cancel()
	}
	for _, s := range m.subs {
		s.Unsubscribe()
	}
	m.subs = nil
}

// refreshTable rebuilds the list for the active tab's current page.
func (m *adminModel) refreshTable() {
	tab := m.cache.Active()
	cols := tab.Columns()
	colWidth := 12
	if len(cols) > 0 && m.width > 0 {
		colWidth = max((m.width-notificationsWidth-10)/len(cols), 8)
	}
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c, Width: colWidth}
	}

	recs := m.cache.PageRecords()
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		rows[i] = table.Row(r.Cells())
	}

	cursor := m.table.Cursor()
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(kiosk.PageSize+1),
	)
	m.table.SetStyles(tableStyles())
	if cursor >= 0 && cursor < len(rows) {
		m.table.SetCursor(cursor)
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(colorFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(colorPrimary).
		Bold(true)
	return s
}

// selected is the record under the table cursor on the current page.
func (m adminModel) selected() (kiosk.Record, bool) {
	recs := m.cache.PageRecords()
	i := m.table.Cursor()
	if i < 0 || i >= len(recs) {
		return nil, false
	}
	return recs[i], true
}

// meetings is the editor draft flattened in display order.
func (m adminModel) meetings() []kiosk.Meeting {
	draft := m.editor.Draft()
	var out []kiosk.Meeting
	for _, c := range kiosk.MeetingCategories {
		out = append(out, kiosk.MeetingsByCategory(draft, c)...)
	}
	return out
}

// =============================================================================
// Messages
// =============================================================================

// Every admin message carries the epoch of the console session that issued
// it; results arriving after that session ended are discarded.

type tabDataMsg struct {
	epoch   uint64
	req     kiosk.FetchRequest
	records []kiosk.Record
	err     error
}

type subscribedMsg struct {
	epoch    uint64
	category kiosk.Category
	sub      kiosk.Subscription
	err      error
}

type insertMsg struct {
	epoch uint64
	sub   kiosk.Subscription
	event kiosk.InsertEvent
}

type subscriptionEndedMsg struct {
	epoch uint64
	sub   kiosk.Subscription
}

type notificationExpiredMsg struct {
	epoch uint64
	id    string
	seq   uint64
}

type adminWriteMsg struct {
	epoch uint64
	op    string
	tab   kiosk.Tab
	ok    string
	err   error
}

type scheduleSavedMsg struct {
	epoch    uint64
	created  bool
	schedule *kiosk.SafetySchedule
	err      error
}

// Completed admin forms.

type addEmployeeMsg struct{ employee kiosk.NewEmployee }

type setStatusMsg struct {
	category kiosk.Category
	id       int64
	status   kiosk.RequestStatus
}

type setRangeMsg struct{ start, end string }

type addMeetingMsg struct {
	date     string
	time     string
	category kiosk.MeetingCategory
}

type setHeaderMsg struct {
	title       string
	month       string
	year        int
	instruction string
}

// =============================================================================
// Session lifetime
// =============================================================================

// enterAdmin opens a console session: dashboard fetch plus one realtime
// subscription per watched category.
func (a *App) enterAdmin() tea.Cmd {
	a.adminEpoch++
	ctx, cancel := context.WithCancel(a.ctx())
	a.admin = newAdminModel(a.opts.Now(), a.width, a.height-4)
	a.admin.cancel = cancel
	a.view = kiosk.AdminView
	a.pinError = ""
	a.status = ""

	cmds := []tea.Cmd{a.fetch(a.admin.cache.SelectTab(kiosk.TabDashboard))}
	for _, c := range kiosk.WatchedCategories {
		cmds = append(cmds, a.subscribe(ctx, c))
	}
	return tea.Batch(cmds...)
}

// exitAdmin releases the console session and returns to login.
func (a *App) exitAdmin() {
	a.admin.release()
	a.adminEpoch++
	a.admin = adminModel{}
	a.form = nil
	a.status = ""
	a.view = kiosk.LoginView
	a.keypad.Clear()
	a.pinError = ""
	a.loginCursor = 0
}

func (a App) adminLive(epoch uint64) bool {
	return epoch == a.adminEpoch && a.view == kiosk.AdminView
}

func (a App) subscribe(ctx context.Context, c kiosk.Category) tea.Cmd {
	b, epoch := a.backend, a.adminEpoch
	return func() tea.Msg {
		sub, err := b.SubscribeToInserts(ctx, c)
		return subscribedMsg{epoch: epoch, category: c, sub: sub, err: err}
	}
}

func waitForInsert(sub kiosk.Subscription, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return subscriptionEndedMsg{epoch: epoch, sub: sub}
		}
		return insertMsg{epoch: epoch, sub: sub, event: ev}
	}
}

func expireCmd(n kiosk.Notification, ttl time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return notificationExpiredMsg{epoch: epoch, id: n.ID, seq: n.Seq()}
	})
}

func (a App) fetch(req kiosk.FetchRequest) tea.Cmd {
	b, ctx, epoch := a.backend, a.ctx(), a.adminEpoch
	return func() tea.Msg {
		recs, err := kiosk.FetchTab(ctx, b, req)
		return tabDataMsg{epoch: epoch, req: req, records: recs, err: err}
	}
}

func (a *App) selectTab(t kiosk.Tab) tea.Cmd {
	m := &a.admin
	m.exporting = false
	m.editorOpen = false
	req := m.cache.SelectTab(t)
	m.table.SetCursor(0)
	m.refreshTable()
	return a.fetch(req)
}

// =============================================================================
// Async results
// =============================================================================

// updateAdminMsg handles console messages. It reports false for messages
// that are not its own.
func (a *App) updateAdminMsg(msg tea.Msg) (tea.Cmd, bool) {
	m := &a.admin
	switch msg := msg.(type) {
	case subscribedMsg:
		// A session that already ended cancelled its own subscribe calls.
		if !a.adminLive(msg.epoch) {
			if msg.sub != nil {
				msg.sub.Unsubscribe()
			}
			return nil, true
		}
		if msg.err != nil {
			a.log.WithError(msg.err).WithField("op", "subscribe_"+string(msg.category)).Error("realtime subscription failed")
			return nil, true
		}
		m.subs = append(m.subs, msg.sub)
		return waitForInsert(msg.sub, msg.epoch), true

	case insertMsg:
		if !a.adminLive(msg.epoch) {
			return nil, true
		}
		cmds := []tea.Cmd{waitForInsert(msg.sub, msg.epoch)}
		if n, ok := m.notes.Push(msg.event); ok {
			cmds = append(cmds, expireCmd(n, a.opts.NotificationTTL, msg.epoch))
		}
		if tab, ok := kiosk.TabForCategory(msg.event.Category); ok {
			if req, ok := m.cache.RefreshIfActive(tab); ok {
				cmds = append(cmds, a.fetch(req))
			}
		}
		return tea.Batch(cmds...), true

	case subscriptionEndedMsg:
		if a.adminLive(msg.epoch) {
			a.log.WithField("op", "subscribe").Warn("realtime subscription closed")
			for i, s := range m.subs {
				if s == msg.sub {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					break
				}
			}
		}
		return nil, true

	case notificationExpiredMsg:
		if a.adminLive(msg.epoch) {
			m.notes.Expire(msg.id, msg.seq)
		}
		return nil, true

	case tabDataMsg:
		if !a.adminLive(msg.epoch) {
			return nil, true
		}
		recs := msg.records
		if msg.err != nil {
			a.log.WithError(msg.err).WithFields(logrus.Fields{
				"op":  "fetch",
				"tab": msg.req.Tab.String(),
			}).Error("admin list fetch failed")
			recs = nil
		}
		if !m.cache.Apply(msg.req, recs) {
			return nil, true
		}
		if msg.req.Tab == m.cache.Active() {
			m.refreshTable()
		}
		if msg.req.Tab == kiosk.TabSafety && m.editorOpen {
			a.syncEditor(recs)
		}
		return nil, true

	case adminWriteMsg:
		if !a.adminLive(msg.epoch) {
			return nil, true
		}
		if msg.err != nil {
			a.log.WithError(msg.err).WithFields(logrus.Fields{
				"op":  msg.op,
				"tab": msg.tab.String(),
			}).Error("admin update failed")
			a.status, a.isError = kiosk.UserMessage(msg.err), true
		} else {
			a.status, a.isError = msg.ok, false
		}
		if req, ok := m.cache.RefreshIfActive(msg.tab); ok {
			return a.fetch(req), true
		}
		return nil, true

	case scheduleSavedMsg:
		if !a.adminLive(msg.epoch) {
			return nil, true
		}
		if msg.err != nil {
			a.log.WithError(msg.err).WithField("op", "save_schedule").Error("saving safety schedule failed")
			a.status, a.isError = kiosk.UserMessage(msg.err), true
			return nil, true
		}
		if msg.created {
			m.editor = kiosk.ScheduleEditor{}
			m.editor.Sync(*msg.schedule)
			m.editorOpen = true
			m.meetingCursor = 0
			a.status, a.isError = "Schedule created", false
		} else {
			m.editor.Saved(*msg.schedule)
			a.status, a.isError = "Schedule saved", false
		}
		if req, ok := m.cache.RefreshIfActive(kiosk.TabSafety); ok {
			return a.fetch(req), true
		}
		return nil, true

	case addEmployeeMsg, setStatusMsg, setRangeMsg, addMeetingMsg, setHeaderMsg:
		if a.view != kiosk.AdminView {
			return nil, true
		}
		return a.applyAdminForm(msg), true
	}
	return nil, false
}

// applyAdminForm acts on a completed admin form.
func (a *App) applyAdminForm(msg tea.Msg) tea.Cmd {
	m := &a.admin
	switch msg := msg.(type) {
	case addEmployeeMsg:
		return a.addEmployee(msg.employee)
	case setStatusMsg:
		return a.setRequestStatus(msg)
	case setRangeMsg:
		return a.setDateRange(msg)
	case addMeetingMsg:
		if _, err := m.editor.AddMeeting(msg.date, msg.time, msg.category); err != nil {
			a.status, a.isError = err.Error(), true
		}
	case setHeaderMsg:
		m.editor.SetHeader(msg.title, msg.month, msg.year, msg.instruction)
	}
	return nil
}

// syncEditor offers the refreshed safety list to the open editor and closes
// it when its schedule is gone.
func (a *App) syncEditor(recs []kiosk.Record) {
	m := &a.admin
	id := m.editor.Draft().ID
	for _, r := range recs {
		if s, ok := r.(kiosk.SafetySchedule); ok && s.ID == id {
			m.editor.Sync(s)
			return
		}
	}
	m.editorOpen = false
}

// =============================================================================
// Writes
// =============================================================================

func (a App) write(op string, tab kiosk.Tab, ok string, call func(context.Context, kiosk.Backend) error) tea.Cmd {
	b, ctx, epoch := a.backend, a.ctx(), a.adminEpoch
	return func() tea.Msg {
		err := call(ctx, b)
		return adminWriteMsg{epoch: epoch, op: op, tab: tab, ok: ok, err: err}
	}
}

// addEmployee validates locally and only then calls the backend.
func (a *App) addEmployee(ne kiosk.NewEmployee) tea.Cmd {
	if err := kiosk.Validate(ne); err != nil {
		a.status, a.isError = err.Error(), true
		return nil
	}
	return a.write("create_employee", kiosk.TabEmployees, "Employee "+ne.Name+" added",
		func(ctx context.Context, b kiosk.Backend) error {
			_, err := b.CreateEmployee(ctx, ne)
			return err
		})
}

func (a App) toggleActive(e kiosk.Employee) tea.Cmd {
	active := !e.IsActive
	state := "deactivated"
	if active {
		state = "activated"
	}
	return a.write("update_employee", kiosk.TabEmployees, e.Name+" "+state,
		func(ctx context.Context, b kiosk.Backend) error {
			_, err := b.UpdateEmployee(ctx, e.ID, kiosk.EmployeeUpdate{IsActive: &active})
			return err
		})
}

func (a App) setRequestStatus(msg setStatusMsg) tea.Cmd {
	tab, _ := kiosk.TabForCategory(msg.category)
	return a.write("update_status", tab, "Status set to "+string(msg.status),
		func(ctx context.Context, b kiosk.Backend) error {
			found, err := b.UpdateRequestStatus(ctx, msg.category, msg.id, msg.status)
			if err == nil && !found {
				err = kiosk.ErrNotFound
			}
			return err
		})
}

func (a *App) setDateRange(msg setRangeMsg) tea.Cmd {
	start, err1 := time.ParseInLocation(kiosk.DateLayout, msg.start, time.Local)
	end, err2 := time.ParseInLocation(kiosk.DateLayout, msg.end, time.Local)
	if err1 != nil || err2 != nil {
		a.status, a.isError = "Dates must be YYYY-MM-DD", true
		return nil
	}
	if end.Before(start) {
		a.status, a.isError = "End date is before start date", true
		return nil
	}
	req, ok := a.admin.cache.SetDateRange(kiosk.DateRange{Start: start, End: end})
	if !ok {
		return nil
	}
	a.admin.refreshTable()
	return a.fetch(req)
}

func (a App) createSchedule() tea.Cmd {
	b, ctx, epoch, draft := a.backend, a.ctx(), a.adminEpoch, kiosk.DefaultSchedule(a.opts.Now())
	return func() tea.Msg {
		s, err := b.CreateSafetySchedule(ctx, draft)
		return scheduleSavedMsg{epoch: epoch, created: true, schedule: s, err: err}
	}
}

func (a App) saveSchedule() tea.Cmd {
	b, ctx, epoch, draft := a.backend, a.ctx(), a.adminEpoch, a.admin.editor.Draft()
	return func() tea.Msg {
		s, err := b.UpdateSafetySchedule(ctx, draft)
		return scheduleSavedMsg{epoch: epoch, schedule: s, err: err}
	}
}

func (a App) deleteSchedule(s kiosk.SafetySchedule) tea.Cmd {
	return a.write("delete_schedule", kiosk.TabSafety, "Schedule deleted",
		func(ctx context.Context, b kiosk.Backend) error {
			return b.DeleteSafetySchedule(ctx, s.ID)
		})
}

func (a App) doExport(f export.Format) tea.Cmd {
	tab := a.admin.cache.Active()
	t := export.FromTab(tab, a.admin.cache.Range(), a.admin.cache.Records(tab))
	path := export.Filename(a.opts.ExportDir, t, f, a.opts.Now())
	return func() tea.Msg {
		if err := export.Write(t, f, path); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func (a App) exportScheduleText() tea.Cmd {
	s := a.admin.editor.Draft()
	dir := a.opts.ExportDir
	return func() tea.Msg {
		path, err := export.WriteText(dir, fmt.Sprintf("safety-%s-%d", strings.ToLower(s.Month), s.Year), kiosk.ScheduleText(s))
		return exportDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// Keys
// =============================================================================

func (a App) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := &a.admin
	// Notification keys work over the export picker and the editor too.
	if items := m.notes.Items(); len(items) > 0 {
		switch {
		case key.Matches(msg, keys.OpenNote):
			n := items[0]
			m.notes.Dismiss(n.ID)
			t, ok := kiosk.TabForCategory(n.Kind)
			if !ok {
				return a, nil
			}
			if m.editorOpen {
				m.editor.Cancel()
			}
			return a, a.selectTab(t)
		case key.Matches(msg, keys.CloseNote):
			m.notes.Dismiss(items[0].ID)
			return a, nil
		}
	}
	if m.exporting {
		return a.updateExportPicker(msg)
	}
	if m.editorOpen {
		return a.updateEditor(msg)
	}

	tab := m.cache.Active()
	switch {
	case key.Matches(msg, keys.Back):
		a.exitAdmin()
		return a, nil
	case key.Matches(msg, keys.Tab):
		return a, a.selectTab(kiosk.Tabs[(int(tab)+1)%len(kiosk.Tabs)])
	case key.Matches(msg, keys.PrevTab):
		return a, a.selectTab(kiosk.Tabs[(int(tab)+len(kiosk.Tabs)-1)%len(kiosk.Tabs)])
	case key.Matches(msg, keys.Left):
		m.cache.PrevPage()
		m.refreshTable()
		return a, nil
	case key.Matches(msg, keys.Right):
		m.cache.NextPage()
		m.refreshTable()
		return a, nil
	case key.Matches(msg, keys.Range):
		a.form = newDateRangeForm(m.cache.Range())
		return a, a.form.form.Init()
	case key.Matches(msg, keys.Export):
		m.exporting = true
		m.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.New):
		switch tab {
		case kiosk.TabEmployees:
			a.form = newEmployeeForm()
			return a, a.form.form.Init()
		case kiosk.TabSafety:
			return a, a.createSchedule()
		}
		return a, nil
	case key.Matches(msg, keys.Toggle):
		if rec, ok := m.selected(); ok {
			if e, ok := rec.(kiosk.Employee); ok {
				return a, a.toggleActive(e)
			}
		}
		return a, nil
	case key.Matches(msg, keys.Remove):
		if rec, ok := m.selected(); ok {
			if s, ok := rec.(kiosk.SafetySchedule); ok {
				return a, a.deleteSchedule(s)
			}
		}
		return a, nil
	case key.Matches(msg, keys.Enter):
		rec, ok := m.selected()
		if !ok {
			return a, nil
		}
		switch r := rec.(type) {
		case kiosk.Request:
			a.form = newStatusForm(r)
			return a, a.form.form.Init()
		case kiosk.SafetySchedule:
			m.editor = kiosk.ScheduleEditor{}
			m.editor.Sync(r)
			m.editorOpen = true
			m.meetingCursor = 0
		}
		return a, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return a, cmd
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := &a.admin
	switch {
	case key.Matches(msg, keys.Up):
		if m.exportCursor > 0 {
			m.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.exportCursor < len(export.Formats)-1 {
			m.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.exporting = false
		return a, a.doExport(export.Formats[m.exportCursor])
	case key.Matches(msg, keys.Back):
		m.exporting = false
	}
	return a, nil
}

func (a App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := &a.admin
	meetings := m.meetings()
	switch {
	case key.Matches(msg, keys.Back):
		m.editor.Cancel()
		m.editorOpen = false
	case key.Matches(msg, keys.Up):
		if m.meetingCursor > 0 {
			m.meetingCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.meetingCursor < len(meetings)-1 {
			m.meetingCursor++
		}
	case key.Matches(msg, keys.Meeting):
		m.editor.Edit()
		a.form = newMeetingForm(a.opts.Now())
		return a, a.form.form.Init()
	case key.Matches(msg, keys.Header):
		m.editor.Edit()
		a.form = newHeaderForm(m.editor.Draft())
		return a, a.form.form.Init()
	case key.Matches(msg, keys.Remove):
		if m.meetingCursor < len(meetings) {
			m.editor.Edit()
			m.editor.DeleteMeeting(meetings[m.meetingCursor].ID)
			if m.meetingCursor >= len(meetings)-1 && m.meetingCursor > 0 {
				m.meetingCursor--
			}
		}
	case key.Matches(msg, keys.Save):
		return a, a.saveSchedule()
	case key.Matches(msg, keys.TextExport):
		return a, a.exportScheduleText()
	}
	return a, nil
}

func (m adminModel) helpKeys() helpKeys {
	var notes helpKeys
	if m.notes.Len() > 0 {
		notes = helpKeys{keys.OpenNote, keys.CloseNote}
	}
	switch {
	case m.exporting:
		return append(append(helpKeys{keys.Up, keys.Down, keys.Enter}, notes...), keys.Back)
	case m.editorOpen:
		return append(append(helpKeys{keys.Meeting, keys.Header, keys.Remove, keys.Save, keys.TextExport}, notes...), keys.Back)
	}
	h := helpKeys{keys.Tab, keys.PrevTab, keys.Left, keys.Right, keys.Range, keys.Export}
	switch m.cache.Active() {
	case kiosk.TabEmployees:
		h = append(h, keys.New, keys.Toggle)
	case kiosk.TabSafety:
		h = append(h, keys.New, keys.Enter, keys.Remove)
	case kiosk.TabIncidents, kiosk.TabTimeOff, kiosk.TabOvertime, kiosk.TabFMLA:
		h = append(h, keys.Enter)
	}
	h = append(h, notes...)
	return append(h, keys.Back, keys.Help)
}

// =============================================================================
// Rendering
// =============================================================================

const notificationsWidth = 34

func (a App) renderAdmin() string {
	m := a.admin
	if a.form != nil {
		return a.renderForm()
	}

	var tabs []string
	for _, t := range kiosk.Tabs {
		if t == m.cache.Active() {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var main string
	switch {
	case m.exporting:
		main = a.renderExportPicker()
	case m.editorOpen:
		main = a.renderEditor()
	default:
		main = m.renderList()
	}

	body := main
	if m.notes.Len() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", m.renderNotifications())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabRow, "", body)
}

func (m adminModel) renderList() string {
	tab := m.cache.Active()
	var info []string
	if tab.DateScoped() {
		r := m.cache.Range()
		info = append(info, "Range "+highlightStyle.Render(r.StartDate()+" → "+r.EndDate()))
	}
	pages := max(m.cache.PageCount(), 1)
	info = append(info, fmt.Sprintf("Page %d/%d", m.cache.Page(), pages))
	info = append(info, fmt.Sprintf("%d records", len(m.cache.Records(tab))))
	if m.cache.Loading(tab) {
		info = append(info, warningStyle.Render("Loading..."))
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(strings.Join(info, "  ·  ")))
	rows = append(rows, "")
	if tab == kiosk.TabDashboard {
		if chart := m.renderChart(); chart != "" {
			rows = append(rows, titleStyle.Render("Hours on the clock"), chart, "")
		}
	}
	if len(m.cache.Records(tab)) == 0 && !m.cache.Loading(tab) {
		rows = append(rows, mutedStyle.Render("No records found"))
	} else {
		rows = append(rows, m.table.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m adminModel) renderChart() string {
	recs := m.cache.Records(kiosk.TabDashboard)
	if len(recs) == 0 {
		return ""
	}
	w := max(m.width-notificationsWidth-8, 20)
	chart := barchart.New(w, 8)

	bars := make([]barchart.BarData, 0, len(recs))
	var top float64
	for _, r := range recs {
		ac, ok := r.(kiosk.ActiveClockIn)
		if !ok {
			continue
		}
		hours, _ := ac.DurationHours.Float64()
		top = max(top, hours)
		style := lipgloss.NewStyle().Foreground(colorSuccess)
		if hours >= kiosk.ShiftLunchWaived.Hours() {
			style = lipgloss.NewStyle().Foreground(colorWarning)
		}
		label := ac.Name
		if first, _, ok := strings.Cut(ac.Name, " "); ok {
			label = first
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: ac.Name, Value: hours, Style: style}},
		})
	}
	if top <= 0 {
		return ""
	}
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func (m adminModel) renderNotifications() string {
	rows := []string{titleStyle.Render(fmt.Sprintf("New (%d)", m.notes.Len()))}
	for _, n := range m.notes.Items() {
		rows = append(rows, notificationStyle.Render(
			highlightStyle.Render(n.Kind.Label())+"\n"+
				normalItemStyle.Render(n.EmployeeLabel)+" "+
				mutedStyle.Render(kiosk.FormatClock(n.Timestamp)),
		))
	}
	return panelStyle.Width(notificationsWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderExportPicker() string {
	m := a.admin
	var rows []string
	rows = append(rows, titleStyle.Render("Export "+m.cache.Active().String()))
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == m.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.String()))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))
	return activePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderEditor() string {
	m := a.admin
	draft := m.editor.Draft()

	var rows []string
	title := titleStyle.Render(draft.Title)
	if m.editor.Editing() {
		title += warningStyle.Render("  (unsaved)")
	}
	rows = append(rows, title)
	rows = append(rows, subtitleStyle.Render(fmt.Sprintf("%s %d", draft.Month, draft.Year)))
	rows = append(rows, mutedStyle.Render(draft.Instruction))
	if draft.ShareToken != "" {
		rows = append(rows, "Share: "+highlightStyle.Render(kiosk.ShareURL(a.opts.ShareBaseURL, draft.ShareToken)))
	}
	rows = append(rows, "")

	i := 0
	for _, c := range kiosk.MeetingCategories {
		ms := kiosk.MeetingsByCategory(draft, c)
		rows = append(rows, titleStyle.Render(c.Label()))
		if len(ms) == 0 {
			rows = append(rows, mutedStyle.Render("  none"))
		}
		for _, mt := range ms {
			cursor := "  "
			style := normalItemStyle
			if i == m.meetingCursor {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(cursor+kiosk.FormatMeetingDate(mt.Date)+" - "+kiosk.FormatMeetingTime(mt.Time)))
			i++
		}
	}
	return activePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
