package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// formModel wraps one huh form. Field values are bound through pointers
// captured by done, so they survive value copies of the App.
type formModel struct {
	title string
	form  *huh.Form
	done  func() tea.Msg
}

func newFormModel(title string, done func() tea.Msg, groups ...*huh.Group) *formModel {
	return &formModel{
		title: title,
		form:  huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true),
		done:  done,
	}
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.cancelForm()
			return a, nil
		}
	}

	f := *a.form
	m, cmd := f.form.Update(msg)
	if hf, ok := m.(*huh.Form); ok {
		f.form = hf
	}
	a.form = &f

	switch f.form.State {
	case huh.StateCompleted:
		a.form = nil
		return a, f.done
	case huh.StateAborted:
		a.cancelForm()
		return a, nil
	}
	return a, cmd
}

// cancelForm drops the open form. Driver forms go back to action select;
// admin modals leave the console where it was.
func (a *App) cancelForm() {
	a.form = nil
	if a.view.Kind.IsForm() {
		a.view = kiosk.ActionSelectView
	}
}

func (a App) renderForm() string {
	if a.form == nil {
		return ""
	}
	title := titleStyle.Render(a.form.title)
	w := a.width - 4
	if w < 20 {
		w = 20
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.form.View()))
}

// =============================================================================
// Field validators
// =============================================================================

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse(kiosk.DateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validTime(s string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
		return errors.New("use HH:MM (24h)")
	}
	return nil
}

func optional(check func(string) error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return check(s)
	}
}

func digitsOnly(s string) error {
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return errors.New("digits only")
		}
	}
	return nil
}

// =============================================================================
// Multi-value fields
// =============================================================================

// parseDateList reads up to limit comma separated YYYY-MM-DD dates.
func parseDateList(s string, limit int) ([]string, error) {
	var dates []string
	for _, d := range strings.Split(s, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if err := validDate(d); err != nil {
			return nil, fmt.Errorf("%q: %w", d, err)
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, errors.New("at least one date is required")
	}
	if len(dates) > limit {
		return nil, fmt.Errorf("at most %d dates", limit)
	}
	return dates, nil
}

// parseOvertimeShifts reads one "shift | date | start | end" row per line and
// computes each shift's pay hours.
func parseOvertimeShifts(text string) ([]kiosk.OvertimeShift, error) {
	var shifts []kiosk.OvertimeShift
	for i, row := range strings.Split(text, "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		cols := strings.Split(row, "|")
		if len(cols) != 4 {
			return nil, fmt.Errorf("line %d: want shift | date | start | end", i+1)
		}
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}
		if err := validDate(cols[1]); err != nil {
			return nil, fmt.Errorf("line %d date: %w", i+1, err)
		}
		hours, err := kiosk.ShiftPayHours(cols[2], cols[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		shifts = append(shifts, kiosk.OvertimeShift{
			ShiftNumber: cols[0],
			DateOfShift: cols[1],
			StartTime:   cols[2],
			EndTime:     cols[3],
			PayHours:    hours,
		})
	}
	if len(shifts) == 0 {
		return nil, errors.New("at least one shift is required")
	}
	return shifts, nil
}

// parseFmlaDates reads one "date | yes/no" row per line; the second column
// says whether vacation pay is used and defaults to no.
func parseFmlaDates(text string) ([]kiosk.FmlaDate, error) {
	var dates []kiosk.FmlaDate
	for i, row := range strings.Split(text, "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		cols := strings.SplitN(row, "|", 2)
		d := strings.TrimSpace(cols[0])
		if err := validDate(d); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		fd := kiosk.FmlaDate{Date: d}
		if len(cols) == 2 {
			switch strings.ToLower(strings.TrimSpace(cols[1])) {
			case "yes", "y":
				fd.UseVacationPay = true
			case "", "no", "n":
			default:
				return nil, fmt.Errorf("line %d: vacation pay must be yes or no", i+1)
			}
		}
		dates = append(dates, fd)
	}
	if len(dates) == 0 {
		return nil, errors.New("at least one date is required")
	}
	if len(dates) > kiosk.MaxRequestedDates {
		return nil, fmt.Errorf("at most %d dates", kiosk.MaxRequestedDates)
	}
	return dates, nil
}

func validateWith[T any](parse func(string) (T, error)) func(string) error {
	return func(s string) error {
		_, err := parse(s)
		return err
	}
}

// =============================================================================
// Driver forms
// =============================================================================

// newDriverForm builds the form behind a form view, prefilled from the
// session. It returns nil for views that are not forms.
func newDriverForm(kind kiosk.ViewKind, s kiosk.Session, now time.Time) *formModel {
	name := ""
	if s.Employee != nil {
		name = s.Employee.Name
	}
	switch kind {
	case kiosk.ViewDVI:
		return newDVIForm()
	case kiosk.ViewTimesheet:
		return newTimesheetForm(name, s.TimeEntry)
	case kiosk.ViewIncidentReport:
		return newIncidentForm(name, now)
	case kiosk.ViewTimeOffRequest:
		return newTimeOffForm(name, now)
	case kiosk.ViewOvertimeRequest:
		return newOvertimeForm(name, now)
	case kiosk.ViewFmlaConversion:
		return newFmlaForm(name, now)
	}
	return nil
}

func completed(build func() (any, error)) func() tea.Msg {
	return func() tea.Msg {
		p, err := build()
		if err == nil {
			err = kiosk.Validate(p)
		}
		return formCompletedMsg{payload: p, err: err}
	}
}

func newDVIForm() *formModel {
	busNumber := new(string)
	vehicle := new(kiosk.VehicleType)
	inspection := new(kiosk.InspectionType)
	beginMiles := new(string)
	endMiles := new(string)
	comments := new(string)
	signature := new(string)
	*vehicle = kiosk.VehicleDiesel
	*inspection = kiosk.PreTrip

	checked := make([]*[]string, len(kiosk.InspectionChecklist))
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Bus Number").Value(busNumber).Validate(required("bus number")),
			huh.NewSelect[kiosk.VehicleType]().Title("Vehicle Type").
				Options(
					huh.NewOption("Diesel", kiosk.VehicleDiesel),
					huh.NewOption("EV", kiosk.VehicleEV),
				).Value(vehicle),
			huh.NewSelect[kiosk.InspectionType]().Title("Inspection").
				Options(
					huh.NewOption("Pre-trip", kiosk.PreTrip),
					huh.NewOption("Post-trip", kiosk.PostTrip),
				).Value(inspection),
		),
	}
	for i, sec := range kiosk.InspectionChecklist {
		checked[i] = new([]string)
		opts := make([]huh.Option[string], len(sec.Items))
		for j, item := range sec.Items {
			opts[j] = huh.NewOption(item, item)
		}
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().Title(sec.Name).
				Description("Select every item that passed").
				Options(opts...).Value(checked[i]),
		))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().Title("Beginning Miles").Value(beginMiles).Validate(digitsOnly),
		huh.NewInput().Title("End Miles").Value(endMiles).Validate(digitsOnly),
		huh.NewText().Title("Comments").Value(comments).Lines(3),
		huh.NewInput().Title("Signature").Value(signature).Validate(required("signature")),
	))

	return newFormModel("Daily Vehicle Inspection", completed(func() (any, error) {
		var items []string
		for _, c := range checked {
			items = append(items, *c...)
		}
		return kiosk.InspectionPayload{
			BusNumber:      strings.TrimSpace(*busNumber),
			VehicleType:    *vehicle,
			InspectionType: *inspection,
			Checked:        items,
			BeginningMiles: strings.TrimSpace(*beginMiles),
			EndMiles:       strings.TrimSpace(*endMiles),
			Comments:       *comments,
			Signature:      strings.TrimSpace(*signature),
		}, nil
	}), groups...)
}

func newTimesheetForm(operator string, te *kiosk.TimeEntry) *formModel {
	op := &operator
	busNumber := new(string)
	breaks := new(string)
	checkIn := new(string)
	checkOut := new(string)
	lines := new(string)
	if te != nil {
		*checkIn = te.ClockIn.Local().Format("15:04")
	}

	return newFormModel("Timesheet", completed(func() (any, error) {
		parsed, err := kiosk.ParseTimesheetLines(*lines)
		if err != nil {
			return nil, err
		}
		return kiosk.TimesheetPayload{
			Operator:     strings.TrimSpace(*op),
			BusNumber:    strings.TrimSpace(*busNumber),
			BreakWindows: strings.TrimSpace(*breaks),
			CheckIn:      strings.TrimSpace(*checkIn),
			CheckOut:     strings.TrimSpace(*checkOut),
			Lines:        parsed,
		}, nil
	}),
		huh.NewGroup(
			huh.NewInput().Title("Operator").Value(op).Validate(required("operator")),
			huh.NewInput().Title("Bus Number").Value(busNumber).Validate(required("bus number")),
			huh.NewInput().Title("Break Windows").Value(breaks).Placeholder("11:30-12:00"),
			huh.NewInput().Title("Check In").Value(checkIn).Validate(optional(validTime)),
			huh.NewInput().Title("Check Out").Value(checkOut).Validate(optional(validTime)),
		),
		huh.NewGroup(
			huh.NewText().Title("Work Orders").
				Description("One per line: work order | description | straight | overtime").
				Value(lines).Lines(6).
				Validate(validateWith(kiosk.ParseTimesheetLines)),
		),
	)
}

func newIncidentForm(name string, now time.Time) *formModel {
	r := &kiosk.IncidentReport{
		EmployeeName: name,
		IncidentDate: now.Format(kiosk.DateLayout),
		IncidentTime: now.Format("15:04"),
	}

	return newFormModel("Incident Report", completed(func() (any, error) {
		return *r, nil
	}),
		huh.NewGroup(
			huh.NewInput().Title("Employee Name").Value(&r.EmployeeName).Validate(required("name")),
			huh.NewInput().Title("Date").Value(&r.IncidentDate).Validate(validDate),
			huh.NewInput().Title("Time").Value(&r.IncidentTime).Validate(validTime),
			huh.NewInput().Title("Location").Value(&r.IncidentLocation).Validate(required("location")),
			huh.NewInput().Title("Bus Number").Value(&r.BusNumber),
			huh.NewInput().Title("Supervisor Contacted").Value(&r.SupervisorContacted),
		),
		huh.NewGroup(
			huh.NewText().Title("Details of Event").Value(&r.DetailsOfEvent).Lines(5).Validate(required("details")),
			huh.NewInput().Title("Witnesses").Value(&r.Witnesses),
		),
		huh.NewGroup(
			huh.NewInput().Title("Passenger Name").Value(&r.PassengerName),
			huh.NewInput().Title("Passenger Address").Value(&r.PassengerAddress),
			huh.NewInput().Title("City, State, Zip").Value(&r.PassengerCityStateZip),
			huh.NewInput().Title("Passenger Phone").Value(&r.PassengerPhone),
			huh.NewInput().Title("Signature").Value(&r.Signature).Validate(required("signature")),
		),
	)
}

var leaveTypeLabels = map[kiosk.LeaveType]string{
	kiosk.LeaveVacationPTO: "Vacation / PTO",
	kiosk.LeaveJuryDuty:    "Jury Duty",
	kiosk.LeaveBereavement: "Bereavement",
	kiosk.LeaveBirthday:    "Birthday",
}

func newTimeOffForm(name string, now time.Time) *formModel {
	r := &kiosk.TimeOffRequest{EmployeeName: name, Date: now.Format(kiosk.DateLayout)}
	dates := new(string)

	opts := make([]huh.Option[kiosk.LeaveType], len(kiosk.LeaveTypes))
	for i, lt := range kiosk.LeaveTypes {
		opts[i] = huh.NewOption(leaveTypeLabels[lt], lt)
	}
	parseDates := func(s string) ([]string, error) { return parseDateList(s, kiosk.MaxRequestedDates) }

	return newFormModel("Time Off Request", completed(func() (any, error) {
		req := *r
		d, err := parseDates(*dates)
		if err != nil {
			return nil, err
		}
		req.RequestedDates = d
		return req, nil
	}),
		huh.NewGroup(
			huh.NewInput().Title("Employee Name").Value(&r.EmployeeName).Validate(required("name")),
			huh.NewInput().Title("Mailbox Number").Value(&r.MailboxNumber),
			huh.NewInput().Title("Date").Value(&r.Date).Validate(validDate),
			huh.NewInput().Title("Start Time").Value(&r.StartTime).Validate(optional(validTime)),
		),
		huh.NewGroup(
			huh.NewMultiSelect[kiosk.LeaveType]().Title("Leave Type").Options(opts...).Value(&r.LeaveTypes).
				Validate(func(v []kiosk.LeaveType) error {
					if len(v) == 0 {
						return errors.New("pick at least one leave type")
					}
					return nil
				}),
			huh.NewInput().Title("Requested Dates").
				Description(fmt.Sprintf("Up to %d, comma separated", kiosk.MaxRequestedDates)).
				Value(dates).Validate(validateWith(parseDates)),
			huh.NewInput().Title("Signature").Value(&r.Signature).Validate(required("signature")),
		),
	)
}

func newOvertimeForm(name string, now time.Time) *formModel {
	r := &kiosk.OvertimeRequest{EmployeeName: name}
	shifts := new(string)

	return newFormModel("Overtime Request", completed(func() (any, error) {
		req := *r
		s, err := parseOvertimeShifts(*shifts)
		if err != nil {
			return nil, err
		}
		req.Shifts = s
		req.DateTimeSubmitted = now
		return req, nil
	}),
		huh.NewGroup(
			huh.NewInput().Title("Employee Name").Value(&r.EmployeeName).Validate(required("name")),
			huh.NewInput().Title("Seniority Number").Value(&r.SeniorityNumber),
			huh.NewInput().Title("Dispatcher").Value(&r.DispatcherName),
		),
		huh.NewGroup(
			huh.NewText().Title("Shifts").
				Description("One per line: shift | YYYY-MM-DD | start HH:MM | end HH:MM").
				Value(shifts).Lines(5).Validate(validateWith(parseOvertimeShifts)),
			huh.NewInput().Title("Signature").Value(&r.Signature).Validate(required("signature")),
		),
	)
}

func newFmlaForm(name string, now time.Time) *formModel {
	r := &kiosk.FmlaConversion{EmployeeName: name, Date: now.Format(kiosk.DateLayout)}
	dates := new(string)

	return newFormModel("FMLA Conversion", completed(func() (any, error) {
		req := *r
		d, err := parseFmlaDates(*dates)
		if err != nil {
			return nil, err
		}
		req.Dates = d
		return req, nil
	}),
		huh.NewGroup(
			huh.NewInput().Title("Employee Name").Value(&r.EmployeeName).Validate(required("name")),
			huh.NewInput().Title("Mailbox Number").Value(&r.MailboxNumber),
			huh.NewInput().Title("Date").Value(&r.Date).Validate(validDate),
		),
		huh.NewGroup(
			huh.NewText().Title("FMLA Dates").
				Description(fmt.Sprintf("Up to %d, one per line: YYYY-MM-DD | use vacation pay yes/no", kiosk.MaxRequestedDates)).
				Value(dates).Lines(5).Validate(validateWith(parseFmlaDates)),
			huh.NewInput().Title("Signature").Value(&r.Signature).Validate(required("signature")),
		),
	)
}
