package kiosk

// ViewKind names a kiosk screen. Exactly one is active at a time.
type ViewKind int

const (
	ViewLogin ViewKind = iota
	ViewPinEntry
	ViewActionSelect
	ViewDVI
	ViewTimesheet
	ViewIncidentReport
	ViewTimeOffRequest
	ViewOvertimeRequest
	ViewFmlaConversion
	ViewSafetySchedules
	ViewClockout
	ViewAdmin
)

var viewKindNames = []string{
	"login", "pinEntry", "actionSelect", "dvi", "timesheet", "incidentReport", "timeOffRequest",
	"overtimeRequest", "fmlaConversion", "safetySchedules", "clockout", "admin",
}

func (k ViewKind) String() string {
	if int(k) < len(viewKindNames) {
		return viewKindNames[k]
	}
	return "unknown"
}

// PinKind tells the PIN entry screen whose credential it collects.
type PinKind int

const (
	PinDriver PinKind = iota
	PinAdmin
)

func (p PinKind) String() string {
	if p == PinAdmin {
		return "admin"
	}
	return "driver"
}

// View is the active screen. Pin is only meaningful for ViewPinEntry.
type View struct {
	Kind ViewKind
	Pin  PinKind
}

func (v View) String() string {
	if v.Kind == ViewPinEntry {
		return v.Kind.String() + "(" + v.Pin.String() + ")"
	}
	return v.Kind.String()
}

var (
	LoginView        = View{Kind: ViewLogin}
	DriverPinView    = View{Kind: ViewPinEntry, Pin: PinDriver}
	AdminPinView     = View{Kind: ViewPinEntry, Pin: PinAdmin}
	ActionSelectView = View{Kind: ViewActionSelect}
	AdminView        = View{Kind: ViewAdmin}
)

// IsForm reports whether the view collects a submission and returns to
// action select when done.
func (k ViewKind) IsForm() bool {
	switch k {
	case ViewDVI, ViewTimesheet, ViewIncidentReport, ViewTimeOffRequest, ViewOvertimeRequest, ViewFmlaConversion:
		return true
	}
	return false
}

// Action is a button on the action-select screen.
type Action int

const (
	ActionClockIn Action = iota
	ActionDVI
	ActionTimesheet
	ActionIncidentReport
	ActionTimeOff
	ActionOvertime
	ActionFMLA
	ActionSafetySchedules
	ActionClockOut
)

var actionLabels = []string{
	"Clock In", "DVI", "Timesheet", "Incident Report", "Time Off Request", "Overtime Request",
	"FMLA Conversion", "Safety Schedules", "Clock Out",
}

func (a Action) String() string {
	if int(a) < len(actionLabels) {
		return actionLabels[a]
	}
	return "unknown"
}

// AvailableActions lists the buttons shown for a session. Without an open
// time entry only clocking in is possible.
func AvailableActions(s Session) []Action {
	if !s.Active() {
		return nil
	}
	if !s.ClockedIn() {
		return []Action{ActionClockIn}
	}
	return []Action{
		ActionDVI, ActionTimesheet, ActionIncidentReport, ActionTimeOff,
		ActionOvertime, ActionFMLA, ActionSafetySchedules, ActionClockOut,
	}
}

// Allowed reports whether a is one of the session's available actions.
func Allowed(s Session, a Action) bool {
	for _, x := range AvailableActions(s) {
		if x == a {
			return true
		}
	}
	return false
}

// ActionView is the screen an action navigates to. Clock in and clock out
// stay on action select (clock out opens a confirmation overlay).
func ActionView(a Action) View {
	switch a {
	case ActionDVI:
		return View{Kind: ViewDVI}
	case ActionTimesheet:
		return View{Kind: ViewTimesheet}
	case ActionIncidentReport:
		return View{Kind: ViewIncidentReport}
	case ActionTimeOff:
		return View{Kind: ViewTimeOffRequest}
	case ActionOvertime:
		return View{Kind: ViewOvertimeRequest}
	case ActionFMLA:
		return View{Kind: ViewFmlaConversion}
	case ActionSafetySchedules:
		return View{Kind: ViewSafetySchedules}
	}
	return ActionSelectView
}

// FormCategory maps a form view to the category of record it creates.
func FormCategory(k ViewKind) (Category, bool) {
	switch k {
	case ViewDVI:
		return CategoryDVI, true
	case ViewTimesheet:
		return CategoryTimesheet, true
	case ViewIncidentReport:
		return CategoryIncident, true
	case ViewTimeOffRequest:
		return CategoryTimeOff, true
	case ViewOvertimeRequest:
		return CategoryOvertime, true
	case ViewFmlaConversion:
		return CategoryFMLA, true
	}
	return "", false
}

// MaxKeypadDigits bounds the keypad buffer.
const MaxKeypadDigits = 10

// Keypad is the digit buffer of the PIN entry screen.
type Keypad struct {
	digits []byte
}

// Press appends d if it is a digit and the buffer has room.
func (k *Keypad) Press(d rune) bool {
	if d < '0' || d > '9' || len(k.digits) >= MaxKeypadDigits {
		return false
	}
	k.digits = append(k.digits, byte(d))
	return true
}

func (k *Keypad) Backspace() {
	if len(k.digits) > 0 {
		k.digits = k.digits[:len(k.digits)-1]
	}
}

func (k *Keypad) Clear()        { k.digits = nil }
func (k Keypad) String() string { return string(k.digits) }
func (k Keypad) Len() int       { return len(k.digits) }

// Masked renders the buffer as bullets for PIN entry.
func (k Keypad) Masked() string {
	out := make([]rune, len(k.digits))
	for i := range out {
		out[i] = '•'
	}
	return string(out)
}
