package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Category identifies a kind of submitted record. The admin console watches
// one realtime subscription per category.
type Category string

const (
	CategoryDVI       Category = "dvi"
	CategoryTimesheet Category = "timesheet"
	CategoryIncident  Category = "incident"
	CategoryTimeOff   Category = "timeoff"
	CategoryOvertime  Category = "overtime"
	CategoryFMLA      Category = "fmla"
)

// WatchedCategories lists every category the admin console subscribes to.
var WatchedCategories = []Category{
	CategoryDVI, CategoryTimesheet, CategoryIncident, CategoryTimeOff, CategoryOvertime, CategoryFMLA,
}

var categoryLabels = map[Category]string{
	CategoryDVI:       "DVI",
	CategoryTimesheet: "Timesheet",
	CategoryIncident:  "Incident Report",
	CategoryTimeOff:   "Time Off Request",
	CategoryOvertime:  "Overtime Request",
	CategoryFMLA:      "FMLA Conversion",
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Form is one of the four HR submissions. The set is closed: only the types
// in this file implement it.
type Form interface {
	Category() Category
	isForm()
}

var validate = validator.New()

// Validate checks a payload against its struct tags and returns a
// ValidationError describing every failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationError, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "len":
		return fmt.Sprintf("%s must be %s characters", name, fe.Param())
	case "numeric":
		return name + " must contain only digits"
	case "datetime":
		return fmt.Sprintf("%s must look like %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s %s", name, fe.Param(), unit(fe))
	case "max":
		return fmt.Sprintf("%s allows at most %s %s", name, fe.Param(), unit(fe))
	}
	return name + " is invalid"
}

// unit names what a length bound counts: runes for strings, items for
// slices and maps.
func unit(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return "characters"
	}
	return "entries"
}

// --- DVI ---

type VehicleType string

const (
	VehicleEV     VehicleType = "ev"
	VehicleDiesel VehicleType = "diesel"
)

type InspectionType string

const (
	PreTrip  InspectionType = "pre-trip"
	PostTrip InspectionType = "post-trip"
)

type ChecklistSection struct {
	Name  string
	Items []string
}

// InspectionChecklist mirrors the paper DVI card.
var InspectionChecklist = []ChecklistSection{
	{Name: "Exterior", Items: []string{
		"lights-lenses", "turn-signals", "windshield-wipers", "door-operation", "emergency-doors",
		"tires-wheels", "glass-mirrors", "body-damage", "vehicle-leaks", "passenger-ramp",
	}},
	{Name: "Interior", Items: []string{
		"speedometer", "heaters-defroster", "air-conditioner", "gauges", "horn-lights", "operator-seat",
		"passenger-seat", "handrails", "radio", "steering", "front-monitor", "fire-ext", "accident-packet",
		"insurance", "wheelchair-straps", "exhaust-noise", "parking-brake", "interior-clean",
		"interior-lights", "destination-sign", "backup-alarm", "rear-monitor",
	}},
	{Name: "Brakes", Items: []string{
		"cut-in-pressure", "cut-out-pressure", "static-press-on", "static-press-off",
		"applied-pressure", "low-pressure-warning", "auto-pop-out", "park-brake-hold",
	}},
}

type InspectionPayload struct {
	BusNumber      string         `json:"bus_number" validate:"required"`
	VehicleType    VehicleType    `json:"vehicle_type" validate:"required,oneof=ev diesel"`
	InspectionType InspectionType `json:"inspection_type" validate:"required,oneof=pre-trip post-trip"`
	Checked        []string       `json:"checked"`
	BeginningMiles string         `json:"beginning_miles" validate:"omitempty,numeric"`
	EndMiles       string         `json:"end_miles" validate:"omitempty,numeric"`
	Comments       string         `json:"comments"`
	Signature      string         `json:"signature" validate:"required"`
}

// Missing returns the checklist items that were not checked, in card order.
func (p InspectionPayload) Missing() []string {
	checked := make(map[string]bool, len(p.Checked))
	for _, c := range p.Checked {
		checked[c] = true
	}
	var missing []string
	for _, sec := range InspectionChecklist {
		for _, item := range sec.Items {
			if !checked[item] {
				missing = append(missing, item)
			}
		}
	}
	return missing
}

func (p InspectionPayload) Passed() bool { return len(p.Missing()) == 0 }

// --- Timesheet ---

type TimesheetLine struct {
	WorkOrder    string          `json:"work_order" validate:"required"`
	Description  string          `json:"description"`
	StraightTime decimal.Decimal `json:"straight_time"`
	OverTime     decimal.Decimal `json:"over_time"`
}

func (l TimesheetLine) Total() decimal.Decimal { return l.StraightTime.Add(l.OverTime) }

type TimesheetTotals struct {
	StraightTime decimal.Decimal `json:"straight_time"`
	OverTime     decimal.Decimal `json:"over_time"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

type TimesheetPayload struct {
	Operator     string          `json:"operator" validate:"required"`
	BusNumber    string          `json:"bus_number" validate:"required"`
	BreakWindows string          `json:"break_windows"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Lines        []TimesheetLine `json:"lines" validate:"dive"`
}

func (p TimesheetPayload) Totals() TimesheetTotals {
	var t TimesheetTotals
	for _, l := range p.Lines {
		t.StraightTime = t.StraightTime.Add(l.StraightTime)
		t.OverTime = t.OverTime.Add(l.OverTime)
	}
	t.TotalHours = t.StraightTime.Add(t.OverTime)
	return t
}

// ParseTimesheetLines reads one work-order line per row in the form
// "work order | description | straight | overtime". Blank rows are skipped
// and missing hour columns count as zero.
func ParseTimesheetLines(text string) ([]TimesheetLine, error) {
	var lines []TimesheetLine
	for i, row := range strings.Split(text, "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		cols := strings.Split(row, "|")
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}
		for len(cols) < 4 {
			cols = append(cols, "")
		}
		st, err := parseHours(cols[2])
		if err != nil {
			return nil, fmt.Errorf("line %d straight time: %w", i+1, err)
		}
		ot, err := parseHours(cols[3])
		if err != nil {
			return nil, fmt.Errorf("line %d overtime: %w", i+1, err)
		}
		lines = append(lines, TimesheetLine{
			WorkOrder:    cols[0],
			Description:  cols[1],
			StraightTime: st,
			OverTime:     ot,
		})
	}
	return lines, nil
}

func parseHours(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative hours %s", s)
	}
	return d, nil
}

// --- HR forms ---

type IncidentReport struct {
	EmployeeName          string `json:"employee_name" validate:"required"`
	IncidentDate          string `json:"incident_date" validate:"required,datetime=2006-01-02"`
	IncidentTime          string `json:"incident_time" validate:"required,datetime=15:04"`
	IncidentLocation      string `json:"incident_location" validate:"required"`
	BusNumber             string `json:"bus_number"`
	SupervisorContacted   string `json:"supervisor_contacted"`
	DetailsOfEvent        string `json:"details_of_event" validate:"required"`
	Witnesses             string `json:"witnesses"`
	PassengerName         string `json:"passenger_name"`
	PassengerAddress      string `json:"passenger_address"`
	PassengerCityStateZip string `json:"passenger_city_state_zip"`
	PassengerPhone        string `json:"passenger_phone"`
	Signature             string `json:"employee_signature" validate:"required"`
}

func (IncidentReport) Category() Category { return CategoryIncident }
func (IncidentReport) isForm()            {}

type LeaveType string

const (
	LeaveVacationPTO LeaveType = "vacation_pto"
	LeaveJuryDuty    LeaveType = "jury_duty"
	LeaveBereavement LeaveType = "bereavement"
	LeaveBirthday    LeaveType = "birthday"
)

var LeaveTypes = []LeaveType{LeaveVacationPTO, LeaveJuryDuty, LeaveBereavement, LeaveBirthday}

// MaxRequestedDates is the number of date boxes on the paper forms.
const MaxRequestedDates = 5

type TimeOffRequest struct {
	EmployeeName   string      `json:"employee_name" validate:"required"`
	MailboxNumber  string      `json:"mailbox_number"`
	Date           string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string      `json:"start_time" validate:"omitempty,datetime=15:04"`
	LeaveTypes     []LeaveType `json:"leave_types" validate:"min=1,dive,oneof=vacation_pto jury_duty bereavement birthday"`
	RequestedDates []string    `json:"requested_dates" validate:"min=1,max=5,dive,datetime=2006-01-02"`
	Signature      string      `json:"employee_signature" validate:"required"`
}

func (TimeOffRequest) Category() Category { return CategoryTimeOff }
func (TimeOffRequest) isForm()            {}

type OvertimeShift struct {
	ShiftNumber string          `json:"shift_number" validate:"required"`
	DateOfShift string          `json:"date_of_shift" validate:"required,datetime=2006-01-02"`
	StartTime   string          `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string          `json:"end_time" validate:"required,datetime=15:04"`
	PayHours    decimal.Decimal `json:"pay_hours"`
}

type OvertimeRequest struct {
	EmployeeName      string          `json:"employee_name" validate:"required"`
	SeniorityNumber   string          `json:"seniority_number"`
	DispatcherName    string          `json:"dispatcher_name"`
	Shifts            []OvertimeShift `json:"shifts" validate:"min=1,dive"`
	Signature         string          `json:"employee_signature" validate:"required"`
	DateTimeSubmitted time.Time       `json:"date_time_submitted"`
}

func (OvertimeRequest) Category() Category { return CategoryOvertime }
func (OvertimeRequest) isForm()            {}

// ShiftPayHours is the length of a shift in hours, rounded to 2 places. An
// end time earlier than the start rolls over to the next day.
func ShiftPayHours(start, end string) (decimal.Decimal, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return decimal.Zero, fmt.Errorf("start time: %w", err)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("end time: %w", err)
	}
	if e.Before(s) {
		e = e.Add(24 * time.Hour)
	}
	return HoursBetween(s, e), nil
}

// HoursBetween returns (to - from) in hours rounded to 2 decimal places.
func HoursBetween(from, to time.Time) decimal.Decimal {
	secs := decimal.NewFromInt(int64(to.Sub(from) / time.Second))
	return secs.Div(decimal.NewFromInt(3600)).Round(2)
}

type FmlaDate struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	UseVacationPay bool   `json:"use_vacation_pay"`
}

type FmlaConversion struct {
	EmployeeName  string     `json:"employee_name" validate:"required"`
	MailboxNumber string     `json:"mailbox_number"`
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	Dates         []FmlaDate `json:"fmla_dates" validate:"min=1,max=5,dive"`
	Signature     string     `json:"employee_signature" validate:"required"`
}

func (FmlaConversion) Category() Category { return CategoryFMLA }
func (FmlaConversion) isForm()            {}

// DecodeForm rebuilds a stored HR payload of the given category.
func DecodeForm(c Category, data []byte) (Form, error) {
	switch c {
	case CategoryIncident:
		var f IncidentReport
		err := json.Unmarshal(data, &f)
		return f, err
	case CategoryTimeOff:
		var f TimeOffRequest
		err := json.Unmarshal(data, &f)
		return f, err
	case CategoryOvertime:
		var f OvertimeRequest
		err := json.Unmarshal(data, &f)
		return f, err
	case CategoryFMLA:
		var f FmlaConversion
		err := json.Unmarshal(data, &f)
		return f, err
	}
	return nil, fmt.Errorf("no form for category %q", c)
}

// OvertimeTotal sums the pay hours of every shift on the request.
func OvertimeTotal(r OvertimeRequest) decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Shifts {
		total = total.Add(s.PayHours)
	}
	return total
}
