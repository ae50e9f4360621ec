package kiosk

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         int64
	ExternalID string // the number typed on the keypad
	Name       string
	PIN        string
	IsActive   bool
	IsDriver   bool
	IsAdmin    bool
	CreatedAt  time.Time
}

// AdminOnly reports whether the account may use the admin console but not
// the driver keypad.
func (e Employee) AdminOnly() bool {
	return e.IsAdmin && !e.IsDriver
}

type TimeEntry struct {
	ID          int64
	EmployeeID  int64
	ClockIn     time.Time
	ClockOut    *time.Time
	Date        string // YYYY-MM-DD of clock-in
	LunchWaiver bool
	TotalHours  decimal.NullDecimal
	CreatedAt   time.Time
}

func (t TimeEntry) Open() bool { return t.ClockOut == nil }

type Inspection struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	TimeEntryID  *int64
	Payload      InspectionPayload
	Passed       bool
	InspectedAt  time.Time
	Date         string
}

type Timesheet struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	TimeEntryID  *int64
	Payload      TimesheetPayload
	Date         string
	CreatedAt    time.Time
}

// RequestStatus is the review state of an HR request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
	StatusReviewed RequestStatus = "reviewed"
)

var RequestStatuses = []RequestStatus{StatusPending, StatusApproved, StatusDenied, StatusReviewed}

// Request is a stored HR form (incident, time-off, overtime or FMLA).
type Request struct {
	ID           int64
	Kind         Category
	EmployeeID   int64
	EmployeeName string
	Form         Form
	Status       RequestStatus
	Date         string
	CreatedAt    time.Time
}

// ActiveClockIn is one row of the "who is on the clock" dashboard.
type ActiveClockIn struct {
	TimeEntryID   int64
	EmployeeID    string
	Name          string
	ClockIn       time.Time
	DurationHours decimal.Decimal
}

// MeetingCategory groups safety meetings by audience.
type MeetingCategory string

const (
	MeetingDriver       MeetingCategory = "driver"
	MeetingCoordinator  MeetingCategory = "coordinator"
	MeetingFuelerWasher MeetingCategory = "fueler_washer"
	MeetingTechnician   MeetingCategory = "technician"
)

// MeetingCategories is the display order of a schedule.
var MeetingCategories = []MeetingCategory{MeetingDriver, MeetingCoordinator, MeetingFuelerWasher, MeetingTechnician}

var meetingCategoryLabels = map[MeetingCategory]string{
	MeetingDriver:       "Drivers",
	MeetingCoordinator:  "Coordinators",
	MeetingFuelerWasher: "Fueler/Washers",
	MeetingTechnician:   "Technicians",
}

func (c MeetingCategory) Label() string {
	if l, ok := meetingCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Meeting struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"` // YYYY-MM-DD
	Time     string          `json:"time"` // HH:MM
	Category MeetingCategory `json:"category"`
}

type SafetySchedule struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Month       string    `json:"month"`
	Year        int       `json:"year"`
	Instruction string    `json:"instruction"`
	Meetings    []Meeting `json:"meetings"`
	ShareToken  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEmployee is the add-employee modal's payload.
type NewEmployee struct {
	ExternalID string `validate:"required,numeric,max=10"`
	Name       string `validate:"required"`
	PIN        string `validate:"required,len=4,numeric"`
	IsDriver   bool
	IsAdmin    bool
}

// EmployeeUpdate carries the fields an admin may change; nil means unchanged.
type EmployeeUpdate struct {
	Name     *string
	PIN      *string
	IsActive *bool
	IsDriver *bool
	IsAdmin  *bool
}
