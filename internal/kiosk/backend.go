package kiosk

import (
	"context"
	"time"
)

// DateRange bounds date-scoped admin lists. Both ends are inclusive calendar
// days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DefaultDateRange is the last seven days up to and including today.
func DefaultDateRange(now time.Time) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateRange{Start: today.AddDate(0, 0, -7), End: today}
}

func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }
func (r DateRange) EndDate() string   { return r.End.Format(DateLayout) }

const DateLayout = "2006-01-02"

// InsertEvent is pushed to subscribers whenever a watched record is created.
type InsertEvent struct {
	Category      Category
	RecordID      int64
	EmployeeLabel string
	At            time.Time
}

// Subscription delivers insert events for one category until Unsubscribe is
// called, after which Events is closed. Unsubscribe is idempotent.
type Subscription interface {
	Events() <-chan InsertEvent
	Unsubscribe()
}

// Backend is everything the kiosk needs from the data store. Implementations
// return ErrNotFound for a missing employee or schedule, nil with a nil error
// when there is no open time entry or inspection, and wrap every other
// failure in *BackendError.
type Backend interface {
	FindActiveEmployeeByExternalID(ctx context.Context, externalID string) (*Employee, error)
	FindOpenTimeEntry(ctx context.Context, employeeID int64) (*TimeEntry, error)
	CreateTimeEntry(ctx context.Context, employeeID int64, lunchWaiver bool) (*TimeEntry, error)
	CloseTimeEntry(ctx context.Context, timeEntryID int64, closedAt time.Time) (*TimeEntry, error)

	FindInspectionForTimeEntry(ctx context.Context, timeEntryID int64) (*Inspection, error)
	SubmitInspection(ctx context.Context, employeeID, timeEntryID int64, p InspectionPayload) (*Inspection, error)
	FindTimesheetForTimeEntry(ctx context.Context, timeEntryID int64) (*Timesheet, error)
	SubmitTimesheet(ctx context.Context, employeeID int64, timeEntryID *int64, p TimesheetPayload) (*Timesheet, error)
	SubmitRequest(ctx context.Context, employeeID int64, form Form) (*Request, error)

	ListActiveClockIns(ctx context.Context) ([]ActiveClockIn, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListTimesheets(ctx context.Context, r DateRange) ([]Timesheet, error)
	ListInspections(ctx context.Context, r DateRange) ([]Inspection, error)
	ListRequests(ctx context.Context, c Category, r DateRange) ([]Request, error)
	ListSafetySchedules(ctx context.Context) ([]SafetySchedule, error)

	UpdateRequestStatus(ctx context.Context, c Category, id int64, status RequestStatus) (bool, error)

	CreateEmployee(ctx context.Context, e NewEmployee) (*Employee, error)
	UpdateEmployee(ctx context.Context, id int64, u EmployeeUpdate) (*Employee, error)

	CreateSafetySchedule(ctx context.Context, s SafetySchedule) (*SafetySchedule, error)
	UpdateSafetySchedule(ctx context.Context, s SafetySchedule) (*SafetySchedule, error)
	DeleteSafetySchedule(ctx context.Context, id int64) error
	SafetyScheduleByShareToken(ctx context.Context, token string) (*SafetySchedule, error)

	SubscribeToInserts(ctx context.Context, c Category) (Subscription, error)
}
