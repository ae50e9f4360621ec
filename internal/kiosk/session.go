package kiosk

import (
	"context"
	"time"
)

// Expected shift lengths used for the "expected clock-out" estimate.
const (
	ShiftWithLunch   = 8*time.Hour + 30*time.Minute
	ShiftLunchWaived = 8 * time.Hour
)

// ExpectedClockOut estimates the end of a shift that started at clockIn.
func ExpectedClockOut(clockIn time.Time, lunchWaiver bool) time.Time {
	if lunchWaiver {
		return clockIn.Add(ShiftLunchWaived)
	}
	return clockIn.Add(ShiftWithLunch)
}

// Session is one employee's interaction with the kiosk, from a successful
// keypad lookup until clock-out or cancel.
//
// TimeEntry is only ever set together with Employee. The completion flags are
// markers for "done during this shift" and are cleared only by Reset.
type Session struct {
	Employee           *Employee
	TimeEntry          *TimeEntry
	DVICompleted       bool
	TimesheetCompleted bool
}

// Flags are the values the action-select screen renders.
type Flags struct {
	ClockedIn          bool
	DVICompleted       bool
	TimesheetCompleted bool
	LunchWaiver        bool
	ExpectedClockOut   time.Time
}

func (s Session) Active() bool    { return s.Employee != nil }
func (s Session) ClockedIn() bool { return s.TimeEntry != nil }

func (s Session) Flags() Flags {
	f := Flags{
		ClockedIn:          s.ClockedIn(),
		DVICompleted:       s.DVICompleted,
		TimesheetCompleted: s.TimesheetCompleted,
	}
	if s.TimeEntry != nil {
		f.LunchWaiver = s.TimeEntry.LunchWaiver
		f.ExpectedClockOut = ExpectedClockOut(s.TimeEntry.ClockIn, s.TimeEntry.LunchWaiver)
	}
	return f
}

// StartShift records a newly created time entry.
func (s *Session) StartShift(te *TimeEntry) {
	if s.Employee == nil || te == nil {
		return
	}
	s.TimeEntry = te
}

func (s *Session) MarkDVICompleted()       { s.DVICompleted = true }
func (s *Session) MarkTimesheetCompleted() { s.TimesheetCompleted = true }

func (s *Session) Reset() { *s = Session{} }

// Resolver turns a keypad entry into a Session.
type Resolver struct {
	Backend  Backend
	AdminPIN string
}

// Resolve looks up the employee behind a keypad entry together with any
// open time entry and whether its DVI and timesheet are already on file. The returned
// Session is complete or the error is non-nil; callers apply it in one step.
// The admin PIN and admin-only accounts are rejected with errors that map to
// the same user message as an unknown id.
func (r Resolver) Resolve(ctx context.Context, externalID string) (Session, error) {
	if externalID == "" {
		return Session{}, ErrNotFound
	}
	if r.AdminPIN != "" && externalID == r.AdminPIN {
		return Session{}, ErrNotAuthorizedHere
	}

	emp, err := r.Backend.FindActiveEmployeeByExternalID(ctx, externalID)
	if err != nil {
		return Session{}, err
	}
	if emp.AdminOnly() {
		return Session{}, ErrNotAuthorizedHere
	}

	te, err := r.Backend.FindOpenTimeEntry(ctx, emp.ID)
	if err != nil {
		return Session{}, err
	}

	s := Session{Employee: emp, TimeEntry: te}
	if te != nil {
		insp, err := r.Backend.FindInspectionForTimeEntry(ctx, te.ID)
		if err != nil {
			return Session{}, err
		}
		s.DVICompleted = insp != nil

		ts, err := r.Backend.FindTimesheetForTimeEntry(ctx, te.ID)
		if err != nil {
			return Session{}, err
		}
		s.TimesheetCompleted = ts != nil
	}
	return s, nil
}

// FormatClock renders a time the way the kiosk shows clock-in times.
func FormatClock(t time.Time) string {
	return t.Local().Format("03:04:05 PM")
}
