package kiosk

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one row of an admin list.
type Record interface {
	RecordID() int64
	Cells() []string
}

func (a ActiveClockIn) RecordID() int64 { return a.TimeEntryID }
func (a ActiveClockIn) Cells() []string {
	return []string{a.EmployeeID, a.Name, FormatClock(a.ClockIn), a.DurationHours.StringFixed(2)}
}

func (e Employee) RecordID() int64 { return e.ID }
func (e Employee) Cells() []string {
	var roles []string
	if e.IsDriver {
		roles = append(roles, "driver")
	}
	if e.IsAdmin {
		roles = append(roles, "admin")
	}
	return []string{e.ExternalID, e.Name, strings.Join(roles, ","), yesNo(e.IsActive)}
}

func (t Timesheet) RecordID() int64 { return t.ID }
func (t Timesheet) Cells() []string {
	tot := t.Payload.Totals()
	return []string{
		t.Date, t.EmployeeName, t.Payload.BusNumber,
		tot.StraightTime.StringFixed(2), tot.OverTime.StringFixed(2), tot.TotalHours.StringFixed(2),
	}
}

func (i Inspection) RecordID() int64 { return i.ID }
func (i Inspection) Cells() []string {
	result := "FAIL"
	if i.Passed {
		result = "PASS"
	}
	return []string{
		i.Date, i.EmployeeName, i.Payload.BusNumber, string(i.Payload.InspectionType), result,
	}
}

func (r Request) RecordID() int64 { return r.ID }
func (r Request) Cells() []string {
	return []string{r.Date, r.EmployeeName, RequestSummary(r.Form), string(r.Status)}
}

func (s SafetySchedule) RecordID() int64 { return s.ID }
func (s SafetySchedule) Cells() []string {
	return []string{s.Title, fmt.Sprintf("%s %d", s.Month, s.Year), strconv.Itoa(len(s.Meetings))}
}

// RequestSummary is a one-line description of an HR form for list views.
func RequestSummary(f Form) string {
	switch f := f.(type) {
	case IncidentReport:
		return fmt.Sprintf("%s %s at %s", f.IncidentDate, f.IncidentTime, f.IncidentLocation)
	case TimeOffRequest:
		types := make([]string, len(f.LeaveTypes))
		for i, t := range f.LeaveTypes {
			types[i] = string(t)
		}
		return fmt.Sprintf("%s: %s", strings.Join(types, "/"), strings.Join(f.RequestedDates, ", "))
	case OvertimeRequest:
		return fmt.Sprintf("%d shift(s), %s h", len(f.Shifts), OvertimeTotal(f).StringFixed(2))
	case FmlaConversion:
		dates := make([]string, len(f.Dates))
		for i, d := range f.Dates {
			dates[i] = d.Date
		}
		return "FMLA " + strings.Join(dates, ", ")
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var tabColumns = map[Tab][]string{
	TabDashboard:  {"Employee ID", "Name", "Clocked In", "Hours"},
	TabEmployees:  {"Employee ID", "Name", "Roles", "Active"},
	TabTimesheets: {"Date", "Employee", "Bus", "Straight", "Overtime", "Total"},
	TabDVI:        {"Date", "Employee", "Bus", "Type", "Result"},
	TabIncidents:  {"Date", "Employee", "Incident", "Status"},
	TabTimeOff:    {"Date", "Employee", "Request", "Status"},
	TabOvertime:   {"Date", "Employee", "Request", "Status"},
	TabFMLA:       {"Date", "Employee", "Request", "Status"},
	TabSafety:     {"Title", "Period", "Meetings"},
}

// Columns returns the header row for a tab's records.
func (t Tab) Columns() []string { return tabColumns[t] }
