package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// --- Messages ---

type tickMsg time.Time

// lookupResultMsg answers one driver keypad submission. seq is the attempt
// it belongs to; results of abandoned attempts are dropped.
type lookupResultMsg struct {
	seq     uint64
	session kiosk.Session
	err     error
}

type clockedInMsg struct {
	employeeID int64
	entry      *kiosk.TimeEntry
	err        error
}

type clockedOutMsg struct {
	entryID int64
	err     error
}

// formCompletedMsg carries the payload built from a finished driver form:
// kiosk.InspectionPayload, kiosk.TimesheetPayload or a kiosk.Form.
type formCompletedMsg struct {
	payload any
	err     error
}

type submittedMsg struct {
	category    kiosk.Category
	employeeID  int64
	timeEntryID int64
	err         error
}

type schedulesMsg struct {
	schedules []kiosk.SafetySchedule
	err       error
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
	err  error
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
