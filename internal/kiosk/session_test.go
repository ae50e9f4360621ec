package kiosk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers the four lookups Resolve makes. Any other call panics
// through the nil embedded interface.
type fakeBackend struct {
	Backend
	employees   map[string]*Employee
	open        map[int64]*TimeEntry
	inspections map[int64]*Inspection
	timesheets  map[int64]*Timesheet
	err         error
}

func (f *fakeBackend) FindActiveEmployeeByExternalID(_ context.Context, id string) (*Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.employees[id]
	if !ok || !e.IsActive {
		return nil, ErrNotFound
	}
	return e, nil
}

func (f *fakeBackend) FindOpenTimeEntry(_ context.Context, employeeID int64) (*TimeEntry, error) {
	return f.open[employeeID], nil
}

func (f *fakeBackend) FindInspectionForTimeEntry(_ context.Context, id int64) (*Inspection, error) {
	return f.inspections[id], nil
}

func (f *fakeBackend) FindTimesheetForTimeEntry(_ context.Context, id int64) (*Timesheet, error) {
	return f.timesheets[id], nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		employees: map[string]*Employee{
			"1001": {ID: 1, ExternalID: "1001", Name: "Dana Driver", IsActive: true, IsDriver: true},
			"2001": {ID: 2, ExternalID: "2001", Name: "Alex Admin", IsActive: true, IsAdmin: true},
			"3001": {ID: 3, ExternalID: "3001", Name: "Gone", IsActive: false, IsDriver: true},
		},
		open:        map[int64]*TimeEntry{},
		inspections: map[int64]*Inspection{},
		timesheets:  map[int64]*Timesheet{},
	}
}

// =============================================================================
// Resolve
// =============================================================================

func TestResolveDriverNotClockedIn(t *testing.T) {
	r := Resolver{Backend: newFakeBackend(), AdminPIN: "9999"}
	s, err := r.Resolve(context.Background(), "1001")
	require.NoError(t, err)
	require.True(t, s.Active())
	assert.False(t, s.ClockedIn())
	assert.Equal(t, "Dana Driver", s.Employee.Name)
	assert.Equal(t, []Action{ActionClockIn}, AvailableActions(s))
}

func TestResolveRestoresOpenShiftAndDVI(t *testing.T) {
	fb := newFakeBackend()
	clockIn := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	fb.open[1] = &TimeEntry{ID: 50, EmployeeID: 1, ClockIn: clockIn}
	fb.inspections[50] = &Inspection{ID: 7}

	s, err := Resolver{Backend: fb, AdminPIN: "9999"}.Resolve(context.Background(), "1001")
	require.NoError(t, err)
	assert.True(t, s.ClockedIn())
	assert.True(t, s.DVICompleted)
	assert.False(t, s.TimesheetCompleted)
	assert.Contains(t, AvailableActions(s), ActionClockOut)
	assert.NotContains(t, AvailableActions(s), ActionClockIn)
}

func TestResolveRestoresTimesheetOfOpenShift(t *testing.T) {
	fb := newFakeBackend()
	fb.open[1] = &TimeEntry{ID: 50, EmployeeID: 1, ClockIn: time.Now()}
	fb.timesheets[50] = &Timesheet{ID: 9}
	// A timesheet from an earlier shift does not count.
	fb.timesheets[49] = &Timesheet{ID: 8}

	s, err := Resolver{Backend: fb}.Resolve(context.Background(), "1001")
	require.NoError(t, err)
	assert.True(t, s.TimesheetCompleted)
	assert.False(t, s.DVICompleted)

	delete(fb.timesheets, 50)
	s, err = Resolver{Backend: fb}.Resolve(context.Background(), "1001")
	require.NoError(t, err)
	assert.False(t, s.TimesheetCompleted)
}

func TestResolveAdminPINLooksLikeUnknownID(t *testing.T) {
	r := Resolver{Backend: newFakeBackend(), AdminPIN: "9999"}

	_, adminErr := r.Resolve(context.Background(), "9999")
	_, unknownErr := r.Resolve(context.Background(), "4242")
	_, adminOnlyErr := r.Resolve(context.Background(), "2001")
	_, inactiveErr := r.Resolve(context.Background(), "3001")

	assert.ErrorIs(t, adminErr, ErrNotAuthorizedHere)
	assert.ErrorIs(t, unknownErr, ErrNotFound)
	assert.ErrorIs(t, adminOnlyErr, ErrNotAuthorizedHere)
	assert.ErrorIs(t, inactiveErr, ErrNotFound)

	for _, err := range []error{adminErr, unknownErr, adminOnlyErr, inactiveErr} {
		assert.Equal(t, MsgEmployeeNotFound, UserMessage(err))
	}
}

func TestResolveEmptyID(t *testing.T) {
	_, err := Resolver{Backend: newFakeBackend()}.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveBackendFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.err = WrapBackend("find employee", errors.New("connection refused"))

	_, err := Resolver{Backend: fb}.Resolve(context.Background(), "1001")
	require.Error(t, err)
	assert.True(t, IsBackendError(err))
	assert.Equal(t, MsgLookupFailed, UserMessage(err))
}

// =============================================================================
// Session flags
// =============================================================================

func TestExpectedClockOut(t *testing.T) {
	in := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 17, 30, 0, 0, time.UTC), ExpectedClockOut(in, false))
	assert.Equal(t, time.Date(2025, 3, 4, 17, 0, 0, 0, time.UTC), ExpectedClockOut(in, true))
}

func TestSessionFlagsPersistUntilReset(t *testing.T) {
	s := Session{Employee: &Employee{ID: 1}}
	s.StartShift(&TimeEntry{ID: 9, ClockIn: time.Now(), LunchWaiver: true})
	s.MarkDVICompleted()
	s.MarkTimesheetCompleted()

	f := s.Flags()
	assert.True(t, f.ClockedIn)
	assert.True(t, f.DVICompleted)
	assert.True(t, f.TimesheetCompleted)
	assert.True(t, f.LunchWaiver)

	s.Reset()
	assert.False(t, s.Active())
	assert.Equal(t, Flags{}, s.Flags())
}

func TestStartShiftNeedsEmployee(t *testing.T) {
	var s Session
	s.StartShift(&TimeEntry{ID: 1})
	assert.False(t, s.ClockedIn())
}

// =============================================================================
// Keypad
// =============================================================================

func TestKeypadLimit(t *testing.T) {
	var k Keypad
	for i := 0; i < MaxKeypadDigits; i++ {
		require.True(t, k.Press('1'))
	}
	assert.False(t, k.Press('2'))
	assert.Equal(t, "1111111111", k.String())
	assert.Equal(t, MaxKeypadDigits, k.Len())
}

func TestKeypadIgnoresNonDigits(t *testing.T) {
	var k Keypad
	assert.False(t, k.Press('a'))
	k.Press('4')
	k.Press('2')
	k.Backspace()
	assert.Equal(t, "4", k.String())
	assert.Equal(t, "•", k.Masked())
	k.Clear()
	assert.Equal(t, 0, k.Len())
	k.Backspace()
	assert.Equal(t, "", k.String())
}
