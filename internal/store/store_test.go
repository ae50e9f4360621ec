package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/kiosk/internal/kiosk"
)

var ctx = context.Background()

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setClock pins the store's notion of "now".
func setClock(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}

func addDriver(t *testing.T, s *Store, externalID, name string) *kiosk.Employee {
	t.Helper()
	e, err := s.CreateEmployee(ctx, kiosk.NewEmployee{ExternalID: externalID, Name: name, PIN: "1234", IsDriver: true})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return e
}

func fullDVI() kiosk.InspectionPayload {
	var checked []string
	for _, sec := range kiosk.InspectionChecklist {
		checked = append(checked, sec.Items...)
	}
	return kiosk.InspectionPayload{
		BusNumber:      "42",
		VehicleType:    kiosk.VehicleDiesel,
		InspectionType: kiosk.PreTrip,
		Checked:        checked,
		Signature:      "Dana",
	}
}

func timeOff() kiosk.TimeOffRequest {
	return kiosk.TimeOffRequest{
		EmployeeName:   "Dana",
		Date:           "2025-03-04",
		LeaveTypes:     []kiosk.LeaveType{kiosk.LeaveVacationPTO},
		RequestedDates: []string{"2025-04-01"},
		Signature:      "Dana",
	}
}

var day = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/kiosk.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	addDriver(t, s, "1001", "Dana")
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, err := s2.FindActiveEmployeeByExternalID(ctx, "1001"); err != nil {
		t.Fatalf("employee lost after reopen: %v", err)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestForeignKeysOn(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

// ============================================================
// Employees
// ============================================================

func TestFindActiveEmployee(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")

	got, err := s.FindActiveEmployeeByExternalID(ctx, "1001")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != e.ID || got.Name != "Dana" || !got.IsDriver || !got.IsActive {
		t.Fatalf("unexpected employee: %+v", got)
	}

	_, err = s.FindActiveEmployeeByExternalID(ctx, "4521")
	if !errors.Is(err, kiosk.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInactiveEmployeeNotFound(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	inactive := false
	if _, err := s.UpdateEmployee(ctx, e.ID, kiosk.EmployeeUpdate{IsActive: &inactive}); err != nil {
		t.Fatal(err)
	}
	_, err := s.FindActiveEmployeeByExternalID(ctx, "1001")
	if !errors.Is(err, kiosk.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateEmployeeValidates(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEmployee(ctx, kiosk.NewEmployee{ExternalID: "1001", Name: "", PIN: "12"})
	var ve kiosk.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	list, _ := s.ListEmployees(ctx)
	if len(list) != 0 {
		t.Fatal("invalid employee must not be stored")
	}
}

func TestCreateEmployeeDuplicateID(t *testing.T) {
	s := newTestStore(t)
	addDriver(t, s, "1001", "Dana")
	_, err := s.CreateEmployee(ctx, kiosk.NewEmployee{ExternalID: "1001", Name: "Other", PIN: "0000"})
	if !kiosk.IsBackendError(err) {
		t.Fatalf("expected backend error for duplicate id, got %v", err)
	}
}

func TestUpdateEmployee(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	name := "Dana R."
	admin := true
	got, err := s.UpdateEmployee(ctx, e.ID, kiosk.EmployeeUpdate{Name: &name, IsAdmin: &admin})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Dana R." || !got.IsAdmin || !got.IsDriver {
		t.Fatalf("unexpected update result: %+v", got)
	}

	_, err = s.UpdateEmployee(ctx, 999, kiosk.EmployeeUpdate{Name: &name})
	if !errors.Is(err, kiosk.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedDemo(t *testing.T) {
	s := newTestStore(t)
	n, err := s.SeedDemo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 created, got %d", n)
	}
	n, _ = s.SeedDemo(ctx)
	if n != 0 {
		t.Fatalf("second seed should create nothing, got %d", n)
	}
	admin, err := s.FindActiveEmployeeByExternalID(ctx, "2001")
	if err != nil {
		t.Fatal(err)
	}
	if !admin.AdminOnly() {
		t.Fatal("2001 should be admin-only")
	}
}

// ============================================================
// Time entries
// ============================================================

func TestClockInAndOut(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	setClock(s, day)

	te, err := s.CreateTimeEntry(ctx, e.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !te.Open() || !te.LunchWaiver || te.Date != "2025-03-04" || !te.ClockIn.Equal(day) {
		t.Fatalf("unexpected entry: %+v", te)
	}

	open, err := s.FindOpenTimeEntry(ctx, e.ID)
	if err != nil || open == nil || open.ID != te.ID {
		t.Fatalf("expected open entry %d, got %+v (%v)", te.ID, open, err)
	}

	closed, err := s.CloseTimeEntry(ctx, te.ID, day.Add(8*time.Hour+20*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if closed.Open() {
		t.Fatal("entry should be closed")
	}
	if !closed.TotalHours.Valid || !closed.TotalHours.Decimal.Equal(decimal.RequireFromString("8.33")) {
		t.Fatalf("expected 8.33 hours, got %v", closed.TotalHours)
	}

	open, err = s.FindOpenTimeEntry(ctx, e.ID)
	if err != nil || open != nil {
		t.Fatalf("expected no open entry, got %+v (%v)", open, err)
	}
}

func TestSecondOpenEntryRejected(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	if _, err := s.CreateTimeEntry(ctx, e.ID, false); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateTimeEntry(ctx, e.ID, false)
	if !kiosk.IsBackendError(err) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestCloseTwiceFails(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	te, _ := s.CreateTimeEntry(ctx, e.ID, false)
	if _, err := s.CloseTimeEntry(ctx, te.ID, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CloseTimeEntry(ctx, te.ID, time.Now()); err == nil {
		t.Fatal("expected error closing a closed entry")
	}
}

func TestListActiveClockIns(t *testing.T) {
	s := newTestStore(t)
	a := addDriver(t, s, "1001", "Dana")
	b := addDriver(t, s, "1002", "Lee")
	setClock(s, day)
	s.CreateTimeEntry(ctx, a.ID, false)
	te, _ := s.CreateTimeEntry(ctx, b.ID, false)
	s.CloseTimeEntry(ctx, te.ID, day.Add(time.Hour))

	setClock(s, day.Add(90*time.Minute))
	rows, err := s.ListActiveClockIns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 active clock-in, got %d", len(rows))
	}
	if rows[0].EmployeeID != "1001" || !rows[0].DurationHours.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

// ============================================================
// Submissions
// ============================================================

func TestInspectionForTimeEntry(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	te, _ := s.CreateTimeEntry(ctx, e.ID, false)

	got, err := s.FindInspectionForTimeEntry(ctx, te.ID)
	if err != nil || got != nil {
		t.Fatalf("expected no inspection, got %+v (%v)", got, err)
	}

	ins, err := s.SubmitInspection(ctx, e.ID, te.ID, fullDVI())
	if err != nil {
		t.Fatal(err)
	}
	if !ins.Passed || ins.EmployeeName != "Dana" || ins.TimeEntryID == nil || *ins.TimeEntryID != te.ID {
		t.Fatalf("unexpected inspection: %+v", ins)
	}

	got, err = s.FindInspectionForTimeEntry(ctx, te.ID)
	if err != nil || got == nil || got.ID != ins.ID {
		t.Fatalf("expected inspection %d, got %+v (%v)", ins.ID, got, err)
	}
}

func TestSubmitInspectionValidates(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	te, _ := s.CreateTimeEntry(ctx, e.ID, false)
	p := fullDVI()
	p.BusNumber = ""
	_, err := s.SubmitInspection(ctx, e.ID, te.ID, p)
	var ve kiosk.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTimesheetForTimeEntry(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	te, _ := s.CreateTimeEntry(ctx, e.ID, false)
	p := kiosk.TimesheetPayload{
		Operator:  "Dana",
		BusNumber: "42",
		Lines:     []kiosk.TimesheetLine{{WorkOrder: "WO-1", StraightTime: decimal.NewFromInt(8)}},
	}

	// Timesheets filed outside a shift are not tied to any entry.
	if _, err := s.SubmitTimesheet(ctx, e.ID, nil, p); err != nil {
		t.Fatal(err)
	}
	got, err := s.FindTimesheetForTimeEntry(ctx, te.ID)
	if err != nil || got != nil {
		t.Fatalf("expected no timesheet, got %+v (%v)", got, err)
	}

	ts, err := s.SubmitTimesheet(ctx, e.ID, &te.ID, p)
	if err != nil {
		t.Fatal(err)
	}
	got, err = s.FindTimesheetForTimeEntry(ctx, te.ID)
	if err != nil || got == nil || got.ID != ts.ID {
		t.Fatalf("expected timesheet %d, got %+v (%v)", ts.ID, got, err)
	}
	if got.TimeEntryID == nil || *got.TimeEntryID != te.ID {
		t.Fatalf("unexpected time entry: %v", got.TimeEntryID)
	}
}

func TestTimesheetDateRange(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	p := kiosk.TimesheetPayload{
		Operator:  "Dana",
		BusNumber: "42",
		Lines: []kiosk.TimesheetLine{
			{WorkOrder: "WO-1", StraightTime: decimal.NewFromInt(8)},
		},
	}
	setClock(s, day)
	if _, err := s.SubmitTimesheet(ctx, e.ID, nil, p); err != nil {
		t.Fatal(err)
	}
	setClock(s, day.AddDate(0, 0, -30))
	if _, err := s.SubmitTimesheet(ctx, e.ID, nil, p); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListTimesheets(ctx, kiosk.DefaultDateRange(day))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 timesheet in range, got %d", len(list))
	}
	if !list[0].Payload.Totals().TotalHours.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unexpected totals: %+v", list[0].Payload.Totals())
	}
}

func TestRequestsAndStatus(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")
	setClock(s, day)

	req, err := s.SubmitRequest(ctx, e.ID, timeOff())
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != kiosk.CategoryTimeOff || req.Status != kiosk.StatusPending {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, ok := req.Form.(kiosk.TimeOffRequest); !ok {
		t.Fatalf("expected TimeOffRequest form, got %T", req.Form)
	}

	ok, err := s.UpdateRequestStatus(ctx, kiosk.CategoryTimeOff, req.ID, kiosk.StatusApproved)
	if err != nil || !ok {
		t.Fatalf("update status: %v %v", ok, err)
	}
	ok, _ = s.UpdateRequestStatus(ctx, kiosk.CategoryOvertime, req.ID, kiosk.StatusApproved)
	if ok {
		t.Fatal("status update must be scoped to the category")
	}
	if _, err := s.UpdateRequestStatus(ctx, kiosk.CategoryTimeOff, req.ID, "lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}

	list, _ := s.ListRequests(ctx, kiosk.CategoryTimeOff, kiosk.DefaultDateRange(day))
	if len(list) != 1 || list[0].Status != kiosk.StatusApproved {
		t.Fatalf("unexpected list: %+v", list)
	}
	other, _ := s.ListRequests(ctx, kiosk.CategoryFMLA, kiosk.DefaultDateRange(day))
	if len(other) != 0 {
		t.Fatal("FMLA list should be empty")
	}
}

// ============================================================
// Safety schedules
// ============================================================

func TestSafetyScheduleLifecycle(t *testing.T) {
	s := newTestStore(t)
	sc := kiosk.DefaultSchedule(day)
	sc.Meetings = []kiosk.Meeting{{ID: "m1", Date: "2025-03-05", Time: "09:00", Category: kiosk.MeetingDriver}}

	created, err := s.CreateSafetySchedule(ctx, sc)
	if err != nil {
		t.Fatal(err)
	}
	if created.ShareToken == "" || len(created.Meetings) != 1 {
		t.Fatalf("unexpected schedule: %+v", created)
	}

	created.Title = "April"
	created.Meetings = nil
	updated, err := s.UpdateSafetySchedule(ctx, *created)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "April" || len(updated.Meetings) != 0 || updated.ShareToken != created.ShareToken {
		t.Fatalf("unexpected update: %+v", updated)
	}

	byToken, err := s.SafetyScheduleByShareToken(ctx, created.ShareToken)
	if err != nil || byToken.ID != created.ID {
		t.Fatalf("lookup by token: %+v (%v)", byToken, err)
	}
}

func TestDeleteScheduleRevokesToken(t *testing.T) {
	s := newTestStore(t)
	keep, _ := s.CreateSafetySchedule(ctx, kiosk.DefaultSchedule(day))
	gone, _ := s.CreateSafetySchedule(ctx, kiosk.DefaultSchedule(day))

	if err := s.DeleteSafetySchedule(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	list, err := s.ListSafetySchedules(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, sc := range list {
		if sc.ID == gone.ID {
			t.Fatal("deleted schedule still listed")
		}
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	_, err = s.SafetyScheduleByShareToken(ctx, gone.ShareToken)
	if !errors.Is(err, kiosk.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted token, got %v", err)
	}
	if err := s.DeleteSafetySchedule(ctx, gone.ID); !errors.Is(err, kiosk.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

// ============================================================
// Insert subscriptions
// ============================================================

func TestSubscribeReceivesInsertsOfItsCategory(t *testing.T) {
	s := newTestStore(t)
	e := addDriver(t, s, "1001", "Dana")

	sub, err := s.SubscribeToInserts(ctx, kiosk.CategoryTimeOff)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	req, err := s.SubmitRequest(ctx, e.ID, timeOff())
	if err != nil {
		t.Fatal(err)
	}
	te, _ := s.CreateTimeEntry(ctx, e.ID, false)
	s.SubmitInspection(ctx, e.ID, te.ID, fullDVI())

	select {
	case ev := <-sub.Events():
		if ev.Category != kiosk.CategoryTimeOff || ev.RecordID != req.ID || ev.EmployeeLabel != "Dana" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected second event: %+v", ev)
	default:
	}
}

func TestUnsubscribeIsIdempotentAndCloses(t *testing.T) {
	s := newTestStore(t)
	sub, err := s.SubscribeToInserts(ctx, kiosk.CategoryDVI)
	if err != nil {
		t.Fatal(err)
	}
	if s.broker.count(kiosk.CategoryDVI) != 1 {
		t.Fatal("expected one subscriber")
	}
	sub.Unsubscribe()
	sub.Unsubscribe()
	if _, ok := <-sub.Events(); ok {
		t.Fatal("events channel should be closed")
	}
	if s.broker.count(kiosk.CategoryDVI) != 0 {
		t.Fatal("subscriber not released")
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	s := newTestStore(t)
	cctx, cancel := context.WithCancel(ctx)
	sub, err := s.SubscribeToInserts(cctx, kiosk.CategoryFMLA)
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("unexpected event")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
}
