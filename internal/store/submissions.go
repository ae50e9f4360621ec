package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/sadopc/kiosk/internal/kiosk"
)

func (s *Store) employeeName(ctx context.Context, id int64) string {
	var name string
	if err := s.db.QueryRowContext(ctx, `SELECT name FROM employees WHERE id = ?`, id).Scan(&name); err != nil {
		return fmt.Sprintf("employee %d", id)
	}
	return name
}

func (s *Store) publish(ctx context.Context, c kiosk.Category, recordID, employeeID int64) {
	s.broker.publish(kiosk.InsertEvent{
		Category:      c,
		RecordID:      recordID,
		EmployeeLabel: s.employeeName(ctx, employeeID),
		At:            s.now(),
	})
}

// =============================================================================
// Inspections
// =============================================================================

const inspectionSelect = `SELECT d.id, d.employee_id, e.name, d.time_entry_id, d.payload, d.passed, d.inspected_at, d.date
	FROM dvi_records d JOIN employees e ON e.id = d.employee_id`

func scanInspection(row scanner) (*kiosk.Inspection, error) {
	i := &kiosk.Inspection{}
	var teID sql.NullInt64
	var payload, inspectedAt string
	if err := row.Scan(&i.ID, &i.EmployeeID, &i.EmployeeName, &teID, &payload, &i.Passed, &inspectedAt, &i.Date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &i.Payload); err != nil {
		return nil, fmt.Errorf("decode inspection %d: %w", i.ID, err)
	}
	i.TimeEntryID = nullInt64(teID)
	i.InspectedAt = parseTime(inspectedAt)
	return i, nil
}

// FindInspectionForTimeEntry returns the DVI filed against an entry, or nil.
func (s *Store) FindInspectionForTimeEntry(ctx context.Context, timeEntryID int64) (*kiosk.Inspection, error) {
	i, err := scanInspection(s.db.QueryRowContext(ctx,
		inspectionSelect+` WHERE d.time_entry_id = ? ORDER BY d.id DESC LIMIT 1`, timeEntryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, kiosk.WrapBackend("find inspection", err)
	}
	return i, nil
}

func (s *Store) SubmitInspection(ctx context.Context, employeeID, timeEntryID int64, p kiosk.InspectionPayload) (*kiosk.Inspection, error) {
	if err := kiosk.Validate(p); err != nil {
		return nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode inspection: %w", err)
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dvi_records (employee_id, time_entry_id, payload, passed, inspected_at, date) VALUES (?, ?, ?, ?, ?, ?)`,
		employeeID, timeEntryID, string(data), boolInt(p.Passed()), formatTime(now), now.Format(kiosk.DateLayout),
	)
	if err != nil {
		return nil, kiosk.WrapBackend("submit inspection", err)
	}
	id, _ := res.LastInsertId()

	i, err := scanInspection(s.db.QueryRowContext(ctx, inspectionSelect+` WHERE d.id = ?`, id))
	if err != nil {
		return nil, kiosk.WrapBackend("get inspection", err)
	}
	s.publish(ctx, kiosk.CategoryDVI, id, employeeID)
	return i, nil
}

func (s *Store) ListInspections(ctx context.Context, r kiosk.DateRange) ([]kiosk.Inspection, error) {
	rows, err := s.db.QueryContext(ctx,
		inspectionSelect+` WHERE d.date BETWEEN ? AND ? ORDER BY d.inspected_at DESC, d.id DESC`,
		r.StartDate(), r.EndDate())
	if err != nil {
		return nil, kiosk.WrapBackend("list inspections", err)
	}
	defer rows.Close()

	var out []kiosk.Inspection
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, kiosk.WrapBackend("scan inspection", err)
		}
		out = append(out, *i)
	}
	return out, kiosk.WrapBackend("list inspections", rows.Err())
}

// =============================================================================
// Timesheets
// =============================================================================

const timesheetSelect = `SELECT t.id, t.employee_id, e.name, t.time_entry_id, t.payload, t.date, t.created_at
	FROM timesheets t JOIN employees e ON e.id = t.employee_id`

func scanTimesheet(row scanner) (*kiosk.Timesheet, error) {
	t := &kiosk.Timesheet{}
	var teID sql.NullInt64
	var payload, createdAt string
	if err := row.Scan(&t.ID, &t.EmployeeID, &t.EmployeeName, &teID, &payload, &t.Date, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &t.Payload); err != nil {
		return nil, fmt.Errorf("decode timesheet %d: %w", t.ID, err)
	}
	t.TimeEntryID = nullInt64(teID)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

// FindTimesheetForTimeEntry returns the timesheet filed against an entry, or nil.
func (s *Store) FindTimesheetForTimeEntry(ctx context.Context, timeEntryID int64) (*kiosk.Timesheet, error) {
	t, err := scanTimesheet(s.db.QueryRowContext(ctx,
		timesheetSelect+` WHERE t.time_entry_id = ? ORDER BY t.id DESC LIMIT 1`, timeEntryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, kiosk.WrapBackend("find timesheet", err)
	}
	return t, nil
}

func (s *Store) SubmitTimesheet(ctx context.Context, employeeID int64, timeEntryID *int64, p kiosk.TimesheetPayload) (*kiosk.Timesheet, error) {
	if err := kiosk.Validate(p); err != nil {
		return nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode timesheet: %w", err)
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO timesheets (employee_id, time_entry_id, payload, total_hours, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		employeeID, timeEntryID, string(data), p.Totals().TotalHours.StringFixed(2), now.Format(kiosk.DateLayout), formatTime(now),
	)
	if err != nil {
		return nil, kiosk.WrapBackend("submit timesheet", err)
	}
	id, _ := res.LastInsertId()

	t, err := scanTimesheet(s.db.QueryRowContext(ctx, timesheetSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, kiosk.WrapBackend("get timesheet", err)
	}
	s.publish(ctx, kiosk.CategoryTimesheet, id, employeeID)
	return t, nil
}

func (s *Store) ListTimesheets(ctx context.Context, r kiosk.DateRange) ([]kiosk.Timesheet, error) {
	rows, err := s.db.QueryContext(ctx,
		timesheetSelect+` WHERE t.date BETWEEN ? AND ? ORDER BY t.created_at DESC, t.id DESC`,
		r.StartDate(), r.EndDate())
	if err != nil {
		return nil, kiosk.WrapBackend("list timesheets", err)
	}
	defer rows.Close()

	var out []kiosk.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, kiosk.WrapBackend("scan timesheet", err)
		}
		out = append(out, *t)
	}
	return out, kiosk.WrapBackend("list timesheets", rows.Err())
}

// =============================================================================
// HR requests
// =============================================================================

const requestSelect = `SELECT r.id, r.kind, r.employee_id, e.name, r.payload, r.status, r.date, r.created_at
	FROM hr_requests r JOIN employees e ON e.id = r.employee_id`

func scanRequest(row scanner) (*kiosk.Request, error) {
	r := &kiosk.Request{}
	var kind, status, payload, createdAt string
	if err := row.Scan(&r.ID, &kind, &r.EmployeeID, &r.EmployeeName, &payload, &status, &r.Date, &createdAt); err != nil {
		return nil, err
	}
	r.Kind = kiosk.Category(kind)
	r.Status = kiosk.RequestStatus(status)
	r.CreatedAt = parseTime(createdAt)
	f, err := kiosk.DecodeForm(r.Kind, []byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decode request %d: %w", r.ID, err)
	}
	r.Form = f
	return r, nil
}

// SubmitRequest stores an HR form as pending.
func (s *Store) SubmitRequest(ctx context.Context, employeeID int64, form kiosk.Form) (*kiosk.Request, error) {
	if form == nil {
		return nil, errors.New("submit request: nil form")
	}
	if err := kiosk.Validate(form); err != nil {
		return nil, err
	}
	data, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hr_requests (kind, employee_id, payload, status, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(form.Category()), employeeID, string(data), string(kiosk.StatusPending), now.Format(kiosk.DateLayout), formatTime(now),
	)
	if err != nil {
		return nil, kiosk.WrapBackend("submit request", err)
	}
	id, _ := res.LastInsertId()

	r, err := scanRequest(s.db.QueryRowContext(ctx, requestSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, kiosk.WrapBackend("get request", err)
	}
	s.publish(ctx, form.Category(), id, employeeID)
	return r, nil
}

func (s *Store) ListRequests(ctx context.Context, c kiosk.Category, r kiosk.DateRange) ([]kiosk.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		requestSelect+` WHERE r.kind = ? AND r.date BETWEEN ? AND ? ORDER BY r.created_at DESC, r.id DESC`,
		string(c), r.StartDate(), r.EndDate())
	if err != nil {
		return nil, kiosk.WrapBackend("list requests", err)
	}
	defer rows.Close()

	var out []kiosk.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, kiosk.WrapBackend("scan request", err)
		}
		out = append(out, *req)
	}
	return out, kiosk.WrapBackend("list requests", rows.Err())
}

// UpdateRequestStatus reports whether a request of category c with that id
// existed.
func (s *Store) UpdateRequestStatus(ctx context.Context, c kiosk.Category, id int64, status kiosk.RequestStatus) (bool, error) {
	if !slices.Contains(kiosk.RequestStatuses, status) {
		return false, kiosk.ValidationError{"Status": fmt.Sprintf("unknown status %q", status)}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE hr_requests SET status = ? WHERE id = ? AND kind = ?`, string(status), id, string(c))
	if err != nil {
		return false, kiosk.WrapBackend("update request status", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
