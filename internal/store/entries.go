package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/kiosk/internal/kiosk"
)

const entryColumns = `id, employee_id, clock_in, clock_out, date, lunch_waiver, total_hours, created_at`

func scanEntry(row scanner) (*kiosk.TimeEntry, error) {
	e := &kiosk.TimeEntry{}
	var clockIn, createdAt string
	var clockOut, totalHours sql.NullString
	if err := row.Scan(&e.ID, &e.EmployeeID, &clockIn, &clockOut, &e.Date, &e.LunchWaiver, &totalHours, &createdAt); err != nil {
		return nil, err
	}
	e.ClockIn = parseTime(clockIn)
	e.ClockOut = parseNullTime(clockOut)
	e.CreatedAt = parseTime(createdAt)
	if totalHours.Valid {
		d, err := decimal.NewFromString(totalHours.String)
		if err != nil {
			return nil, fmt.Errorf("total_hours %q: %w", totalHours.String, err)
		}
		e.TotalHours = decimal.NewNullDecimal(d)
	}
	return e, nil
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*kiosk.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kiosk.ErrNotFound
	}
	if err != nil {
		return nil, kiosk.WrapBackend("get entry", err)
	}
	return e, nil
}

// FindOpenTimeEntry returns the employee's entry without a clock-out, or nil.
func (s *Store) FindOpenTimeEntry(ctx context.Context, employeeID int64) (*kiosk.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE employee_id = ? AND clock_out IS NULL ORDER BY id DESC LIMIT 1`, employeeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, kiosk.WrapBackend("find open entry", err)
	}
	return e, nil
}

// CreateTimeEntry clocks the employee in. The partial unique index on open
// entries rejects a second open entry for the same employee.
func (s *Store) CreateTimeEntry(ctx context.Context, employeeID int64, lunchWaiver bool) (*kiosk.TimeEntry, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (employee_id, clock_in, date, lunch_waiver, created_at) VALUES (?, ?, ?, ?, ?)`,
		employeeID, formatTime(now), now.Format(kiosk.DateLayout), boolInt(lunchWaiver), formatTime(now),
	)
	if err != nil {
		return nil, kiosk.WrapBackend("create entry", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(ctx, id)
}

// CloseTimeEntry sets the clock-out and stores the elapsed hours rounded to
// two places.
func (s *Store) CloseTimeEntry(ctx context.Context, id int64, closedAt time.Time) (*kiosk.TimeEntry, error) {
	e, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Open() {
		return nil, kiosk.WrapBackend("close entry", fmt.Errorf("entry %d already closed", id))
	}
	hours := kiosk.HoursBetween(e.ClockIn, closedAt)
	if hours.IsNegative() {
		hours = decimal.Zero
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE time_entries SET clock_out = ?, total_hours = ? WHERE id = ?`,
		formatTime(closedAt), hours.StringFixed(2), id,
	)
	if err != nil {
		return nil, kiosk.WrapBackend("close entry", err)
	}
	return s.GetEntry(ctx, id)
}

// ListActiveClockIns lists every open entry with its elapsed hours so far.
func (s *Store) ListActiveClockIns(ctx context.Context) ([]kiosk.ActiveClockIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT te.id, e.external_id, e.name, te.clock_in
		 FROM time_entries te JOIN employees e ON e.id = te.employee_id
		 WHERE te.clock_out IS NULL
		 ORDER BY te.clock_in`)
	if err != nil {
		return nil, kiosk.WrapBackend("list active clock-ins", err)
	}
	defer rows.Close()

	now := s.now()
	var out []kiosk.ActiveClockIn
	for rows.Next() {
		var a kiosk.ActiveClockIn
		var clockIn string
		if err := rows.Scan(&a.TimeEntryID, &a.EmployeeID, &a.Name, &clockIn); err != nil {
			return nil, kiosk.WrapBackend("scan clock-in", err)
		}
		a.ClockIn = parseTime(clockIn)
		a.DurationHours = kiosk.HoursBetween(a.ClockIn, now)
		out = append(out, a)
	}
	return out, kiosk.WrapBackend("list active clock-ins", rows.Err())
}
