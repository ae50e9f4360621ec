package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/kiosk/internal/kiosk"
)

const employeeColumns = `id, external_id, name, pin, is_active, is_driver, is_admin, created_at`

func scanEmployee(row scanner) (*kiosk.Employee, error) {
	e := &kiosk.Employee{}
	var createdAt string
	if err := row.Scan(&e.ID, &e.ExternalID, &e.Name, &e.PIN, &e.IsActive, &e.IsDriver, &e.IsAdmin, &createdAt); err != nil {
		return nil, err
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func (s *Store) FindActiveEmployeeByExternalID(ctx context.Context, externalID string) (*kiosk.Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE external_id = ? AND is_active = 1`, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kiosk.ErrNotFound
	}
	if err != nil {
		return nil, kiosk.WrapBackend("find employee", err)
	}
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*kiosk.Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kiosk.ErrNotFound
	}
	if err != nil {
		return nil, kiosk.WrapBackend("get employee", err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]kiosk.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, external_id`)
	if err != nil {
		return nil, kiosk.WrapBackend("list employees", err)
	}
	defer rows.Close()

	var out []kiosk.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, kiosk.WrapBackend("scan employee", err)
		}
		out = append(out, *e)
	}
	return out, kiosk.WrapBackend("list employees", rows.Err())
}

// CreateEmployee validates the payload before inserting it.
func (s *Store) CreateEmployee(ctx context.Context, ne kiosk.NewEmployee) (*kiosk.Employee, error) {
	if err := kiosk.Validate(ne); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (external_id, name, pin, is_driver, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ne.ExternalID, strings.TrimSpace(ne.Name), ne.PIN, boolInt(ne.IsDriver), boolInt(ne.IsAdmin), formatTime(s.now()),
	)
	if err != nil {
		return nil, kiosk.WrapBackend("create employee", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEmployee(ctx, id)
}

// UpdateEmployee applies the non-nil fields of u.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, u kiosk.EmployeeUpdate) (*kiosk.Employee, error) {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*u.Name))
	}
	if u.PIN != nil {
		if len(*u.PIN) != 4 {
			return nil, kiosk.ValidationError{"PIN": "PIN must be 4 characters"}
		}
		sets = append(sets, "pin = ?")
		args = append(args, *u.PIN)
	}
	if u.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, boolInt(*u.IsActive))
	}
	if u.IsDriver != nil {
		sets = append(sets, "is_driver = ?")
		args = append(args, boolInt(*u.IsDriver))
	}
	if u.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, boolInt(*u.IsAdmin))
	}
	if len(sets) == 0 {
		return s.GetEmployee(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE employees SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return nil, kiosk.WrapBackend("update employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, kiosk.ErrNotFound
	}
	return s.GetEmployee(ctx, id)
}
