package store

import (
	"context"
	"errors"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// DemoEmployees are created by SeedDemo: one driver and one admin-only
// account.
var DemoEmployees = []kiosk.NewEmployee{
	{ExternalID: "1001", Name: "Demo Driver", PIN: "1234", IsDriver: true},
	{ExternalID: "2001", Name: "Demo Admin", PIN: "4321", IsAdmin: true},
}

// SeedDemo inserts the demo employees that are not there yet and returns
// how many were created.
func (s *Store) SeedDemo(ctx context.Context) (int, error) {
	created := 0
	for _, ne := range DemoEmployees {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM employees WHERE external_id = ?`, ne.ExternalID).Scan(&n); err != nil {
			return created, kiosk.WrapBackend("seed", err)
		}
		if n > 0 {
			continue
		}
		if _, err := s.CreateEmployee(ctx, ne); err != nil {
			return created, errors.Join(errors.New("seed "+ne.ExternalID), err)
		}
		created++
	}
	return created, nil
}
