package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/kiosk/internal/kiosk"
)

const scheduleColumns = `id, title, month, year, instruction, meetings, share_token, created_at, updated_at`

func scanSchedule(row scanner) (*kiosk.SafetySchedule, error) {
	sc := &kiosk.SafetySchedule{}
	var meetings, createdAt, updatedAt string
	if err := row.Scan(&sc.ID, &sc.Title, &sc.Month, &sc.Year, &sc.Instruction, &meetings, &sc.ShareToken, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meetings), &sc.Meetings); err != nil {
		return nil, fmt.Errorf("decode meetings of schedule %d: %w", sc.ID, err)
	}
	sc.CreatedAt = parseTime(createdAt)
	sc.UpdatedAt = parseTime(updatedAt)
	return sc, nil
}

func encodeMeetings(ms []kiosk.Meeting) (string, error) {
	if ms == nil {
		ms = []kiosk.Meeting{}
	}
	data, err := json.Marshal(ms)
	return string(data), err
}

func (s *Store) GetSafetySchedule(ctx context.Context, id int64) (*kiosk.SafetySchedule, error) {
	sc, err := scanSchedule(s.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM safety_schedules WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kiosk.ErrNotFound
	}
	if err != nil {
		return nil, kiosk.WrapBackend("get schedule", err)
	}
	return sc, nil
}

// SafetyScheduleByShareToken backs the public read-only view.
func (s *Store) SafetyScheduleByShareToken(ctx context.Context, token string) (*kiosk.SafetySchedule, error) {
	if token == "" {
		return nil, kiosk.ErrNotFound
	}
	sc, err := scanSchedule(s.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM safety_schedules WHERE share_token = ?`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kiosk.ErrNotFound
	}
	if err != nil {
		return nil, kiosk.WrapBackend("get schedule by token", err)
	}
	return sc, nil
}

func (s *Store) ListSafetySchedules(ctx context.Context) ([]kiosk.SafetySchedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM safety_schedules ORDER BY year DESC, created_at DESC, id DESC`)
	if err != nil {
		return nil, kiosk.WrapBackend("list schedules", err)
	}
	defer rows.Close()

	var out []kiosk.SafetySchedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, kiosk.WrapBackend("scan schedule", err)
		}
		out = append(out, *sc)
	}
	return out, kiosk.WrapBackend("list schedules", rows.Err())
}

// CreateSafetySchedule stores a schedule under a fresh share token. Any
// token or id on the argument is ignored.
func (s *Store) CreateSafetySchedule(ctx context.Context, sc kiosk.SafetySchedule) (*kiosk.SafetySchedule, error) {
	meetings, err := encodeMeetings(sc.Meetings)
	if err != nil {
		return nil, fmt.Errorf("encode meetings: %w", err)
	}
	now := formatTime(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO safety_schedules (title, month, year, instruction, meetings, share_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.Title, sc.Month, sc.Year, sc.Instruction, meetings, uuid.NewString(), now, now,
	)
	if err != nil {
		return nil, kiosk.WrapBackend("create schedule", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSafetySchedule(ctx, id)
}

// UpdateSafetySchedule rewrites the header and meetings. The share token is
// kept.
func (s *Store) UpdateSafetySchedule(ctx context.Context, sc kiosk.SafetySchedule) (*kiosk.SafetySchedule, error) {
	meetings, err := encodeMeetings(sc.Meetings)
	if err != nil {
		return nil, fmt.Errorf("encode meetings: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE safety_schedules SET title = ?, month = ?, year = ?, instruction = ?, meetings = ?, updated_at = ?
		 WHERE id = ?`,
		sc.Title, sc.Month, sc.Year, sc.Instruction, meetings, formatTime(s.now()), sc.ID,
	)
	if err != nil {
		return nil, kiosk.WrapBackend("update schedule", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, kiosk.ErrNotFound
	}
	return s.GetSafetySchedule(ctx, sc.ID)
}

func (s *Store) DeleteSafetySchedule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM safety_schedules WHERE id = ?`, id)
	if err != nil {
		return kiosk.WrapBackend("delete schedule", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return kiosk.ErrNotFound
	}
	return nil
}
