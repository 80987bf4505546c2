package store

import (
	"context"
	"fmt"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/model"
)

type TimesheetStore struct {
	gw *gateway.Client
}

func NewTimesheetStore(gw *gateway.Client) *TimesheetStore {
	return &TimesheetStore{gw: gw}
}

// ListAll returns every timesheet the caller may see.
func (s *TimesheetStore) ListAll(ctx context.Context, token string) ([]model.TimesheetData, error) {
	var rows []model.TimesheetData
	if err := s.gw.Select(ctx, token, tableTimesheets, "*", nil, &rows); err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	return rows, nil
}

// ListByEmployee returns one employee's timesheets.
func (s *TimesheetStore) ListByEmployee(ctx context.Context, token, employeeID string) ([]model.TimesheetData, error) {
	var rows []model.TimesheetData
	err := s.gw.Select(ctx, token, tableTimesheets, "*",
		gateway.Filters{"employee_id": gateway.Eq(employeeID)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list timesheets for employee: %w", err)
	}
	return rows, nil
}

// Create inserts a blank week and returns the stored row with its generated
// id and timestamps.
func (s *TimesheetStore) Create(ctx context.Context, token string, ts model.TimesheetData) (*model.TimesheetData, error) {
	var rows []model.TimesheetData
	if err := s.gw.Insert(ctx, token, tableTimesheets, []model.TimesheetData{ts}, &rows); err != nil {
		return nil, fmt.Errorf("create timesheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create timesheet: empty representation returned")
	}
	return &rows[0], nil
}

// Update patches the given columns on one timesheet row.
func (s *TimesheetStore) Update(ctx context.Context, token, id string, patch map[string]any) error {
	if err := s.gw.Update(ctx, token, tableTimesheets, id, patch); err != nil {
		return fmt.Errorf("update timesheet: %w", err)
	}
	return nil
}

// Delete removes a timesheet row.
func (s *TimesheetStore) Delete(ctx context.Context, token, id string) error {
	if err := s.gw.Delete(ctx, token, tableTimesheets, id); err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}
	return nil
}
