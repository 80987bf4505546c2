package service

import (
	"context"
	"fmt"

	"feuilletemps/internal/model"
	"feuilletemps/internal/state"
)

// applyOptimistic is the write protocol every timesheet mutation follows:
// snapshot the record, apply the mutation to session state immediately, issue
// the remote write, and on failure restore the snapshot so the caller can
// surface the error and retry manually. Success keeps the optimistic value;
// there is no re-fetch and no conflict detection; concurrent sessions are
// last-write-wins, matching the remote store.
func (s *TimesheetService) applyOptimistic(
	ctx context.Context,
	sess *state.Session,
	id string,
	mutate func(*model.TimesheetData) error,
	patch func(model.TimesheetData) map[string]any,
) (model.TimesheetData, error) {
	original, ok := sess.Timesheet(id)
	if !ok {
		return model.TimesheetData{}, ErrTimesheetNotFound
	}

	updated := original.Clone()
	if err := mutate(&updated); err != nil {
		return model.TimesheetData{}, err
	}
	updated.UpdatedAt = s.now()

	sess.ReplaceTimesheet(updated)

	if err := s.sheets.Update(ctx, sess.Token(), id, patch(updated)); err != nil {
		sess.ReplaceTimesheet(original)
		return model.TimesheetData{}, fmt.Errorf("commit timesheet update: %w", err)
	}
	return updated, nil
}

// fullPatch mirrors the columns the original client writes on a content
// edit. Status columns ride along so a reopened record's edits cannot desync
// them.
func fullPatch(ts model.TimesheetData) map[string]any {
	return map[string]any{
		"tasks":         ts.Tasks,
		"period_number": ts.PeriodNumber,
		"start_date":    ts.StartDate,
		"end_date":      ts.EndDate,
		"status":        ts.Status,
		"todo_list":     ts.TodoList,
		"todo_status":   ts.TodoStatus,
		"updated_at":    ts.UpdatedAt,
	}
}

// statusPatch writes only the hour-grid lifecycle column.
func statusPatch(ts model.TimesheetData) map[string]any {
	return map[string]any{"status": ts.Status, "updated_at": ts.UpdatedAt}
}

// todoStatusPatch writes only the objectives lifecycle column. Kept strictly
// separate from statusPatch so one lifecycle can never drag the other along.
func todoStatusPatch(ts model.TimesheetData) map[string]any {
	return map[string]any{"todo_status": ts.TodoStatus, "updated_at": ts.UpdatedAt}
}
