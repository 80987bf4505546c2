package service

import (
	"time"

	"feuilletemps/internal/model"
	"feuilletemps/internal/report"
	"feuilletemps/internal/state"
)

// AnalysisService derives the report views from session state. All data was
// already fetched at bootstrap; analysis is pure computation.
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

// Employee computes the single-employee summary for one timesheet over the
// given day selection.
func (s *AnalysisService) Employee(sess *state.Session, timesheetID string, selectedDays []int) (report.Analysis, error) {
	ts, ok := sess.Timesheet(timesheetID)
	if !ok {
		return report.Analysis{}, ErrTimesheetNotFound
	}
	if selectedDays == nil {
		selectedDays = report.AllDays()
	}
	return report.Calculate(ts.Tasks, ts.NormalHours, selectedDays), nil
}

// Grid computes the footer rows of one timesheet's full table.
func (s *AnalysisService) Grid(sess *state.Session, timesheetID string) (report.Grid, error) {
	ts, ok := sess.Timesheet(timesheetID)
	if !ok {
		return report.Grid{}, ErrTimesheetNotFound
	}
	chargeable, nonChargeable := ts.TasksByCategory()
	return report.ComputeGrid(chargeable, nonChargeable, ts.NormalHours), nil
}

// CrossEmployee computes the admin comparison for the week of the given
// timesheet: one row per non-admin employee, zero-filled when they have no
// sheet for that exact week.
func (s *AnalysisService) CrossEmployee(sess *state.Session, timesheetID string) ([]report.EmployeeAnalysis, error) {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	ts, ok := sess.Timesheet(timesheetID)
	if !ok {
		return nil, ErrTimesheetNotFound
	}
	return report.CrossEmployee(sess.Employees(), sess.Timesheets(), ts.StartDate, ts.EndDate), nil
}

// Detailed runs the admin date-range report over everything in session
// state.
func (s *AnalysisService) Detailed(sess *state.Session, start, end time.Time, employeeIDs, taskNames []string, groupBy report.GroupBy) (report.DetailedReport, error) {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return report.DetailedReport{}, ErrForbidden
	}
	if end.Before(start) {
		return report.DetailedReport{}, ErrEmptyField
	}
	return report.Detailed(sess.Timesheets(), sess.Employees(), report.DetailedFilter{
		Start:       start,
		End:         end,
		EmployeeIDs: employeeIDs,
		TaskNames:   taskNames,
		GroupBy:     groupBy,
	}), nil
}
