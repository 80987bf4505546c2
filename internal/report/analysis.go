// Package report computes the timesheet summaries: day-filtered category
// totals, grid reconciliation, cross-employee comparison, and the detailed
// date-range report. Everything here is pure arithmetic over fetched rows.
package report

import (
	"sort"

	"feuilletemps/internal/model"
)

// AllDays selects every day bucket of the week.
func AllDays() []int {
	days := make([]int, model.DayCount)
	for i := range days {
		days[i] = i
	}
	return days
}

// TaskHours is one entry of the chargeable breakdown.
type TaskHours struct {
	Name  string  `json:"name"`
	Hours float64 `json:"totalHours"`
}

// Analysis is a per-employee summary over a day selection.
type Analysis struct {
	ChargeableHours      float64     `json:"totalChargeableHours"`
	NonChargeableHours   float64     `json:"totalNonChargeableHours"`
	GrandTotal           float64     `json:"grandTotalHours"`
	NormalHoursTotal     float64     `json:"normalHoursTotal"`
	Overtime             float64     `json:"totalOvertime"`
	ChargeablePercentage float64     `json:"chargeablePercentage"`
	Breakdown            []TaskHours `json:"chargeableSummary"`
}

// Calculate sums the given tasks over the selected day indexes only.
// Overtime never goes negative: working less than the baseline is an
// undercount, not negative overtime. The percentage is zero on an empty
// grid. Chargeable rows without a selected task name are skipped.
func Calculate(tasks []model.Task, normalHours []float64, selectedDays []int) Analysis {
	selected := make(map[int]bool, len(selectedDays))
	for _, d := range selectedDays {
		selected[d] = true
	}

	sumTask := func(t model.Task) float64 {
		var sum float64
		for i, h := range t.Hours {
			if selected[i] {
				sum += h
			}
		}
		return sum
	}

	var a Analysis
	for _, t := range tasks {
		switch {
		case t.Category == model.CategoryChargeable && t.Name != "":
			total := sumTask(t)
			a.ChargeableHours += total
			if total > 0 {
				a.Breakdown = append(a.Breakdown, TaskHours{Name: t.Name, Hours: total})
			}
		case t.Category == model.CategoryNonChargeable:
			a.NonChargeableHours += sumTask(t)
		}
	}
	a.GrandTotal = a.ChargeableHours + a.NonChargeableHours

	for i, h := range normalHours {
		if selected[i] {
			a.NormalHoursTotal += h
		}
	}
	if over := a.GrandTotal - a.NormalHoursTotal; over > 0 {
		a.Overtime = over
	}
	if a.GrandTotal > 0 {
		a.ChargeablePercentage = a.ChargeableHours / a.GrandTotal * 100
	}

	// Descending by hours; equal entries keep first-seen order.
	sort.SliceStable(a.Breakdown, func(i, j int) bool {
		return a.Breakdown[i].Hours > a.Breakdown[j].Hours
	})
	return a
}

// EmployeeAnalysis is one row of the admin cross-employee view.
type EmployeeAnalysis struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Analysis
}

// CrossEmployee computes the full-week summary for every non-admin employee
// for the week matched by exact start/end equality. An employee without a
// timesheet that week gets a zero-filled row, never a missing one.
func CrossEmployee(employees []model.Profile, timesheets []model.TimesheetData, startDate, endDate string) []EmployeeAnalysis {
	byEmployee := make(map[string]model.TimesheetData)
	for _, ts := range timesheets {
		if ts.StartDate == startDate && ts.EndDate == endDate {
			byEmployee[ts.EmployeeID] = ts
		}
	}

	var rows []EmployeeAnalysis
	for _, emp := range employees {
		if emp.Role == model.RoleAdmin {
			continue
		}
		row := EmployeeAnalysis{EmployeeID: emp.ID, EmployeeName: emp.Name}
		if ts, ok := byEmployee[emp.ID]; ok {
			row.Analysis = Calculate(ts.Tasks, ts.NormalHours, AllDays())
		}
		rows = append(rows, row)
	}
	return rows
}
