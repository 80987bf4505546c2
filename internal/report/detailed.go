package report

import (
	"sort"
	"time"

	"feuilletemps/internal/model"
)

type GroupBy string

const (
	GroupByTask     GroupBy = "task"
	GroupByEmployee GroupBy = "employee"
	GroupByDay      GroupBy = "day"
)

// DetailedFilter selects (timesheet, day, task) triples for the detailed
// report. Empty EmployeeIDs means all employees; empty TaskNames means all
// tasks (the name filter applies to chargeable tasks only).
type DetailedFilter struct {
	Start       time.Time
	End         time.Time
	EmployeeIDs []string
	TaskNames   []string
	GroupBy     GroupBy
}

// DetailedRow is one grouped result row. Date is set only for day grouping.
type DetailedRow struct {
	Date     string  `json:"date,omitempty"`
	Employee string  `json:"employee"`
	Task     string  `json:"task"`
	Hours    float64 `json:"hours"`
}

// DetailedReport carries the grouped rows and the running totals over every
// triple that passed the filters.
type DetailedReport struct {
	Rows          []DetailedRow `json:"rows"`
	Total         float64       `json:"total"`
	Chargeable    float64       `json:"chargeable"`
	NonChargeable float64       `json:"nonChargeable"`
}

// parseDay interprets a YYYY-MM-DD week bound as a UTC midnight. Day
// arithmetic stays in UTC so a week never drifts across a local timezone
// boundary.
func parseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	return t, err == nil
}

// Detailed enumerates every worked hour cell whose calendar date (week start
// plus day offset) falls inside the inclusive range, applies the employee
// and chargeable-name filters, groups by the chosen key and sums hours per
// group.
func Detailed(timesheets []model.TimesheetData, employees []model.Profile, f DetailedFilter) DetailedReport {
	employeeFilter := make(map[string]bool, len(f.EmployeeIDs))
	for _, id := range f.EmployeeIDs {
		employeeFilter[id] = true
	}
	taskFilter := make(map[string]bool, len(f.TaskNames))
	for _, n := range f.TaskNames {
		taskFilter[n] = true
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	type triple struct {
		date     time.Time
		employee string
		task     string
		hours    float64
	}
	var rep DetailedReport
	var triples []triple

	for _, ts := range timesheets {
		if len(employeeFilter) > 0 && !employeeFilter[ts.EmployeeID] {
			continue
		}
		tsStart, ok := parseDay(ts.StartDate)
		if !ok {
			continue
		}
		tsEnd, ok := parseDay(ts.EndDate)
		if !ok {
			continue
		}
		// Weeks fully outside the range are excluded before looking at days.
		if tsStart.After(f.End) || tsEnd.Before(f.Start) {
			continue
		}

		employeeName := names[ts.EmployeeID]
		if employeeName == "" {
			employeeName = "Inconnu"
		}

		for _, task := range ts.Tasks {
			if task.Category == model.CategoryChargeable && len(taskFilter) > 0 && !taskFilter[task.Name] {
				continue
			}
			for dayIndex, h := range task.Hours {
				if h <= 0 {
					continue
				}
				day := tsStart.AddDate(0, 0, dayIndex)
				if day.Before(f.Start) || day.After(f.End) {
					continue
				}
				triples = append(triples, triple{date: day, employee: employeeName, task: task.Name, hours: h})
				if task.Category == model.CategoryChargeable {
					rep.Chargeable += h
				} else {
					rep.NonChargeable += h
				}
			}
		}
	}
	rep.Total = rep.Chargeable + rep.NonChargeable

	grouped := make(map[string]*DetailedRow)
	var order []string
	for _, tr := range triples {
		var key string
		row := DetailedRow{Employee: tr.employee, Task: tr.task}
		switch f.GroupBy {
		case GroupByDay:
			row.Date = tr.date.Format(model.DateLayout)
			key = row.Date + "\x00" + tr.employee + "\x00" + tr.task
		case GroupByEmployee:
			key = tr.employee + "\x00" + tr.task
		default:
			key = tr.task + "\x00" + tr.employee
		}
		if existing, ok := grouped[key]; ok {
			existing.Hours += tr.hours
			continue
		}
		row.Hours = tr.hours
		grouped[key] = &row
		order = append(order, key)
	}

	rep.Rows = make([]DetailedRow, 0, len(order))
	for _, key := range order {
		rep.Rows = append(rep.Rows, *grouped[key])
	}

	switch f.GroupBy {
	case GroupByDay:
		sort.SliceStable(rep.Rows, func(i, j int) bool {
			if rep.Rows[i].Date != rep.Rows[j].Date {
				return rep.Rows[i].Date < rep.Rows[j].Date
			}
			return rep.Rows[i].Employee < rep.Rows[j].Employee
		})
	case GroupByEmployee:
		sort.SliceStable(rep.Rows, func(i, j int) bool {
			if rep.Rows[i].Employee != rep.Rows[j].Employee {
				return rep.Rows[i].Employee < rep.Rows[j].Employee
			}
			return rep.Rows[i].Task < rep.Rows[j].Task
		})
	default:
		sort.SliceStable(rep.Rows, func(i, j int) bool {
			if rep.Rows[i].Task != rep.Rows[j].Task {
				return rep.Rows[i].Task < rep.Rows[j].Task
			}
			return rep.Rows[i].Employee < rep.Rows[j].Employee
		})
	}
	return rep
}
