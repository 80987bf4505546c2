package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskCategory string

const (
	CategoryChargeable    TaskCategory = "Temps chargeable"
	CategoryNonChargeable TaskCategory = "Temps non chargeable"
)

// DaysOfWeek are the six day buckets of a timesheet week. Saturday and
// Sunday share the last bucket.
var DaysOfWeek = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi & dimanche"}

// DayCount is the number of day buckets per week.
const DayCount = 6

// NormalHours is the default normal-hours baseline per day bucket.
var NormalHours = []float64{8, 8, 8, 8, 8, 0}

// DefaultNonChargeableTaskNames are the fixed internal categories every new
// timesheet starts with. Chargeable tasks are added from the approved catalog.
var DefaultNonChargeableTaskNames = []string{
	"Réunions",
	"Séminaires",
	"Examens",
	"Jours fériés",
	"Maladie",
	"Absence non payée",
	"Congés payés",
	"Autres",
}

// Task is one row of the timesheet grid: a named activity with hours per
// day bucket. Hours always has exactly DayCount entries, each >= 0.
type Task struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category TaskCategory `json:"category"`
	Hours    []float64    `json:"hours"`
}

// Total sums the task's hours across all day buckets.
func (t Task) Total() float64 {
	var sum float64
	for _, h := range t.Hours {
		sum += h
	}
	return sum
}

// TodoItem is one entry of the weekly objectives checklist, tied to a day.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	DayIndex  int    `json:"dayIndex"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// TimesheetData is one employee's record for one calendar week. The hour grid
// and the to-do list share the row but carry independent status lifecycles.
type TimesheetData struct {
	ID           string     `json:"id,omitempty"`
	EmployeeID   string     `json:"employee_id"`
	PeriodNumber string     `json:"period_number"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Tasks        []Task     `json:"tasks"`
	TodoList     []TodoItem `json:"todo_list"`
	NormalHours  []float64  `json:"normal_hours"`
	Status       Status     `json:"status"`
	TodoStatus   Status     `json:"todo_status"`
	CreatedAt    string     `json:"created_at,omitempty"`
	UpdatedAt    string     `json:"updated_at,omitempty"`
}

// Clone returns a deep copy. The optimistic write protocol snapshots and
// restores timesheets by value, so shared slice backing is not acceptable.
func (ts TimesheetData) Clone() TimesheetData {
	out := ts
	out.Tasks = make([]Task, len(ts.Tasks))
	for i, t := range ts.Tasks {
		t.Hours = append([]float64(nil), t.Hours...)
		out.Tasks[i] = t
	}
	out.TodoList = append([]TodoItem(nil), ts.TodoList...)
	out.NormalHours = append([]float64(nil), ts.NormalHours...)
	return out
}

// Task returns a pointer into ts.Tasks for the given id, or nil.
func (ts *TimesheetData) Task(id string) *Task {
	for i := range ts.Tasks {
		if ts.Tasks[i].ID == id {
			return &ts.Tasks[i]
		}
	}
	return nil
}

// TasksByCategory splits the grid rows into chargeable and non-chargeable,
// preserving order.
func (ts TimesheetData) TasksByCategory() (chargeable, nonChargeable []Task) {
	for _, t := range ts.Tasks {
		if t.Category == CategoryChargeable {
			chargeable = append(chargeable, t)
		} else {
			nonChargeable = append(nonChargeable, t)
		}
	}
	return chargeable, nonChargeable
}

// DateLayout is the wire format for timesheet week bounds.
const DateLayout = "2006-01-02"

// WeekStart returns the Monday of the week containing t, in UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// NewWeekTimesheet builds a blank draft timesheet for the week containing
// now, pre-populated with the default non-chargeable rows.
func NewWeekTimesheet(employeeID string, now time.Time) TimesheetData {
	start := WeekStart(now)
	end := start.AddDate(0, 0, 6)

	tasks := make([]Task, 0, len(DefaultNonChargeableTaskNames))
	for _, name := range DefaultNonChargeableTaskNames {
		tasks = append(tasks, Task{
			ID:       uuid.NewString(),
			Name:     name,
			Category: CategoryNonChargeable,
			Hours:    make([]float64, DayCount),
		})
	}

	return TimesheetData{
		EmployeeID:  employeeID,
		StartDate:   start.Format(DateLayout),
		EndDate:     end.Format(DateLayout),
		Tasks:       tasks,
		TodoList:    []TodoItem{},
		NormalHours: append([]float64(nil), NormalHours...),
		Status:      StatusDraft,
		TodoStatus:  StatusDraft,
	}
}

// NewChargeableRow builds an empty chargeable grid row for the given catalog
// task name.
func NewChargeableRow(name string) Task {
	return Task{
		ID:       uuid.NewString(),
		Name:     name,
		Category: CategoryChargeable,
		Hours:    make([]float64, DayCount),
	}
}

// ParseHours converts a locale-formatted decimal (comma or dot separator)
// into hours. Empty or invalid input yields 0, never NaN; negative input is
// clamped to 0 to keep the grid invariant.
func ParseHours(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || h != h || h < 0 {
		return 0
	}
	return h
}
