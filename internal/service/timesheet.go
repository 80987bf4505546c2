package service

import (
	"context"
	"fmt"
	"time"

	"feuilletemps/internal/model"
	"feuilletemps/internal/state"

	"github.com/google/uuid"
)

// ProfileReader is the slice of the profile store the services consume.
type ProfileReader interface {
	Get(ctx context.Context, token, id string) (*model.Profile, error)
	List(ctx context.Context, token string) ([]model.Profile, error)
	ListByIDs(ctx context.Context, token string, ids []string) ([]model.Profile, error)
}

// TimesheetRepo is the slice of the timesheet store the services consume.
type TimesheetRepo interface {
	ListAll(ctx context.Context, token string) ([]model.TimesheetData, error)
	ListByEmployee(ctx context.Context, token, employeeID string) ([]model.TimesheetData, error)
	Create(ctx context.Context, token string, ts model.TimesheetData) (*model.TimesheetData, error)
	Update(ctx context.Context, token, id string, patch map[string]any) error
}

// TimesheetService owns the week lifecycle and all grid/objective edits.
type TimesheetService struct {
	profiles ProfileReader
	sheets   TimesheetRepo
	nowFn    func() time.Time
}

func NewTimesheetService(profiles ProfileReader, sheets TimesheetRepo) *TimesheetService {
	return &TimesheetService{profiles: profiles, sheets: sheets, nowFn: time.Now}
}

func (s *TimesheetService) now() string {
	return s.nowFn().UTC().Format(time.RFC3339)
}

// Bootstrap loads everything a fresh session needs: the caller's profile,
// the approved catalog, and the role-dependent slice of profiles and
// timesheets. When the viewed employee has no timesheet at all, the current
// week is created on the spot so the UI always has a record to show.
func (s *TimesheetService) Bootstrap(ctx context.Context, sess *state.Session, approvedNames []string) error {
	profile, err := s.profiles.Get(ctx, sess.Token(), sess.UserID())
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	sess.SetProfile(*profile)
	sess.SetCatalog(approvedNames)

	var sheets []model.TimesheetData
	if profile.Role == model.RoleAdmin {
		employees, err := s.profiles.List(ctx, sess.Token())
		if err != nil {
			return fmt.Errorf("fetch employees: %w", err)
		}
		sess.SetEmployees(employees)
		sheets, err = s.sheets.ListAll(ctx, sess.Token())
		if err != nil {
			return fmt.Errorf("fetch timesheets: %w", err)
		}
	} else {
		sess.SetEmployees([]model.Profile{*profile})
		sheets, err = s.sheets.ListByEmployee(ctx, sess.Token(), profile.ID)
		if err != nil {
			return fmt.Errorf("fetch timesheets: %w", err)
		}
	}
	sess.SetTimesheets(sheets)
	sess.SetCurrentEmployee(profile.ID)

	return s.selectLatestOrCreate(ctx, sess, profile.ID)
}

// SwitchEmployee changes the viewed employee (admin only) and selects their
// latest week, creating the current one when they have none.
func (s *TimesheetService) SwitchEmployee(ctx context.Context, sess *state.Session, employeeID string) error {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return ErrForbidden
	}
	sess.SetCurrentEmployee(employeeID)
	return s.selectLatestOrCreate(ctx, sess, employeeID)
}

// SwitchWeek changes the viewed timesheet.
func (s *TimesheetService) SwitchWeek(sess *state.Session, timesheetID string) error {
	if _, ok := sess.Timesheet(timesheetID); !ok {
		return ErrTimesheetNotFound
	}
	sess.SetCurrentTimesheet(timesheetID)
	return nil
}

func (s *TimesheetService) selectLatestOrCreate(ctx context.Context, sess *state.Session, employeeID string) error {
	var latest *model.TimesheetData
	for _, ts := range sess.Timesheets() {
		if ts.EmployeeID == employeeID {
			ts := ts
			latest = &ts
			break // Timesheets() is sorted newest first
		}
	}
	if latest != nil {
		sess.SetCurrentTimesheet(latest.ID)
		return nil
	}
	created, err := s.CreateWeek(ctx, sess, employeeID)
	if err != nil {
		return err
	}
	sess.SetCurrentTimesheet(created.ID)
	return nil
}

// CreateWeek inserts a blank current-week timesheet for the employee and
// keeps the stored representation in session state.
func (s *TimesheetService) CreateWeek(ctx context.Context, sess *state.Session, employeeID string) (*model.TimesheetData, error) {
	if employeeID == "" {
		return nil, ErrEmptyField
	}
	blank := model.NewWeekTimesheet(employeeID, s.nowFn())
	created, err := s.sheets.Create(ctx, sess.Token(), blank)
	if err != nil {
		return nil, fmt.Errorf("create week: %w", err)
	}
	sess.UpsertTimesheet(*created)
	return created, nil
}

// editableTimesheet guards hour-grid edits: the grid lifecycle alone decides,
// the objectives lifecycle has no say here.
func editableTimesheet(ts *model.TimesheetData) error {
	if ts.Status.ReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// editableTodo guards objectives edits, independently of the grid lifecycle.
func editableTodo(ts *model.TimesheetData) error {
	if ts.TodoStatus.ReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// SetHours writes one grid cell from raw user input.
func (s *TimesheetService) SetHours(ctx context.Context, sess *state.Session, timesheetID, taskID string, dayIndex int, raw string) (model.TimesheetData, error) {
	if dayIndex < 0 || dayIndex >= model.DayCount {
		return model.TimesheetData{}, ErrInvalidDay
	}
	hours := model.ParseHours(raw)
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTimesheet(ts); err != nil {
			return err
		}
		task := ts.Task(taskID)
		if task == nil {
			return ErrTaskNotFound
		}
		task.Hours[dayIndex] = hours
		return nil
	}, fullPatch)
}

// SetTaskName rebinds a chargeable grid row to another catalog name.
func (s *TimesheetService) SetTaskName(ctx context.Context, sess *state.Session, timesheetID, taskID, name string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTimesheet(ts); err != nil {
			return err
		}
		task := ts.Task(taskID)
		if task == nil {
			return ErrTaskNotFound
		}
		task.Name = name
		return nil
	}, fullPatch)
}

// AddTask appends an empty chargeable row for the given catalog name.
func (s *TimesheetService) AddTask(ctx context.Context, sess *state.Session, timesheetID, name string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTimesheet(ts); err != nil {
			return err
		}
		ts.Tasks = append(ts.Tasks, model.NewChargeableRow(name))
		return nil
	}, fullPatch)
}

// RemoveTask drops a grid row.
func (s *TimesheetService) RemoveTask(ctx context.Context, sess *state.Session, timesheetID, taskID string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTimesheet(ts); err != nil {
			return err
		}
		for i := range ts.Tasks {
			if ts.Tasks[i].ID == taskID {
				ts.Tasks = append(ts.Tasks[:i], ts.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	}, fullPatch)
}

// SetHeaderField updates one of the editable header fields.
func (s *TimesheetService) SetHeaderField(ctx context.Context, sess *state.Session, timesheetID, field, value string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTimesheet(ts); err != nil {
			return err
		}
		switch field {
		case "period_number":
			ts.PeriodNumber = value
		case "start_date":
			ts.StartDate = value
		case "end_date":
			ts.EndDate = value
		default:
			return fmt.Errorf("%w: unknown header field %q", ErrEmptyField, field)
		}
		return nil
	}, fullPatch)
}

// AddTodo appends an objective to one day's checklist.
func (s *TimesheetService) AddTodo(ctx context.Context, sess *state.Session, timesheetID, text string, dayIndex int) (model.TimesheetData, error) {
	if text == "" {
		return model.TimesheetData{}, ErrEmptyField
	}
	if dayIndex < 0 || dayIndex >= model.DayCount {
		return model.TimesheetData{}, ErrInvalidDay
	}
	item := model.TodoItem{Text: text, DayIndex: dayIndex, UpdatedAt: s.now()}
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTodo(ts); err != nil {
			return err
		}
		item.ID = uuid.NewString()
		ts.TodoList = append(ts.TodoList, item)
		return nil
	}, fullPatch)
}

// ToggleTodo flips an objective's completed flag.
func (s *TimesheetService) ToggleTodo(ctx context.Context, sess *state.Session, timesheetID, todoID string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTodo(ts); err != nil {
			return err
		}
		for i := range ts.TodoList {
			if ts.TodoList[i].ID == todoID {
				ts.TodoList[i].Completed = !ts.TodoList[i].Completed
				ts.TodoList[i].UpdatedAt = s.now()
				return nil
			}
		}
		return ErrTodoNotFound
	}, fullPatch)
}

// RemoveTodo drops an objective.
func (s *TimesheetService) RemoveTodo(ctx context.Context, sess *state.Session, timesheetID, todoID string) (model.TimesheetData, error) {
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		if err := editableTodo(ts); err != nil {
			return err
		}
		for i := range ts.TodoList {
			if ts.TodoList[i].ID == todoID {
				ts.TodoList = append(ts.TodoList[:i], ts.TodoList[i+1:]...)
				return nil
			}
		}
		return ErrTodoNotFound
	}, fullPatch)
}

// SetStatus moves the hour-grid lifecycle. Only the status column is
// written; the objectives lifecycle is never touched here.
func (s *TimesheetService) SetStatus(ctx context.Context, sess *state.Session, timesheetID string, to model.Status) (model.TimesheetData, error) {
	return s.transition(ctx, sess, timesheetID, to,
		func(ts *model.TimesheetData) *model.Status { return &ts.Status }, statusPatch)
}

// SetTodoStatus moves the objectives lifecycle, equally independently.
func (s *TimesheetService) SetTodoStatus(ctx context.Context, sess *state.Session, timesheetID string, to model.Status) (model.TimesheetData, error) {
	return s.transition(ctx, sess, timesheetID, to,
		func(ts *model.TimesheetData) *model.Status { return &ts.TodoStatus }, todoStatusPatch)
}

func (s *TimesheetService) transition(
	ctx context.Context,
	sess *state.Session,
	timesheetID string,
	to model.Status,
	field func(*model.TimesheetData) *model.Status,
	patch func(model.TimesheetData) map[string]any,
) (model.TimesheetData, error) {
	profile, ok := sess.Profile()
	if !ok {
		return model.TimesheetData{}, ErrProfileNotFound
	}
	if !to.Valid() {
		return model.TimesheetData{}, ErrInvalidTransition
	}
	return s.applyOptimistic(ctx, sess, timesheetID, func(ts *model.TimesheetData) error {
		current := *field(ts)
		if current == "" {
			current = model.StatusDraft
		}
		if !model.CanTransition(current, to, profile.Role, ts.EmployeeID == profile.ID) {
			return ErrInvalidTransition
		}
		*field(ts) = to
		return nil
	}, patch)
}
