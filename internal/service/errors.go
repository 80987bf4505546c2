package service

import "errors"

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTodoNotFound      = errors.New("todo item not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrReadOnly          = errors.New("record is read-only in its current status")
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrDuplicateTask     = errors.New("task already exists or awaits validation")
	ErrEmptyField        = errors.New("required field is empty")
	ErrForbidden         = errors.New("operation requires the admin role")
	ErrInvalidDay        = errors.New("day index out of range")
)
