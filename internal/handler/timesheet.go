package handler

import (
	"context"
	"net/http"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

type TimesheetHandler struct {
	svc     *service.TimesheetService
	manager *state.Manager
}

func NewTimesheetHandler(svc *service.TimesheetService, manager *state.Manager) *TimesheetHandler {
	return &TimesheetHandler{svc: svc, manager: manager}
}

// fail drops the session when the remote store no longer accepts its token,
// then reports the error.
func (h *TimesheetHandler) fail(w http.ResponseWriter, r *http.Request, sess *state.Session, err error) {
	if gateway.KindOf(err) == gateway.KindAuth {
		h.manager.Logout(sess.Token())
	}
	writeError(w, r, err)
}

func (h *TimesheetHandler) badRequest(w http.ResponseWriter, r *http.Request) {
	writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
}

func (h *TimesheetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	writeJSON(w, sess.Timesheets())
}

func (h *TimesheetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	ts, ok := sess.Timesheet(r.PathValue("id"))
	if !ok {
		h.fail(w, r, sess, service.ErrTimesheetNotFound)
		return
	}
	writeJSON(w, ts)
}

// HandleCreate opens a fresh current-week timesheet for the employee in the
// request, defaulting to the viewed employee.
func (h *TimesheetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	if req.EmployeeID == "" {
		req.EmployeeID = sess.CurrentEmployee()
	}
	created, err := h.svc.CreateWeek(r.Context(), sess, req.EmployeeID)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sess.SetCurrentTimesheet(created.ID)
	writeJSON(w, created)
}

func (h *TimesheetHandler) HandleSetHours(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		TaskID   string `json:"taskId"`
		DayIndex int    `json:"dayIndex"`
		Hours    string `json:"hours"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	ts, err := h.svc.SetHours(r.Context(), sess, r.PathValue("id"), req.TaskID, req.DayIndex, req.Hours)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleSetTaskName(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		TaskID string `json:"taskId"`
		Name   string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	ts, err := h.svc.SetTaskName(r.Context(), sess, r.PathValue("id"), req.TaskID, req.Name)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	ts, err := h.svc.AddTask(r.Context(), sess, r.PathValue("id"), req.Name)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleRemoveTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	ts, err := h.svc.RemoveTask(r.Context(), sess, r.PathValue("id"), r.PathValue("taskID"))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleSetHeader(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	ts, err := h.svc.SetHeaderField(r.Context(), sess, r.PathValue("id"), req.Field, req.Value)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleAddTodo(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		Text     string `json:"text"`
		DayIndex int    `json:"dayIndex"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	ts, err := h.svc.AddTodo(r.Context(), sess, r.PathValue("id"), req.Text, req.DayIndex)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleToggleTodo(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	ts, err := h.svc.ToggleTodo(r.Context(), sess, r.PathValue("id"), r.PathValue("todoID"))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleRemoveTodo(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	ts, err := h.svc.RemoveTodo(r.Context(), sess, r.PathValue("id"), r.PathValue("todoID"))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

// HandleSetStatus moves the hour grid through its lifecycle. The objectives
// list has its own endpoint; the two never move together.
func (h *TimesheetHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.svc.SetStatus)
}

func (h *TimesheetHandler) HandleSetTodoStatus(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.svc.SetTodoStatus)
}

func (h *TimesheetHandler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, sess *state.Session, id string, to model.Status) (model.TimesheetData, error),
) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		Status model.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	if !req.Status.Valid() {
		h.badRequest(w, r)
		return
	}
	ts, err := apply(r.Context(), sess, r.PathValue("id"), req.Status)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, ts)
}

func (h *TimesheetHandler) HandleSwitchEmployee(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	if err := h.svc.SwitchEmployee(r.Context(), sess, req.EmployeeID); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, viewOf(sess))
}

func (h *TimesheetHandler) HandleSwitchWeek(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req struct {
		TimesheetID string `json:"timesheetId"`
	}
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	if err := h.svc.SwitchWeek(sess, req.TimesheetID); err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, viewOf(sess))
}

// RegisterRoutes registers all timesheet routes on the given mux.
func (h *TimesheetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/timesheets", h.HandleList)
	mux.HandleFunc("POST /api/timesheets", h.HandleCreate)
	mux.HandleFunc("GET /api/timesheets/{id}", h.HandleGet)

	mux.HandleFunc("POST /api/timesheets/{id}/hours", h.HandleSetHours)
	mux.HandleFunc("POST /api/timesheets/{id}/task-name", h.HandleSetTaskName)
	mux.HandleFunc("POST /api/timesheets/{id}/tasks", h.HandleAddTask)
	mux.HandleFunc("DELETE /api/timesheets/{id}/tasks/{taskID}", h.HandleRemoveTask)
	mux.HandleFunc("POST /api/timesheets/{id}/header", h.HandleSetHeader)

	mux.HandleFunc("POST /api/timesheets/{id}/todos", h.HandleAddTodo)
	mux.HandleFunc("POST /api/timesheets/{id}/todos/{todoID}/toggle", h.HandleToggleTodo)
	mux.HandleFunc("DELETE /api/timesheets/{id}/todos/{todoID}", h.HandleRemoveTodo)

	mux.HandleFunc("POST /api/timesheets/{id}/status", h.HandleSetStatus)
	mux.HandleFunc("POST /api/timesheets/{id}/todo-status", h.HandleSetTodoStatus)

	mux.HandleFunc("POST /api/view/employee", h.HandleSwitchEmployee)
	mux.HandleFunc("POST /api/view/timesheet", h.HandleSwitchWeek)
}
