package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/schema"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

// ErrorResponse is the JSON body sent for every failed request. Remediation
// is present when the failure is repairable schema drift on the remote
// store.
type ErrorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code,omitempty"`
	Remediation *schema.Remediation `json:"remediation,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding response: %v", err)
	}
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding response: %v", err)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return ""
}

// writeError maps service and gateway failures to HTTP statuses and a
// localized message. Schema and policy failures from the remote store carry
// the remediation the operator can run.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	resp := ErrorResponse{}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrTimesheetNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrTodoNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		status = http.StatusNotFound
		resp.Error = i18n.T(ctx, "error.not_found")
	case errors.Is(err, service.ErrReadOnly):
		status = http.StatusConflict
		resp.Error = i18n.T(ctx, "error.read_only")
	case errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
		resp.Error = i18n.T(ctx, "error.invalid_transition")
	case errors.Is(err, service.ErrDuplicateTask):
		status = http.StatusConflict
		resp.Error = i18n.T(ctx, "error.duplicate_task")
	case errors.Is(err, service.ErrEmptyField):
		status = http.StatusUnprocessableEntity
		resp.Error = i18n.T(ctx, "error.empty_field")
	case errors.Is(err, service.ErrInvalidDay):
		status = http.StatusUnprocessableEntity
		resp.Error = i18n.T(ctx, "error.invalid_day")
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		resp.Error = i18n.T(ctx, "error.forbidden")
	default:
		switch gateway.KindOf(err) {
		case gateway.KindAuth:
			status = http.StatusUnauthorized
			resp.Error = i18n.T(ctx, "error.unauthorized")
		case gateway.KindSchema:
			status = http.StatusConflict
			resp.Error = i18n.T(ctx, "error.schema")
			rem := schema.For(schema.CodeFor(err))
			resp.Code = rem.Code
			resp.Remediation = &rem
		case gateway.KindPolicy:
			status = http.StatusForbidden
			resp.Error = i18n.T(ctx, "error.policy")
			if code := schema.CodeFor(err); code != schema.CodeDefault {
				rem := schema.For(code)
				resp.Code = rem.Code
				resp.Remediation = &rem
			}
		case gateway.KindValidation:
			status = http.StatusUnprocessableEntity
			resp.Error = gateway.MessageOf(err)
		case gateway.KindTransient:
			status = http.StatusBadGateway
			resp.Error = i18n.T(ctx, "error.remote")
		default:
			resp.Error = gateway.MessageOf(err)
		}
	}

	writeStatusJSON(w, status, resp)
}

// sessionView is the full client-visible state of one session, returned
// after login and after the view switches.
type sessionView struct {
	Profile            any    `json:"profile"`
	Employees          any    `json:"employees"`
	Timesheets         any    `json:"timesheets"`
	Catalog            any    `json:"catalog"`
	Pending            any    `json:"pendingTasks"`
	CurrentEmployeeID  string `json:"currentEmployeeId"`
	CurrentTimesheetID string `json:"currentTimesheetId"`
}

func viewOf(sess *state.Session) sessionView {
	profile, _ := sess.Profile()
	return sessionView{
		Profile:            profile,
		Employees:          sess.Employees(),
		Timesheets:         sess.Timesheets(),
		Catalog:            sess.Catalog(),
		Pending:            sess.Pending(),
		CurrentEmployeeID:  sess.CurrentEmployee(),
		CurrentTimesheetID: sess.CurrentTimesheet(),
	}
}
