package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/report"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

type AnalysisHandler struct {
	svc     *service.AnalysisService
	manager *state.Manager
}

func NewAnalysisHandler(svc *service.AnalysisService, manager *state.Manager) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, manager: manager}
}

func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, sess *state.Session, err error) {
	if gateway.KindOf(err) == gateway.KindAuth {
		h.manager.Logout(sess.Token())
	}
	writeError(w, r, err)
}

func (h *AnalysisHandler) badRequest(w http.ResponseWriter, r *http.Request) {
	writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
}

// timesheetParam resolves the ?timesheet= query, defaulting to the viewed
// timesheet.
func timesheetParam(r *http.Request, sess *state.Session) string {
	if id := r.URL.Query().Get("timesheet"); id != "" {
		return id
	}
	return sess.CurrentTimesheet()
}

// daysParam parses ?days=0,1,2 into day indices; nil means every day.
func daysParam(r *http.Request) ([]int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d >= model.DayCount {
			return nil, service.ErrInvalidDay
		}
		days = append(days, d)
	}
	return days, nil
}

// HandleEmployee computes the performance summary of one timesheet,
// optionally restricted to selected days.
func (h *AnalysisHandler) HandleEmployee(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	days, err := daysParam(r)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	a, err := h.svc.Employee(sess, timesheetParam(r, sess), days)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, a)
}

// HandleGrid returns the per-day totals footer of one timesheet.
func (h *AnalysisHandler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	g, err := h.svc.Grid(sess, timesheetParam(r, sess))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, g)
}

// HandleAdmin compares every employee over the period of the reference
// timesheet. Admin only.
func (h *AnalysisHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	rows, err := h.svc.CrossEmployee(sess, timesheetParam(r, sess))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, rows)
}

type detailedRequest struct {
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	EmployeeIDs []string `json:"employeeIds"`
	TaskNames   []string `json:"taskNames"`
	GroupBy     string   `json:"groupBy"`
}

func (req detailedRequest) bounds() (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(model.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(model.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (req detailedRequest) grouping() report.GroupBy {
	switch report.GroupBy(req.GroupBy) {
	case report.GroupByEmployee:
		return report.GroupByEmployee
	case report.GroupByDay:
		return report.GroupByDay
	default:
		return report.GroupByTask
	}
}

// HandleDetailed runs the cross-week date-range report. Admin only.
func (h *AnalysisHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req detailedRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, r)
		return
	}
	start, end, err := req.bounds()
	if err != nil {
		h.badRequest(w, r)
		return
	}
	rep, err := h.svc.Detailed(sess, start, end, req.EmployeeIDs, req.TaskNames, req.grouping())
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	writeJSON(w, rep)
}

// RegisterRoutes registers all analysis routes on the given mux.
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/analysis", h.HandleEmployee)
	mux.HandleFunc("GET /api/analysis/grid", h.HandleGrid)
	mux.HandleFunc("GET /api/analysis/admin", h.HandleAdmin)
	mux.HandleFunc("POST /api/reports/detailed", h.HandleDetailed)
}
