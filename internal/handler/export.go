package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"feuilletemps/internal/export"
	"feuilletemps/internal/gateway"
	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

type ExportHandler struct {
	svc     *service.AnalysisService
	manager *state.Manager
}

func NewExportHandler(svc *service.AnalysisService, manager *state.Manager) *ExportHandler {
	return &ExportHandler{svc: svc, manager: manager}
}

func (h *ExportHandler) fail(w http.ResponseWriter, r *http.Request, sess *state.Session, err error) {
	if gateway.KindOf(err) == gateway.KindAuth {
		h.manager.Logout(sess.Token())
	}
	writeError(w, r, err)
}

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
	formatPDF  = "pdf"
)

func formatParam(r *http.Request) string {
	switch f := r.URL.Query().Get("format"); f {
	case formatXLSX, formatPDF:
		return f
	default:
		return formatCSV
	}
}

var contentTypes = map[string]string{
	formatCSV:  "text/csv; charset=utf-8",
	formatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	formatPDF:  "application/pdf",
}

func sendFile(w http.ResponseWriter, format, name string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Write(data)
}

// safeName keeps filenames portable.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '"', ';':
			return '_'
		default:
			return r
		}
	}, s)
}

func employeeName(sess *state.Session, employeeID string) string {
	for _, p := range sess.Employees() {
		if p.ID == employeeID {
			return p.Name
		}
	}
	return "Inconnu"
}

func periodOf(ts model.TimesheetData) string {
	return fmt.Sprintf("du %s au %s", ts.StartDate, ts.EndDate)
}

// HandleTimesheet streams the weekly grid of one timesheet.
func (h *ExportHandler) HandleTimesheet(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	ts, ok := sess.Timesheet(timesheetParam(r, sess))
	if !ok {
		h.fail(w, r, sess, service.ErrTimesheetNotFound)
		return
	}
	name := employeeName(sess, ts.EmployeeID)
	fileName := safeName(fmt.Sprintf("Feuille_de_temps_%s_%s", name, ts.StartDate))
	format := formatParam(r)

	var (
		data []byte
		err  error
	)
	switch format {
	case formatXLSX:
		data, err = export.TimesheetXLSX(ts, name)
	case formatPDF:
		data, err = export.TimesheetPDF(ts, name)
	default:
		data = export.TimesheetCSV(ts, name)
	}
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sendFile(w, format, fileName, data)
}

// HandleAnalysis streams the performance summary of one timesheet.
func (h *ExportHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	id := timesheetParam(r, sess)
	ts, ok := sess.Timesheet(id)
	if !ok {
		h.fail(w, r, sess, service.ErrTimesheetNotFound)
		return
	}
	days, err := daysParam(r)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	a, err := h.svc.Employee(sess, id, days)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	name := employeeName(sess, ts.EmployeeID)
	period := periodOf(ts)
	fileName := safeName(fmt.Sprintf("Analyse_performance_%s_%s_au_%s", name, ts.StartDate, ts.EndDate))
	format := formatParam(r)

	var data []byte
	switch format {
	case formatXLSX:
		data, err = export.AnalysisXLSX(a, name, period)
	case formatPDF:
		data, err = export.AnalysisPDF(a, name, period)
	default:
		data = export.AnalysisCSV(a, name, period)
	}
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sendFile(w, format, fileName, data)
}

// HandleAdminAnalysis streams the cross-employee comparison. Admin only.
func (h *ExportHandler) HandleAdminAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	id := timesheetParam(r, sess)
	ts, ok := sess.Timesheet(id)
	if !ok {
		h.fail(w, r, sess, service.ErrTimesheetNotFound)
		return
	}
	rows, err := h.svc.CrossEmployee(sess, id)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	period := periodOf(ts)
	fileName := safeName(fmt.Sprintf("Analyse_globale_collaborateurs_%s_%s", ts.StartDate, ts.EndDate))
	format := formatParam(r)

	var data []byte
	switch format {
	case formatXLSX:
		data, err = export.AdminAnalysisXLSX(rows, period)
	case formatPDF:
		data, err = export.AdminAnalysisPDF(rows, period)
	default:
		data = export.AdminAnalysisCSV(rows, period)
	}
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sendFile(w, format, fileName, data)
}

// HandleDetailed streams the date-range report. Admin only.
func (h *ExportHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.manager)
	if !ok {
		return
	}
	var req detailedRequest
	if err := decode(r, &req); err != nil {
		writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
		return
	}
	start, end, err := req.bounds()
	if err != nil {
		writeStatusJSON(w, http.StatusBadRequest, ErrorResponse{Error: i18n.T(r.Context(), "error.bad_request")})
		return
	}
	groupBy := req.grouping()
	rep, err := h.svc.Detailed(sess, start, end, req.EmployeeIDs, req.TaskNames, groupBy)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	fileName := fmt.Sprintf("Analyse_Detaillee_%s", time.Now().UTC().Format(model.DateLayout))
	format := formatParam(r)

	var data []byte
	switch format {
	case formatXLSX:
		data, err = export.DetailedXLSX(rep, groupBy)
	case formatPDF:
		period := fmt.Sprintf("du %s au %s", req.StartDate, req.EndDate)
		data, err = export.DetailedPDF(rep, groupBy, period)
	default:
		data = export.DetailedCSV(rep, groupBy)
	}
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sendFile(w, format, fileName, data)
}

// RegisterRoutes registers all export routes on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/export/timesheet", h.HandleTimesheet)
	mux.HandleFunc("GET /api/export/analysis", h.HandleAnalysis)
	mux.HandleFunc("GET /api/export/admin-analysis", h.HandleAdminAnalysis)
	mux.HandleFunc("POST /api/export/detailed", h.HandleDetailed)
}
