package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"feuilletemps/internal/i18n"
	"feuilletemps/internal/model"
	"feuilletemps/internal/service"
	"feuilletemps/internal/state"
)

var initLocales sync.Once

type stubProfiles struct{}

func (stubProfiles) Get(ctx context.Context, token, id string) (*model.Profile, error) {
	return &model.Profile{ID: id, Name: "Alice Martin", Role: model.RoleEmployee}, nil
}

func (stubProfiles) List(ctx context.Context, token string) ([]model.Profile, error) {
	return nil, nil
}

func (stubProfiles) ListByIDs(ctx context.Context, token string, ids []string) ([]model.Profile, error) {
	return nil, nil
}

type stubSheets struct {
	patches []map[string]any
}

func (s *stubSheets) ListAll(ctx context.Context, token string) ([]model.TimesheetData, error) {
	return nil, nil
}

func (s *stubSheets) ListByEmployee(ctx context.Context, token, employeeID string) ([]model.TimesheetData, error) {
	return nil, nil
}

func (s *stubSheets) Create(ctx context.Context, token string, ts model.TimesheetData) (*model.TimesheetData, error) {
	ts.ID = "ts-created"
	return &ts, nil
}

func (s *stubSheets) Update(ctx context.Context, token, id string, patch map[string]any) error {
	s.patches = append(s.patches, patch)
	return nil
}

// newTestMux wires the timesheet routes over a logged-in session holding one
// draft week, and returns the mux with the session's timesheet.
func newTestMux(t *testing.T) (*http.ServeMux, *state.Session, model.TimesheetData) {
	t.Helper()
	initLocales.Do(func() { i18n.Init("fr") })

	sheets := &stubSheets{}
	svc := service.NewTimesheetService(stubProfiles{}, sheets)
	manager := state.NewManager()

	sess := manager.Login("tok-1", "e1", "alice@example.com")
	sess.SetProfile(model.Profile{ID: "e1", Name: "Alice Martin", Role: model.RoleEmployee})

	ts := model.NewWeekTimesheet("e1", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	ts.ID = "ts-1"
	sess.SetTimesheets([]model.TimesheetData{ts})
	sess.SetCurrentEmployee("e1")
	sess.SetCurrentTimesheet("ts-1")

	mux := http.NewServeMux()
	NewTimesheetHandler(svc, manager).RegisterRoutes(mux)
	return mux, sess, ts
}

func doJSON(mux *http.ServeMux, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireAuth(t *testing.T) {
	mux, _, _ := newTestMux(t)

	w := doJSON(mux, http.MethodGet, "/api/timesheets", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}

	w = doJSON(mux, http.MethodGet, "/api/timesheets", "tok-unknown", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown token: status = %d", w.Code)
	}
}

func TestSetHoursEndpoint(t *testing.T) {
	mux, _, ts := newTestMux(t)

	body := `{"taskId":"` + ts.Tasks[0].ID + `","dayIndex":0,"hours":"7,5"}`
	w := doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/hours", "tok-1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got model.TimesheetData
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Tasks[0].Hours[0] != 7.5 {
		t.Fatalf("hours = %v, want 7.5", got.Tasks[0].Hours[0])
	}
}

func TestSetHoursOnUnknownTimesheet(t *testing.T) {
	mux, _, ts := newTestMux(t)

	body := `{"taskId":"` + ts.Tasks[0].ID + `","dayIndex":0,"hours":"2"}`
	w := doJSON(mux, http.MethodPost, "/api/timesheets/ts-missing/hours", "tok-1", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSubmitThenGridLocked(t *testing.T) {
	mux, _, ts := newTestMux(t)

	w := doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/status", "tok-1", `{"status":"submitted"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body = %s", w.Code, w.Body.String())
	}
	var got model.TimesheetData
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != model.StatusSubmitted {
		t.Fatalf("status = %s", got.Status)
	}
	if got.TodoStatus != model.StatusDraft {
		t.Fatalf("todo status moved with the grid: %s", got.TodoStatus)
	}

	body := `{"taskId":"` + ts.Tasks[0].ID + `","dayIndex":0,"hours":"3"}`
	w = doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/hours", "tok-1", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("locked grid edit status = %d", w.Code)
	}

	// The objectives list keeps its own lifecycle.
	w = doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/todos", "tok-1", `{"text":"relire le rapport","dayIndex":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("todo edit after grid submit = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestStatusEndpointRejectsUnknownValue(t *testing.T) {
	mux, _, _ := newTestMux(t)

	w := doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/status", "tok-1", `{"status":"archived"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestEmployeeCannotApprove(t *testing.T) {
	mux, _, _ := newTestMux(t)

	w := doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/status", "tok-1", `{"status":"submitted"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d", w.Code)
	}
	w = doJSON(mux, http.MethodPost, "/api/timesheets/ts-1/status", "tok-1", `{"status":"approved"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("employee approval status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSwitchEmployeeForbiddenForEmployee(t *testing.T) {
	mux, _, _ := newTestMux(t)

	w := doJSON(mux, http.MethodPost, "/api/view/employee", "tok-1", `{"employeeId":"e2"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}
