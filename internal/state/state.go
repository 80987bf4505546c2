// Package state is the single source of truth for per-session application
// state: the authenticated profile, the visible employees and timesheets,
// and the catalog, mutated through defined actions instead of being scattered
// across handlers. The optimistic write protocol snapshots and restores
// timesheets through it.
package state

import (
	"sort"
	"sync"

	"feuilletemps/internal/model"
)

// Session holds everything loaded for one authenticated token.
type Session struct {
	mu sync.Mutex

	token  string
	userID string
	email  string

	profile    *model.Profile
	employees  []model.Profile
	timesheets []model.TimesheetData
	catalog    []string
	pending    []model.ChargeableTask

	currentEmployeeID  string
	currentTimesheetID string
}

func (s *Session) Token() string  { return s.token }
func (s *Session) UserID() string { return s.userID }
func (s *Session) Email() string  { return s.email }

func (s *Session) SetProfile(p model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
}

func (s *Session) Profile() (model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return model.Profile{}, false
	}
	return *s.profile, true
}

func (s *Session) SetEmployees(employees []model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append([]model.Profile(nil), employees...)
}

func (s *Session) Employees() []model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Profile(nil), s.employees...)
}

func (s *Session) SetCatalog(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append([]string(nil), names...)
}

func (s *Session) Catalog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.catalog...)
}

// AddCatalogName inserts an approved name keeping the list sorted.
func (s *Session) AddCatalogName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(s.catalog, name)
	sort.Strings(s.catalog)
}

func (s *Session) SetPending(tasks []model.ChargeableTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append([]model.ChargeableTask(nil), tasks...)
}

func (s *Session) Pending() []model.ChargeableTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChargeableTask(nil), s.pending...)
}

// RemovePending drops one proposal from the pending list and returns it, so
// a failed remote decision can put it back.
func (s *Session) RemovePending(id string) (model.ChargeableTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.pending {
		if t.ID == id {
			removed := t
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return removed, true
		}
	}
	return model.ChargeableTask{}, false
}

func (s *Session) AddPending(t model.ChargeableTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, t)
}

func (s *Session) SetTimesheets(sheets []model.TimesheetData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timesheets = make([]model.TimesheetData, len(sheets))
	for i, ts := range sheets {
		s.timesheets[i] = ts.Clone()
	}
}

// Timesheets returns deep copies, newest week first.
func (s *Session) Timesheets() []model.TimesheetData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TimesheetData, len(s.timesheets))
	for i, ts := range s.timesheets {
		out[i] = ts.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate > out[j].StartDate })
	return out
}

// Timesheet returns a deep copy of one record; callers mutate the copy and
// hand it back through ReplaceTimesheet.
func (s *Session) Timesheet(id string) (model.TimesheetData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ts := range s.timesheets {
		if ts.ID == id {
			return ts.Clone(), true
		}
	}
	return model.TimesheetData{}, false
}

// UpsertTimesheet inserts or replaces by id.
func (s *Session) UpsertTimesheet(ts model.TimesheetData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.timesheets {
		if s.timesheets[i].ID == ts.ID {
			s.timesheets[i] = ts.Clone()
			return
		}
	}
	s.timesheets = append(s.timesheets, ts.Clone())
}

// ReplaceTimesheet swaps the stored record for the given value. It is both
// the optimistic apply and the rollback restore.
func (s *Session) ReplaceTimesheet(ts model.TimesheetData) {
	s.UpsertTimesheet(ts)
}

func (s *Session) SetCurrentEmployee(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentEmployeeID = id
}

func (s *Session) CurrentEmployee() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentEmployeeID
}

func (s *Session) SetCurrentTimesheet(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTimesheetID = id
}

func (s *Session) CurrentTimesheet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTimesheetID
}

// Manager tracks live sessions by access token.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Login creates (or resets) the session for a token.
func (m *Manager) Login(token, userID, email string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := &Session{token: token, userID: userID, email: email}
	m.sessions[token] = sess
	return sess
}

func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

// Logout drops all state held for the token.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
