package model

import (
	"testing"
	"time"
)

func TestParseHours(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"empty", "", 0},
		{"whitespace", "  ", 0},
		{"integer", "8", 8},
		{"dot decimal", "7.5", 7.5},
		{"comma decimal", "7,5", 7.5},
		{"negative clamped", "-3", 0},
		{"garbage", "abc", 0},
		{"trailing space", " 2,25 ", 2.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseHours(tc.raw); got != tc.want {
				t.Fatalf("ParseHours(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"wednesday", "2026-08-26", "2026-08-24"},
		{"monday", "2026-08-24", "2026-08-24"},
		{"sunday", "2026-08-30", "2026-08-24"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := time.ParseInLocation(DateLayout, tc.in, time.UTC)
			if err != nil {
				t.Fatal(err)
			}
			if got := WeekStart(in).Format(DateLayout); got != tc.want {
				t.Fatalf("WeekStart(%s) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewWeekTimesheet(t *testing.T) {
	now, _ := time.ParseInLocation(DateLayout, "2026-08-26", time.UTC)
	ts := NewWeekTimesheet("emp-1", now)

	if ts.StartDate != "2026-08-24" || ts.EndDate != "2026-08-30" {
		t.Fatalf("week bounds = %s..%s", ts.StartDate, ts.EndDate)
	}
	if ts.Status != StatusDraft || ts.TodoStatus != StatusDraft {
		t.Fatalf("new week must start as draft/draft, got %s/%s", ts.Status, ts.TodoStatus)
	}
	if len(ts.Tasks) != len(DefaultNonChargeableTaskNames) {
		t.Fatalf("expected %d default rows, got %d", len(DefaultNonChargeableTaskNames), len(ts.Tasks))
	}
	for i, task := range ts.Tasks {
		if task.Category != CategoryNonChargeable {
			t.Fatalf("default row %d has category %q", i, task.Category)
		}
		if task.Name != DefaultNonChargeableTaskNames[i] {
			t.Fatalf("default row %d = %q, want %q", i, task.Name, DefaultNonChargeableTaskNames[i])
		}
		if len(task.Hours) != DayCount {
			t.Fatalf("default row %d has %d hour buckets", i, len(task.Hours))
		}
		if task.Total() != 0 {
			t.Fatalf("default row %d starts with %v hours", i, task.Total())
		}
	}
	if len(ts.NormalHours) != DayCount || ts.NormalHours[5] != 0 {
		t.Fatalf("normal hours = %v", ts.NormalHours)
	}
}

func TestCloneIsolation(t *testing.T) {
	ts := NewWeekTimesheet("emp-1", time.Now())
	ts.TodoList = []TodoItem{{ID: "td-1", Text: "préparer la réunion"}}

	clone := ts.Clone()
	clone.Tasks[0].Hours[0] = 12
	clone.TodoList[0].Completed = true
	clone.NormalHours[0] = 0

	if ts.Tasks[0].Hours[0] != 0 {
		t.Fatal("clone shares task hour backing with original")
	}
	if ts.TodoList[0].Completed {
		t.Fatal("clone shares todo backing with original")
	}
	if ts.NormalHours[0] != 8 {
		t.Fatal("clone shares normal hours backing with original")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		role    Role
		isOwner bool
		want    bool
	}{
		{"owner submits draft", StatusDraft, StatusSubmitted, RoleEmployee, true, true},
		{"non-owner cannot submit", StatusDraft, StatusSubmitted, RoleEmployee, false, false},
		{"admin approves submitted", StatusSubmitted, StatusApproved, RoleAdmin, false, true},
		{"employee cannot approve", StatusSubmitted, StatusApproved, RoleEmployee, true, false},
		{"admin devalidates approved", StatusApproved, StatusDraft, RoleAdmin, false, true},
		{"owner cannot devalidate", StatusApproved, StatusDraft, RoleEmployee, true, false},
		{"no draft to approved shortcut", StatusDraft, StatusApproved, RoleAdmin, true, false},
		{"no submitted back to draft", StatusSubmitted, StatusDraft, RoleEmployee, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to, tc.role, tc.isOwner); got != tc.want {
				t.Fatalf("CanTransition(%s, %s, %s, owner=%v) = %v, want %v",
					tc.from, tc.to, tc.role, tc.isOwner, got, tc.want)
			}
		})
	}
}

func TestStatusReadOnly(t *testing.T) {
	if StatusDraft.ReadOnly() {
		t.Fatal("draft must be editable")
	}
	if !StatusSubmitted.ReadOnly() || !StatusApproved.ReadOnly() {
		t.Fatal("submitted and approved must be locked")
	}
}
