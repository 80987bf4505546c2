package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"feuilletemps/internal/gateway"
)

func remoteErr(code, message string) error {
	return &gateway.Error{Kind: gateway.KindSchema, Code: code, Status: 400, Message: message}
}

func TestCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"schema cache wins over everything",
			remoteErr("42703", `Could not find the 'todo_list' column of 'timesheets' in the schema cache`),
			CodeSchemaCache,
		},
		{
			"todo columns",
			remoteErr("42703", `column timesheets.todo_status does not exist`),
			CodeMissingTodoList,
		},
		{
			"status column",
			remoteErr("42703", `column "status" of relation "timesheets" does not exist`),
			CodeStatusColumnMissing,
		},
		{
			"relationship by code",
			remoteErr("PGRST200", "searched for a foreign key"),
			CodeMissingRelationship,
		},
		{
			"relationship by message",
			remoteErr("", "Could not find a relationship between 'chargeable_tasks' and 'profiles'"),
			CodeMissingRelationship,
		},
		{
			"timesheet rls",
			remoteErr("42501", `new row violates row-level security policy for table "timesheets"`),
			CodeTimesheetRLSMissing,
		},
		{
			"is_admin missing",
			remoteErr("42883", "function is_admin() does not exist"),
			CodeTimesheetRLSMissing,
		},
		{
			"bare unknown column",
			remoteErr("42703", "column does not exist"),
			CodeMissingTodoList,
		},
		{
			"anything else",
			remoteErr("", "some other failure"),
			CodeDefault,
		},
		{
			"plain error",
			errors.New("dial tcp: connection refused"),
			CodeDefault,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeFor(tc.err); got != tc.want {
				t.Fatalf("CodeFor = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCodeForWrappedError(t *testing.T) {
	err := fmt.Errorf("update timesheet: %w", remoteErr("PGRST200", "searched for a foreign key"))
	if got := CodeFor(err); got != CodeMissingRelationship {
		t.Fatalf("CodeFor wrapped = %q", got)
	}
}

func TestForFallsBackToDefault(t *testing.T) {
	if got := For("NO_SUCH_CODE"); got.Code != CodeDefault {
		t.Fatalf("For unknown code = %q", got.Code)
	}
}

func TestRemediationsComplete(t *testing.T) {
	codes := []string{
		CodeDefault,
		CodeMissingRelationship,
		CodeStatusColumnMissing,
		CodeMissingTodoList,
		CodeTimesheetRLSMissing,
		CodeSchemaCache,
	}
	for _, code := range codes {
		r := For(code)
		if r.Code != code {
			t.Fatalf("remediation for %q carries code %q", code, r.Code)
		}
		if r.Title == "" || r.Description == "" || strings.TrimSpace(r.Script) == "" {
			t.Fatalf("remediation %q is incomplete: %+v", code, r)
		}
		if len(r.Checklist) == 0 {
			t.Fatalf("remediation %q has no checklist", code)
		}
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := Migrations.ReadDir(MigrationsDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		default:
			t.Fatalf("unexpected migration file %q", e.Name())
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("migrations unbalanced: %d up, %d down", ups, downs)
	}
}
