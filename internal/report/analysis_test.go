package report

import (
	"math"
	"testing"

	"feuilletemps/internal/model"
)

func chargeableTask(name string, hours ...float64) model.Task {
	return model.Task{ID: "c-" + name, Name: name, Category: model.CategoryChargeable, Hours: padWeek(hours)}
}

func nonChargeableTask(name string, hours ...float64) model.Task {
	return model.Task{ID: "n-" + name, Name: name, Category: model.CategoryNonChargeable, Hours: padWeek(hours)}
}

func padWeek(hours []float64) []float64 {
	out := make([]float64, model.DayCount)
	copy(out, hours)
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateTotalsReconcile(t *testing.T) {
	tasks := []model.Task{
		chargeableTask("Projet Alpha", 8, 8, 4),
		chargeableTask("Projet Beta", 0, 0, 4, 8),
		nonChargeableTask("Réunions", 0, 0, 0, 0, 6),
	}
	a := Calculate(tasks, model.NormalHours, AllDays())

	if !almostEqual(a.ChargeableHours, 32) {
		t.Fatalf("chargeable = %v, want 32", a.ChargeableHours)
	}
	if !almostEqual(a.NonChargeableHours, 6) {
		t.Fatalf("non-chargeable = %v, want 6", a.NonChargeableHours)
	}
	if !almostEqual(a.GrandTotal, a.ChargeableHours+a.NonChargeableHours) {
		t.Fatalf("grand total %v does not reconcile", a.GrandTotal)
	}
	if !almostEqual(a.NormalHoursTotal, 40) {
		t.Fatalf("normal hours = %v, want 40", a.NormalHoursTotal)
	}
	var fromBreakdown float64
	for _, b := range a.Breakdown {
		fromBreakdown += b.Hours
	}
	if !almostEqual(fromBreakdown, a.ChargeableHours) {
		t.Fatalf("breakdown sums to %v, chargeable is %v", fromBreakdown, a.ChargeableHours)
	}
}

func TestCalculateOvertimeNeverNegative(t *testing.T) {
	cases := []struct {
		name  string
		tasks []model.Task
		want  float64
	}{
		{"under baseline", []model.Task{chargeableTask("A", 8, 8, 8, 6)}, 0},
		{"exactly baseline", []model.Task{chargeableTask("A", 8, 8, 8, 8, 8)}, 0},
		{"over baseline", []model.Task{chargeableTask("A", 9, 9, 9, 9, 9)}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Calculate(tc.tasks, model.NormalHours, AllDays())
			if !almostEqual(a.Overtime, tc.want) {
				t.Fatalf("overtime = %v, want %v", a.Overtime, tc.want)
			}
		})
	}
}

func TestCalculateEmptyGrid(t *testing.T) {
	a := Calculate(nil, model.NormalHours, AllDays())
	if a.GrandTotal != 0 || a.ChargeablePercentage != 0 {
		t.Fatalf("empty grid yields total=%v pct=%v", a.GrandTotal, a.ChargeablePercentage)
	}
	if len(a.Breakdown) != 0 {
		t.Fatalf("empty grid yields breakdown %v", a.Breakdown)
	}
}

func TestCalculateBreakdownOrder(t *testing.T) {
	tasks := []model.Task{
		chargeableTask("Alpha", 5),
		chargeableTask("Beta"),
		chargeableTask("Gamma", 10),
	}
	a := Calculate(tasks, model.NormalHours, AllDays())

	if len(a.Breakdown) != 2 {
		t.Fatalf("zero-hour rows must be dropped, got %v", a.Breakdown)
	}
	if a.Breakdown[0].Name != "Gamma" || a.Breakdown[1].Name != "Alpha" {
		t.Fatalf("breakdown order = %v", a.Breakdown)
	}
}

func TestCalculateBreakdownStableTies(t *testing.T) {
	tasks := []model.Task{
		chargeableTask("Premier", 4),
		chargeableTask("Deuxième", 4),
		chargeableTask("Troisième", 4),
	}
	a := Calculate(tasks, model.NormalHours, AllDays())
	want := []string{"Premier", "Deuxième", "Troisième"}
	for i, b := range a.Breakdown {
		if b.Name != want[i] {
			t.Fatalf("tie order broken: %v", a.Breakdown)
		}
	}
}

func TestCalculateDayFilter(t *testing.T) {
	tasks := []model.Task{chargeableTask("A", 8, 6, 4, 2)}
	a := Calculate(tasks, model.NormalHours, []int{0, 2})

	if !almostEqual(a.ChargeableHours, 12) {
		t.Fatalf("filtered chargeable = %v, want 12", a.ChargeableHours)
	}
	if !almostEqual(a.NormalHoursTotal, 16) {
		t.Fatalf("filtered normal = %v, want 16", a.NormalHoursTotal)
	}
}

func TestCalculateSkipsUnnamedChargeable(t *testing.T) {
	tasks := []model.Task{chargeableTask("", 8)}
	a := Calculate(tasks, model.NormalHours, AllDays())
	if a.ChargeableHours != 0 {
		t.Fatalf("unnamed chargeable row counted: %v", a.ChargeableHours)
	}
}

func TestCrossEmployee(t *testing.T) {
	employees := []model.Profile{
		{ID: "adm", Name: "Admin", Role: model.RoleAdmin},
		{ID: "e1", Name: "Alice", Role: model.RoleEmployee},
		{ID: "e2", Name: "Bruno", Role: model.RoleEmployee},
	}
	timesheets := []model.TimesheetData{
		{
			ID: "ts-1", EmployeeID: "e1",
			StartDate: "2026-08-24", EndDate: "2026-08-30",
			Tasks:       []model.Task{chargeableTask("Projet", 8, 8)},
			NormalHours: model.NormalHours,
		},
		{
			ID: "ts-old", EmployeeID: "e2",
			StartDate: "2026-08-17", EndDate: "2026-08-23",
			Tasks:       []model.Task{chargeableTask("Projet", 8)},
			NormalHours: model.NormalHours,
		},
	}

	rows := CrossEmployee(employees, timesheets, "2026-08-24", "2026-08-30")
	if len(rows) != 2 {
		t.Fatalf("expected one row per non-admin employee, got %d", len(rows))
	}
	if rows[0].EmployeeName != "Alice" || !almostEqual(rows[0].GrandTotal, 16) {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	// Bruno has no sheet for that week: zero-filled row, not a missing one.
	if rows[1].EmployeeName != "Bruno" || rows[1].GrandTotal != 0 {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

func TestComputeGridReconciles(t *testing.T) {
	chargeable := []model.Task{chargeableTask("A", 8, 8, 8, 8, 9)}
	nonChargeable := []model.Task{nonChargeableTask("Réunions", 1, 0, 2)}
	g := ComputeGrid(chargeable, nonChargeable, model.NormalHours)

	if !almostEqual(g.Chargeable[model.DayCount], 41) {
		t.Fatalf("chargeable total = %v", g.Chargeable[model.DayCount])
	}
	if !almostEqual(g.NonChargeable[model.DayCount], 3) {
		t.Fatalf("non-chargeable total = %v", g.NonChargeable[model.DayCount])
	}
	for i := range g.General {
		if !almostEqual(g.General[i], g.Chargeable[i]+g.NonChargeable[i]) {
			t.Fatalf("general column %d does not reconcile", i)
		}
	}
	// Grid overtime is unclamped per day: Monday 9-8=1, the weekend column
	// stays 0-0=0, a light Wednesday would go negative.
	if !almostEqual(g.Overtime[0], 1) {
		t.Fatalf("overtime[0] = %v, want 1", g.Overtime[0])
	}
	if !almostEqual(g.Overtime[model.DayCount], 44-40) {
		t.Fatalf("overtime total = %v, want 4", g.Overtime[model.DayCount])
	}
}

func TestComputeGridUnclampedUndercount(t *testing.T) {
	g := ComputeGrid([]model.Task{chargeableTask("A", 4)}, nil, model.NormalHours)
	if !almostEqual(g.Overtime[0], -4) {
		t.Fatalf("overtime[0] = %v, want -4", g.Overtime[0])
	}
}
