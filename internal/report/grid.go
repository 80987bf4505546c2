package report

import "feuilletemps/internal/model"

// Grid holds the footer rows of the full timesheet table: six day columns
// plus a total column each. The overtime row is per-day and unclamped; the
// grid shows undercounts as negatives, unlike the analysis Overtime figure.
type Grid struct {
	Chargeable    []float64 `json:"chargeable"`
	NonChargeable []float64 `json:"nonChargeable"`
	General       []float64 `json:"general"`
	Normal        []float64 `json:"normal"`
	Overtime      []float64 `json:"overtime"`
}

// columnTotals sums tasks per day bucket and appends the grand total, giving
// DayCount+1 columns.
func columnTotals(tasks []model.Task) []float64 {
	cols := make([]float64, model.DayCount+1)
	for _, t := range tasks {
		for i, h := range t.Hours {
			if i < model.DayCount {
				cols[i] += h
			}
		}
	}
	for i := 0; i < model.DayCount; i++ {
		cols[model.DayCount] += cols[i]
	}
	return cols
}

// ComputeGrid derives the sub-total, general total, normal hours and
// overtime footer rows. Row sums and column sums reconcile to the same grand
// total by construction.
func ComputeGrid(chargeable, nonChargeable []model.Task, normalHours []float64) Grid {
	g := Grid{
		Chargeable:    columnTotals(chargeable),
		NonChargeable: columnTotals(nonChargeable),
	}

	g.General = make([]float64, model.DayCount+1)
	for i := range g.General {
		g.General[i] = g.Chargeable[i] + g.NonChargeable[i]
	}

	g.Normal = make([]float64, model.DayCount+1)
	for i := 0; i < model.DayCount && i < len(normalHours); i++ {
		g.Normal[i] = normalHours[i]
		g.Normal[model.DayCount] += normalHours[i]
	}

	g.Overtime = make([]float64, model.DayCount+1)
	for i := range g.Overtime {
		g.Overtime[i] = g.General[i] - g.Normal[i]
	}
	return g
}
