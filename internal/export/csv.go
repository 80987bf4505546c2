// Package export serializes the computed report tables. CSV follows the
// spreadsheet-friendly convention of the original exports: UTF-8 with a
// byte-order mark, semicolon delimiter, decimal comma, and double-quote
// wrapping (with doubled inner quotes) for fields carrying the delimiter, a
// quote, or a newline.
package export

import (
	"strconv"
	"strings"
	"time"

	"feuilletemps/internal/model"
	"feuilletemps/internal/report"
)

const bom = "\uFEFF"

// formatNumber renders hours with a decimal comma and no trailing zeros.
func formatNumber(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", ",")
}

// formatPercent renders a percentage with exactly one decimal.
func formatPercent(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 1, 64), ".", ",")
}

// frDate converts a YYYY-MM-DD wire date to the display format.
func frDate(iso string) string {
	t, err := time.ParseInLocation(model.DateLayout, iso, time.UTC)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// quote always wraps, doubling inner quotes. Used for free-text names.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// escape wraps only when the field would break the delimited layout.
func escape(s string) string {
	if strings.ContainsAny(s, ";\"\n") {
		return quote(s)
	}
	return s
}

type csvBuilder struct {
	sb strings.Builder
}

func (b *csvBuilder) row(fields ...string) {
	b.sb.WriteString(strings.Join(fields, ";"))
	b.sb.WriteString("\n")
}

func (b *csvBuilder) blank() {
	b.sb.WriteString("\n")
}

func (b *csvBuilder) bytes() []byte {
	return []byte(bom + b.sb.String())
}

func numberRow(label string, values []float64) []string {
	fields := make([]string, 0, len(values)+1)
	fields = append(fields, label)
	for _, v := range values {
		fields = append(fields, formatNumber(v))
	}
	return fields
}

// TimesheetCSV renders the full weekly grid: both category blocks with their
// sub-totals, then the general total, normal hours, and per-day overtime
// footer rows.
func TimesheetCSV(ts model.TimesheetData, employeeName string) []byte {
	chargeable, nonChargeable := ts.TasksByCategory()
	grid := report.ComputeGrid(chargeable, nonChargeable, ts.NormalHours)

	var b csvBuilder
	b.row("Feuille de temps pour", employeeName)
	b.row("Période du", frDate(ts.StartDate), "au", frDate(ts.EndDate))
	b.blank()

	header := append([]string{"Tâche"}, model.DaysOfWeek...)
	b.row(append(header, "Total")...)

	taskRow := func(t model.Task) []string {
		fields := []string{quote(t.Name)}
		for _, h := range t.Hours {
			fields = append(fields, formatNumber(h))
		}
		return append(fields, formatNumber(t.Total()))
	}

	b.row(quote(string(model.CategoryChargeable)))
	for _, t := range chargeable {
		b.row(taskRow(t)...)
	}
	b.row(numberRow("Sous-Total (I)", grid.Chargeable)...)
	b.blank()

	b.row(quote(string(model.CategoryNonChargeable)))
	for _, t := range nonChargeable {
		b.row(taskRow(t)...)
	}
	b.row(numberRow("Sous-Total (II)", grid.NonChargeable)...)
	b.blank()

	b.row(numberRow("TOTAL GENERAL (I) + (II)", grid.General)...)
	b.row(numberRow("Total Heures Normales", grid.Normal)...)
	b.row(numberRow("Heures supplémentaires", grid.Overtime)...)
	return b.bytes()
}

// AnalysisCSV renders the single-employee performance summary.
func AnalysisCSV(a report.Analysis, employeeName, period string) []byte {
	var b csvBuilder
	b.row("Analyse de performance pour", employeeName)
	b.row("Période", period)
	b.blank()

	b.row("Indicateur", "Valeur")
	b.row("Heures totales travaillées", formatNumber(a.GrandTotal))
	b.row("Taux d'heures chargeables", formatPercent(a.ChargeablePercentage)+"%")
	b.row("Heures chargeables", formatNumber(a.ChargeableHours))
	b.row("Heures non chargeables", formatNumber(a.NonChargeableHours))
	b.row("Heures supplémentaires", formatNumber(a.Overtime))
	b.blank()

	b.row("Répartition du temps chargeable")
	b.row("Tâche", "Heures")
	for _, t := range a.Breakdown {
		b.row(quote(t.Name), formatNumber(t.Hours))
	}
	return b.bytes()
}

// AdminAnalysisCSV renders the cross-employee comparison table.
func AdminAnalysisCSV(rows []report.EmployeeAnalysis, period string) []byte {
	var b csvBuilder
	b.row("Analyse globale des collaborateurs")
	b.row("Période", period)
	b.blank()

	b.row(
		"Collaborateur",
		"Heures totales travaillées",
		"Taux d'heures chargeables (%)",
		"Heures chargeables",
		"Heures non chargeables",
		"Heures supplémentaires",
	)
	for _, r := range rows {
		b.row(
			quote(r.EmployeeName),
			formatNumber(r.GrandTotal),
			formatPercent(r.ChargeablePercentage),
			formatNumber(r.ChargeableHours),
			formatNumber(r.NonChargeableHours),
			formatNumber(r.Overtime),
		)
	}
	return b.bytes()
}

// DetailedHeaders returns the column labels for a grouping, matching the
// on-screen table.
func DetailedHeaders(groupBy report.GroupBy) []string {
	switch groupBy {
	case report.GroupByEmployee:
		return []string{"Collaborateur", "Tâche", "Heures Totales"}
	case report.GroupByDay:
		return []string{"Date", "Collaborateur", "Tâche", "Heures"}
	default:
		return []string{"Tâche", "Collaborateur", "Heures Totales"}
	}
}

func detailedCells(r report.DetailedRow, groupBy report.GroupBy) []string {
	switch groupBy {
	case report.GroupByEmployee:
		return []string{escape(r.Employee), escape(r.Task), formatNumber(r.Hours)}
	case report.GroupByDay:
		return []string{frDate(r.Date), escape(r.Employee), escape(r.Task), formatNumber(r.Hours)}
	default:
		return []string{escape(r.Task), escape(r.Employee), formatNumber(r.Hours)}
	}
}

// DetailedCSV renders the date-range report with the headers of its
// grouping.
func DetailedCSV(rep report.DetailedReport, groupBy report.GroupBy) []byte {
	var b csvBuilder
	b.row(DetailedHeaders(groupBy)...)
	for _, r := range rep.Rows {
		b.row(detailedCells(r, groupBy)...)
	}
	return b.bytes()
}
