package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"feuilletemps/internal/model"
	"feuilletemps/internal/report"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheetWriter(name string) *sheetWriter {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", name)
	return &sheetWriter{f: f, sheet: name}
}

func (w *sheetWriter) write(cells ...any) error {
	w.row++
	for i, c := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell, c); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) blank() {
	w.row++
}

func (w *sheetWriter) bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *sheetWriter) numbers(label string, values []float64) error {
	cells := make([]any, 0, len(values)+1)
	cells = append(cells, label)
	for _, v := range values {
		cells = append(cells, v)
	}
	return w.write(cells...)
}

// TimesheetXLSX renders the same grid as TimesheetCSV as a workbook.
func TimesheetXLSX(ts model.TimesheetData, employeeName string) ([]byte, error) {
	chargeable, nonChargeable := ts.TasksByCategory()
	grid := report.ComputeGrid(chargeable, nonChargeable, ts.NormalHours)

	w := newSheetWriter("Feuille de temps")
	steps := []error{
		w.write("Feuille de temps pour", employeeName),
		w.write("Période du", frDate(ts.StartDate), "au", frDate(ts.EndDate)),
	}
	w.blank()

	header := []any{"Tâche"}
	for _, d := range model.DaysOfWeek {
		header = append(header, d)
	}
	steps = append(steps, w.write(append(header, "Total")...))

	taskRow := func(t model.Task) error {
		cells := []any{t.Name}
		for _, h := range t.Hours {
			cells = append(cells, h)
		}
		return w.write(append(cells, t.Total())...)
	}

	steps = append(steps, w.write(string(model.CategoryChargeable)))
	for _, t := range chargeable {
		steps = append(steps, taskRow(t))
	}
	steps = append(steps, w.numbers("Sous-Total (I)", grid.Chargeable))
	w.blank()

	steps = append(steps, w.write(string(model.CategoryNonChargeable)))
	for _, t := range nonChargeable {
		steps = append(steps, taskRow(t))
	}
	steps = append(steps, w.numbers("Sous-Total (II)", grid.NonChargeable))
	w.blank()

	steps = append(steps,
		w.numbers("TOTAL GENERAL (I) + (II)", grid.General),
		w.numbers("Total Heures Normales", grid.Normal),
		w.numbers("Heures supplémentaires", grid.Overtime),
	)
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return w.bytes()
}

// AnalysisXLSX renders the single-employee performance summary as a
// workbook.
func AnalysisXLSX(a report.Analysis, employeeName, period string) ([]byte, error) {
	w := newSheetWriter("Analyse")
	steps := []error{
		w.write("Analyse de performance pour", employeeName),
		w.write("Période", period),
	}
	w.blank()
	steps = append(steps,
		w.write("Indicateur", "Valeur"),
		w.write("Heures totales travaillées", a.GrandTotal),
		w.write("Taux d'heures chargeables", formatPercent(a.ChargeablePercentage)+"%"),
		w.write("Heures chargeables", a.ChargeableHours),
		w.write("Heures non chargeables", a.NonChargeableHours),
		w.write("Heures supplémentaires", a.Overtime),
	)
	w.blank()
	steps = append(steps,
		w.write("Répartition du temps chargeable"),
		w.write("Tâche", "Heures"),
	)
	for _, t := range a.Breakdown {
		steps = append(steps, w.write(t.Name, t.Hours))
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return w.bytes()
}

// AdminAnalysisXLSX renders the cross-employee comparison as a workbook.
func AdminAnalysisXLSX(rows []report.EmployeeAnalysis, period string) ([]byte, error) {
	w := newSheetWriter("Analyse globale")
	steps := []error{
		w.write("Analyse globale des collaborateurs"),
		w.write("Période", period),
	}
	w.blank()
	steps = append(steps, w.write(
		"Collaborateur",
		"Heures totales travaillées",
		"Taux d'heures chargeables (%)",
		"Heures chargeables",
		"Heures non chargeables",
		"Heures supplémentaires",
	))
	for _, r := range rows {
		steps = append(steps, w.write(
			r.EmployeeName,
			r.GrandTotal,
			r.ChargeablePercentage,
			r.ChargeableHours,
			r.NonChargeableHours,
			r.Overtime,
		))
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return w.bytes()
}

// DetailedXLSX renders the date-range report as a workbook.
func DetailedXLSX(rep report.DetailedReport, groupBy report.GroupBy) ([]byte, error) {
	w := newSheetWriter("Rapport détaillé")

	headers := DetailedHeaders(groupBy)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	steps := []error{w.write(cells...)}

	for _, r := range rep.Rows {
		switch groupBy {
		case report.GroupByEmployee:
			steps = append(steps, w.write(r.Employee, r.Task, r.Hours))
		case report.GroupByDay:
			steps = append(steps, w.write(frDate(r.Date), r.Employee, r.Task, r.Hours))
		default:
			steps = append(steps, w.write(r.Task, r.Employee, r.Hours))
		}
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return w.bytes()
}
