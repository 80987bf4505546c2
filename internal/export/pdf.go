package export

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"feuilletemps/internal/model"
	"feuilletemps/internal/report"
)

func newDocument(title, subtitle string) pdf.Maroto {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(subtitle, props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})
	return m
}

func tableProps(sizes []uint) props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: sizes,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: sizes,
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	}
}

func sectionTitle(m pdf.Maroto, title string) {
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  12,
				Align: consts.Left,
			})
		})
	})
}

func footerLine(m pdf.Maroto, text string) {
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{
				Top:   0,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  10,
			})
		})
	})
}

func render(m pdf.Maroto) ([]byte, error) {
	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// TimesheetPDF renders the weekly grid as a printable document, one table
// per category with sub-total footers, then the general totals.
func TimesheetPDF(ts model.TimesheetData, employeeName string) ([]byte, error) {
	chargeable, nonChargeable := ts.TasksByCategory()
	grid := report.ComputeGrid(chargeable, nonChargeable, ts.NormalHours)

	m := newDocument(
		fmt.Sprintf("Feuille de temps pour %s", employeeName),
		fmt.Sprintf("Période du %s au %s", frDate(ts.StartDate), frDate(ts.EndDate)),
	)

	headers := append([]string{"Tâche"}, model.DaysOfWeek...)
	headers = append(headers, "Total")
	sizes := []uint{4, 1, 1, 1, 1, 1, 1, 2}

	taskRows := func(tasks []model.Task) [][]string {
		rows := make([][]string, 0, len(tasks))
		for _, t := range tasks {
			row := []string{t.Name}
			for _, h := range t.Hours {
				row = append(row, formatNumber(h))
			}
			rows = append(rows, append(row, formatNumber(t.Total())))
		}
		return rows
	}

	sectionTitle(m, string(model.CategoryChargeable))
	m.TableList(headers, taskRows(chargeable), tableProps(sizes))
	footerLine(m, fmt.Sprintf("Sous-Total (I): %s", formatNumber(grid.Chargeable[model.DayCount])))

	sectionTitle(m, string(model.CategoryNonChargeable))
	m.TableList(headers, taskRows(nonChargeable), tableProps(sizes))
	footerLine(m, fmt.Sprintf("Sous-Total (II): %s", formatNumber(grid.NonChargeable[model.DayCount])))

	m.Row(5, func() {})
	footerLine(m, fmt.Sprintf("TOTAL GENERAL (I) + (II): %s", formatNumber(grid.General[model.DayCount])))
	footerLine(m, fmt.Sprintf("Total Heures Normales: %s", formatNumber(grid.Normal[model.DayCount])))
	footerLine(m, fmt.Sprintf("Heures supplémentaires: %s", formatNumber(grid.Overtime[model.DayCount])))
	return render(m)
}

// AnalysisPDF renders the single-employee performance summary.
func AnalysisPDF(a report.Analysis, employeeName, period string) ([]byte, error) {
	m := newDocument(
		fmt.Sprintf("Analyse de performance pour %s", employeeName),
		period,
	)

	sizes := []uint{8, 4}
	m.TableList([]string{"Indicateur", "Valeur"}, [][]string{
		{"Heures totales travaillées", formatNumber(a.GrandTotal)},
		{"Taux d'heures chargeables", formatPercent(a.ChargeablePercentage) + "%"},
		{"Heures chargeables", formatNumber(a.ChargeableHours)},
		{"Heures non chargeables", formatNumber(a.NonChargeableHours)},
		{"Heures supplémentaires", formatNumber(a.Overtime)},
	}, tableProps(sizes))

	sectionTitle(m, "Répartition du temps chargeable")
	rows := make([][]string, 0, len(a.Breakdown))
	for _, t := range a.Breakdown {
		rows = append(rows, []string{t.Name, formatNumber(t.Hours)})
	}
	m.TableList([]string{"Tâche", "Heures"}, rows, tableProps(sizes))
	return render(m)
}

// AdminAnalysisPDF renders the cross-employee comparison table.
func AdminAnalysisPDF(rows []report.EmployeeAnalysis, period string) ([]byte, error) {
	m := newDocument("Analyse globale des collaborateurs", period)

	headers := []string{
		"Collaborateur",
		"Heures totales",
		"Taux chargeable (%)",
		"Chargeables",
		"Non chargeables",
		"Supplémentaires",
	}
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{
			r.EmployeeName,
			formatNumber(r.GrandTotal),
			formatPercent(r.ChargeablePercentage),
			formatNumber(r.ChargeableHours),
			formatNumber(r.NonChargeableHours),
			formatNumber(r.Overtime),
		})
	}
	m.TableList(headers, body, tableProps([]uint{3, 2, 2, 2, 2, 1}))
	return render(m)
}

// DetailedPDF renders the date-range report with the columns of its
// grouping and a grand-total footer.
func DetailedPDF(rep report.DetailedReport, groupBy report.GroupBy, period string) ([]byte, error) {
	m := newDocument("Rapport détaillé", period)

	headers := DetailedHeaders(groupBy)
	body := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		switch groupBy {
		case report.GroupByEmployee:
			body = append(body, []string{r.Employee, r.Task, formatNumber(r.Hours)})
		case report.GroupByDay:
			body = append(body, []string{frDate(r.Date), r.Employee, r.Task, formatNumber(r.Hours)})
		default:
			body = append(body, []string{r.Task, r.Employee, formatNumber(r.Hours)})
		}
	}
	sizes := []uint{5, 5, 2}
	if groupBy == report.GroupByDay {
		sizes = []uint{3, 4, 3, 2}
	}
	m.TableList(headers, body, tableProps(sizes))

	m.Row(5, func() {})
	footerLine(m, fmt.Sprintf("Total: %s", formatNumber(rep.Total)))
	return render(m)
}
