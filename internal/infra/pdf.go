package infra

// pdf.go: shift closing report rendered with go-pdf/fpdf.
// Layout (A4 portrait):
//   - header with shift date, type and employee
//   - summary block (units sold, alerts, checklist)
//   - consumed-ingredient table
//
// The output file is saved to storagePath/reporte_{fecha}_{tipo}_{id8}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReportePDF writes the closing report of turno and returns the file path.
func GenerateReportePDF(turno *model.Turno, reporte *model.ReporteTurno, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_%s_%s_%s.pdf", turno.Fecha, turno.Tipo, turno.ID.String()[:8])
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Reporte de cierre de turno"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("%s · Turno %s · %s", turno.Fecha, turno.Tipo, turno.Empleado)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	fin := "-"
	if turno.HoraFin != nil {
		fin = turno.HoraFin.Local().Format("15:04")
	}
	checklist := "sin firmar"
	if reporte.ChecklistPorcentaje != nil {
		checklist = fmt.Sprintf("%d%%", *reporte.ChecklistPorcentaje)
	}
	resumen := [][2]string{
		{"Horario", fmt.Sprintf("%s - %s", turno.HoraInicio.Local().Format("15:04"), fin)},
		{"Unidades vendidas", fmt.Sprintf("%d", reporte.TotalVendido)},
		{"Alertas generadas", fmt.Sprintf("%d", reporte.AlertasGeneradas)},
		{"Checklist", checklist},
		{"Cerrado por", reporte.CerradoPor},
	}
	for _, fila := range resumen {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, tr(fila[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-50, 6, tr(fila[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Consumption table ────────────────────────────────────────────────────
	col1 := contentW * 0.6
	col2 := contentW * 0.25
	col3 := contentW * 0.15

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 7, "Ingrediente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Consumido", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col3, 7, "Unidad", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(reporte.IngredientesConsumidos) == 0 {
		pdf.CellFormat(contentW, 7, tr("Sin consumo registrado"), "1", 1, "C", false, 0, "")
	}
	for _, c := range reporte.IngredientesConsumidos {
		pdf.CellFormat(col1, 6, tr(c.Nombre), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, c.Consumido.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, tr(c.Unidad), "1", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
