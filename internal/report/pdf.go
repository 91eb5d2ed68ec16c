package report

import (
	"fmt"

	"github.com/eljumillano/deposit-reports-go/internal/domain"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PDFRenderer builds the shortage report document: company header,
// report info, a summary block and the shortages table, or a
// "no significant differences" page when the list is empty.
type PDFRenderer struct {
	companyName string
	minShortage decimal.Decimal
}

// NewPDFRenderer creates a renderer with the configured threshold, which
// is printed in the criteria line.
func NewPDFRenderer(companyName string, minShortage decimal.Decimal) *PDFRenderer {
	return &PDFRenderer{companyName: companyName, minShortage: minShortage}
}

// Render writes the report for dateISO to path.
func (r *PDFRenderer) Render(path, dateISO string, rows []domain.DepositRecord) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 10, tr(r.companyName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 8, tr("Reporte de Diferencias en Depósitos"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Report info
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 6, tr("Fecha del Reporte: "+dateISO), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Criterio: Faltantes >= "+FormatARS(r.minShortage)), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(39, 174, 96)
		pdf.CellFormat(0, 8, tr("No se registraron diferencias significativas."), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 8, tr("Todos los depósitos están dentro del rango esperado."), "", 1, "C", false, 0, "")
		return pdf.OutputFileAndClose(path)
	}

	// Summary
	totalShortfall := decimal.Zero
	for _, row := range rows {
		totalShortfall = totalShortfall.Add(row.Delta.Abs())
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(231, 76, 60)
	pdf.CellFormat(0, 6, tr("Resumen:"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d depósitos con diferencias significativas", len(rows))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Total faltante: "+FormatARS(totalShortfall)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Table header
	colWidths := []float64{30, 45, 45, 45}
	headers := []string{"Reparto", "Esperado", "Real", "Diferencia"}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 10, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Rows, striped
	pdf.SetFont("Helvetica", "", 10)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(248, 249, 250)
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(colWidths[0], 9, tr(row.RouteNumber), "1", 0, "C", true, 0, "")
		pdf.CellFormat(colWidths[1], 9, tr(FormatARS(row.ExpectedAmount)), "1", 0, "R", true, 0, "")
		pdf.CellFormat(colWidths[2], 9, tr(FormatARS(row.ActualAmount)), "1", 0, "R", true, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(231, 76, 60)
		pdf.CellFormat(colWidths[3], 9, tr(FormatARS(row.Delta)), "1", 0, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(-1)
	}

	// Footer
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(149, 165, 166)
	pdf.CellFormat(0, 5, tr("Generado automáticamente el "+dateISO), "", 1, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}
