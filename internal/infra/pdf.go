package infra

// pdf.go — shift-close report generation using go-pdf/fpdf.
// A5 portrait report with the reconciliation totals, per-product breakdown
// and the cash variance, written to storagePath/turno_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"barpos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateShiftReportPDF renders the reconciliation report of a closed shift.
// Returns the absolute path to the generated file.
func GenerateShiftReportPDF(session *model.ShiftSession, businessName, storagePath string) (string, error) {
	if session.Report == nil {
		return "", fmt.Errorf("pdf: session %s has no report", session.ID)
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("turno_%s.pdf", session.ID))
	report := session.Report

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Cierre de turno", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Apertura: "+session.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if session.ClosedAt != nil {
		pdf.CellFormat(contentW, 4, "Cierre: "+session.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	if session.ClosedByName != nil {
		pdf.CellFormat(contentW, 4, "Cerrado por: "+*session.ClosedByName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Product breakdown ────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.18
	col3 := contentW * 0.36

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Vendidos", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Ingreso", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range report.Products {
		pdf.CellFormat(col1, 5, p.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", p.Sold), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$ "+p.Revenue.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(contentW*0.6, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, value, "", 1, "R", false, 0, "")
	}

	row("Ingresos", "$ "+report.Revenue.StringFixed(2), false)
	row("Costo", "$ "+report.Cost.StringFixed(2), false)
	row("Ganancia", "$ "+report.Profit.StringFixed(2), true)
	row("Ventas fiadas", "- $ "+report.CreditSales.StringFixed(2), false)
	row("Pagos fiao en efectivo", "+ $ "+report.CashPayments.StringFixed(2), false)
	row("Pagos fiao no efectivo", "$ "+report.NonCashPayments.StringFixed(2), false)
	pdf.Ln(1)
	row("Efectivo a entregar", "$ "+report.CashToDeliver.StringFixed(2), true)
	if session.CountedCash != nil {
		row("Efectivo contado", "$ "+session.CountedCash.StringFixed(2), false)
	}
	row("Desvío", "$ "+report.Variance.StringFixed(2), true)

	if session.ClosingNote != nil && *session.ClosingNote != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Nota: "+*session.ClosingNote, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write report: %w", err)
	}
	return filePath, nil
}
