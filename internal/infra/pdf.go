package infra

import (
	"fmt"
	"io"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"

	"github.com/go-pdf/fpdf"
)

// RenderDocumentPDF writes a one-page A5 summary of a posted purchase or
// sale: header block, line table and total.
func RenderDocumentPDF(w io.Writer, businessName string, doc *dto.DocumentDetailResponse) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	title := "Purchase"
	party := "Supplier: " + doc.Header.SupplierID
	if doc.Header.Kind == "sale" {
		title = "Sale"
		party = "Customer: " + doc.Header.CustomerID
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, title+" #"+doc.Header.ID, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Date: "+doc.Header.Date, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, party, "", 1, "L", false, 0, "")
	if doc.Header.CreatedBy != "" {
		pdf.CellFormat(contentW, 5, "Posted by: "+doc.Header.CreatedBy, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Lines ─────────────────────────────────────────────────────────────────
	colNo := contentW * 0.08
	colItem := contentW * 0.44
	colQty := contentW * 0.14
	colRate := contentW * 0.16
	colAmt := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colNo, 6, "#", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colItem, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colRate, 6, "Rate", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colAmt, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range doc.Lines {
		name := l.ItemName
		if name == "" {
			name = l.ItemID
		}
		if len(name) > 38 {
			name = name[:37] + "..."
		}
		pdf.CellFormat(colNo, 5, fmt.Sprintf("%d", l.LineNo), "", 0, "L", false, 0, "")
		pdf.CellFormat(colItem, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 5, l.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(colRate, 5, l.Rate.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmt, 5, l.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-colAmt, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(colAmt, 7, doc.Header.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}
