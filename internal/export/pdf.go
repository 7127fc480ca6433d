package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"asset-inventory/internal/models"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"#", 12},
	{"Asset Name", 68},
	{"Serial No", 40},
	{"Category", 35},
	{"Assign Date", 35},
}

// PDF writes the report table as an A4 document. The core fonts only cover
// cp1252, so text is translated and unsupported runes are dropped.
func PDF(w io.Writer, assets []models.Asset, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(153, 153, 153)
		pdf.CellFormat(0, 10, fmt.Sprintf("My Assets Management System - %d", now.Year()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 12, ReportTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	subtitle := fmt.Sprintf("Generated on %s at %s", now.Format(DisplayDateLayout), now.Format("15:04:05"))
	pdf.CellFormat(0, 8, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(102, 126, 234)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 9, col.title, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFillColor(248, 249, 255)
	for i, a := range assets {
		fill := i%2 == 1
		cells := []string{
			strconv.Itoa(i + 1),
			tr(a.Name),
			tr(a.SerialNo),
			tr(displayCategory(a)),
			displayDate(a),
		}
		for j, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, cells[j], "B", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Assets: %d", len(assets)), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
