package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v3"

	"asset-inventory/internal/models"
)

// SheetName is the worksheet written by Excel
const SheetName = "Assets"

// Header is the spreadsheet header row
var Header = []string{"Name", "Serial No", "Category", "Assign Date"}

var columnWidths = []float64{25, 15, 15, 15}

// Excel writes assets as a one sheet workbook
func Excel(w io.Writer, assets []models.Asset) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	for i, width := range columnWidths {
		sheet.SetColWidth(i+1, i+1, width)
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.ApplyFont = true

	header := sheet.AddRow()
	for _, title := range Header {
		cell := header.AddCell()
		cell.SetString(title)
		cell.SetStyle(headerStyle)
	}

	for _, a := range assets {
		row := sheet.AddRow()
		row.AddCell().SetString(a.Name)
		row.AddCell().SetString(a.SerialNo)
		row.AddCell().SetString(displayCategory(a))
		row.AddCell().SetString(displayDate(a))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
