package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"asset-inventory/internal/models"
)

var now = time.Date(2026, 2, 17, 14, 5, 9, 0, time.UTC)

func sample() []models.Asset {
	return []models.Asset{
		{ID: "1", Name: "Laptop Dell XPS", SerialNo: "SN001", AssignDate: "2026-02-17", Category: models.CategoryComputer},
		{ID: "2", Name: "Mystery Box", SerialNo: "SN002", AssignDate: "2026-01-05"},
	}
}

func cellText(t *testing.T, sheet *xlsx.Sheet, row, col int) string {
	t.Helper()
	r, err := sheet.Row(row)
	require.NoError(t, err)
	return r.GetCell(col).String()
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "assets_2026-02-17.xlsx", FileName(KindExcel, now))
	assert.Equal(t, "assets_2026-02-17.pdf", FileName(KindPDF, now))
	assert.Equal(t, "assets_2026-02-17.html", FileName(KindHTML, now))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"xlsx": KindExcel, "Excel": KindExcel, "html": KindHTML, "print": KindHTML, " PDF ": KindPDF} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("csv")
	assert.Error(t, err)
}

func TestExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, sample()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, SheetName, sheet.Name)
	assert.Equal(t, 3, sheet.MaxRow)

	for col, title := range Header {
		assert.Equal(t, title, cellText(t, sheet, 0, col))
	}
	assert.Equal(t, "Laptop Dell XPS", cellText(t, sheet, 1, 0))
	assert.Equal(t, "SN001", cellText(t, sheet, 1, 1))
	assert.Equal(t, "Computer", cellText(t, sheet, 1, 2))
	assert.Equal(t, "17/02/2026", cellText(t, sheet, 1, 3))

	// empty category is written as Other
	assert.Equal(t, "Other", cellText(t, sheet, 2, 2))
	assert.Equal(t, "05/01/2026", cellText(t, sheet, 2, 3))
}

func TestExcelEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, file.Sheets[0].MaxRow)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sample(), now))
	out := buf.String()

	assert.Contains(t, out, ReportTitle)
	assert.Contains(t, out, "Generated on 17/02/2026 at 14:05:09")
	assert.Contains(t, out, "<td><strong>Laptop Dell XPS</strong></td>")
	assert.Contains(t, out, "<td>17/02/2026</td>")
	assert.Contains(t, out, "<td>Other</td>")
	assert.Contains(t, out, "Total Assets: 2")
	assert.Contains(t, out, "My Assets Management System - 2026")
	assert.Equal(t, 2, strings.Count(out, "<tr>\n        <td>"))
}

func TestHTMLEscapes(t *testing.T) {
	assets := []models.Asset{{ID: "1", Name: "<script>alert(1)</script>", SerialNo: "A&B", AssignDate: "2026-02-17"}}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, assets, now))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "A&amp;B")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sample(), now))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, KindHTML, sample(), now))
	assert.Contains(t, buf.String(), ReportTitle)

	assert.Error(t, Write(&buf, Kind("csv"), sample(), now))
}

func TestDisplayDateKeepsUnparseable(t *testing.T) {
	assert.Equal(t, "someday", displayDate(models.Asset{AssignDate: "someday"}))
}
