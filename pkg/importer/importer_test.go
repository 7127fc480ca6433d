package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"asset-inventory/internal/export"
	"asset-inventory/internal/models"
)

func workbook(t *testing.T, sheetName string, rows ...[]string) *bytes.Reader {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestReadDraftsRoundTrip(t *testing.T) {
	assets := []models.Asset{
		{ID: "1", Name: "Laptop Dell XPS", SerialNo: "SN001", AssignDate: "2026-02-17", Category: models.CategoryComputer},
		{ID: "2", Name: "Router", SerialNo: "SN002", AssignDate: "2026-01-05"},
	}
	var buf bytes.Buffer
	require.NoError(t, export.Excel(&buf, assets))

	result, err := ReadDrafts(&buf, Options{})
	require.NoError(t, err)

	assert.Equal(t, export.SheetName, result.Sheet)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, []models.Asset{
		{Name: "Laptop Dell XPS", SerialNo: "SN001", AssignDate: "2026-02-17", Category: models.CategoryComputer},
		{Name: "Router", SerialNo: "SN002", AssignDate: "2026-01-05", Category: models.CategoryOther},
	}, result.Assets())
	assert.Equal(t, 2, result.Drafts[0].Row)
}

func TestReadDraftsHeaderAliases(t *testing.T) {
	r := workbook(t, "Equipment",
		[]string{"Asset Name", "S/N", "Assigned", "Type"},
		[]string{"Phone", "P-1", "2026-02-01", "Mobile"},
	)

	result, err := ReadDrafts(r, Options{})
	require.NoError(t, err)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, models.Asset{Name: "Phone", SerialNo: "P-1", AssignDate: "2026-02-01", Category: models.CategoryMobile}, result.Drafts[0].Asset)
}

func TestReadDraftsRowErrors(t *testing.T) {
	r := workbook(t, "Assets",
		[]string{"Name", "Serial Number", "Category", "Assign Date"},
		[]string{"Keyboard", "K-1", "Peripheral", "03/02/2026"},
		[]string{"", "", "", ""},
		[]string{"X", "K-2", "", "2026-02-03"},
		[]string{"Mouse", "", "Peripheral", "2026-02-03"},
		[]string{"Dock", "D-1", "", "next tuesday"},
	)

	result, err := ReadDrafts(r, Options{})
	require.NoError(t, err)

	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "2026-02-03", result.Drafts[0].Asset.AssignDate)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3, result.Errors)
	require.Len(t, result.Samples, 3)

	assert.Equal(t, RowError{Sheet: "Assets", Row: 4, Message: models.MsgNameLength}, result.Samples[0])
	assert.Equal(t, 5, result.Samples[1].Row)
	assert.Equal(t, models.MsgSerialNoRequired, result.Samples[1].Message)
	assert.True(t, strings.HasPrefix(result.Samples[2].Message, "invalid date format"))
}

func TestReadDraftsMaxErrors(t *testing.T) {
	rows := [][]string{{"Name", "Serial No", "Assign Date"}}
	for i := 0; i < 4; i++ {
		rows = append(rows, []string{"", "SN", "2026-01-01"})
	}

	result, err := ReadDrafts(workbook(t, "Assets", rows...), Options{MaxErrors: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyErrors)
	assert.Equal(t, 3, result.Errors)
}

func TestReadDraftsMissingColumns(t *testing.T) {
	_, err := ReadDrafts(workbook(t, "Assets", []string{"Name", "Category"}), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Serial No")
	assert.Contains(t, err.Error(), "Assign Date")
}

func TestReadDraftsSheetSelection(t *testing.T) {
	_, err := ReadDrafts(workbook(t, "Assets", []string{"Name", "Serial No", "Assign Date"}), Options{Sheet: "Other"})
	assert.Error(t, err)
}

func TestReadDraftsNotAWorkbook(t *testing.T) {
	_, err := ReadDrafts(strings.NewReader("name,serial\n"), Options{})
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := map[string]string{
		"2026-02-17":          "2026-02-17",
		"17/02/2026":          "2026-02-17",
		"2026-02-17 10:11:12": "2026-02-17",
		"46070":               "2026-02-17",
	}
	for in, want := range tests {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDate("02-17-2026")
	assert.Error(t, err)
}
