// Package importer reads asset drafts from an .xlsx workbook. It accepts the
// layout written by the export package as well as common header variants.
package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"asset-inventory/internal/models"
)

// DefaultMaxErrors bounds how many bad rows are tolerated
const DefaultMaxErrors = 50

// ErrTooManyErrors is returned once more than MaxErrors rows failed
var ErrTooManyErrors = errors.New("too many errors, stopping import")

// Options defines the configuration for a workbook read
type Options struct {
	// Sheet selects a worksheet by name, the first sheet when empty
	Sheet     string
	MaxErrors int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Draft is one valid asset read from the workbook
type Draft struct {
	Row   int          `json:"row"`
	Asset models.Asset `json:"asset"`
}

// Result contains the drafts and statistics of one read
type Result struct {
	Sheet   string     `json:"sheet"`
	Drafts  []Draft    `json:"drafts"`
	Skipped int        `json:"skipped"`
	Errors  int        `json:"errors"`
	Samples []RowError `json:"error_samples,omitempty"`
}

// Assets returns the draft assets in row order
func (r Result) Assets() []models.Asset {
	out := make([]models.Asset, 0, len(r.Drafts))
	for _, d := range r.Drafts {
		out = append(out, d.Asset)
	}
	return out
}

type column int

const (
	colName column = iota
	colSerial
	colCategory
	colDate
)

var aliases = map[column][]string{
	colName:     {"Name", "Asset Name"},
	colSerial:   {"Serial No", "Serial Number", "Serial", "S/N", "SerialNo"},
	colCategory: {"Category", "Type"},
	colDate:     {"Assign Date", "Assigned", "Date", "AssignDate"},
}

var dateLayouts = []string{
	models.DateLayout,
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// ReadDrafts parses the workbook in r. Each data row becomes a draft once it
// passes asset validation; blank rows are skipped and bad rows are counted
// with a sample kept per row.
func ReadDrafts(r io.Reader, opts Options) (Result, error) {
	if opts.MaxErrors == 0 {
		opts.MaxErrors = DefaultMaxErrors
	}
	result := Result{Drafts: []Draft{}}

	data, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("failed to read Excel file: %w", err)
	}
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return result, fmt.Errorf("failed to open Excel file: %w", err)
	}

	sheet, err := pickSheet(file, opts.Sheet)
	if err != nil {
		return result, err
	}
	result.Sheet = sheet.Name

	header, err := readHeader(sheet)
	if err != nil {
		return result, err
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		values := make(map[column]string, len(header))
		for col, idx := range header {
			if idx < sheet.MaxCol {
				if v := strings.TrimSpace(row.GetCell(idx).String()); v != "" {
					values[col] = v
				}
			}
		}
		if len(values) == 0 {
			result.Skipped++
			continue
		}

		asset, err := buildDraft(values)
		if err != nil {
			result.Errors++
			result.Samples = append(result.Samples, RowError{
				Sheet:   sheet.Name,
				Row:     rowIdx + 1,
				Message: err.Error(),
			})
			if result.Errors > opts.MaxErrors {
				return result, fmt.Errorf("%w (%d)", ErrTooManyErrors, result.Errors)
			}
			continue
		}
		result.Drafts = append(result.Drafts, Draft{Row: rowIdx + 1, Asset: asset})
	}

	return result, nil
}

func pickSheet(file *xlsx.File, name string) (*xlsx.Sheet, error) {
	if len(file.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	if name == "" {
		return file.Sheets[0], nil
	}
	if sheet, ok := file.Sheet[name]; ok {
		return sheet, nil
	}
	return nil, fmt.Errorf("sheet %q not found", name)
}

// readHeader maps each known column to its index in the first row
func readHeader(sheet *xlsx.Sheet) (map[column]int, error) {
	if sheet.MaxRow == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet.Name)
	}
	row, err := sheet.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	header := make(map[column]int)
	for idx := 0; idx < sheet.MaxCol; idx++ {
		title := strings.TrimSpace(row.GetCell(idx).String())
		if title == "" {
			continue
		}
		for col, names := range aliases {
			if _, seen := header[col]; seen {
				continue
			}
			for _, alias := range names {
				if strings.EqualFold(alias, title) {
					header[col] = idx
					break
				}
			}
		}
	}

	var missing []string
	for _, col := range []column{colName, colSerial, colDate} {
		if _, ok := header[col]; !ok {
			missing = append(missing, aliases[col][0])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet %q is missing columns: %s", sheet.Name, strings.Join(missing, ", "))
	}
	return header, nil
}

func buildDraft(values map[column]string) (models.Asset, error) {
	asset := models.Asset{
		Name:     values[colName],
		SerialNo: values[colSerial],
		Category: models.Category(values[colCategory]),
	}
	if asset.Category == "" {
		asset.Category = models.CategoryOther
	}

	if raw, ok := values[colDate]; ok {
		date, err := parseDate(raw)
		if err != nil {
			return asset, err
		}
		asset.AssignDate = date
	}

	if fields := models.Validate(asset); fields != nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fields[k])
		}
		return asset, errors.New(strings.Join(parts, "; "))
	}
	return asset, nil
}

// parseDate accepts ISO and dd/mm/yyyy text as well as a raw Excel serial
func parseDate(value string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		return xlsx.TimeFromExcelTime(serial, false).Format(models.DateLayout), nil
	}
	return "", fmt.Errorf("invalid date format: %s", value)
}
