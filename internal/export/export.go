// Package export renders an asset list to a spreadsheet, a printable HTML
// report or a PDF. The caller passes the list it is showing; nothing is fed
// back into the inventory.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"asset-inventory/internal/models"
)

// Kind is an export format
type Kind string

const (
	KindExcel Kind = "xlsx"
	KindHTML  Kind = "html"
	KindPDF   Kind = "pdf"
)

// DisplayDateLayout is how assign dates appear in exports
const DisplayDateLayout = "02/01/2006"

// ParseKind maps a user supplied format name to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return KindExcel, nil
	case "html", "print":
		return KindHTML, nil
	case "pdf":
		return KindPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName returns the suggested download name, e.g. assets_2026-02-17.xlsx
func FileName(kind Kind, now time.Time) string {
	return fmt.Sprintf("assets_%s.%s", now.Format(models.DateLayout), kind)
}

// Write renders assets in the given format
func Write(w io.Writer, kind Kind, assets []models.Asset, now time.Time) error {
	switch kind {
	case KindExcel:
		return Excel(w, assets)
	case KindHTML:
		return HTML(w, assets, now)
	case KindPDF:
		return PDF(w, assets, now)
	}
	return fmt.Errorf("unknown export format %q", kind)
}

// displayDate formats an assign date as dd/mm/yyyy, leaving values that do
// not parse as they are
func displayDate(a models.Asset) string {
	on, ok := a.AssignedOn(time.UTC)
	if !ok {
		return a.AssignDate
	}
	return on.Format(DisplayDateLayout)
}

func displayCategory(a models.Asset) string {
	return string(a.CategoryOrDefault())
}
