package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"asset-inventory/internal/models"
)

// ReportTitle heads the printable report
const ReportTitle = "My Assets Report"

type reportRow struct {
	Index      int
	Name       string
	SerialNo   string
	Category   string
	AssignDate string
}

type reportData struct {
	Title       string
	GeneratedOn string
	GeneratedAt string
	Rows        []reportRow
	Total       int
	Year        int
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Assets Report</title>
  <style>
    body { font-family: Arial, sans-serif; padding: 20px; color: #333; }
    h1 { color: #667eea; text-align: center; margin-bottom: 10px; }
    .subtitle { text-align: center; color: #666; margin-bottom: 30px; font-size: 14px; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th { background: #667eea; color: white; padding: 12px; text-align: left; font-size: 14px; }
    td { padding: 10px 12px; border-bottom: 1px solid #eee; font-size: 13px; }
    tr:nth-child(even) { background-color: #f8f9ff; }
    .total { margin-top: 15px; font-weight: bold; color: #667eea; }
    .footer { margin-top: 30px; text-align: center; color: #999; font-size: 12px; }
  </style>
</head>
<body>
  <h1>📦 {{.Title}}</h1>
  <div class="subtitle">Generated on {{.GeneratedOn}} at {{.GeneratedAt}}</div>
  <table>
    <thead>
      <tr>
        <th>#</th>
        <th>Asset Name</th>
        <th>Serial No</th>
        <th>Category</th>
        <th>Assign Date</th>
      </tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr>
        <td>{{.Index}}</td>
        <td><strong>{{.Name}}</strong></td>
        <td>{{.SerialNo}}</td>
        <td>{{.Category}}</td>
        <td>{{.AssignDate}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
  <div class="total">Total Assets: {{.Total}}</div>
  <div class="footer">My Assets Management System - {{.Year}}</div>
</body>
</html>
`))

// HTML writes a printable report of assets generated at now
func HTML(w io.Writer, assets []models.Asset, now time.Time) error {
	data := reportData{
		Title:       ReportTitle,
		GeneratedOn: now.Format(DisplayDateLayout),
		GeneratedAt: now.Format("15:04:05"),
		Rows:        make([]reportRow, 0, len(assets)),
		Total:       len(assets),
		Year:        now.Year(),
	}
	for i, a := range assets {
		data.Rows = append(data.Rows, reportRow{
			Index:      i + 1,
			Name:       a.Name,
			SerialNo:   a.SerialNo,
			Category:   displayCategory(a),
			AssignDate: displayDate(a),
		})
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
