package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asset-inventory/internal/logger"
	"asset-inventory/internal/server/store"
	"asset-inventory/pkg/importer"
)

// ImportSummary is the outcome of one spreadsheet upload
type ImportSummary struct {
	Sheet    string              `json:"sheet"`
	Inserted int                 `json:"inserted"`
	Skipped  int                 `json:"skipped"`
	Errors   int                 `json:"errors"`
	Samples  []importer.RowError `json:"error_samples,omitempty"`
	DryRun   bool                `json:"dry_run"`
}

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Store    store.Store
	MaxBytes int64
	Log      logger.Logger
	// OnChange runs after at least one asset was inserted
	OnChange func(ctx context.Context)
}

// NewImportsHandler creates a new imports handler
func NewImportsHandler(st store.Store, log logger.Logger) *ImportsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportsHandler{
		Store:    st,
		MaxBytes: 20 << 20, // 20 MB
		Log:      log,
	}
}

// UploadExcel reads the drafts of an uploaded .xlsx and creates them in the
// store. With dry_run=true the rows are only validated.
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "content-type must be multipart/form-data"})
		return
	}

	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart form: " + err.Error()})
		return
	}

	dryRun := r.FormValue("dry_run") == "true"
	maxErrors := importer.DefaultMaxErrors
	if v := r.FormValue("max_errors"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxErrors = n
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file is required: " + err.Error()})
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "only .xlsx files are accepted"})
		return
	}

	result, readErr := importer.ReadDrafts(file, importer.Options{
		Sheet:     r.FormValue("sheet"),
		MaxErrors: maxErrors,
	})
	sum := ImportSummary{
		Sheet:   result.Sheet,
		Skipped: result.Skipped,
		Errors:  result.Errors,
		Samples: result.Samples,
		DryRun:  dryRun,
	}
	if readErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "IMPORT_FAILED",
			"details": readErr.Error(),
			"data":    sum,
		})
		return
	}

	if dryRun {
		sum.Inserted = len(result.Drafts)
	} else {
		h.insert(r.Context(), result, &sum)
	}

	h.Log.Infow("spreadsheet imported",
		"file", header.Filename, "inserted", sum.Inserted, "errors", sum.Errors, "dry_run", dryRun)

	writeJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *ImportsHandler) insert(ctx context.Context, result importer.Result, sum *ImportSummary) {
	for _, d := range result.Drafts {
		if _, err := h.Store.Create(ctx, d.Asset); err != nil {
			sum.Errors++
			msg := err.Error()
			if !errors.Is(err, store.ErrDuplicateSerial) {
				h.Log.Warnw("import row failed", "row", d.Row, "error", err)
			}
			sum.Samples = append(sum.Samples, importer.RowError{Sheet: result.Sheet, Row: d.Row, Message: msg})
			continue
		}
		sum.Inserted++
	}
	if sum.Inserted > 0 && h.OnChange != nil {
		h.OnChange(ctx)
	}
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
