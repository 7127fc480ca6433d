package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"asset-inventory/internal/models"
	"asset-inventory/internal/server/store"
)

// Paging defaults of GET /paginated
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// MsgAssignDateInvalid rejects an assign date that is not YYYY-MM-DD
const MsgAssignDateInvalid = "Assign date must be a valid date (YYYY-MM-DD)"

// pageResponse mirrors the paginated listing consumed by the asset client
type pageResponse struct {
	Content       []models.Asset `json:"content"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	s.log.Debugw("fetching all assets")
	assets, err := s.Store.List(r.Context())
	if err != nil {
		s.internalError(w, "list assets", err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) listAssetsPaginated(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	if page < 0 {
		page = 0
	}
	size := queryInt(r, "size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	s.log.Debugw("fetching paginated assets", "page", page, "size", size)
	assets, total, err := s.Store.Page(r.Context(), page, size)
	if err != nil {
		s.internalError(w, "page assets", err)
		return
	}

	totalPages := (total + size - 1) / size
	writeJSON(w, http.StatusOK, pageResponse{
		Content:       assets,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
	})
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, "get asset", id, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}

	s.log.Infow("adding new asset", "serial_no", draft.SerialNo)
	created, err := s.Store.Create(r.Context(), draft)
	if err != nil {
		s.storeError(w, "create asset", "", err)
		return
	}
	s.refreshStoreSize(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}

	s.log.Infow("updating asset", "id", id)
	updated, err := s.Store.Update(r.Context(), id, draft)
	if err != nil {
		s.storeError(w, "update asset", id, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.log.Infow("deleting asset", "id", id)
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.storeError(w, "delete asset", id, err)
		return
	}
	s.refreshStoreSize(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// decodeDraft reads and validates the request body, writing the 400 itself
func (s *Server) decodeDraft(w http.ResponseWriter, r *http.Request) (models.Asset, bool) {
	var draft models.Asset
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return models.Asset{}, false
	}
	draft = draft.Draft()
	draft.Name = strings.TrimSpace(draft.Name)
	draft.SerialNo = strings.TrimSpace(draft.SerialNo)

	fields := models.Validate(draft)
	if _, ok := fields["assignDate"]; !ok {
		if on, parsed := draft.AssignedOn(time.UTC); parsed {
			draft.AssignDate = on.Format(models.DateLayout)
		} else {
			if fields == nil {
				fields = models.FieldErrors{}
			}
			fields["assignDate"] = MsgAssignDateInvalid
		}
	}
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, fields)
		return models.Asset{}, false
	}
	return draft, true
}

// storeError maps store errors onto the error bodies the client decodes
func (s *Server) storeError(w http.ResponseWriter, op, id string, err error) {
	var dup *store.DuplicateSerialError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Asset not found with id: " + id})
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, map[string]string{"error": dup.Error()})
	default:
		s.internalError(w, op, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Errorw(op+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error: " + err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
