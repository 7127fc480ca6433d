package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-inventory/internal/auth"
	"asset-inventory/internal/config"
	"asset-inventory/internal/models"
	"asset-inventory/internal/server/store"
)

var testJWT = config.JWTConfig{
	Secret:   "a-test-secret-that-is-long-enough-for-hs256",
	Issuer:   "asset-inventory",
	Audience: "asset-inventory",
	Expiry:   time.Hour,
}

func newTestServer(t *testing.T, cfg *config.ServerConfig) *Server {
	t.Helper()
	s, err := New(store.NewMemory(), cfg, nil)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createAsset(t *testing.T, s *Server, body string) models.Asset {
	t.Helper()
	w := do(t, s, http.MethodPost, BasePath, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[models.Asset](t, w)
}

const laptopJSON = `{"name":"Laptop Dell XPS","serialNo":"SN001","assignDate":"2026-02-17","category":"Computer"}`

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCreateAndList(t *testing.T) {
	s := newTestServer(t, nil)

	created := createAsset(t, s, laptopJSON)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Laptop Dell XPS", created.Name)

	w := do(t, s, http.MethodGet, BasePath, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]models.Asset](t, w)
	assert.Equal(t, []models.Asset{created}, list)

	w = do(t, s, http.MethodGet, BasePath+"/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeBody[models.Asset](t, w))
}

func TestListEmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, BasePath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateIgnoresClientID(t *testing.T) {
	s := newTestServer(t, nil)
	created := createAsset(t, s, `{"id":"mine","name":"Router","serialNo":"R1","assignDate":"2026-02-01"}`)
	assert.NotEqual(t, "mine", created.ID)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "everything missing",
			body: `{}`,
			want: map[string]string{
				"name":       models.MsgNameRequired,
				"serialNo":   models.MsgSerialNoRequired,
				"assignDate": models.MsgAssignDateRequired,
			},
		},
		{
			name: "short name",
			body: `{"name":"X","serialNo":"S","assignDate":"2026-02-01"}`,
			want: map[string]string{"name": models.MsgNameLength},
		},
		{
			name: "bad date",
			body: `{"name":"Router","serialNo":"S","assignDate":"17.02.2026"}`,
			want: map[string]string{"assignDate": MsgAssignDateInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, BasePath, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeBody[map[string]string](t, w))
		})
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, BasePath, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"error": "invalid JSON"}, decodeBody[map[string]string](t, w))
}

func TestCreateDuplicateSerial(t *testing.T) {
	s := newTestServer(t, nil)
	createAsset(t, s, laptopJSON)

	w := do(t, s, http.MethodPost, BasePath, laptopJSON)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Asset with serialNo 'SN001' already exists!", decodeBody[map[string]string](t, w)["error"])
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t, nil)
	created := createAsset(t, s, laptopJSON)
	createAsset(t, s, `{"name":"Router","serialNo":"SN002","assignDate":"2026-02-01"}`)

	w := do(t, s, http.MethodPut, BasePath+"/"+created.ID, `{"name":"Laptop Renamed","serialNo":"SN001","assignDate":"2026-02-18"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[models.Asset](t, w)
	assert.Equal(t, "Laptop Renamed", updated.Name)
	assert.Equal(t, models.CategoryComputer, updated.Category)

	w = do(t, s, http.MethodPut, BasePath+"/"+created.ID, `{"name":"Laptop","serialNo":"SN002","assignDate":"2026-02-18"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPut, BasePath+"/nope", `{"name":"Laptop","serialNo":"SN009","assignDate":"2026-02-18"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Asset not found with id: nope", decodeBody[map[string]string](t, w)["error"])
}

func TestDelete(t *testing.T) {
	s := newTestServer(t, nil)
	created := createAsset(t, s, laptopJSON)

	w := do(t, s, http.MethodDelete, BasePath+"/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, s, http.MethodDelete, BasePath+"/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, BasePath+"/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaginated(t *testing.T) {
	s := newTestServer(t, nil)
	for _, sn := range []string{"A", "B", "C"} {
		createAsset(t, s, `{"name":"Asset `+sn+`","serialNo":"`+sn+`","assignDate":"2026-02-01"}`)
	}

	w := do(t, s, http.MethodGet, BasePath+"/paginated?page=1&size=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[pageResponse](t, w)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "C", page.Content[0].SerialNo)

	w = do(t, s, http.MethodGet, BasePath+"/paginated", "")
	page = decodeBody[pageResponse](t, w)
	assert.Equal(t, defaultPageSize, page.Size)
	assert.Len(t, page.Content, 3)
	assert.True(t, page.First)

	w = do(t, s, http.MethodGet, BasePath+"/paginated?page=-3&size=abc", "")
	page = decodeBody[pageResponse](t, w)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, defaultPageSize, page.Size)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, &config.ServerConfig{AuthEnabled: true, JWT: testJWT})

	reader, err := s.JWTManager.GenerateToken("reader", []string{"viewer"})
	require.NoError(t, err)
	admin, err := s.JWTManager.GenerateToken("admin", []string{auth.RoleAssetAdmin})
	require.NoError(t, err)

	w := do(t, s, http.MethodGet, BasePath, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, BasePath, "", "Authorization", "Bearer "+reader)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPost, BasePath, laptopJSON, "Authorization", "Bearer "+reader)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, BasePath, laptopJSON, "Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthRejectsWeakSecret(t *testing.T) {
	weak := testJWT
	weak.Secret = "short"
	_, err := New(store.NewMemory(), &config.ServerConfig{AuthEnabled: true, JWT: weak}, nil)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, &config.ServerConfig{EnableMetrics: true})
	created := createAsset(t, s, laptopJSON)
	do(t, s, http.MethodGet, BasePath+"/"+created.ID, "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `path="/api/assets/{id}"`)
	assert.Contains(t, body, "assetstore_assets 1")
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportRoute(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, BasePath+"/import", "", "Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "multipart/form-data")
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusTeapot, map[string]int{"n": 1})
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestClose(t *testing.T) {
	s := newTestServer(t, nil)
	assert.NoError(t, s.Close(context.Background()))
}
