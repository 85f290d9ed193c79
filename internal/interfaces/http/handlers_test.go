package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/export"
	"github.com/lemo-maschinenbau/reisekosten/internal/form"
	"github.com/lemo-maschinenbau/reisekosten/internal/rates"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	table, err := rates.Load("")
	require.NoError(t, err)
	exporter, err := export.NewExporter(export.Config{
		OutputDir:   t.TempDir(),
		CompanyName: "LEMO Maschinenbau",
	}, zap.NewNop())
	require.NoError(t, err)
	return NewServer(Config{}, form.NewManager(table, zap.NewNop()), table, exporter, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)["session_id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestListCountries(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/api/v1/rates/countries", nil)

	require.Equal(t, http.StatusOK, w.Code)
	countries := decode(t, w)["countries"].([]any)
	assert.NotEmpty(t, countries)
	assert.Contains(t, countries, "Deutschland")
}

func TestGetRates(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/rates/Deutschland", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "28,00", body["full"])
	assert.Equal(t, "14,00", body["partial"])
	assert.Equal(t, "20,00", body["overnight"])

	w = do(t, s, http.MethodGet, "/api/v1/rates/Atlantis", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	w := do(t, s, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "0,00", body["sum_total"])
	assert.Len(t, body["costs"].([]any), 1)

	w = do(t, s, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateFieldsComputesTotals(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	w := do(t, s, http.MethodPatch, "/api/v1/sessions/"+id+"/fields", map[string]any{
		"name":           "Erika Mustermann",
		"country":        "Deutschland",
		"departure_date": "2025-03-10",
		"return_date":    "2025-03-12",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "3", body["total_days"])
	assert.Equal(t, "1", body["full_days"])
	assert.Equal(t, "2", body["travel_days"])
	assert.Equal(t, "2", body["overnights"])
	assert.Equal(t, "28,00", body["rate_full"])
	assert.Equal(t, "56,00", body["sum_meals"])
	assert.Equal(t, "40,00", body["sum_overnights"])
	assert.Equal(t, "96,00", body["sum_total"])
}

func TestCostLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	// The initial blank row gets the taxi receipt.
	view := decode(t, do(t, s, http.MethodGet, base, nil))
	firstID := view["costs"].([]any)[0].(map[string]any)["id"].(string)

	w := do(t, s, http.MethodPatch, base+"/costs/"+firstID, map[string]any{
		"description": "Taxi",
		"amount":      "23,50",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "23,50", decode(t, w)["sum_other_costs"])

	w = do(t, s, http.MethodPost, base+"/costs", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	secondID := decode(t, w)["cost_id"].(string)

	w = do(t, s, http.MethodPatch, base+"/costs/"+secondID, map[string]any{
		"description": "Parking",
	})
	require.Equal(t, http.StatusOK, w.Code)
	// Empty amount contributes zero.
	assert.Equal(t, "23,50", decode(t, w)["sum_other_costs"])

	w = do(t, s, http.MethodDelete, base+"/costs/"+firstID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "0,00", body["sum_other_costs"])
	costs := body["costs"].([]any)
	require.Len(t, costs, 1)
	assert.Equal(t, "Parking", costs[0].(map[string]any)["description"])

	w = do(t, s, http.MethodDelete, base+"/costs/"+firstID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignatures(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	img := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	w := do(t, s, http.MethodPut, base+"/signatures/employee", map[string]any{"image_base64": img})
	require.Equal(t, http.StatusNoContent, w.Code)

	view := decode(t, do(t, s, http.MethodGet, base, nil))
	assert.Equal(t, true, view["has_signature_employee"])
	assert.Equal(t, false, view["has_signature_manager"])

	w = do(t, s, http.MethodDelete, base+"/signatures/employee", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	view = decode(t, do(t, s, http.MethodGet, base, nil))
	assert.Equal(t, false, view["has_signature_employee"])

	w = do(t, s, http.MethodPut, base+"/signatures/intern", map[string]any{"image_base64": img})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPut, base+"/signatures/employee", map[string]any{"image_base64": "%%%"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReset(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	do(t, s, http.MethodPatch, base+"/fields", map[string]any{
		"country":        "Deutschland",
		"departure_date": "2025-03-10",
		"return_date":    "2025-03-12",
	})
	do(t, s, http.MethodPost, base+"/costs", nil)

	w := do(t, s, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "", body["country"])
	assert.Equal(t, "", body["total_days"])
	assert.Equal(t, "0,00", body["sum_total"])
	assert.Len(t, body["costs"].([]any), 1)
}

func TestExportPDF(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	w := do(t, s, http.MethodPost, "/api/v1/sessions/"+id+"/export/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Reisekosten_Person_Projekt_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestExportWorkbook(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	w := do(t, s, http.MethodPost, "/api/v1/sessions/"+id+"/export/xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestMailDraft(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	do(t, s, http.MethodPatch, base+"/fields", map[string]any{
		"name":    "Erika Mustermann",
		"project": "P-1234",
	})

	w := do(t, s, http.MethodGet, base+"/maildraft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Erika Mustermann_P-1234_Reisekostenvorschuss", body["subject"])
	assert.Contains(t, body["body"], "Sehr geehrte Damen und Herren,")
	assert.True(t, strings.HasPrefix(body["mailto"].(string), "mailto:?"))
}
