package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brineviz/internal/config"
	"brineviz/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "8080", UIPort: "8081"},
		Upload:  config.UploadConfig{MaxBytes: 1 << 20, MaxConcurrency: 2},
		Session: config.SessionConfig{TTL: time.Hour, SweepInterval: time.Minute},
		Clean:   config.CleanConfig{Strategy: "fill_zero", Malformed: "error"},
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("dataset", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body []byte) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

const sampleCSV = "Parameter,01/01/2022,01/01/2022,01/02/2022\n" +
	"pH,7.0,7.4,7.1\n" +
	"Turbidity,0.5,<0.2,0.3\n" +
	"pH,7.2,7.0,6.9\n"

func uploadSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body, contentType := multipartUpload(t, "water.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, ok := resp["session_id"].(string)
	require.True(t, ok)
	return id
}

func TestUploadCreatesNormalizedSession(t *testing.T) {
	router := NewServer(testConfig()).Router()

	body, contentType := multipartUpload(t, "water.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp["session_id"])
	assert.Equal(t, "water.csv", resp["filename"])
	assert.Equal(t, "Sheet1", resp["active_sheet"])
	assert.Equal(t, []interface{}{"pH", "Turbidity"}, resp["parameters"])
	assert.Equal(t, float64(2), resp["date_count"], "duplicate date columns collapse")
	assert.NotContains(t, resp, "normalize_error")
}

func TestUploadRejectsInvalidExtension(t *testing.T) {
	router := NewServer(testConfig()).Router()

	body, contentType := multipartUpload(t, "report.pdf", "not a spreadsheet")
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxBytes = 10
	router := NewServer(cfg).Router()

	body, contentType := multipartUpload(t, "water.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadMissingFile(t *testing.T) {
	router := NewServer(testConfig()).Router()
	code, resp := doJSON(t, router, http.MethodPost, "/api/sessions/upload", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "No file uploaded")
}

func TestUploadWithMalformedSheetKeepsSessionUsable(t *testing.T) {
	router := NewServer(testConfig()).Router()

	badCSV := "Parameter,01/01/2022\npH,seven\n"
	body, contentType := multipartUpload(t, "bad.csv", badCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The upload itself succeeds; the normalize failure is reported alongside
	// the session so the caller can switch options or sheets.
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["session_id"])
	assert.Contains(t, resp, "normalize_error")
	assert.NotContains(t, resp, "active_sheet")
}

func TestSessionInfo(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, resp["session_id"])
	assert.Equal(t, "Sheet1", resp["active_sheet"])
	assert.Equal(t, []interface{}{"01/01/2022", "01/02/2022"}, resp["dates"])
}

func TestSessionNotFound(t *testing.T) {
	router := NewServer(testConfig()).Router()
	code, resp := doJSON(t, router, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, errors.CodeSessionNotFound, resp["code"])
}

func TestSelectSheetUnknown(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/sheet",
		[]byte(`{"sheet_name":"Geology"}`))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, errors.CodeSheetNotFound, resp["code"])
}

func TestSetOptionsRenormalizes(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, _ := doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/options",
		[]byte(`{"strategy":"exclude_missing","malformed":"error"}`))
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/table", nil)
	require.Equal(t, http.StatusOK, code)

	// With exclude_missing the censored Turbidity duplicate no longer drags
	// the January mean down to 0.25.
	rows, ok := resp["rows"].([]interface{})
	require.True(t, ok)
	turbidity := rows[1].(map[string]interface{})
	require.Equal(t, "Turbidity", turbidity["parameter"])
	values := turbidity["values"].([]interface{})
	assert.InDelta(t, 0.5, values[0].(float64), 1e-9)
}

func TestSetOptionsRejectsUnknownStrategy(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, _ := doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/options",
		[]byte(`{"strategy":"median","malformed":"error"}`))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCleanedTable(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/table", nil)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, []interface{}{"01/01/2022", "01/02/2022"}, resp["dates"])
	rows := resp["rows"].([]interface{})
	require.Len(t, rows, 2)

	ph := rows[0].(map[string]interface{})
	assert.Equal(t, "pH", ph["parameter"])
	phValues := ph["values"].([]interface{})
	assert.InDelta(t, 7.15, phValues[0].(float64), 1e-9)
	assert.InDelta(t, 7.0, phValues[1].(float64), 1e-9)
}

func TestSummaryEndpoint(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, code)
	params := resp["parameters"].([]interface{})
	require.Len(t, params, 2)
	first := params[0].(map[string]interface{})
	assert.Equal(t, "pH", first["parameter"])
	assert.Equal(t, float64(2), first["count"])
}

func TestScatterEndpoint(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet,
		"/api/sessions/"+id+"/views/scatter?x=pH&y=Turbidity", nil)
	require.Equal(t, http.StatusOK, code)
	points := resp["points"].([]interface{})
	assert.Len(t, points, 2)

	// The selection sticks to the session.
	_, info := doJSON(t, router, http.MethodGet, "/api/sessions/"+id, nil)
	selections := info["selections"].(map[string]interface{})
	assert.Equal(t, "pH", selections["scatter_x"])
	assert.Equal(t, "Turbidity", selections["scatter_y"])
}

func TestScatterEndpointValidation(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, _ := doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/views/scatter?x=pH", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := doJSON(t, router, http.MethodGet,
		"/api/sessions/"+id+"/views/scatter?x=pH&y=Uranium", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, errors.CodeParameterNotFound, resp["code"])
}

func TestTimeSeriesEndpoint(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet,
		"/api/sessions/"+id+"/views/timeseries?params=pH,Turbidity", nil)
	require.Equal(t, http.StatusOK, code)
	series := resp["series"].([]interface{})
	require.Len(t, series, 2)

	// Empty selection is a client error, not an empty chart.
	code, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/views/timeseries", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRatioEndpoint(t *testing.T) {
	router := NewServer(testConfig()).Router()
	id := uploadSession(t, router)

	code, resp := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/views/ratio?numerator=pH&denominator=Turbidity", id), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pH", resp["numerator"])
	points := resp["points"].([]interface{})
	require.Len(t, points, 2)
	first := points[0].(map[string]interface{})
	assert.InDelta(t, 7.15/0.25, first["ratio"].(float64), 1e-9)
}

func TestHealthz(t *testing.T) {
	router := NewServer(testConfig()).Router()
	code, resp := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
}
