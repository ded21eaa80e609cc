package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/entity"
	"github.com/RPasch/OCR-tool/internal/export"
	"github.com/RPasch/OCR-tool/internal/llm"
	"github.com/RPasch/OCR-tool/internal/session"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type stubExtractor struct {
	result *entity.DocumentExtractionResult
}

func (s *stubExtractor) Extract(context.Context, []byte, string) *entity.DocumentExtractionResult {
	return s.result
}

type stubAgent struct {
	response string
	gotKey   string
}

func (s *stubAgent) Normalize(context.Context, string) (string, error) {
	return s.response, nil
}

func testService(extraction *entity.DocumentExtractionResult, agent *stubAgent) *Service {
	gin.SetMode(gin.TestMode)
	cfg := &common.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Server.MaxUploadBytes = 8 << 20
	cfg.LLM.MaxContentLength = 2000
	cfg.UI.PageTitle = "Document OCR with Azure AI"
	cfg.UI.SampleWords = 5

	factory := func(apiKey string) llm.Normalizer {
		if agent == nil {
			return nil
		}
		agent.gotKey = apiKey
		return agent
	}
	return NewService(cfg,
		&stubExtractor{result: extraction},
		factory,
		session.NewStore(16, time.Minute),
		export.NewService(5, nil),
		zap.NewNop(),
	)
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func successExtraction() *entity.DocumentExtractionResult {
	return &entity.DocumentExtractionResult{
		Status:       entity.StatusSuccess,
		FullContent:  "TRADE LICENSE 2202163.01",
		DocumentType: "PNG",
		Styles:       []entity.StyleFlag{{IsHandwritten: true}, {IsHandwritten: false}},
		Barcodes:     []entity.BarcodeResult{},
		KeyValues:    []entity.KeyValueResult{},
	}
}

func TestProcessDocumentHappyPath(t *testing.T) {
	agent := &stubAgent{response: `{"data":{"license_number":"2202163.01"}}`}
	svc := testService(successExtraction(), agent)
	router := svc.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "license.png", pngBytes, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, "contains handwritten content", body["handwriting"])

	norm := body["normalization"].(map[string]any)
	assert.Equal(t, true, norm["parsed"])
	doc := norm["document"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "2202163.01", doc["license_number"])
}

func TestProcessDocumentNormalizeToggleOff(t *testing.T) {
	agent := &stubAgent{response: `{"data":{}}`}
	svc := testService(successExtraction(), agent)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, uploadRequest(t, "a.png", pngBytes, map[string]string{"normalize": "false"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, has := body["normalization"]
	assert.False(t, has)
}

func TestProcessDocumentPerRequestAgentKey(t *testing.T) {
	agent := &stubAgent{response: `{"data":{}}`}
	svc := testService(successExtraction(), agent)

	req := uploadRequest(t, "a.png", pngBytes, nil)
	req.Header.Set("X-OpenAI-Key", "sk-session-key")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sk-session-key", agent.gotKey)
}

func TestProcessDocumentUnsupportedExtension(t *testing.T) {
	svc := testService(successExtraction(), nil)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("hello"), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessDocumentContentSniffMismatch(t *testing.T) {
	svc := testService(successExtraction(), nil)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, uploadRequest(t, "fake.png", []byte("plain text, not an image"), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessDocumentServiceErrorIsRenderedNotRaised(t *testing.T) {
	svc := testService(entity.ErrorResult("timeout"), nil)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, uploadRequest(t, "a.png", pngBytes, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	extraction := body["extraction"].(map[string]any)
	assert.Equal(t, "error", extraction["status"])
	assert.Equal(t, "timeout", extraction["message"])
}

func TestGetSessionRoundTrip(t *testing.T) {
	svc := testService(successExtraction(), nil)
	router := svc.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "a.png", pngBytes, map[string]string{"session_id": "abc", "normalize": "false"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportSession(t *testing.T) {
	svc := testService(successExtraction(), nil)
	router := svc.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "a.png", pngBytes, map[string]string{"session_id": "exp", "normalize": "false"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/exp/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "document-result.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealthz(t *testing.T) {
	svc := testService(successExtraction(), nil)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Document OCR with Azure AI", body["title"])
}
