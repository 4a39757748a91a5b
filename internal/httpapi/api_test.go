package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juicern/kotoba/internal/domain"
	"github.com/Juicern/kotoba/internal/providers"
	"github.com/Juicern/kotoba/internal/service"
)

type stubTranscriptProvider struct {
	segments []domain.TranscriptSegment
	err      error
	calls    int
}

func (s *stubTranscriptProvider) FetchTranscript(context.Context, string) ([]domain.TranscriptSegment, error) {
	s.calls++
	return s.segments, s.err
}

type stubTranslator struct {
	out   string
	err   error
	calls int
	last  providers.TranslateRequest
}

func (s *stubTranslator) Translate(_ context.Context, req providers.TranslateRequest) (string, error) {
	s.calls++
	s.last = req
	return s.out, s.err
}

func newTestRouter(transcripts providers.TranscriptProvider, translator providers.Translator) http.Handler {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(
		service.NewTranscriptService(transcripts),
		service.NewTranslationService(translator),
		logger,
	)
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetTranscriptMissingVideoID(t *testing.T) {
	provider := &stubTranscriptProvider{}
	router := newTestRouter(provider, &stubTranslator{})

	for _, target := range []string{"/api/transcript", "/api/transcript?video_id="} {
		rec := serve(t, router, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, `{"error": "No video ID provided"}`, rec.Body.String(), target)
	}
	assert.Zero(t, provider.calls)
}

func TestGetTranscriptSuccess(t *testing.T) {
	provider := &stubTranscriptProvider{segments: []domain.TranscriptSegment{
		{Text: "hello", Start: 0.0, Duration: 1.2},
	}}
	router := newTestRouter(provider, &stubTranslator{})

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/transcript?video_id=abc123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"transcript": [{"text": "hello", "start": 0.0, "duration": 1.2}]}`, rec.Body.String())
	assert.Equal(t, 1, provider.calls)
}

func TestGetTranscriptIsByteIdenticalAcrossCalls(t *testing.T) {
	provider := &stubTranscriptProvider{segments: []domain.TranscriptSegment{
		{Text: "hello", Start: 0, Duration: 1.2},
		{Text: "again", Start: 1.2, Duration: 2.5},
	}}
	router := newTestRouter(provider, &stubTranslator{})

	first := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/transcript?video_id=abc123", nil))
	second := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/transcript?video_id=abc123", nil))

	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestGetTranscriptProviderFailures(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{providers.ErrVideoUnavailable, "Error: The video is unavailable."},
		{providers.ErrTranscriptsDisabled, "Error: Transcripts are disabled for this video."},
		{providers.ErrNoTranscript, "Error: No transcript is available for this video."},
		{errors.New("boom"), "An error occurred: boom"},
	}

	for _, tt := range tests {
		router := newTestRouter(&stubTranscriptProvider{err: tt.err}, &stubTranslator{})

		rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/transcript?video_id=abc123", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"transcript": "`+tt.want+`"}`, rec.Body.String())
	}
}

func TestTranslateMissingText(t *testing.T) {
	translator := &stubTranslator{out: "unused"}
	router := newTestRouter(&stubTranscriptProvider{}, translator)

	for _, body := range []string{``, `{}`, `{"text": ""}`, `{"text": 42}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		rec := serve(t, router, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error": "No text provided"}`, rec.Body.String(), body)
	}
	assert.Zero(t, translator.calls)
}

func TestTranslateSuccess(t *testing.T) {
	translator := &stubTranslator{out: "こんにちは"}
	router := newTestRouter(&stubTranscriptProvider{}, translator)

	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"translated_text": "こんにちは"}`, rec.Body.String())
	assert.Equal(t, 1, translator.calls)
	assert.Equal(t, "JA", translator.last.TargetLang)
	assert.Equal(t, "more", translator.last.Formality)
}

func TestTranslateOversizedText(t *testing.T) {
	translator := &stubTranslator{out: "unused"}
	router := newTestRouter(&stubTranscriptProvider{}, translator)

	body := `{"text": "` + strings.Repeat("a", service.MaxTranslationBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, router, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "`+service.ErrTextTooLarge.Error()+`"}`, rec.Body.String())
	assert.Zero(t, translator.calls)
}

func TestTranslateBodyOverReadLimit(t *testing.T) {
	translator := &stubTranslator{out: "unused"}
	router := newTestRouter(&stubTranscriptProvider{}, translator)

	body := `{"text": "` + strings.Repeat("a", maxTranslateBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, router, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "`+service.ErrTextTooLarge.Error()+`"}`, rec.Body.String())
	assert.Zero(t, translator.calls)
}

func TestTranslateProviderFault(t *testing.T) {
	translator := &stubTranslator{err: errors.New("deepl: authorization failure, check auth key (HTTP 403)")}
	router := newTestRouter(&stubTranscriptProvider{}, translator)

	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, router, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "deepl: authorization failure, check auth key (HTTP 403)"}`, rec.Body.String())
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	router := newTestRouter(&stubTranscriptProvider{}, &stubTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/api/transcript?video_id=abc123", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(t, router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&stubTranscriptProvider{}, &stubTranslator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/translate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := serve(t, router, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	router := newTestRouter(&stubTranscriptProvider{}, &stubTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := serve(t, router, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = serve(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	router := newTestRouter(&stubTranscriptProvider{}, &stubTranslator{})

	for _, id := range []string{
		strings.Repeat("a", maxRequestIDLen+1),
		"req 42",
		"req-42\x00",
		"<script>",
	} {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", id)
		rec := serve(t, router, req)

		got := rec.Header().Get("X-Request-ID")
		assert.NotEqual(t, id, got)
		assert.Len(t, got, 36)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace:01HF.abc_DEF-9")
	rec := serve(t, router, req)
	assert.Equal(t, "trace:01HF.abc_DEF-9", rec.Header().Get("X-Request-ID"))
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubTranscriptProvider{}, &stubTranslator{})

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
