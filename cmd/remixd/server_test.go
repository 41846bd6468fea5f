package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remix "github.com/tphakala/go-audio-remix"
	"github.com/tphakala/go-audio-remix/internal/testutil"
)

func toneWAV(seconds float64) []byte {
	n := int(seconds * 44100)
	tone := testutil.PCM16(testutil.Sine(n, 440, 44100, 0.5))
	return testutil.WAVBytes(testutil.InterleaveStereo(tone, tone), 44100, 2, 16)
}

func newTestServer(t *testing.T, exporter remix.Exporter, maxUpload int64) (http.Handler, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	r := remix.New(remix.Config{Quality: remix.QualityQuick, Exporter: exporter, Logger: logger})
	return newServer(r, remix.DefaultPresets(), maxUpload, logger).routes(), hook
}

// multipartBody builds a form with the given files and fields.
func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile(name, name+".wav")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postRemix(t *testing.T, h http.Handler, files map[string][]byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/remix", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestHandleRemix(t *testing.T) {
	h, hook := newTestServer(t, remix.WAVExporter{}, 64<<20)

	rec := postRemix(t, h,
		map[string][]byte{"primary": toneWAV(0.3), "texture": toneWAV(0.1)},
		map[string]string{"theme": "Radio", "texture_vol": "0.5"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "themed", rec.Header().Get("X-Remix-Mode"))
	assert.Equal(t, "radio", rec.Header().Get("X-Remix-Theme"))
	assert.Equal(t, "1.0000", rec.Header().Get("X-Remix-Speed"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".wav")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Served remix", entry.Message)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), entry.Data["request_id"])
}

func TestHandleRemix_PresetAndSeed(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	fields := map[string]string{"preset": "radio", "surprise": "true", "seed": "42"}

	first := postRemix(t, h, map[string][]byte{"primary": toneWAV(0.2)}, fields)
	second := postRemix(t, h, map[string][]byte{"primary": toneWAV(0.2)}, fields)

	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	assert.Equal(t, first.Header().Get("X-Remix-Theme"), second.Header().Get("X-Remix-Theme"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestHandleRemix_BadRequests(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	wav := toneWAV(0.1)

	tests := []struct {
		name   string
		files  map[string][]byte
		fields map[string]string
		want   string
	}{
		{"missing primary", nil, map[string]string{"mode": "lofi"}, "missing primary"},
		{"unparsable pitch", map[string][]byte{"primary": wav}, map[string]string{"pitch": "abc"}, "pitch"},
		{"pitch out of range", map[string][]byte{"primary": wav}, map[string]string{"pitch": "20"}, "pitch"},
		{"unknown mode", map[string][]byte{"primary": wav}, map[string]string{"mode": "polka"}, "polka"},
		{"unknown preset", map[string][]byte{"primary": wav}, map[string]string{"preset": "polka"}, "polka"},
		{"bad surprise", map[string][]byte{"primary": wav}, map[string]string{"surprise": "maybe"}, "surprise"},
		{"undecodable primary", map[string][]byte{"primary": []byte("not audio at all")}, nil, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRemix(t, h, tt.files, tt.fields)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.want)
		})
	}
}

func TestHandleRemix_NotMultipart(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/remix", strings.NewReader(`{"mode":"lofi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemix_UploadLimit(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 1024)
	rec := postRemix(t, h, map[string][]byte{"primary": toneWAV(0.5)}, nil)
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, rec.Code)
}

type brokenExporter struct{}

func (brokenExporter) Format() string      { return "bin" }
func (brokenExporter) ContentType() string { return "application/octet-stream" }
func (brokenExporter) Export(io.Writer, remix.Track) error {
	return errors.New("disk on fire")
}

func TestHandleRemix_ExportFailure(t *testing.T) {
	h, hook := newTestServer(t, brokenExporter{}, 64<<20)
	rec := postRemix(t, h, map[string][]byte{"primary": toneWAV(0.1)}, map[string]string{"mode": "chipmunk"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "disk on fire")
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
}

func TestHandleRemix_MethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/remix", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCatalog(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Modes  []string `json:"modes"`
		Themes []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"themes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.ElementsMatch(t, []string{"lofi", "chipmunk", "nightcore", "themed"}, resp.Modes)
	require.Len(t, resp.Themes, 8)
	for _, th := range resp.Themes {
		assert.NotEmpty(t, th.Description, th.Name)
	}
}

func TestHandlePresets(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]remix.Preset
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 11)
	assert.Equal(t, 5, resp["nightcore"].Pitch)
	assert.InDelta(t, 1.3, resp["nightcore"].Speed, 1e-9)
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, remix.WAVExporter{}, 64<<20)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
