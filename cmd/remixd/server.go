package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	remix "github.com/tphakala/go-audio-remix"
)

// Multipart parts larger than this are spooled to disk.
const multipartMemory = 32 << 20

type server struct {
	remixer   *remix.Remixer
	presets   *remix.Presets
	maxUpload int64
	log       logrus.FieldLogger
}

func newServer(r *remix.Remixer, presets *remix.Presets, maxUpload int64, log logrus.FieldLogger) *server {
	return &server{remixer: r, presets: presets, maxUpload: maxUpload, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/remix", s.handleRemix)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	return mux
}

func (s *server) handleRemix(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	log := s.log.WithField("request_id", id)
	w.Header().Set("X-Request-ID", id)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	req, err := s.parseRequest(r)
	if err != nil {
		s.fail(w, log, err)
		return
	}

	res, err := s.remixer.Remix(req)
	if err != nil {
		s.fail(w, log, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, id, res.Format))
	h.Set("X-Remix-Mode", string(res.Mode))
	if res.Theme != "" {
		h.Set("X-Remix-Theme", string(res.Theme))
	}
	h.Set("X-Remix-Speed", strconv.FormatFloat(res.Speed, 'f', 4, 64))
	h.Set("X-Remix-Chain", res.Chain)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		log.WithError(err).Warn("Failed to write response")
		return
	}

	log.WithFields(logrus.Fields{
		"mode":    res.Mode,
		"theme":   res.Theme,
		"bytes":   len(res.Data),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("Served remix")
}

// parseRequest reads the multipart form. A preset field is applied first and
// any slider field present in the form overrides it.
func (s *server) parseRequest(r *http.Request) (*remix.Request, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadForm, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	primary, err := formFile(r.MultipartForm, "primary")
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: missing primary file", remix.ErrParameter)
	}
	req := remix.NewRequest(primary)
	if req.Texture.Data, err = formFile(r.MultipartForm, "texture"); err != nil {
		return nil, err
	}
	if req.Ambience.Data, err = formFile(r.MultipartForm, "ambience"); err != nil {
		return nil, err
	}

	if name := r.FormValue("preset"); name != "" {
		if err := s.presets.Apply(req, name); err != nil {
			return nil, err
		}
	}
	if v := r.FormValue("mode"); v != "" {
		req.Mode = remix.Mode(v)
	}
	if v := r.FormValue("theme"); v != "" {
		req.Theme = remix.Theme(v)
		req.Mode = remix.ModeThemed
	}

	p := formParser{r: r}
	if p.boolValue("surprise") {
		req.Surprise = true
		req.Mode = remix.ModeThemed
	}
	p.intValue("pitch", &req.Pitch)
	p.floatValue("speed", &req.Speed)
	p.floatValue("reverb", &req.ReverbWet)
	p.floatValue("slowdown", &req.Slowdown)
	p.floatValue("texture_vol", &req.Texture.Volume)
	p.floatValue("ambience_vol", &req.Ambience.Volume)
	req.ManualSpeed = p.boolValue("manual_speed")
	var seed uint64
	if p.uintValue("seed", &seed) {
		req.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	if p.err != nil {
		return nil, p.err
	}
	return req, req.Validate()
}

func (s *server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	type theme struct {
		Name        remix.Theme `json:"name"`
		Description string      `json:"description"`
	}
	themes := make([]theme, 0, len(remix.Themes()))
	for _, t := range remix.Themes() {
		desc, _ := remix.Describe(t)
		themes = append(themes, theme{Name: t, Description: desc})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"modes":  remix.Modes(),
		"themes": themes,
	})
}

func (s *server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]remix.Preset, len(s.presets.Names()))
	for _, name := range s.presets.Names() {
		out[name], _ = s.presets.Get(name)
	}
	writeJSON(w, http.StatusOK, out)
}

var errBadForm = errors.New("invalid multipart form")

// fail maps a pipeline error to a status code and writes it as JSON.
func (s *server) fail(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadForm), errors.Is(err, remix.ErrParameter), errors.Is(err, remix.ErrDecode):
		status = http.StatusBadRequest
	}

	entry := log.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Remix failed")
	} else {
		entry.Info("Rejected remix request")
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// formFile returns the contents of an uploaded file, or nil if absent.
func formFile(form *multipart.Form, field string) ([]byte, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errBadForm, field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errBadForm, field, err)
	}
	return data, nil
}

// formParser parses optional form values, keeping the first error.
type formParser struct {
	r   *http.Request
	err error
}

func (p *formParser) value(field string) (string, bool) {
	v := p.r.FormValue(field)
	return v, v != "" && p.err == nil
}

func (p *formParser) setErr(field string, err error) {
	p.err = fmt.Errorf("%w: %s: %w", remix.ErrParameter, field, err)
}

func (p *formParser) intValue(field string, dst *int) {
	if v, ok := p.value(field); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.setErr(field, err)
			return
		}
		*dst = n
	}
}

func (p *formParser) uintValue(field string, dst *uint64) bool {
	v, ok := p.value(field)
	if !ok {
		return false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.setErr(field, err)
		return false
	}
	*dst = n
	return true
}

func (p *formParser) floatValue(field string, dst *float64) {
	if v, ok := p.value(field); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.setErr(field, err)
			return
		}
		*dst = f
	}
}

func (p *formParser) boolValue(field string) bool {
	v, ok := p.value(field)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.setErr(field, err)
		return false
	}
	return b
}
