/*
Package httpapi exposes the transformer over HTTP with a chi router.

	POST /v1/transform      {"text": "Привет", "rate": 1, "level": 0.5, "seed": 42}
	GET  /v1/syllables?word=психология
	GET  /healthz

rate, level and seed are optional and override the server settings for
one request. Every response carries an X-Request-ID header; an incoming
one is kept, otherwise a UUID is generated. Errors are JSON objects with
"id", "error" and "code".
*/
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bastiangx/hehify/internal/logger"
	"github.com/bastiangx/hehify/pkg/errors"
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Text  string   `json:"text"`
	Rate  *float64 `json:"rate,omitempty"`
	Level *float64 `json:"level,omitempty"`
	Seed  *int64   `json:"seed,omitempty"`
}

// Stats mirrors heh.Stats.
type Stats struct {
	Words     int `json:"words"`
	Changed   int `json:"changed"`
	Replaced  int `json:"replaced"`
	Protected int `json:"protected"`
}

// TransformResponse is the reply to POST /v1/transform.
type TransformResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Stats     Stats  `json:"stats"`
	TimeTaken int64  `json:"time_us"`
}

// SyllableInfo is one row of GET /v1/syllables.
type SyllableInfo struct {
	Text     string `json:"text"`
	Match    string `json:"match"`
	Score    int    `json:"score"`
	Selected bool   `json:"selected"`
}

// SyllablesResponse is the reply to GET /v1/syllables.
type SyllablesResponse struct {
	ID        string         `json:"id"`
	Word      string         `json:"word"`
	Syllables []SyllableInfo `json:"syllables"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Handler serves the HTTP API.
type Handler struct {
	transformer *heh.Transformer
	maxTextLen  int
	logger      *log.Logger
}

// New creates a handler. A maxTextLen of zero disables the length check.
func New(t *heh.Transformer, maxTextLen int, l *log.Logger) *Handler {
	if l == nil {
		l = log.Default()
	}
	return &Handler{transformer: t, maxTextLen: maxTextLen, logger: l}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.With(middleware.AllowContentType("application/json")).Post("/transform", h.transform)
		r.Get("/syllables", h.syllables)
	})
	return r
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		l := h.logger.With("id", id)
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), l)))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.FromContext(r.Context()).Debug("request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) transform(w http.ResponseWriter, r *http.Request) {
	id := w.Header().Get(RequestIDHeader)

	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, errors.Wrap(errors.ErrCodeInvalidRequest, err, "malformed JSON body"))
		return
	}
	if h.maxTextLen > 0 && len(req.Text) > h.maxTextLen {
		h.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "text exceeds %d bytes", h.maxTextLen))
		return
	}

	t := h.transformer
	if req.Rate != nil || req.Level != nil || req.Seed != nil {
		settings := t.Settings()
		if req.Rate != nil {
			settings.Rate = *req.Rate
		}
		if req.Level != nil {
			settings.Level = *req.Level
		}
		if req.Seed != nil {
			settings = settings.WithSeed(*req.Seed)
		}
		var err error
		if t, err = t.WithSettings(settings); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	start := time.Now()
	out, st := t.Transform(req.Text)
	writeJSON(w, http.StatusOK, TransformResponse{
		ID:   id,
		Text: out,
		Stats: Stats{
			Words:     st.Words,
			Changed:   st.Changed,
			Replaced:  st.Replaced,
			Protected: st.Protected,
		},
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (h *Handler) syllables(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		h.fail(w, r, errors.New(errors.ErrCodeInvalidRequest, "missing 'word' parameter"))
		return
	}
	if spans := heh.Tokenize(word); len(spans) != 1 || !spans[0].Word {
		h.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "%q is not a single Cyrillic word", word))
		return
	}

	choices := h.transformer.Explain(word)
	rows := make([]SyllableInfo, len(choices))
	for i, c := range choices {
		rows[i] = SyllableInfo{
			Text:     c.Syllable.Text(),
			Match:    c.Match.Text(),
			Score:    c.Score,
			Selected: c.Selected,
		}
	}
	writeJSON(w, http.StatusOK, SyllablesResponse{
		ID:        w.Header().Get(RequestIDHeader),
		Word:      word,
		Syllables: rows,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.Status(err)
	logger.FromContext(r.Context()).Warn("request failed", "status", status, "err", err)
	writeJSON(w, status, ErrorResponse{
		ID:    w.Header().Get(RequestIDHeader),
		Error: err.Error(),
		Code:  status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
