package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/docmark/pkg/buildinfo"
	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/preview"
	"github.com/matzehuels/docmark/pkg/render/html"
)

// FormatBlocks is accepted by /v1/transpile as an alias of the json format.
const FormatBlocks = "blocks"

// Response headers describing a rendered artifact.
const (
	headerCache      = "X-Docmark-Cache"
	headerGeneration = "X-Docmark-Generation"
	headerGrammar    = "X-Docmark-Grammar"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

// GrammarsResponse is the body of GET /v1/grammars.
type GrammarsResponse struct {
	Grammars []string `json:"grammars"`
	Formats  []string `json:"formats"`
}

// TranspileRequest is the body of POST /v1/transpile.
type TranspileRequest struct {
	Text        string `json:"text"`
	Grammar     string `json:"grammar,omitempty"`
	Format      string `json:"format,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Title       string `json:"title,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
	Width       int    `json:"width,omitempty"`
}

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Grammar     string   `json:"grammar,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Format      string   `json:"format,omitempty"` // shorthand for a single format
	Placeholder string   `json:"placeholder,omitempty"`
	Title       string   `json:"title,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
	Width       int      `json:"width,omitempty"`
}

// SessionResponse describes a preview session.
type SessionResponse struct {
	ID         string    `json:"id"`
	Grammar    string    `json:"grammar"`
	Formats    []string  `json:"formats"`
	Generation uint64    `json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateResponse is the body of PUT /v1/sessions/{id}.
type UpdateResponse struct {
	Generation uint64 `json:"generation"`
	Published  uint64 `json:"published"` // newest published generation after the update
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Sessions: s.sessions.Len(),
	})
}

func (s *Server) handleGrammars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GrammarsResponse{
		Grammars: markup.Grammars(),
		Formats:  pipeline.Formats(),
	})
}

func (s *Server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	var req TranspileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateInput(req.Text); err != nil {
		writeError(w, err)
		return
	}

	format := req.Format
	if format == FormatBlocks {
		format = pipeline.FormatJSON
	}
	opts := pipeline.Options{
		Grammar:     req.Grammar,
		Placeholder: req.Placeholder,
		Title:       req.Title,
		Detailed:    req.Detailed,
		Width:       req.Width,
		Logger:      s.logger,
	}
	if format != "" {
		opts.Formats = []string{format}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}
	format = opts.Formats[0]

	result, err := s.runner.Execute(r.Context(), req.Text, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(result.CacheInfo.Hits) > 0 {
		w.Header().Set(headerCache, "hit")
	} else {
		w.Header().Set(headerCache, "miss")
	}
	w.Header().Set(headerGrammar, result.Grammar)
	writeArtifact(w, format, result.Artifacts[format])
}

// handleDisplay shows caller-provided markup as-is after sanitising it.
func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	placeholder := pipeline.DefaultPlaceholder
	if q := r.URL.Query(); q.Has("placeholder") {
		placeholder = q.Get("placeholder")
	}
	writeArtifact(w, pipeline.FormatHTML, html.Passthrough(body, placeholder))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.sessions.List()
	out := make([]SessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, describe(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	formats := req.Formats
	if len(formats) == 0 && req.Format != "" {
		formats = []string{req.Format}
	}
	sess, err := s.sessions.Create(r.Context(), pipeline.Options{
		Grammar:     req.Grammar,
		Formats:     formats,
		Placeholder: req.Placeholder,
		Title:       req.Title,
		Detailed:    req.Detailed,
		Width:       req.Width,
		Logger:      s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, describe(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := sess.Options()
	format := r.URL.Query().Get("format")
	if format == "" {
		format = opts.Formats[0]
	}

	snap := sess.Latest()
	data, ok := snap.Result.Artifacts[format]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat,
			"session %s does not render %q", sess.ID, format))
		return
	}

	w.Header().Set(headerGeneration, strconv.FormatUint(snap.Generation, 10))
	w.Header().Set(headerGrammar, opts.Grammar)
	writeArtifact(w, format, data)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	gen, err := sess.Update(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse{
		Generation: gen,
		Published:  sess.Latest().Generation,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func describe(sess *preview.Session) SessionResponse {
	opts := sess.Options()
	snap := sess.Latest()
	return SessionResponse{
		ID:         sess.ID,
		Grammar:    opts.Grammar,
		Formats:    opts.Formats,
		Generation: snap.Generation,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}
}

// readBody reads a raw text body, bounded by the configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return "", bodyError(err)
	}
	text := string(data)
	if err := errors.ValidateInput(text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeErrorStatus(w, errors.HTTPStatus(err), string(code), errors.UserMessage(err))
}

func writeErrorStatus(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
