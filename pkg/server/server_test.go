package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/preview"
)

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := log.New(&logs)
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, preview.NewManager(runner, 0, logger), Config{Logger: logger, MaxBodyBytes: 1 << 10}), &logs
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("unexpected health response: %+v", resp)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("missing security headers, got %q", got)
	}
}

func TestGrammars(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/grammars", "")
	resp := decode[GrammarsResponse](t, w)
	if strings.Join(resp.Grammars, ",") != "previewer,docstyle" {
		t.Errorf("grammars = %v", resp.Grammars)
	}
	if len(resp.Formats) != len(pipeline.Formats()) {
		t.Errorf("formats = %v", resp.Formats)
	}
}

func TestTranspile(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		status      int
		contentType string
		contains    string
	}{
		{"default html", `{"text":"# Hi"}`, 200, "text/html; charset=utf-8", `<div class="title">Hi</div>`},
		{"docstyle", `{"text":"## Hi","grammar":"docstyle"}`, 200, "text/html; charset=utf-8", `gdoc-header-l1`},
		{"blocks", `{"text":"- a","format":"blocks"}`, 200, "application/json", `"kind": "bullet"`},
		{"dot", `{"text":"# Hi","format":"dot"}`, 200, "text/vnd.graphviz; charset=utf-8", "digraph G"},
		{"bad grammar", `{"text":"x","grammar":"wiki"}`, 400, "application/json", `"INVALID_GRAMMAR"`},
		{"bad format", `{"text":"x","format":"docx"}`, 400, "application/json", `"INVALID_FORMAT"`},
		{"bad json", `{"text":`, 400, "application/json", `"INVALID_INPUT"`},
		{"unknown field", `{"text":"x","colour":"red"}`, 400, "application/json", `"INVALID_INPUT"`},
		{"too large", `{"text":"` + strings.Repeat("x", 2<<10) + `"}`, 413, "application/json", `"INPUT_TOO_LARGE"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := do(t, s, http.MethodPost, "/v1/transpile", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.contains)
			}
		})
	}
}

func TestTranspileEscapes(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/transpile", `{"text":"<img src=x onerror=alert(1)>"}`)
	if strings.Contains(w.Body.String(), "<img") {
		t.Errorf("input markup leaked: %s", w.Body.String())
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/sessions", `{"grammar":"previewer","formats":["html","json"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decode[SessionResponse](t, w)
	path := "/v1/sessions/" + created.ID
	if got := w.Header().Get("Location"); got != path {
		t.Errorf("Location = %q, want %q", got, path)
	}

	// Before the first update the placeholder is shown.
	w = do(t, s, http.MethodGet, path, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No content to display") {
		t.Errorf("initial GET = %d %q", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Docmark-Generation"); got != "0" {
		t.Errorf("initial generation header = %q", got)
	}

	w = do(t, s, http.MethodPut, path, "# Live\n- item")
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	upd := decode[UpdateResponse](t, w)
	if upd.Generation != 1 || upd.Published != 1 {
		t.Errorf("update = %+v, want generation 1 published", upd)
	}

	w = do(t, s, http.MethodGet, path, "")
	if !strings.Contains(w.Body.String(), `<div class="title">Live</div>`) {
		t.Errorf("GET after update = %q", w.Body.String())
	}

	w = do(t, s, http.MethodGet, path+"?format=json", "")
	if w.Header().Get("Content-Type") != "application/json" || !strings.Contains(w.Body.String(), `"text": "item"`) {
		t.Errorf("json GET = %q", w.Body.String())
	}

	w = do(t, s, http.MethodGet, path+"?format=svg", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("format outside the session should be rejected, got %d", w.Code)
	}

	w = do(t, s, http.MethodGet, "/v1/sessions", "")
	if list := decode[[]SessionResponse](t, w); len(list) != 1 || list[0].Generation != 1 {
		t.Errorf("list = %+v", list)
	}

	w = do(t, s, http.MethodDelete, path, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	w = do(t, s, http.MethodGet, path, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d", w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "SESSION_NOT_FOUND" {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestSessionErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid id", http.MethodGet, "/v1/sessions/nope", "", 400, "INVALID_INPUT"},
		{"missing", http.MethodPut, "/v1/sessions/6f1c1e8e-3b0c-4c58-9a53-0e5b7c2f1a10", "x", 404, "SESSION_NOT_FOUND"},
		{"bad format", http.MethodPost, "/v1/sessions", `{"format":"rtf"}`, 400, "INVALID_FORMAT"},
		{"no route", http.MethodGet, "/v2/anything", "", 404, "NOT_FOUND"},
		{"method", http.MethodPatch, "/v1/transpile", "", 405, "METHOD_NOT_ALLOWED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if resp := decode[ErrorResponse](t, w); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestSessionUpdateTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	created := decode[SessionResponse](t, do(t, s, http.MethodPost, "/v1/sessions", `{}`))

	w := do(t, s, http.MethodPut, "/v1/sessions/"+created.ID, strings.Repeat("x", 2<<10))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestRequestLogging(t *testing.T) {
	s, logs := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/sessions/nope", "")
	if !strings.Contains(logs.String(), "status=400") {
		t.Errorf("expected a warn line for the 400, got %q", logs.String())
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		want    string
		notWant string
	}{
		{"sanitised", "/v1/display", `<p onclick="x()">hi</p><script>alert(1)</script>`, "<p>hi</p>", "script"},
		{"placeholder", "/v1/display", "", "No content to display", ""},
		{"custom placeholder", "/v1/display?placeholder=Nothing", "  ", "Nothing", "No content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("body %q missing %q", body, tt.want)
			}
			if tt.notWant != "" && strings.Contains(body, tt.notWant) {
				t.Errorf("body %q should not contain %q", body, tt.notWant)
			}
		})
	}
}
