package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns what the command
// wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// isolate points the XDG config and cache directories at temporary ones.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func writeInput(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", nil},
		{"single format", "html", []string{"html"}},
		{"multiple formats", "html,json,svg", []string{"html", "json", "svg"}},
		{"spaces and empties", " html, ,text ", []string{"html", "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		count  int
		want   string
	}{
		{"derived from input", "", "notes.txt", "html", 1, "notes.html"},
		{"document uses html", "", "notes.txt", "document", 1, "notes.html"},
		{"explicit single", "out/page.htm", "notes.txt", "html", 1, "out/page.htm"},
		{"base path", "out/page", "notes.txt", "svg", 2, "out/page.svg"},
		{"known extension stripped", "out/page.html", "notes.txt", "json", 2, "out/page.json"},
		{"stdin", "", "-", "json", 2, "document.json"},
		{"text extension", "", "notes.md", "text", 1, "notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.count); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.input, tt.format, tt.count, got, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	captureStatus(t)
	input := writeInput(t, "notes.md", "# Weekly\n- item\nDocs: https://example.com")

	if _, err := runCLI(t, "render", input, "-f", "html,json"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	html, err := os.ReadFile(strings.TrimSuffix(input, ".md") + ".html")
	if err != nil {
		t.Fatalf("html output missing: %v", err)
	}
	if !strings.Contains(string(html), `<div class="title">Weekly</div>`) {
		t.Errorf("html = %s", html)
	}

	data, err := os.ReadFile(strings.TrimSuffix(input, ".md") + ".json")
	if err != nil {
		t.Fatalf("json output missing: %v", err)
	}
	var doc struct {
		Grammar string `json:"grammar"`
		Blocks  []struct {
			Kind string `json:"kind"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if doc.Grammar != "previewer" || len(doc.Blocks) != 3 || doc.Blocks[2].Kind != "link" {
		t.Errorf("json document = %+v", doc)
	}
}

func TestRenderToStdout(t *testing.T) {
	isolate(t)
	captureStatus(t)
	input := writeInput(t, "notes.txt", "## Summary\nhello **world**")

	out, err := runCLI(t, "render", input, "-g", "docstyle", "-o", "-")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{`class="gdoc-header-l1"`, `<span class="gdoc-bold">world</span>`} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout %q missing %q", out, want)
		}
	}
}

func TestRenderCached(t *testing.T) {
	isolate(t)
	status := captureStatus(t)
	input := writeInput(t, "notes.md", "# Cached")

	for i := 0; i < 2; i++ {
		if _, err := runCLI(t, "render", input); err != nil {
			t.Fatalf("render %d failed: %v", i, err)
		}
	}
	if got := strings.Count(status.String(), iconCached); got != 1 {
		t.Errorf("expected the second render to be cached, status:\n%s", status.String())
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	captureStatus(t)
	input := writeInput(t, "notes.txt", "# T")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.txt")}, "FILE_NOT_FOUND"},
		{"bad grammar", []string{"render", input, "-g", "wiki"}, "INVALID_GRAMMAR"},
		{"bad format", []string{"render", input, "-f", "docx"}, "INVALID_FORMAT"},
		{"overwrite input", []string{"render", input, "-f", "text"}, "overwrite"},
		{"stdout several", []string{"render", input, "-f", "html,json", "-o", "-"}, "stdout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestNeedsGraphviz(t *testing.T) {
	if needsGraphviz([]string{"html", "json"}) {
		t.Error("html/json should not need graphviz")
	}
	if !needsGraphviz([]string{"html", "png"}) {
		t.Error("png should need graphviz")
	}
}

func TestRenderBlockDocument(t *testing.T) {
	isolate(t)
	captureStatus(t)
	input := writeInput(t, "notes.md", "## Summary\nhello **world**")

	if _, err := runCLI(t, "render", input, "-g", "docstyle", "-f", "json"); err != nil {
		t.Fatalf("json render failed: %v", err)
	}
	blocks := strings.TrimSuffix(input, ".md") + ".json"

	out, err := runCLI(t, "render", blocks, "-f", "html", "-o", "-")
	if err != nil {
		t.Fatalf("re-render failed: %v", err)
	}
	if !strings.Contains(out, `<span class="gdoc-bold">world</span>`) {
		t.Errorf("grammar from the block document not used: %q", out)
	}

	if _, err := runCLI(t, "render", blocks, "-f", "json"); err == nil || !strings.Contains(err.Error(), "overwrite") {
		t.Errorf("re-rendering json onto itself should fail, got %v", err)
	}
}
