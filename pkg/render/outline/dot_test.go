package outline

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/docmark/pkg/markup"
)

func TestToDOT_Basic(t *testing.T) {
	blocks := markup.Transpile("# Notes\n## Agenda\n- first\n+nested", markup.Previewer)
	dot := ToDOT(blocks, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{
		`"n0" [label="Notes"`,
		`"n1" [label="Agenda"`,
		`"n2" [label="first"`,
		`"n3" [label="nested"`,
		`"n0" -> "n1";`,
		`"n1" -> "n2";`,
		`"n2" -> "n3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_SyntheticRoot(t *testing.T) {
	blocks := markup.Transpile("## Section\n- item", markup.Previewer)
	dot := ToDOT(blocks, Options{})

	if !strings.Contains(dot, `"n0" [label="document"`) {
		t.Errorf("expected synthetic root, got\n%s", dot)
	}
	if !strings.Contains(dot, `"n0" -> "n1";`) || !strings.Contains(dot, `"n1" -> "n2";`) {
		t.Errorf("section should hang under root and item under section\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.Contains(dot, `label="document"`) {
		t.Errorf("empty outline missing root\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Errorf("empty outline should have no edges\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	input := "# T\n**Owner:** Bob\nDocs: http://x.io\nplain text"

	dot := ToDOT(markup.Transpile(input, markup.Previewer), Options{})
	if strings.Contains(dot, "Owner") {
		t.Error("ToDOT() simple output should omit metadata")
	}

	dot = ToDOT(markup.Transpile(input, markup.Previewer), Options{Detailed: true})
	for _, want := range []string{"Owner: Bob", "Docs: http://x.io", "plain text", "shape=note"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed output missing %q", want)
		}
	}
}

func TestToDOT_SecondTitle(t *testing.T) {
	blocks := markup.Transpile("# A\n## s\n# B\n- x", markup.Previewer)
	dot := ToDOT(blocks, Options{})

	// B hangs under the root A; x hangs under B, not under s.
	if !strings.Contains(dot, `"n0" -> "n2";`) {
		t.Errorf("second title should hang under root\n%s", dot)
	}
	if !strings.Contains(dot, `"n2" -> "n3";`) {
		t.Errorf("bullet should hang under latest title\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	if got := fmtLabel("  short "); got != "short" {
		t.Errorf("fmtLabel() = %q, want %q", got, "short")
	}
	long := strings.Repeat("x", 60)
	got := fmtLabel(long)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != maxLabel {
		t.Errorf("fmtLabel() = %q, want %d runes ending in an ellipsis", got, maxLabel)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz render in short mode")
	}
	dot := ToDOT(markup.Transpile("# T\n## S\n- a", markup.Previewer), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
