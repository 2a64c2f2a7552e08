package html

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/matzehuels/docmark/pkg/markup"
)

// parse parses a fragment into a document and returns its root.
func parse(t *testing.T, data []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func queryAll(t *testing.T, doc *html.Node, sel string) []*html.Node {
	t.Helper()
	s, err := cascadia.Compile(sel)
	if err != nil {
		t.Fatalf("compile %q: %v", sel, err)
	}
	return s.MatchAll(doc)
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestRenderPreviewer(t *testing.T) {
	input := "# Weekly Sync\n**Date:** Monday\n## Agenda\n- first\n+nested\nDocs: http://example.com\n\n\nclosing"
	blocks := markup.Transpile(input, markup.Previewer)
	doc := parse(t, Render(blocks, markup.Previewer))

	tests := []struct {
		sel   string
		count int
		text  string
	}{
		{"div.title", 1, "Weekly Sync"},
		{"div.section-header", 1, "Agenda"},
		{"div.bullet-list.bullet-point", 2, ""},
		{"div.bullet-point[style]", 1, "+nested"},
		{"span.link", 1, "http://example.com"},
		{`div[style="height: 12pt;"]`, 1, ""},
		{"div.text", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			nodes := queryAll(t, doc, tt.sel)
			if len(nodes) != tt.count {
				t.Fatalf("got %d matches, want %d", len(nodes), tt.count)
			}
			if tt.text != "" {
				if got := textOf(nodes[0]); got != tt.text {
					t.Errorf("got text %q, want %q", got, tt.text)
				}
			}
		})
	}
}

func TestRenderLinkLabel(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Docs: http://example.com", "Docs: http://example.com"},
		{"see http://example.com", "see http://example.com"},
	}
	for _, tt := range tests {
		blocks := markup.Transpile(tt.line, markup.Previewer)
		doc := parse(t, Render(blocks, markup.Previewer))
		nodes := queryAll(t, doc, "div.text")
		if len(nodes) != 1 {
			t.Fatalf("%q: got %d text divs", tt.line, len(nodes))
		}
		if got := textOf(nodes[0]); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestRenderDocStyle(t *testing.T) {
	input := "## Summary\n### Details\nhello **world** and **more**"
	blocks := markup.Transpile(input, markup.DocStyle)
	doc := parse(t, Render(blocks, markup.DocStyle))

	if n := len(queryAll(t, doc, "div.gdoc-header-l1")); n != 1 {
		t.Errorf("got %d l1 headers, want 1", n)
	}
	if n := len(queryAll(t, doc, "div.gdoc-header-l2")); n != 1 {
		t.Errorf("got %d l2 headers, want 1", n)
	}
	bold := queryAll(t, doc, "div.gdoc-text span.gdoc-bold")
	if len(bold) != 2 {
		t.Fatalf("got %d bold spans, want 2", len(bold))
	}
	if got := textOf(bold[1]); got != "more" {
		t.Errorf("second bold = %q, want more", got)
	}
}

func TestRenderEscapes(t *testing.T) {
	blocks := markup.Transpile("<script>alert(1)</script>", markup.Previewer)
	out := string(Render(blocks, markup.Previewer))
	if strings.Contains(out, "<script>") {
		t.Errorf("markup leaked into output: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped text, got %s", out)
	}
}

func TestRenderPlaceholder(t *testing.T) {
	if got := Render(nil, markup.Previewer); len(got) != 0 {
		t.Errorf("empty render = %q, want nothing", got)
	}

	got := string(Render(nil, markup.Previewer, WithPlaceholder(DefaultPlaceholder)))
	want := `<div class="text">No content to display</div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderDocument(t *testing.T) {
	blocks := markup.Transpile("## Notes\ntext", markup.DocStyle)
	out := Render(blocks, markup.DocStyle, WithDocument(), WithTitle("My Notes"))

	if !bytes.HasPrefix(out, []byte("<!DOCTYPE html>")) {
		t.Errorf("document should start with a doctype: %.40s", out)
	}
	doc := parse(t, out)
	titles := queryAll(t, doc, "head > title")
	if len(titles) != 1 || textOf(titles[0]) != "My Notes" {
		t.Errorf("title not rendered")
	}
	if n := len(queryAll(t, doc, "head > style")); n != 1 {
		t.Errorf("got %d style elements, want 1", n)
	}
	if n := len(queryAll(t, doc, "body > div.gdoc-container > div.gdoc-header-l1")); n != 1 {
		t.Errorf("container does not wrap blocks")
	}
}

func TestRenderWithClasses(t *testing.T) {
	blocks := markup.Transpile("# T", markup.Previewer)
	doc := parse(t, Render(blocks, markup.Previewer, WithClasses(ClassSet{Title: "heading"})))
	if n := len(queryAll(t, doc, "div.heading")); n != 1 {
		t.Errorf("custom class not applied")
	}
}

func TestEmphasisWithoutClass(t *testing.T) {
	blocks := markup.Transpile("a **b**", markup.DocStyle)
	doc := parse(t, Render(blocks, markup.DocStyle, WithClasses(ClassSet{Text: "p"})))
	strong := queryAll(t, doc, "div.p > strong")
	if len(strong) != 1 || textOf(strong[0]) != "b" {
		t.Errorf("expected one <strong>b</strong>")
	}
}

func TestStylesheetCoversHooks(t *testing.T) {
	for _, g := range []markup.Grammar{markup.Previewer, markup.DocStyle} {
		t.Run(g.Name, func(t *testing.T) {
			missing, err := VerifyStylesheet(Stylesheet(g), Classes(g).Hooks())
			if err != nil {
				t.Fatalf("VerifyStylesheet: %v", err)
			}
			if len(missing) > 0 {
				t.Errorf("hooks without a rule: %v", missing)
			}
		})
	}
}

func TestVerifyStylesheetMissing(t *testing.T) {
	css := `.a { color: red; } @media print { .b::before { content: "x"; } }`
	missing, err := VerifyStylesheet(css, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 1 || missing[0] != "c" {
		t.Errorf("missing = %v, want [c]", missing)
	}
}

func TestClassesHooks(t *testing.T) {
	got := Classes(markup.Previewer).Hooks()
	want := []string{"title", "section-header", "text", "bullet-list", "bullet-point", "link"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Hooks() = %v, want %v", got, want)
	}
	if Classes(markup.DocStyle).Container != "gdoc-container" {
		t.Error("docstyle container class missing")
	}
}

func TestPassthrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `<p class="x">hi</p>`, `<p class="x">hi</p>`},
		{"script dropped", `<p>a</p><script>alert(1)</script>`, `<p>a</p>`},
		{"handler dropped", `<b onclick="x()">b</b>`, `<b>b</b>`},
		{"comment dropped", `<!-- c -->t`, `t`},
		{"placeholder", "  ", `<div class="text">empty</div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Passthrough(tt.in, "empty")); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if got := Passthrough("", ""); got != nil {
		t.Errorf("blank with no placeholder = %q, want nil", got)
	}
}

func TestPassthroughActiveContent(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		keep   string
		banned []string
	}{
		{"javascript href", `<a href="javascript:x()">l</a>`, "l", []string{"javascript"}},
		{"tab in scheme", `<a href="jav&#x09;ascript:alert(1)">x</a>`, "x", []string{"ascript", "alert"}},
		{"newline in scheme", "<a href=\"java\nscript:alert(1)\">x</a>", "x", []string{"script", "alert"}},
		{"data url", `<a href="data:text/html,<script>alert(1)</script>">x</a>`, "x", []string{"data:", "alert"}},
		{"meta refresh", `<meta http-equiv="refresh" content="0;url=javascript:alert(1)"/>ok`, "ok", []string{"meta", "refresh"}},
		{"base href", `<base href="https://evil.example/"/>ok`, "ok", []string{"base", "evil"}},
		{"svg animate", `<svg><animate attributeName="href" values="javascript:alert(1)"/></svg>ok`, "ok", []string{"animate", "javascript"}},
		{"nested iframe", `<div><iframe src="x"></iframe>ok</div>`, "ok", []string{"iframe"}},
		{"form", `<form action="https://evil.example/"><input name="q"></form>ok`, "ok", []string{"form", "input", "evil"}},
		{"link element", `<link rel="stylesheet" href="https://evil.example/x.css">ok`, "ok", []string{"link", "evil"}},
		{"style element", `<style>body{display:none}</style>ok`, "ok", []string{"style", "display"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Passthrough(tt.in, ""))
			if !strings.Contains(got, tt.keep) {
				t.Errorf("got %q, want it to keep %q", got, tt.keep)
			}
			lower := strings.ToLower(got)
			for _, b := range tt.banned {
				if strings.Contains(lower, b) {
					t.Errorf("got %q, want no %q", got, b)
				}
			}
		})
	}
}

func TestPassthroughKeepsLinksAndHooks(t *testing.T) {
	got := string(Passthrough(`<a href="https://example.com/">docs</a><div style="margin-left: 72pt">i</div>`, ""))
	for _, want := range []string{`href="https://example.com/"`, ">docs</a>", "margin-left", ">i</div>"} {
		if !strings.Contains(got, want) {
			t.Errorf("got %q, want it to contain %q", got, want)
		}
	}
}
