package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/render"
)

// Options configures outline rendering.
type Options struct {
	// Detailed includes metadata, link and paragraph leaves.
	Detailed bool
}

// rootLabel names the synthetic root of documents without a leading title.
const rootLabel = "document"

// maxLabel is the label length in runes before truncation.
const maxLabel = 40

type node struct {
	id    string
	label string
	kind  markup.Kind
	root  bool
}

type edge struct{ from, to string }

// tree tracks the latest open node at each outline level.
type tree struct {
	nodes   []node
	edges   []edge
	root    string
	title   string
	section string
	bullet  string
}

func (t *tree) add(kind markup.Kind, label, parent string) string {
	id := "n" + strconv.Itoa(len(t.nodes))
	t.nodes = append(t.nodes, node{id: id, label: label, kind: kind, root: parent == ""})
	if parent != "" {
		t.edges = append(t.edges, edge{parent, id})
	}
	return id
}

func (t *tree) ensureRoot() string {
	if t.root == "" {
		t.root = t.add(markup.Paragraph, rootLabel, "")
	}
	return t.root
}

func (t *tree) container() string {
	switch {
	case t.section != "":
		return t.section
	case t.title != "":
		return t.title
	default:
		return t.ensureRoot()
	}
}

// build folds blocks into the outline tree.
func build(blocks []markup.Block, opts Options) *tree {
	t := &tree{}
	for _, b := range blocks {
		switch b.Kind {
		case markup.Title:
			if t.root == "" {
				t.root = t.add(b.Kind, b.Text, "")
				t.title = t.root
			} else {
				t.title = t.add(b.Kind, b.Text, t.root)
			}
			t.section, t.bullet = "", ""
		case markup.SectionHeader:
			parent := t.title
			if parent == "" {
				parent = t.ensureRoot()
			}
			t.section = t.add(b.Kind, b.Text, parent)
			t.bullet = ""
		case markup.BulletItem:
			t.bullet = t.add(b.Kind, b.Text, t.container())
		case markup.SubBulletItem:
			parent := t.bullet
			if parent == "" {
				parent = t.container()
			}
			t.add(b.Kind, strings.TrimPrefix(b.Text, "+"), parent)
		case markup.MetadataLine, markup.LinkLine, markup.Paragraph:
			if opts.Detailed {
				t.add(b.Kind, b.PlainText(), t.container())
			}
		}
	}
	return t
}

// ToDOT converts blocks to a Graphviz DOT outline.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
// An empty block list yields a graph with only the "document" root.
func ToDOT(blocks []markup.Block, opts Options) string {
	t := build(blocks, opts)
	t.ensureRoot()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range t.nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.id, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range t.edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxLabel {
		return s
	}
	r := []rune(s)
	return string(r[:maxLabel-1]) + "…"
}

func fmtAttrs(n node) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n.label))}
	switch {
	case n.root:
		attrs = append(attrs, "fillcolor=\"#4346bb\"", "fontcolor=white", "fontsize=18")
	case n.kind == markup.Title:
		attrs = append(attrs, "fillcolor=\"#e8e9f8\"", "fontsize=16")
	case n.kind == markup.SectionHeader:
		attrs = append(attrs, "fillcolor=\"#f1f3f4\"")
	case n.kind == markup.SubBulletItem:
		attrs = append(attrs, "style=\"rounded,dashed\"")
	case n.kind == markup.LinkLine:
		attrs = append(attrs, "shape=note", "style=filled", "fontcolor=\"#1155cc\"")
	case n.kind == markup.MetadataLine, n.kind == markup.Paragraph:
		attrs = append(attrs, "shape=plaintext", "style=\"\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag (pt units, translated
// origin) with one sized in pixels from a zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT outline as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT outline as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
