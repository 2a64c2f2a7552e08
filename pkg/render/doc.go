// Package render holds the output renderers for transpiled blocks.
//
// # Overview
//
// Each subpackage turns a []markup.Block into one output family:
//
//   - [html]: HTML fragments and standalone documents with static stylesheets
//   - [ansi]: lipgloss-styled terminal text
//   - [outline]: Graphviz outline diagrams (DOT, SVG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := outline.ToDOT(blocks, outline.Options{})
//	svg, err := outline.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [html]: github.com/matzehuels/docmark/pkg/render/html
// [ansi]: github.com/matzehuels/docmark/pkg/render/ansi
// [outline]: github.com/matzehuels/docmark/pkg/render/outline
package render
