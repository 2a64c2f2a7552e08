// Package outline renders the heading structure of a document as a Graphviz
// diagram.
//
// # Overview
//
// The outline is a tree: the document root (the first title, or a synthetic
// "document" node when the text does not open with one), sections under the
// latest title, and items under the latest section. Sub-bullets hang under
// the bullet before them.
//
// # Usage
//
//	dot := outline.ToDOT(blocks, outline.Options{Detailed: true})
//	svg, err := outline.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := outline.RenderPDF(ctx, dot)
//	png, err := outline.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: also include metadata, link and paragraph blocks as leaves.
//     Without it only titles, sections and bullets appear.
package outline
