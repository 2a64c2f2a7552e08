// Package markup converts loosely-structured plain text into typed blocks.
//
// # Overview
//
// The input is transcript-like text: headings, bullet markers, bold markers,
// "label: value" metadata and URLs. [Transpile] classifies every line against
// a [Grammar] and returns the resulting [Block] sequence in document order.
//
// Two grammars are predefined:
//
//   - [Previewer]: "# " titles, "## " sections, "**key:**" metadata lines,
//     "- " bullets, "+" sub-bullets, lines containing "http" as links.
//     Consecutive blank lines collapse into one spacer.
//   - [DocStyle]: "## " titles, "### " sections, inline "**bold**" spans in
//     paragraphs. Every blank line yields a spacer.
//
// A grammar is always chosen explicitly by the caller; it is never inferred
// from the content.
//
// # Classification
//
// Each line is trimmed and then tested against the rules below, top to
// bottom. The first rule that matches decides the block kind.
//
//  1. title marker          → [Title]
//  2. section marker        → [SectionHeader]
//  3. "**label:**" prefix   → [MetadataLine] (markers stripped)
//  4. "- " prefix           → [BulletItem]
//  5. "+" prefix            → [SubBulletItem] (marker kept)
//  6. contains "http"       → [LinkLine]
//  7. contains "**"         → [Paragraph] with emphasis spans
//  8. non-empty             → [Paragraph]
//  9. empty                 → [Spacer]
//
// Rules 3 to 7 only fire when the grammar enables them. Blank lines before the
// first emitted block never produce a spacer.
//
// # Usage
//
//	blocks := markup.Transpile(text, markup.Previewer)
//	for _, b := range blocks {
//	    fmt.Println(b.Kind, b.PlainText())
//	}
//
// Transpile has no error path and holds no state between calls, so it can be
// called concurrently on independent inputs.
package markup
