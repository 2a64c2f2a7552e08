// Package html renders transpiled blocks as HTML markup.
//
// # Overview
//
// Every block kind maps to one fixed wrapper element carrying a style class
// hook. The class names come from a [ClassSet] chosen per grammar:
//
//	previewer: title, section-header, text, bullet-list bullet-point, link
//	docstyle:  gdoc-header-l1, gdoc-header-l2, gdoc-text, gdoc-bold
//
// Spacers render as a fixed-height empty div in both. Text content is escaped;
// the output never contains markup taken from the input.
//
// # Usage
//
//	blocks := markup.Transpile(text, markup.Previewer)
//	fragment := html.Render(blocks, markup.Previewer)
//
//	// Standalone page with the static stylesheet inlined
//	page := html.Render(blocks, markup.Previewer,
//	    html.WithDocument(),
//	    html.WithTitle("Notes"),
//	    html.WithPlaceholder(html.DefaultPlaceholder),
//	)
//
// The stylesheets returned by [Stylesheet] are static configuration; they do
// not depend on the input. [VerifyStylesheet] checks that a stylesheet
// declares a rule for every class hook the renderer emits.
package html
