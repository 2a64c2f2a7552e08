package html

import (
	"strings"

	"github.com/matzehuels/docmark/pkg/markup"
)

// ClassSet names the class hooks emitted for each block kind.
// An empty Emphasis class falls back to a <strong> element; an empty Link
// class renders the URL as plain text.
type ClassSet struct {
	Container string
	Title     string
	Section   string
	Text      string // metadata lines, paragraphs, link lines
	Bullet    string // bullets and sub-bullets
	Link      string // URL span inside a link line
	Emphasis  string // inline bold span
}

// PreviewerClasses are the hooks of the transcript previewer.
var PreviewerClasses = ClassSet{
	Title:   "title",
	Section: "section-header",
	Text:    "text",
	Bullet:  "bullet-list bullet-point",
	Link:    "link",
}

// DocStyleClasses are the hooks of the document-style viewer.
var DocStyleClasses = ClassSet{
	Container: "gdoc-container",
	Title:     "gdoc-header-l1",
	Section:   "gdoc-header-l2",
	Text:      "gdoc-text",
	Bullet:    "gdoc-text",
	Emphasis:  "gdoc-bold",
}

// Classes returns the class set used for grammar g. Grammars other than
// docstyle use the previewer hooks.
func Classes(g markup.Grammar) ClassSet {
	if g.Name == markup.GrammarDocStyle {
		return DocStyleClasses
	}
	return PreviewerClasses
}

// Hooks returns the distinct class names of the set, one per token, in
// declaration order.
func (c ClassSet) Hooks() []string {
	var hooks []string
	seen := make(map[string]bool)
	for _, attr := range []string{c.Container, c.Title, c.Section, c.Text, c.Bullet, c.Link, c.Emphasis} {
		for _, class := range strings.Fields(attr) {
			if !seen[class] {
				seen[class] = true
				hooks = append(hooks, class)
			}
		}
	}
	return hooks
}
