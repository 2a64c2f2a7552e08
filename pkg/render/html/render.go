package html

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/docmark/pkg/markup"
)

// DefaultPlaceholder is the text shown for an empty document.
const DefaultPlaceholder = "No content to display"

const (
	spacerStyle    = "height: 12pt;"
	subBulletStyle = "margin-left: 72pt"
	previewPadding = "padding: 0 20px"
)

// Option configures Render.
type Option func(*renderer)

// WithDocument renders a complete HTML page with the grammar's stylesheet
// inlined, instead of a bare fragment.
func WithDocument() Option {
	return func(r *renderer) { r.document = true }
}

// WithTitle sets the <title> of a document rendered with WithDocument.
func WithTitle(title string) Option {
	return func(r *renderer) { r.title = title }
}

// WithPlaceholder sets the text rendered when there are no blocks.
// An empty placeholder renders nothing.
func WithPlaceholder(text string) Option {
	return func(r *renderer) { r.placeholder = text }
}

// WithClasses overrides the class hooks derived from the grammar.
func WithClasses(c ClassSet) Option {
	return func(r *renderer) { r.classes = &c }
}

type renderer struct {
	document    bool
	title       string
	placeholder string
	classes     *ClassSet
}

// Render converts blocks into HTML. Without options the result is a
// fragment of block-level divs, one per block.
func Render(blocks []markup.Block, g markup.Grammar, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}
	classes := Classes(g)
	if r.classes != nil {
		classes = *r.classes
	}

	nodes := blockNodes(blocks, classes)
	if len(nodes) == 0 && r.placeholder != "" {
		nodes = append(nodes, div(classes.Text, text(r.placeholder)))
	}

	var buf bytes.Buffer
	if r.document {
		_ = html.Render(&buf, document(nodes, classes, Stylesheet(g), r.title))
		return buf.Bytes()
	}
	for _, n := range nodes {
		_ = html.Render(&buf, n)
	}
	return buf.Bytes()
}

func blockNodes(blocks []markup.Block, c ClassSet) []*html.Node {
	nodes := make([]*html.Node, 0, len(blocks))
	for _, b := range blocks {
		nodes = append(nodes, blockNode(b, c))
	}
	return nodes
}

func blockNode(b markup.Block, c ClassSet) *html.Node {
	switch b.Kind {
	case markup.Title:
		return div(c.Title, text(b.Text))
	case markup.SectionHeader:
		return div(c.Section, text(b.Text))
	case markup.BulletItem:
		return div(c.Bullet, text(b.Text))
	case markup.SubBulletItem:
		n := div(c.Bullet, text(b.Text))
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: subBulletStyle})
		return n
	case markup.LinkLine:
		return linkNode(b, c)
	case markup.Spacer:
		n := element(atom.Div)
		n.Attr = []html.Attribute{{Key: "style", Val: spacerStyle}}
		return n
	case markup.Paragraph:
		if b.Spans != nil {
			return div(c.Text, spanNodes(b.Spans, c)...)
		}
		return div(c.Text, text(b.Text))
	default: // MetadataLine
		return div(c.Text, text(b.Text))
	}
}

func linkNode(b markup.Block, c ClassSet) *html.Node {
	var children []*html.Node
	if b.Label != "" {
		children = append(children, text(b.Label+": "))
	}
	if c.Link == "" {
		children = append(children, text(b.URL))
	} else {
		children = append(children, span(c.Link, text(b.URL)))
	}
	return div(c.Text, children...)
}

func spanNodes(spans []markup.Span, c ClassSet) []*html.Node {
	nodes := make([]*html.Node, 0, len(spans))
	for _, s := range spans {
		switch {
		case !s.Emphasis:
			nodes = append(nodes, text(s.Text))
		case c.Emphasis == "":
			n := element(atom.Strong)
			n.AppendChild(text(s.Text))
			nodes = append(nodes, n)
		default:
			nodes = append(nodes, span(c.Emphasis, text(s.Text)))
		}
	}
	return nodes
}

func document(body []*html.Node, c ClassSet, css, title string) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title != "" {
		t := element(atom.Title)
		t.AppendChild(text(title))
		head.AppendChild(t)
	}
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
	root.AppendChild(head)

	bodyEl := element(atom.Body)
	container := div(c.Container, body...)
	if c.Container == "" {
		container.Attr = []html.Attribute{{Key: "style", Val: previewPadding}}
	}
	bodyEl.AppendChild(container)
	root.AppendChild(bodyEl)
	return doc
}

// =============================================================================
// Node helpers
// =============================================================================

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func div(class string, children ...*html.Node) *html.Node {
	n := element(atom.Div)
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func span(class string, children ...*html.Node) *html.Node {
	n := element(atom.Span)
	n.Attr = []html.Attribute{{Key: "class", Val: class}}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
