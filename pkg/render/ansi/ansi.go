// Package ansi renders transpiled blocks as styled terminal text.
//
// Styling uses lipgloss, so colors degrade automatically when the output is
// not a terminal. The layout mirrors the HTML renderer: one line group per
// block, bullets indented, spacers as empty lines.
//
//	blocks := markup.Transpile(text, markup.Previewer)
//	fmt.Print(ansi.Render(blocks, ansi.WithWidth(80)))
package ansi

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/docmark/pkg/markup"
)

// Theme holds the lipgloss style of each block element.
type Theme struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Metadata lipgloss.Style
	Text     lipgloss.Style
	Bullet   lipgloss.Style
	Label    lipgloss.Style
	Link     lipgloss.Style
	Emphasis lipgloss.Style
}

// DefaultTheme matches the docmark CLI palette.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		Section:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Metadata: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Text:     lipgloss.NewStyle(),
		Bullet:   lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
		Emphasis: lipgloss.NewStyle().Bold(true),
	}
}

const (
	bulletGlyph     = "•"
	subBulletGlyph  = "◦"
	bulletIndent    = 2
	subBulletIndent = 6
)

// Option configures Render.
type Option func(*renderer)

// WithWidth wraps titles and paragraphs at n columns. Zero disables wrapping.
func WithWidth(n int) Option {
	return func(r *renderer) {
		if n > 0 {
			r.width = n
		}
	}
}

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(r *renderer) { r.theme = t }
}

type renderer struct {
	width int
	theme Theme
}

// Render returns the terminal representation of blocks, one line group per
// block, each terminated by a newline.
func Render(blocks []markup.Block, opts ...Option) string {
	r := renderer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(r.block(b))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r renderer) block(b markup.Block) string {
	t := r.theme
	switch b.Kind {
	case markup.Title:
		return r.styled(t.Title, 0, b.Text)
	case markup.SectionHeader:
		return r.styled(t.Section, 0, b.Text)
	case markup.MetadataLine:
		return r.styled(t.Metadata, 0, b.Text)
	case markup.BulletItem:
		return r.bullet(bulletGlyph, bulletIndent, b.Text)
	case markup.SubBulletItem:
		return r.bullet(subBulletGlyph, subBulletIndent, strings.TrimPrefix(b.Text, "+"))
	case markup.LinkLine:
		if b.Label == "" {
			return t.Link.Render(b.URL)
		}
		return t.Label.Render(b.Label+":") + " " + t.Link.Render(b.URL)
	case markup.Spacer:
		return ""
	default:
		return r.styled(t.Text, 0, r.inline(b))
	}
}

func (r renderer) bullet(glyph string, indent int, text string) string {
	prefix := strings.Repeat(" ", indent) + r.theme.Bullet.Render(glyph) + " "
	body := r.styled(r.theme.Text, indent+2, strings.TrimSpace(text))
	lines := strings.Split(body, "\n")
	pad := strings.Repeat(" ", indent+2)
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return prefix + strings.Join(lines, "\n")
}

func (r renderer) inline(b markup.Block) string {
	if b.Spans == nil {
		return b.Text
	}
	var sb strings.Builder
	for _, s := range b.Spans {
		if s.Emphasis {
			sb.WriteString(r.theme.Emphasis.Render(s.Text))
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// styled renders text with s, word-wrapped to the configured width minus
// indent. Width padding is trimmed from the wrapped lines.
func (r renderer) styled(s lipgloss.Style, indent int, text string) string {
	w := r.width - indent
	if r.width == 0 || w <= 0 {
		return s.Render(text)
	}
	lines := strings.Split(s.Width(w).Render(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
