package markup

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a [Block].
type Kind int

// Block kinds, in classification priority order.
const (
	Title Kind = iota
	SectionHeader
	MetadataLine
	BulletItem
	SubBulletItem
	LinkLine
	Paragraph
	Spacer
)

var kindNames = [...]string{
	Title:         "title",
	SectionHeader: "section-header",
	MetadataLine:  "metadata",
	BulletItem:    "bullet",
	SubBulletItem: "sub-bullet",
	LinkLine:      "link",
	Paragraph:     "paragraph",
	Spacer:        "spacer",
}

// Kinds returns all block kinds in priority order.
func Kinds() []Kind {
	return []Kind{Title, SectionHeader, MetadataLine, BulletItem, SubBulletItem, LinkLine, Paragraph, Spacer}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid block kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown block kind %q", text)
}

// Span is an inline run of paragraph text.
type Span struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Block is one classified unit of output. Which fields are set depends on
// Kind:
//
//   - Title, SectionHeader: Text is the heading after its marker.
//   - MetadataLine: Text is the line with all "**" markers removed.
//   - BulletItem: Text is the item after "- ".
//   - SubBulletItem: Text is the full line including its "+" marker.
//   - LinkLine: Label and URL hold the two halves of the line.
//   - Paragraph: Text is the line; Spans is set when inline emphasis was
//     resolved.
//   - Spacer: no fields.
type Block struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text,omitempty"`
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
	Spans []Span `json:"spans,omitempty"`
}

// HasEmphasis reports whether the block carries at least one emphasis span.
func (b Block) HasEmphasis() bool {
	for _, s := range b.Spans {
		if s.Emphasis {
			return true
		}
	}
	return false
}

// PlainText returns the block's display text without markup.
// Paragraph spans are concatenated; link lines are rendered "label: url".
func (b Block) PlainText() string {
	switch b.Kind {
	case LinkLine:
		if b.Label == "" {
			return b.URL
		}
		return b.Label + ": " + b.URL
	case Paragraph:
		if b.Spans == nil {
			return b.Text
		}
		var sb strings.Builder
		for _, s := range b.Spans {
			sb.WriteString(s.Text)
		}
		return sb.String()
	case Spacer:
		return ""
	default:
		return b.Text
	}
}

// Count tallies blocks by kind.
func Count(blocks []Block) map[Kind]int {
	counts := make(map[Kind]int)
	for _, b := range blocks {
		counts[b.Kind]++
	}
	return counts
}
