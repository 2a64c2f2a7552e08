package markup

import (
	"fmt"
	"strings"
)

// Grammar names accepted by [Lookup].
const (
	GrammarPreviewer = "previewer"
	GrammarDocStyle  = "docstyle"
)

// Grammar is the rule configuration applied by [Transpile].
//
// Rules 1, 2, 8 and 9 are always active; the boolean fields switch the
// remaining rules on. The zero value recognizes no markers at all and treats
// every line as a paragraph.
type Grammar struct {
	Name string

	TitleMarker   string // e.g. "# "
	SectionMarker string // e.g. "## "

	Metadata       bool // rule 3: "**label:** value" lines, markers stripped
	Bullets        bool // rules 4 and 5: "- " bullets, "+" sub-bullets
	Links          bool // rule 6: lines containing "http"
	InlineEmphasis bool // rule 7: "**text**" spans inside paragraphs

	// CollapseBlankRuns emits one spacer per run of blank lines instead of
	// one per blank line.
	CollapseBlankRuns bool
}

// Previewer is the transcript previewer grammar ("grammar A").
var Previewer = Grammar{
	Name:              GrammarPreviewer,
	TitleMarker:       "# ",
	SectionMarker:     "## ",
	Metadata:          true,
	Bullets:           true,
	Links:             true,
	CollapseBlankRuns: true,
}

// DocStyle is the document-style grammar ("grammar B").
var DocStyle = Grammar{
	Name:           GrammarDocStyle,
	TitleMarker:    "## ",
	SectionMarker:  "### ",
	InlineEmphasis: true,
}

var grammars = map[string]Grammar{
	GrammarPreviewer: Previewer,
	"a":              Previewer,
	GrammarDocStyle:  DocStyle,
	"b":              DocStyle,
}

// Lookup returns the predefined grammar registered under name.
// Names are case-insensitive; "a" and "b" are accepted as aliases.
func Lookup(name string) (Grammar, error) {
	g, ok := grammars[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Grammar{}, fmt.Errorf("unknown grammar %q (must be %q or %q)", name, GrammarPreviewer, GrammarDocStyle)
	}
	return g, nil
}

// Grammars returns the canonical names of the predefined grammars.
func Grammars() []string {
	return []string{GrammarPreviewer, GrammarDocStyle}
}

// String returns the grammar name, or "custom" for unnamed grammars.
func (g Grammar) String() string {
	if g.Name == "" {
		return "custom"
	}
	return g.Name
}
