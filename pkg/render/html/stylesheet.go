package html

import (
	"fmt"
	"regexp"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/matzehuels/docmark/pkg/markup"
)

// previewerCSS is the stylesheet of the transcript previewer.
const previewerCSS = `
.title {
  color: rgb(67, 70, 187);
  font-family: "Google Sans", Roboto, Arial, sans-serif;
  font-size: 20pt;
  line-height: 1.2;
  margin-bottom: 14pt;
}
.section-header {
  color: rgb(32, 33, 36);
  font-family: "Google Sans", Roboto, Arial, sans-serif;
  font-size: 16pt;
  line-height: 1.2;
  margin: 20pt 0 14pt 0;
  font-weight: 400;
}
.bullet-list {
  margin-left: 36pt;
  position: relative;
  line-height: 1.5;
  margin-bottom: 8pt;
  color: rgb(32, 33, 36);
  font-family: "Google Sans", Roboto, Arial, sans-serif;
  font-size: 11pt;
}
.bullet-point::before {
  content: "•";
  position: absolute;
  left: -18pt;
}
.text {
  color: rgb(32, 33, 36);
  font-family: "Google Sans", Roboto, Arial, sans-serif;
  font-size: 11pt;
  line-height: 1.5;
  margin-bottom: 8pt;
}
.link {
  color: rgb(17, 85, 204);
  text-decoration: underline;
  cursor: pointer;
}
`

// docStyleCSS is the stylesheet of the document-style viewer.
const docStyleCSS = `
.gdoc-container {
  max-width: 850px;
  margin: 0 auto;
  padding: 40px 96px;
  font-family: 'Inter', -apple-system, BlinkMacSystemFont, sans-serif;
  font-size: 11pt;
  line-height: 1.5;
  color: #202124;
  background: white;
}
.gdoc-header-l1 {
  font-size: 24pt;
  color: #202124;
  margin: 24pt 0 16pt;
  font-weight: 500;
}
.gdoc-header-l2 {
  font-size: 20pt;
  color: #202124;
  margin: 20pt 0 14pt;
  font-weight: 500;
}
.gdoc-text {
  font-size: 11pt;
  line-height: 1.5;
  margin-bottom: 8pt;
}
.gdoc-bold {
  font-weight: bold;
}
`

// Stylesheet returns the static stylesheet matching Classes(g).
func Stylesheet(g markup.Grammar) string {
	if g.Name == markup.GrammarDocStyle {
		return docStyleCSS
	}
	return previewerCSS
}

var classSelectorRe = regexp.MustCompile(`\.([A-Za-z_-][A-Za-z0-9_-]*)`)

// VerifyStylesheet parses css and returns the hooks that no rule selects.
// Rules nested in at-rules (e.g. @media) count.
func VerifyStylesheet(src string, hooks []string) ([]string, error) {
	sheet, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}

	declared := make(map[string]bool)
	var collect func(rules []*css.Rule)
	collect = func(rules []*css.Rule) {
		for _, r := range rules {
			for _, sel := range r.Selectors {
				for _, m := range classSelectorRe.FindAllStringSubmatch(sel, -1) {
					declared[m[1]] = true
				}
			}
			collect(r.Rules)
		}
	}
	collect(sheet.Rules)

	var missing []string
	for _, h := range hooks {
		if !declared[h] {
			missing = append(missing, h)
		}
	}
	return missing, nil
}
