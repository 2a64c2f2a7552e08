package html

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// passthroughPolicy is the user-generated-content policy plus the class and
// layout style hooks the renderer itself emits. Policies are safe for
// concurrent use once built.
var passthroughPolicy = newPassthroughPolicy()

func newPassthroughPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyles("margin-left", "height", "font-weight", "font-style", "text-align").Globally()
	return p
}

// Passthrough displays caller-provided markup minus active content: scripts,
// event handlers, non-http(s)/mailto URLs and elements outside the
// user-content allow list are removed. Blank markup is replaced by
// placeholder wrapped in a text div.
func Passthrough(markup, placeholder string) []byte {
	if strings.TrimSpace(markup) == "" {
		if placeholder == "" {
			return nil
		}
		var buf bytes.Buffer
		_ = html.Render(&buf, div(PreviewerClasses.Text, text(placeholder)))
		return buf.Bytes()
	}
	return passthroughPolicy.SanitizeBytes([]byte(markup))
}
