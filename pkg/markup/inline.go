package markup

import "strings"

// emphasize splits line into plain and emphasis spans. Each "**X**" pair is
// matched leftmost-first and non-greedily; an opening "**" without a partner
// stays literal. Adjacent plain runs are merged.
func emphasize(line string) []Span {
	var spans []Span
	plain := func(s string) {
		if s == "" {
			return
		}
		if n := len(spans); n > 0 && !spans[n-1].Emphasis {
			spans[n-1].Text += s
			return
		}
		spans = append(spans, Span{Text: s})
	}

	rest := line
	for {
		open := strings.Index(rest, boldMarker)
		if open < 0 {
			break
		}
		inner := rest[open+len(boldMarker):]
		end := strings.Index(inner, boldMarker)
		if end < 0 {
			break
		}
		plain(rest[:open])
		spans = append(spans, Span{Text: inner[:end], Emphasis: true})
		rest = inner[end+len(boldMarker):]
	}
	plain(rest)
	return spans
}
