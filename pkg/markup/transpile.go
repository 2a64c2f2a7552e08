package markup

import "strings"

// foldState is the accumulator threaded through the line fold.
type foldState struct {
	blocks     []Block
	emitted    bool // at least one block was emitted
	inBlankRun bool // the previous line was blank
}

// Transpile classifies each line of text under grammar g and returns the
// resulting blocks in input order. Empty text yields no blocks.
func Transpile(text string, g Grammar) []Block {
	if text == "" {
		return nil
	}
	var st foldState
	for _, line := range strings.Split(text, "\n") {
		st = step(st, strings.TrimSpace(line), g)
	}
	return st.blocks
}

// step folds one trimmed line into the accumulator.
func step(st foldState, line string, g Grammar) foldState {
	if line == "" {
		if !st.emitted {
			return st
		}
		if !(g.CollapseBlankRuns && st.inBlankRun) {
			st.blocks = append(st.blocks, Block{Kind: Spacer})
		}
		st.inBlankRun = true
		return st
	}
	st.blocks = append(st.blocks, classify(line, g))
	st.emitted = true
	st.inBlankRun = false
	return st
}

// classify maps a non-empty trimmed line to a block. Rules are tried in
// priority order and the first match wins.
func classify(line string, g Grammar) Block {
	switch {
	case g.TitleMarker != "" && strings.HasPrefix(line, g.TitleMarker):
		return Block{Kind: Title, Text: line[len(g.TitleMarker):]}
	case g.SectionMarker != "" && strings.HasPrefix(line, g.SectionMarker):
		return Block{Kind: SectionHeader, Text: line[len(g.SectionMarker):]}
	case g.Metadata && isMetadata(line):
		return Block{Kind: MetadataLine, Text: strings.ReplaceAll(line, boldMarker, "")}
	case g.Bullets && strings.HasPrefix(line, "- "):
		return Block{Kind: BulletItem, Text: line[2:]}
	case g.Bullets && strings.HasPrefix(line, "+"):
		return Block{Kind: SubBulletItem, Text: line}
	case g.Links && strings.Contains(line, "http"):
		return splitLink(line)
	case g.InlineEmphasis && strings.Contains(line, boldMarker):
		return Block{Kind: Paragraph, Text: line, Spans: emphasize(line)}
	default:
		return Block{Kind: Paragraph, Text: line}
	}
}

const boldMarker = "**"

// isMetadata reports whether line opens with "**" and closes a bold label
// with ":**" somewhere after it.
func isMetadata(line string) bool {
	return strings.HasPrefix(line, boldMarker) &&
		strings.Contains(line[len(boldMarker):], ":"+boldMarker)
}

// splitLink splits line at the first ": ". Without a separator the whole
// line becomes the URL and the label stays empty.
func splitLink(line string) Block {
	label, url, ok := strings.Cut(line, ": ")
	if !ok {
		return Block{Kind: LinkLine, URL: line}
	}
	return Block{Kind: LinkLine, Label: label, URL: url}
}
