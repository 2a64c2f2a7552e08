package pipeline

import (
	"bytes"
	"context"
	"fmt"

	docio "github.com/matzehuels/docmark/pkg/io"
	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/render/ansi"
	"github.com/matzehuels/docmark/pkg/render/html"
	"github.com/matzehuels/docmark/pkg/render/outline"
)

// Render generates output artifacts in the requested formats without caching.
func Render(ctx context.Context, blocks []markup.Block, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, blocks, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates one artifact.
func RenderFormat(ctx context.Context, blocks []markup.Block, format string, opts Options) ([]byte, error) {
	g := opts.ResolvedGrammar()

	var data []byte
	var err error

	switch format {
	case FormatHTML:
		data = html.Render(blocks, g, html.WithPlaceholder(opts.Placeholder))
	case FormatDocument:
		data = html.Render(blocks, g,
			html.WithDocument(),
			html.WithTitle(opts.Title),
			html.WithPlaceholder(opts.Placeholder))
	case FormatJSON:
		var buf bytes.Buffer
		err = docio.WriteJSON(docio.NewDocument(g, blocks), &buf)
		data = buf.Bytes()
	case FormatText:
		data = []byte(renderText(blocks, opts))
	case FormatDOT:
		data = []byte(outline.ToDOT(blocks, outlineOptions(opts)))
	case FormatSVG:
		data, err = outline.RenderSVG(ctx, outline.ToDOT(blocks, outlineOptions(opts)))
	case FormatPDF:
		data, err = outline.RenderPDF(ctx, outline.ToDOT(blocks, outlineOptions(opts)))
	case FormatPNG:
		data, err = outline.RenderPNG(ctx, outline.ToDOT(blocks, outlineOptions(opts)), DefaultPNGScale)
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func renderText(blocks []markup.Block, opts Options) string {
	if len(blocks) == 0 {
		if opts.Placeholder == "" {
			return ""
		}
		return opts.Placeholder + "\n"
	}
	return ansi.Render(blocks, ansi.WithWidth(opts.Width))
}

func outlineOptions(opts Options) outline.Options {
	return outline.Options{Detailed: opts.Detailed}
}

// cacheable reports whether artifacts in format are stored in the cache.
// Terminal text depends on the color profile of the process that rendered
// it, so it is always rendered fresh.
func cacheable(format string) bool {
	return format != FormatText
}
