// Package pipeline provides the transpile → render pipeline for docmark.
//
// This package implements the complete pipeline used by the CLI, the preview
// sessions and the HTTP server. By centralizing this logic, every entry point
// produces identical artifacts for identical input and options.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Transpile: classify each line of the input under a grammar (pure, never fails)
//  2. Render: produce one artifact per requested format
//
// Rendered artifacts are cached by the SHA-256 of the input text plus the
// render options. Transpiling is never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Grammar: "previewer",
//	    Formats: []string{"html", "json"},
//	}
//	result, err := runner.Execute(ctx, text, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fragment := result.Artifacts["html"]
//
// Run the transpile stage alone:
//
//	blocks, err := runner.Transpile(ctx, text, "docstyle")
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docmark/pkg/cache"
	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/render/html"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server and Sessions
// =============================================================================

const (
	// DefaultGrammar is the grammar used when none is given.
	DefaultGrammar = markup.GrammarPreviewer

	// DefaultFormat is the output format used when none is given.
	DefaultFormat = FormatHTML

	// DefaultPNGScale is the resolution multiplier for PNG outlines.
	DefaultPNGScale = 2.0
)

// DefaultPlaceholder is shown by the html, document and text formats when the
// input produces no blocks.
const DefaultPlaceholder = html.DefaultPlaceholder

// Format constants for output formats.
const (
	FormatHTML     = "html"     // HTML fragment
	FormatDocument = "document" // standalone HTML page with inlined stylesheet
	FormatJSON     = "json"     // block export
	FormatText     = "text"     // styled terminal text
	FormatDOT      = "dot"      // Graphviz outline source
	FormatSVG      = "svg"
	FormatPDF      = "pdf"
	FormatPNG      = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML:     true,
	FormatDocument: true,
	FormatJSON:     true,
	FormatText:     true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatPDF:      true,
	FormatPNG:      true,
}

// Formats returns the supported formats in display order.
func Formats() []string {
	return []string{FormatHTML, FormatDocument, FormatJSON, FormatText, FormatDOT, FormatSVG, FormatPDF, FormatPNG}
}

// ContentType returns the MIME type of an artifact in format.
func ContentType(format string) string {
	switch format {
	case FormatHTML, FormatDocument:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for artifacts in format.
func Extension(format string) string {
	switch format {
	case FormatDocument:
		return "html"
	case FormatText:
		return "txt"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Transpile options
	Grammar string `json:"grammar,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Title       string   `json:"title,omitempty"`    // <title> of the document format
	Detailed    bool     `json:"detailed,omitempty"` // outline includes leaf text
	Width       int      `json:"width,omitempty"`    // text format wrap width, 0 = no wrap
	Refresh     bool     `json:"refresh,omitempty"`  // bypass cached artifacts

	// NoPlaceholder renders empty documents as nothing instead of
	// DefaultPlaceholder; Placeholder is ignored when set.
	NoPlaceholder bool `json:"no_placeholder,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Grammar is the name of the grammar the text was transpiled with.
	Grammar string

	// Blocks is the transpiled document.
	Blocks []markup.Block

	// TextHash is the content hash of the input text.
	TextHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines         int
	Blocks        int
	Kinds         map[markup.Kind]int
	TranspileTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	Hits []string // formats served from the cache, in request order
}

// RenderHit reports whether every requested format came from the cache.
func (c CacheInfo) RenderHit(formats []string) bool {
	return len(formats) > 0 && len(c.Hits) == len(formats)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateGrammar checks that name is a known grammar.
func ValidateGrammar(name string) error {
	if _, err := markup.Lookup(name); err != nil {
		return errors.New(errors.ErrCodeInvalidGrammar,
			"invalid grammar: %q (must be one of: %s)", name, strings.Join(markup.Grammars(), ", "))
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Grammar == "" {
		o.Grammar = DefaultGrammar
	}
	if err := ValidateGrammar(o.Grammar); err != nil {
		return err
	}
	g, _ := markup.Lookup(o.Grammar)
	o.Grammar = g.Name

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	switch {
	case o.NoPlaceholder:
		o.Placeholder = ""
	case o.Placeholder == "":
		o.Placeholder = DefaultPlaceholder
	}
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolvedGrammar returns the grammar named by o.Grammar, or the default
// grammar when the name is empty or unknown.
func (o *Options) ResolvedGrammar() markup.Grammar {
	if g, err := markup.Lookup(o.Grammar); err == nil {
		return g
	}
	return markup.Previewer
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect format are left zero so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Grammar: o.Grammar, Format: format}
	switch format {
	case FormatHTML:
		k.Placeholder = o.Placeholder
	case FormatDocument:
		k.Placeholder = o.Placeholder
		k.Title = o.Title
	case FormatText:
		k.Placeholder = o.Placeholder
		k.Width = o.Width
	case FormatDOT, FormatSVG, FormatPDF, FormatPNG:
		k.Detailed = o.Detailed
	}
	return k
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
