package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	docio "github.com/matzehuels/docmark/pkg/io"
	"github.com/matzehuels/docmark/pkg/pipeline"
)

// stdinBase names output files when the input is read from stdin.
const stdinBase = "document"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file (single format) or base path; "-" for stdout
	grammar     string
	formats     string // comma-separated
	placeholder string
	title       string
	detailed    bool // outline formats include metadata, links and text
	width       int  // text format wrap width
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document to html, json, text or an outline graph",
		Long: `Render transpiles a document and writes one artifact per format.

With a single format and no --output the artifact is written next to the
input file (or to stdout when reading stdin). A .json input is read as a
block document written by the json format and rendered again. With several formats each
artifact gets its own extension: notes.html, notes.json, notes.svg.`,
		Example: `  docmark render notes.txt
  docmark render notes.txt -f html,svg -o out/notes
  cat notes.txt | docmark render -g docstyle -f document -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), inputPath(args), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&opts.grammar, "grammar", "g", "", "grammar: previewer, docstyle (default from config)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.Formats(), ", "))
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "", "text shown for an empty document")
	cmd.Flags().StringVar(&opts.title, "title", "", "title of the standalone document format")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include leaf lines in outline formats")
	cmd.Flags().IntVar(&opts.width, "width", 0, "wrap width of the text format (0 = no wrap)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached artifacts exist")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("grammar", completeGrammars)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, stdout io.Writer, ro renderOpts) error {
	if err := validateOutput(ro.output); err != nil {
		return err
	}

	if isBlockFile(input) {
		return c.rerender(ctx, input, stdout, ro)
	}

	text, err := docio.ReadText(input)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions(pipeline.Options{
		Grammar:     ro.grammar,
		Formats:     parseFormats(ro.formats),
		Placeholder: ro.placeholder,
		Title:       ro.title,
		Detailed:    ro.detailed,
		Width:       ro.width,
		Refresh:     ro.refresh,
	})
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if needsGraphviz(opts.Formats) {
		spin = newSpinnerWithContext(ctx, "Rendering outline")
		spin.Start()
	}
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, text, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("rendered", "input", input, "grammar", result.Grammar, "formats", strings.Join(opts.Formats, ","))

	written, err := writeArtifacts(input, stdout, ro.output, opts.Formats, result.Artifacts)
	if err != nil || !written {
		return err
	}
	printStats(result.Stats, result.CacheInfo.RenderHit(opts.Formats))
	c.Logger.Debug("text hash", "hash", result.TextHash, "cache_hits", len(result.CacheInfo.Hits))
	return nil
}

// rerender renders a block document previously written by the json format.
// The grammar recorded in the file is used; the cache is bypassed.
func (c *CLI) rerender(ctx context.Context, input string, stdout io.Writer, ro renderOpts) error {
	doc, err := docio.ImportJSON(input)
	if err != nil {
		return err
	}
	if ro.grammar == "" {
		ro.grammar = doc.Grammar
	}
	opts := c.pipelineOptions(pipeline.Options{
		Grammar:     ro.grammar,
		Formats:     parseFormats(ro.formats),
		Placeholder: ro.placeholder,
		Title:       ro.title,
		Detailed:    ro.detailed,
		Width:       ro.width,
	})
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	artifacts, err := pipeline.Render(ctx, doc.Blocks, opts)
	if err != nil {
		return err
	}
	c.Logger.Info("rendered block document", "input", input, "blocks", len(doc.Blocks))
	_, err = writeArtifacts(input, stdout, ro.output, opts.Formats, artifacts)
	return err
}

// writeArtifacts writes every format to its output file, or the single
// format to stdout. It reports whether files were written.
func writeArtifacts(input string, stdout io.Writer, output string, formats []string, artifacts map[string][]byte) (bool, error) {
	toStdout := output == "-" || (output == "" && input == docio.Stdin && len(formats) == 1)
	if toStdout {
		if len(formats) > 1 {
			return false, fmt.Errorf("cannot write %d formats to stdout; use --output with a base path", len(formats))
		}
		_, err := stdout.Write(artifacts[formats[0]])
		return false, err
	}

	for _, format := range formats {
		path := outputPath(output, input, format, len(formats))
		if filepath.Clean(path) == filepath.Clean(input) {
			return false, fmt.Errorf("%s output would overwrite the input file; use --output", format)
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return false, err
		}
		printFile(path)
	}
	return true, nil
}

// isBlockFile reports whether input is a block document (.json) rather
// than markup text.
func isBlockFile(input string) bool {
	return strings.EqualFold(filepath.Ext(input), ".json")
}

// needsGraphviz reports whether formats include a graphviz-rendered output.
func needsGraphviz(formats []string) bool {
	for _, f := range formats {
		switch f {
		case pipeline.FormatSVG, pipeline.FormatPDF, pipeline.FormatPNG:
			return true
		}
	}
	return false
}

// outputPath derives the file for format. A single format with an explicit
// output uses it verbatim; otherwise the extension of format is appended to
// the base path (output with any known extension stripped, or the input
// file without its extension).
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + pipeline.Extension(format)
}

func basePath(output, input string) string {
	if output == "" {
		if input == docio.Stdin {
			return stdinBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range pipeline.Formats() {
		if ext == f || ext == pipeline.Extension(f) {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
