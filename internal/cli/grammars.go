package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/render/html"
)

// grammarsCommand lists the grammars and output formats.
func (c *CLI) grammarsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List grammars and output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeGrammars(cmd.OutOrStdout())
		},
	}
}

func writeGrammars(w io.Writer) error {
	var rows [][]string
	for _, name := range markup.Grammars() {
		g, err := markup.Lookup(name)
		if err != nil {
			return err
		}
		check, err := stylesheetStatus(g)
		if err != nil {
			return err
		}
		rows = append(rows, []string{g.Name, strings.TrimSpace(g.TitleMarker), strings.TrimSpace(g.SectionMarker), grammarFeatures(g), check})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Grammar", "Title", "Section", "Features", "Stylesheet").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, StyleDim.Render("formats: ")+strings.Join(pipeline.Formats(), ", "))
	return err
}

func grammarFeatures(g markup.Grammar) string {
	var f []string
	if g.Metadata {
		f = append(f, "metadata")
	}
	if g.Bullets {
		f = append(f, "bullets")
	}
	if g.Links {
		f = append(f, "links")
	}
	if g.InlineEmphasis {
		f = append(f, "emphasis")
	}
	if g.CollapseBlankRuns {
		f = append(f, "collapse-blank")
	}
	return strings.Join(f, ", ")
}

// stylesheetStatus reports whether the built-in stylesheet of g styles
// every class hook its HTML uses.
func stylesheetStatus(g markup.Grammar) (string, error) {
	missing, err := html.VerifyStylesheet(html.Stylesheet(g), html.Classes(g).Hooks())
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "missing " + strings.Join(missing, ", "), nil
	}
	return "ok", nil
}

// completeGrammars completes --grammar flags.
func completeGrammars(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return markup.Grammars(), cobra.ShellCompDirectiveNoFileComp
}
