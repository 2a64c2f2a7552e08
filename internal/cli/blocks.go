package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	docio "github.com/matzehuels/docmark/pkg/io"
	"github.com/matzehuels/docmark/pkg/markup"
)

// blocksCommand creates the blocks command, which prints the transpiled
// block list without rendering it.
func (c *CLI) blocksCommand() *cobra.Command {
	var (
		grammar string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "blocks [file]",
		Short: "Print the blocks a document transpiles to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := docio.ReadText(inputPath(args))
			if err != nil {
				return err
			}
			if grammar == "" {
				grammar = c.Config.Grammar
			}
			g, err := markup.Lookup(grammar)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			blocks, err := runner.Transpile(cmd.Context(), text, g.Name)
			if err != nil {
				return err
			}

			if asJSON {
				return docio.WriteJSON(docio.NewDocument(g, blocks), cmd.OutOrStdout())
			}
			return writeBlockTable(cmd.OutOrStdout(), blocks)
		},
	}

	cmd.Flags().StringVarP(&grammar, "grammar", "g", "", "grammar: previewer, docstyle (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the block list as JSON")
	_ = cmd.RegisterFlagCompletionFunc("grammar", completeGrammars)

	return cmd
}

// writeBlockTable prints one row per block: index, kind and content.
func writeBlockTable(w io.Writer, blocks []markup.Block) error {
	if len(blocks) == 0 {
		_, err := fmt.Fprintln(w, StyleDim.Render("no blocks"))
		return err
	}

	rows := make([][]string, len(blocks))
	for i, b := range blocks {
		rows[i] = []string{strconv.Itoa(i + 1), b.Kind.String(), blockContent(b)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Kind", "Content").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorDim)
			case 1:
				return base.Foreground(colorCyan)
			}
			return base
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// blockContent is the table cell for b. Links show label and URL apart and
// emphasis spans are marked with asterisks.
func blockContent(b markup.Block) string {
	switch {
	case b.Kind == markup.LinkLine && b.Label != "":
		return b.Label + " " + iconArrow + " " + b.URL
	case b.Kind == markup.Spacer:
		return StyleDim.Render("(blank)")
	case b.HasEmphasis():
		var sb strings.Builder
		for _, s := range b.Spans {
			if s.Emphasis {
				sb.WriteString("*" + s.Text + "*")
			} else {
				sb.WriteString(s.Text)
			}
		}
		return sb.String()
	default:
		return b.PlainText()
	}
}
