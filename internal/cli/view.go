package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	docio "github.com/matzehuels/docmark/pkg/io"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/preview"
)

const defaultViewInterval = 500 * time.Millisecond

// viewCommand creates the interactive terminal previewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		grammar     string
		placeholder string
		width       int
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Preview a document in the terminal, re-rendering as it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Log output would tear the alternate screen; keep warnings only.
			if !c.verbose {
				c.SetLogLevel(LogWarn)
				defer c.SetLogLevel(LogInfo)
			}

			sessions := preview.NewManager(runner, 0, c.Logger)
			session, err := sessions.Create(ctx, c.pipelineOptions(pipeline.Options{
				Grammar:     grammar,
				Formats:     []string{pipeline.FormatText},
				Placeholder: placeholder,
				Width:       width,
			}))
			if err != nil {
				return err
			}
			defer sessions.Delete(session.ID)

			model := NewViewerModel(ctx, args[0], session, docio.ReadText, interval)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&grammar, "grammar", "g", "", "grammar: previewer, docstyle (default from config)")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "text shown for an empty document")
	cmd.Flags().IntVar(&width, "width", 0, "wrap width (0 = no wrap)")
	cmd.Flags().DurationVar(&interval, "interval", defaultViewInterval, "how often the file is checked for changes")
	_ = cmd.RegisterFlagCompletionFunc("grammar", completeGrammars)

	return cmd
}
