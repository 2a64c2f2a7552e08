package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docmark/pkg/preview"
	"github.com/matzehuels/docmark/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transpiler and live preview sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if sessionTTL == 0 {
				sessionTTL = c.Config.Server.SessionTTL.Duration
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sessions := preview.NewManager(runner, sessionTTL, c.Logger)
			srv := server.New(runner, sessions, server.Config{Addr: addr, Logger: c.Logger})

			printKeyValue("Listening", addr)
			printKeyValue("Cache", c.Config.Cache.Backend)
			printNextStep("Try", "curl -d '{\"text\":\"# Hello\"}' http://"+displayAddr(addr)+"/v1/transpile")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "idle time after which preview sessions are dropped (default 30m)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// displayAddr turns a listen address into one a client can dial.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
