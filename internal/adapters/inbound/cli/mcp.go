package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/govaudit/internal/adapters/inbound/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the govaudit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *globalOptions) *cobra.Command {
	var corpus string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start govaudit MCP server (stdio)",
		Long: "Start the govaudit MCP server using stdio transport. AI coding assistants can run audits, " +
			"analyze single documents and read the latest report and history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pathArgs []string
			if corpus != "" {
				pathArgs = []string{corpus}
			}
			absPath, err := corpusPath(pathArgs)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so logs go to stderr only.
			svc := newAuditService(newLogger(cmd.ErrOrStderr(), opts.verbose))
			return server.ServeStdio(mcpadapter.NewGovAuditMCPServer(absPath, svc))
		},
	}

	cmd.Flags().StringVar(&corpus, "path", "", "Corpus path (defaults to current working directory)")

	return cmd
}
