package main

import (
	"github.com/spf13/cobra"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/app"
	"github.com/mavinms/prism-project/internal/mcptools"
)

func newMCPCmd(rt *runtime) *cobra.Command {
	var httpAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve prism tools over MCP (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				s, err := mcptools.NewServer(a, client.Version)
				if err != nil {
					return err
				}
				if httpAddr != "" {
					return mcptools.ServeHTTP(cmd.Context(), s, httpAddr, rt.log)
				}
				return mcptools.ServeStdio(s, rt.log)
			})
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address (e.g. :11546) instead of stdio")
	return cmd
}
