package main

import (
	"os"

	"github.com/spf13/cobra"

	"contentagent/mcp"
	"contentagent/tools/catalog"
)

func mcpCMD(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the content tools over stdio JSON-RPC",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, tel, err := setup(*configPath)
			if err != nil {
				return err
			}
			reg, err := catalog.New(cfg, tel)
			if err != nil {
				return err
			}
			return mcp.NewServer(reg, tel).Serve(os.Stdin, os.Stdout)
		},
	}
}
