package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sigchat "github.com/BackendStack21/sigchat-go"
)

const version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
			fmt.Fprintf(cmd.OutOrStdout(), "sigchat library version %s\n", sigchat.Version)
		},
	}
}
