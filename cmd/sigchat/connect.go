package main

import (
	"github.com/spf13/cobra"

	"github.com/BackendStack21/sigchat-go/session"
)

func newConnectCmd() *cobra.Command {
	var flags chatFlags
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to a waiting peer and chat with it",
		Long: `Connect to a sigchat server, retrying with exponential backoff until it
answers. Type a line and press enter to send it. End input (Ctrl-D) to hang up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts, err := cfg.SessionOptions()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			con := newConsole(cmd.OutOrStdout())
			con.noticef("Connecting to %s.", cfg.Server)
			c, err := session.Dial(ctx, cfg.Server, opts)
			if err != nil {
				return err
			}
			return chat(ctx, c, readLines(ctx, cmd.InOrStdin(), con), con)
		},
	}
	flags.addTo(cmd)
	cmd.Flags().StringVarP(&flags.server, "server", "s", session.DefaultServerAddr, "Address of the peer to connect to")
	return cmd
}
