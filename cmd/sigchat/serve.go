package main

import (
	"context"
	"net"
	"sync"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/BackendStack21/sigchat-go/session"
)

func newServeCmd() *cobra.Command {
	var flags chatFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Wait for a peer and chat with it",
		Long: `Listen for peers and chat with them. Every connection gets its own
freshly generated keypair. Connections are served one at a time; later
ones wait until the current conversation ends.`,
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
			ln, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return err
			}

			con := newConsole(cmd.OutOrStdout())
			con.noticef("Listening on %s.", ln.Addr())
			lines := readLines(ctx, cmd.InOrStdin(), con)

			var turn sync.Mutex
			return session.Serve(ctx, ln, opts, func(ctx context.Context, c *session.Conn) {
				turn.Lock()
				defer turn.Unlock()
				if err := chat(ctx, c, lines, con); err != nil && ctx.Err() == nil {
					klog.FromContext(ctx).Error(err, "Session ended with an error")
				}
			})
		},
	}
	flags.addTo(cmd)
	cmd.Flags().StringVarP(&flags.listen, "listen", "l", session.DefaultListenAddr, "Address to listen on")
	return cmd
}
