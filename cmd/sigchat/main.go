// Package main provides the sigchat command line interface.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/BackendStack21/sigchat-go/internal/logs"
)

const (
	appName   = "sigchat"
	envPrefix = "SIGCHAT_"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = klog.NewContext(ctx, klog.Background())

	err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	klog.Flush()
}

// newRootCmd builds the command tree. Chat commands read from in and write
// to out.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Encrypted, integrity-checked chat over TCP (a teaching toy)",
		Long: `sigchat connects two terminals over TCP. Each side generates a tiny
textbook RSA keypair, the public keys are swapped once, and every message is
sent as a SHA-256 digest plus one RSA block per byte. The receiver marks each
message AUTHENTIC or INVALID.

The keys are trivially breakable. Do not use this to protect anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setFlagsFromEnv(envPrefix, cmd.Flags())
			logs.Initialize()
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	logs.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newServeCmd(),
		newConnectCmd(),
		newKeygenCmd(),
		newHashCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setFlagsFromEnv sets every flag not given on the command line from
// <prefix>_<FLAG_NAME>, if that variable exists.
func setFlagsFromEnv(prefix string, fs *pflag.FlagSet) {
	set := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		// Explicit flags win.
		if set[f.Name] {
			return
		}
		// SIGCHAT and SIGCHAT_ both map to SIGCHAT_<NAME>.
		cleanPrefix := strings.TrimSuffix(prefix, "_")
		name := fmt.Sprintf("%s_%s", cleanPrefix, strings.Replace(strings.ToUpper(f.Name), "-", "_", -1))
		if e, ok := os.LookupEnv(name); ok {
			if err := f.Value.Set(e); err == nil {
				f.Changed = true
			}
		}
	})
}
