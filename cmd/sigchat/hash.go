package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/digest"
)

func newHashCmd() *cobra.Command {
	var (
		text    string
		compare bool
	)
	cmd := &cobra.Command{
		Use:   "hash [FILE...]",
		Short: "Print SHA-256 digests of files or text",
		Long: `Print the SHA-256 digest of each FILE, or of --text. With --compare,
exactly two inputs are digested and the command reports whether they match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			type entry struct {
				name string
				sum  sigchat.Digest
			}
			var entries []entry
			if cmd.Flags().Changed("text") {
				entries = append(entries, entry{"-", digest.Sum256([]byte(text))})
			}
			for _, path := range args {
				sum, err := digest.SumFile(path)
				if err != nil {
					return err
				}
				entries = append(entries, entry{path, sum})
			}
			if len(entries) == 0 {
				return fmt.Errorf("nothing to hash: give a file or --text")
			}

			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", digest.Hex(e.sum), e.name)
			}

			if compare {
				if len(entries) != 2 {
					return fmt.Errorf("--compare needs exactly two inputs, got %d", len(entries))
				}
				if digest.Equal(entries[0].sum, entries[1].sum) {
					color.New(color.FgGreen).Fprintln(out, "Digests match.")
					return nil
				}
				color.New(color.FgRed).Fprintln(out, "Digests differ.")
				return fmt.Errorf("digests differ")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "Hash this text instead of a file")
	cmd.Flags().BoolVar(&compare, "compare", false, "Compare the digests of two inputs")
	return cmd
}
