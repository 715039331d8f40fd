package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/handshake"
	"github.com/BackendStack21/sigchat-go/keygen"
	"github.com/BackendStack21/sigchat-go/utils"
)

// seedSize is the length of seeds drawn by --new-seed.
const seedSize = 32

// KeyPairExport represents an exported keypair
type KeyPairExport struct {
	Profile     string             `json:"profile"`
	PublicKey   sigchat.PublicKey  `json:"public_key"`
	PrivateKey  sigchat.PrivateKey `json:"private_key"`
	Fingerprint string             `json:"fingerprint"`
	Seed        string             `json:"seed,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

func newKeygenCmd() *cobra.Command {
	var (
		profile string
		seedHex string
		newSeed bool
		output  string
		timing  bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a keypair and print it as JSON",
		Long: `Generate a keypair the way a session does and print it. With --seed the
keypair is derived deterministically from a hex seed of at least 32 bytes.
With --new-seed a fresh random seed is drawn and printed alongside the
keypair, so the same keypair can be derived again later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := core.GetParams(sigchat.Profile(profile))
			if err != nil {
				return err
			}

			var seed []byte
			switch {
			case newSeed:
				if seed, err = utils.SecureRandomBytes(seedSize); err != nil {
					return fmt.Errorf("draw seed: %w", err)
				}
			case seedHex != "":
				if seed, err = hex.DecodeString(seedHex); err != nil {
					return fmt.Errorf("invalid seed: %w", err)
				}
			}
			defer utils.Zeroize(seed)

			start := time.Now()
			var kp *sigchat.KeyPair
			if seed != nil {
				kp, err = keygen.GenerateKeyPairFromSeed(params, seed)
			} else {
				kp, err = keygen.GenerateKeyPair(params)
			}
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if timing {
				fmt.Fprintf(cmd.ErrOrStderr(), "Key generation took: %v\n", elapsed)
			}

			export := KeyPairExport{
				Profile:     profile,
				PublicKey:   kp.PublicKey,
				PrivateKey:  kp.PrivateKey,
				Fingerprint: handshake.Fingerprint(kp.PublicKey),
				CreatedAt:   time.Now().UTC().Format(time.RFC3339),
			}
			if newSeed {
				export.Seed = hex.EncodeToString(seed)
			}
			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal keypair: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), data, output)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", string(sigchat.ProfileDefault), "Key generation profile")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Hex seed for deterministic generation")
	cmd.Flags().BoolVar(&newSeed, "new-seed", false, "Draw a random seed and include it in the output")
	cmd.MarkFlagsMutuallyExclusive("seed", "new-seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&timing, "timing", false, "Report how long generation took")
	return cmd
}

// writeOutput writes data to filename with owner-only permissions, or to
// stdout when filename is empty.
func writeOutput(stdout io.Writer, data []byte, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	// Ensure permissions are enforced even if the file already existed
	if err := os.Chmod(filename, 0600); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	return nil
}
