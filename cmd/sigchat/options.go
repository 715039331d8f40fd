package main

import (
	"github.com/spf13/cobra"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/config"
)

// chatFlags are shared by serve and connect.
type chatFlags struct {
	configFile    string
	listen        string
	server        string
	profile       string
	tamperTrigger string
}

func (f *chatFlags) addTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&f.profile, "profile", string(sigchat.ProfileDefault), `Key generation profile ("default" or "test")`)
	cmd.Flags().StringVar(&f.tamperTrigger, "tamper-trigger", "", "Corrupt outgoing messages equal to this text, to see the peer flag them INVALID")
}

// load reads the config file, if any, and applies the flags the user set.
func (f *chatFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(f.configFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = f.listen
	}
	if flags.Changed("server") {
		cfg.Server = f.server
	}
	if flags.Changed("profile") {
		cfg.Profile = sigchat.Profile(f.profile)
	}
	if flags.Changed("tamper-trigger") {
		cfg.TamperTrigger = f.tamperTrigger
	}
	return cfg, cfg.Validate()
}
