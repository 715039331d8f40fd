// Package config loads the sigchat YAML configuration file.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/session"
)

// Config holds everything the sigchat command can be configured with.
type Config struct {
	// Listen is the address the server listens on.
	Listen string `yaml:"listen"`
	// Server is the address the client connects to.
	Server string `yaml:"server"`
	// Profile selects the base key generation parameters.
	Profile sigchat.Profile `yaml:"profile"`
	// KeyGen overrides individual fields of the profile. Zero fields keep
	// the profile's value.
	KeyGen sigchat.Params `yaml:"keygen"`
	// Dial is the client's reconnect policy.
	Dial session.DialOptions `yaml:"dial"`
	// TamperTrigger enables the tamper demonstration for one exact message.
	TamperTrigger string `yaml:"tamper-trigger,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:  session.DefaultListenAddr,
		Server:  session.DefaultServerAddr,
		Profile: sigchat.ProfileDefault,
		Dial:    session.DefaultDialOptions,
	}
}

// Dump generates a YAML string of the Config object
func (c *Config) Dump() (string, error) {
	d, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate YAML dump of config")
	}
	return string(d), nil
}

// Params resolves the key generation parameters: the profile first, then
// any non-zero KeyGen overrides.
func (c *Config) Params() (sigchat.Params, error) {
	p, err := core.GetParams(c.Profile)
	if err != nil {
		return sigchat.Params{}, err
	}
	o := c.KeyGen
	if o.PrimeMin != 0 {
		p.PrimeMin = o.PrimeMin
	}
	if o.PrimeMax != 0 {
		p.PrimeMax = o.PrimeMax
	}
	if o.MaxPrimeAttempts != 0 {
		p.MaxPrimeAttempts = o.MaxPrimeAttempts
	}
	if o.MaxExponentAttempts != 0 {
		p.MaxExponentAttempts = o.MaxExponentAttempts
	}
	if o.MaxDistinctAttempts != 0 {
		p.MaxDistinctAttempts = o.MaxDistinctAttempts
	}
	return p, nil
}

// SessionOptions converts the configuration into session options.
func (c *Config) SessionOptions() (session.Options, error) {
	params, err := c.Params()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Params:        params,
		TamperTrigger: c.TamperTrigger,
		Dial:          c.Dial,
	}, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		result = multierror.Append(result, fmt.Errorf("listen address %q is invalid: %s", c.Listen, err))
	}

	if _, _, err := net.SplitHostPort(c.Server); err != nil {
		result = multierror.Append(result, fmt.Errorf("server address %q is invalid: %s", c.Server, err))
	}

	if params, err := c.Params(); err != nil {
		result = multierror.Append(result, err)
	} else if err := core.ValidateParams(params); err != nil {
		result = multierror.Append(result, fmt.Errorf("keygen: %s", err))
	}

	if c.Dial.InitialInterval < 0 || c.Dial.MaxInterval < 0 || c.Dial.MaxElapsedTime < 0 {
		result = multierror.Append(result, fmt.Errorf("dial intervals must not be negative"))
	}
	if c.Dial.InitialInterval > 0 && c.Dial.MaxInterval > 0 && c.Dial.MaxInterval < c.Dial.InitialInterval {
		result = multierror.Append(result, fmt.Errorf("dial max-interval must not be smaller than initial-interval"))
	}

	return result.ErrorOrNil()
}

// ParseConfig reads YAML on top of Default and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := Default()

	err := yaml.UnmarshalStrict(data, &config)
	if err != nil {
		return config, errors.Wrap(err, "failed to parse config")
	}

	if config.Profile == "" {
		config.Profile = sigchat.ProfileDefault
	}

	if err = config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// LoadFile reads and parses the configuration file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return ParseConfig(data)
}
