package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/session"
)

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultParams, params)
}

func TestParseConfig_Full(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
listen: 0.0.0.0:9000
server: chat.example.com:9000
profile: test
keygen:
  prime-min: 20
  prime-max: 200
  max-prime-attempts: 500
dial:
  initial-interval: 100ms
  max-interval: 2s
  max-elapsed-time: 1m
tamper-trigger: testar
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "chat.example.com:9000", cfg.Server)
	assert.Equal(t, sigchat.ProfileTest, cfg.Profile)
	assert.Equal(t, "testar", cfg.TamperTrigger)
	assert.Equal(t, session.DialOptions{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  time.Minute,
	}, cfg.Dial)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, sigchat.Params{
		PrimeMin:            20,
		PrimeMax:            200,
		MaxPrimeAttempts:    500,
		MaxExponentAttempts: core.TestParams.MaxExponentAttempts,
		MaxDistinctAttempts: core.TestParams.MaxDistinctAttempts,
	}, params)

	opts, err := cfg.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, params, opts.Params)
	assert.Equal(t, "testar", opts.TamperTrigger)
	assert.Equal(t, cfg.Dial, opts.Dial)
}

func TestParseConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("server: 10.0.0.1:8080\n"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", cfg.Server)
	assert.Equal(t, session.DefaultListenAddr, cfg.Listen)
	assert.Equal(t, session.DefaultDialOptions, cfg.Dial)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte(`
listen: nonsense
server: ""
profile: paranoid
dial:
  initial-interval: 5s
  max-interval: 1s
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 errors occurred")
	assert.Contains(t, err.Error(), `listen address "nonsense" is invalid`)
	assert.Contains(t, err.Error(), `server address "" is invalid`)
	assert.Contains(t, err.Error(), "unknown profile: paranoid")
	assert.Contains(t, err.Error(), "max-interval must not be smaller than initial-interval")
}

func TestParseConfig_BadKeyGen(t *testing.T) {
	_, err := ParseConfig([]byte(`
keygen:
  prime-min: 1
`))
	assert.EqualError(t, err, "1 error occurred:\n\t* keygen: prime-min must be at least 2\n\n")
}

func TestParseConfig_UnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("lisen: :8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestDump(t *testing.T) {
	cfg := Default()
	cfg.TamperTrigger = "testar"

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "listen:")
	assert.Contains(t, out, "tamper-trigger: testar")

	again, err := ParseConfig([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: 127.0.0.1:7000\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Listen)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
