package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"k8s.io/klog/v2"

	"github.com/BackendStack21/sigchat-go/handshake"
	"github.com/BackendStack21/sigchat-go/internal/logs"
)

const (
	// DefaultListenAddr is where the server listens unless told otherwise.
	DefaultListenAddr = ":8080"
	// DefaultServerAddr is where the client connects unless told otherwise.
	DefaultServerAddr = "127.0.0.1:8080"
)

// DialOptions is the exponential backoff policy for Dial. Zero fields take
// the defaults below.
type DialOptions struct {
	InitialInterval time.Duration `yaml:"initial-interval"`
	MaxInterval     time.Duration `yaml:"max-interval"`
	MaxElapsedTime  time.Duration `yaml:"max-elapsed-time"`
}

// DefaultDialOptions retries for up to half a minute.
var DefaultDialOptions = DialOptions{
	InitialInterval: 250 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	MaxElapsedTime:  30 * time.Second,
}

func (o DialOptions) withDefaults() DialOptions {
	if o.InitialInterval <= 0 {
		o.InitialInterval = DefaultDialOptions.InitialInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = DefaultDialOptions.MaxInterval
	}
	if o.MaxElapsedTime <= 0 {
		o.MaxElapsedTime = DefaultDialOptions.MaxElapsedTime
	}
	return o
}

// Dial connects to addr over TCP, retrying with exponential backoff until the
// server answers, and establishes a client session on the connection.
func Dial(ctx context.Context, addr string, opts Options) (*Conn, error) {
	log := klog.FromContext(ctx).WithName("dial").WithValues("addr", addr)
	policy := opts.Dial.withDefaults()

	backOff := backoff.NewExponentialBackOff()
	backOff.InitialInterval = policy.InitialInterval
	backOff.MaxInterval = policy.MaxInterval

	var dialer net.Dialer
	conn, err := backoff.Retry(ctx, func() (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp", addr)
	},
		backoff.WithBackOff(backOff),
		backoff.WithMaxElapsedTime(policy.MaxElapsedTime),
		backoff.WithNotify(func(err error, t time.Duration) {
			log.V(logs.Debug).Info("Retrying", "in", t, "reason", err.Error())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	log.Info("Connected")

	c, err := Establish(ctx, conn, handshake.RoleClient, opts)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Handler serves one established session. The connection is closed when the
// handler returns.
type Handler func(ctx context.Context, c *Conn)

// Serve accepts connections on ln until ctx is done, establishing a server
// session with a fresh keypair for each one. It closes ln and waits for
// running handlers before returning. A cancelled ctx returns nil.
func Serve(ctx context.Context, ln net.Listener, opts Options, handler Handler) error {
	log := klog.FromContext(ctx).WithName("serve").WithValues("addr", ln.Addr().String())
	log.Info("Listening")

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()

			connLog := log.WithValues("remote", conn.RemoteAddr().String())
			connCtx := klog.NewContext(ctx, connLog)
			connLog.Info("Accepted connection")

			c, err := Establish(connCtx, conn, handshake.RoleServer, opts)
			if err != nil {
				connLog.Error(err, "Session setup failed")
				return
			}
			handler(connCtx, c)
			connLog.Info("Connection finished")
		}()
	}
}
