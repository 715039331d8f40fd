package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"

	sigchat "github.com/BackendStack21/sigchat-go"
)

func TestServeDial(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	received := make(chan Message, 1)
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, ln, Options{}, func(ctx context.Context, c *Conn) {
			msg, err := c.Receive()
			if assert.NoError(t, err) {
				received <- msg
			}
			assert.NoError(t, c.Send("pong"))
		})
	}()

	c, err := Dial(ctx, ln.Addr().String(), Options{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Send("ping"))
	select {
	case msg := <-received:
		assert.Equal(t, "ping", msg.Text)
		assert.Equal(t, sigchat.Authentic, msg.Verdict)
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the message")
	}

	reply, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, "pong", reply.Text)

	cancel()
	select {
	case err := <-serveDone:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServe_IndependentKeys(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = Serve(ctx, ln, Options{}, func(ctx context.Context, c *Conn) {
			// Echo until the client hangs up.
			for {
				msg, err := c.Receive()
				if err != nil {
					return
				}
				if err := c.Send(msg.Text); err != nil {
					return
				}
			}
		})
	}()

	// Keys are drawn per connection; several connections must all work
	// whatever keys they end up with.
	for i := 0; i < 5; i++ {
		c, err := Dial(ctx, ln.Addr().String(), Options{})
		require.NoError(t, err)
		require.NoError(t, c.Send("echo"))
		msg, err := c.Receive()
		require.NoError(t, err)
		assert.Equal(t, "echo", msg.Text)
		assert.Equal(t, sigchat.Authentic, msg.Verdict)
		require.NoError(t, c.Close())
	}
}

func TestDial_RetriesUntilServerAppears(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Reserve a port, then free it so the first attempts are refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	go func() {
		time.Sleep(300 * time.Millisecond)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return
		}
		_ = Serve(ctx, ln, Options{}, func(ctx context.Context, c *Conn) {})
	}()

	opts := Options{Dial: DialOptions{InitialInterval: 50 * time.Millisecond, MaxInterval: 100 * time.Millisecond, MaxElapsedTime: 10 * time.Second}}
	c, err := Dial(ctx, addr, opts)
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestDial_GivesUp(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	opts := Options{Dial: DialOptions{InitialInterval: 10 * time.Millisecond, MaxInterval: 20 * time.Millisecond, MaxElapsedTime: 200 * time.Millisecond}}
	_, err = Dial(ctx, addr, opts)
	assert.Error(t, err)
}

func TestDialOptions_Defaults(t *testing.T) {
	assert.Equal(t, DefaultDialOptions, DialOptions{}.withDefaults())

	custom := DialOptions{InitialInterval: time.Second}
	got := custom.withDefaults()
	assert.Equal(t, time.Second, got.InitialInterval)
	assert.Equal(t, DefaultDialOptions.MaxInterval, got.MaxInterval)
}
