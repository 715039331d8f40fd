// Package session runs the sigchat protocol over a connected byte stream:
// key generation, the one-time key exchange, then full-duplex messages.
//
// Known gap: there is no idle timeout. A peer that stops sending without
// closing the connection leaves the reader blocked until the context is
// cancelled.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/envelope"
	"github.com/BackendStack21/sigchat-go/handshake"
	"github.com/BackendStack21/sigchat-go/internal/logs"
	"github.com/BackendStack21/sigchat-go/keygen"
)

// Options configures a session. The zero value uses core.DefaultParams and
// disables tampering.
type Options struct {
	// Params controls key generation. Zero means core.DefaultParams.
	Params sigchat.Params

	// TamperTrigger, when non-empty, makes Send corrupt any message whose
	// text equals it, so the receiver can be seen flagging it INVALID.
	TamperTrigger string

	// KeyPair, when set, is used instead of generating a fresh one.
	KeyPair *sigchat.KeyPair

	// Dial controls the retry policy of Dial.
	Dial DialOptions
}

func (o Options) params() sigchat.Params {
	if o.Params == (sigchat.Params{}) {
		return core.DefaultParams
	}
	return o.Params
}

// Message is one received message.
type Message struct {
	Text       string
	Verdict    sigchat.Verdict
	Ciphertext sigchat.Ciphertext
}

// Conn is an established session. Send may be called concurrently with
// Receive; concurrent Sends are serialized.
type Conn struct {
	rwc  io.ReadWriteCloser
	role handshake.Role
	keys *sigchat.KeyPair
	peer sigchat.PublicKey
	opts Options
	log  logr.Logger

	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Establish generates this endpoint's keypair and swaps public keys with the
// peer over rwc. If ctx is cancelled during the exchange rwc is closed;
// otherwise closing rwc after a failure is left to the caller.
func Establish(ctx context.Context, rwc io.ReadWriteCloser, role handshake.Role, opts Options) (*Conn, error) {
	log := klog.FromContext(ctx).WithName("session").WithValues("role", role.String())

	keys := opts.KeyPair
	if keys == nil {
		var err error
		keys, err = keygen.GenerateKeyPair(opts.params())
		if err != nil {
			return nil, fmt.Errorf("generate keypair: %w", err)
		}
	}
	log.V(logs.Debug).Info("Generated keypair", "n", keys.PublicKey.N, "e", keys.PublicKey.E)

	// The exchange blocks on the peer; closing the stream is the only way
	// to interrupt it.
	stop := context.AfterFunc(ctx, func() { _ = rwc.Close() })
	peer, err := handshake.Exchange(rwc, role, keys.PublicKey)
	if !stop() {
		return nil, fmt.Errorf("key exchange: %w", ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("key exchange: %w", err)
	}

	log = log.WithValues("peer", handshake.Fingerprint(peer))
	log.Info("Key exchange complete", "self", handshake.Fingerprint(keys.PublicKey))
	log.V(logs.Debug).Info("Peer public key", "n", peer.N, "e", peer.E)

	return &Conn{
		rwc:  rwc,
		role: role,
		keys: keys,
		peer: peer,
		opts: opts,
		log:  log,
	}, nil
}

// PublicKey returns this endpoint's public key.
func (c *Conn) PublicKey() sigchat.PublicKey { return c.keys.PublicKey }

// PeerKey returns the public key received during the exchange.
func (c *Conn) PeerKey() sigchat.PublicKey { return c.peer }

// Role returns the side this endpoint played in the exchange.
func (c *Conn) Role() handshake.Role { return c.role }

// Send encrypts text for the peer and writes it as one message.
// sigchat.ErrEncodingRange and oversized messages are rejected without
// touching the stream; the connection stays usable.
func (c *Conn) Send(text string) error {
	env, err := envelope.Seal(text, c.peer)
	if err != nil {
		return err
	}
	if c.opts.TamperTrigger != "" && text == c.opts.TamperTrigger {
		envelope.Corrupt(env, c.peer.N)
		c.log.Info("Tampering with outgoing message", "trigger", c.opts.TamperTrigger)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := envelope.WriteMessage(c.rwc, env); err != nil {
		return err
	}
	c.log.V(logs.Trace).Info("Sent message", "blocks", len(env.Ciphertext))
	return nil
}

// Receive reads and opens the next message. It returns io.EOF when the peer
// closed the stream between messages. Errors for which
// envelope.Recoverable is true leave the stream usable.
func (c *Conn) Receive() (Message, error) {
	env, err := envelope.ReadMessage(c.rwc)
	if err != nil {
		return Message{}, err
	}
	text, verdict := envelope.Open(env, c.keys.PrivateKey)
	c.log.V(logs.Debug).Info("Received message", "verdict", verdict.String(), "ciphertext", env.Ciphertext)
	return Message{Text: text, Verdict: verdict, Ciphertext: env.Ciphertext}, nil
}

// Close closes the underlying stream. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.rwc.Close() })
	return c.closeErr
}

// Run pumps messages in both directions until the peer hangs up, outbound is
// closed, ctx is done, or the stream fails. Each received message is passed
// to deliver from a single goroutine. Run closes the connection before
// returning.
//
// A clean hangup by the peer or a closed outbound channel returns nil.
func (c *Conn) Run(ctx context.Context, outbound <-chan string, deliver func(Message)) error {
	inbound := make(chan error, 1)
	go func() { inbound <- c.readLoop(deliver) }()

	err := c.writeLoop(ctx, outbound, inbound)
	// Unblocks the reader; whatever it reports now is a consequence of the close.
	_ = c.Close()
	<-inbound
	return err
}

var errInboundDone = errors.New("inbound stream ended")

func (c *Conn) writeLoop(ctx context.Context, outbound <-chan string, inbound chan error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-inbound:
			// Put it back so Run can collect it.
			inbound <- err
			if errors.Is(err, errInboundDone) {
				return nil
			}
			return err
		case text, ok := <-outbound:
			if !ok {
				return nil
			}
			if err := c.Send(text); err != nil {
				if errors.Is(err, sigchat.ErrEncodingRange) || errors.Is(err, sigchat.ErrFraming) {
					c.log.Error(err, "Message rejected")
					continue
				}
				return err
			}
		}
	}
}

func (c *Conn) readLoop(deliver func(Message)) error {
	for {
		msg, err := c.Receive()
		switch {
		case err == nil:
			deliver(msg)
		case errors.Is(err, io.EOF):
			c.log.Info("Peer closed the connection")
			return errInboundDone
		case envelope.Recoverable(err):
			c.log.Error(err, "Skipped malformed message")
		default:
			return err
		}
	}
}
