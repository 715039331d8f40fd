package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/handshake"
	"github.com/BackendStack21/sigchat-go/session"
)

// console renders chat output. It is safe for concurrent use.
type console struct {
	mu  sync.Mutex
	out io.Writer

	authentic *color.Color
	invalid   *color.Color
	notice    *color.Color
}

func newConsole(out io.Writer) *console {
	return &console{
		out:       out,
		authentic: color.New(color.FgGreen, color.Bold),
		invalid:   color.New(color.FgRed, color.Bold),
		notice:    color.New(color.FgYellow),
	}
}

// deliver prints a received message with its verdict. Invalid messages are
// shown too, flagged, so the user can see what arrived.
func (c *console) deliver(msg session.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := c.authentic
	if msg.Verdict != sigchat.Authentic {
		tag = c.invalid
	}
	fmt.Fprint(c.out, "peer: ", msg.Text, " ")
	tag.Fprintf(c.out, "[%s]", msg.Verdict)
	fmt.Fprintln(c.out)
}

func (c *console) noticef(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice.Fprintf(c.out, format+"\n", args...)
}

// readLines sends each trimmed, non-empty line of in on the returned channel,
// which is closed at end of input or when ctx is done.
func readLines(ctx context.Context, in io.Reader, con *console) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				con.noticef("Empty messages are not sent.")
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// chat runs one session until either side stops.
func chat(ctx context.Context, c *session.Conn, lines <-chan string, con *console) error {
	con.noticef("Connected. Peer key fingerprint %s.", handshake.Fingerprint(c.PeerKey()))
	err := c.Run(ctx, lines, con.deliver)
	con.noticef("Connection closed.")
	return err
}
