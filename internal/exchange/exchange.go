// Package exchange performs single AT command round trips: write the
// command with the profile's terminator, then read the reply using an
// idle-gap heuristic.
//
// Reply timing varies wildly between commands (tens of milliseconds for
// AT, twenty-plus seconds for AT+PAIR) and replies may span several lines
// arriving in bursts. Waiting for a fixed duration either wastes the full
// timeout on fast commands or truncates slow multi-line replies. Instead
// the read loop stops once bytes have arrived and the line then stays quiet
// for the configured gap.
package exchange

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/clock"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/transport"
)

const (
	// settleDelay sits between re-priming the input buffer and writing, so
	// stale bytes from the previous command don't bleed into this reply.
	settleDelay = 50 * time.Millisecond

	// retryBackoff separates attempts of the same command.
	retryBackoff = 250 * time.Millisecond

	// DefaultTimeout and DefaultQuietGap suit ordinary configuration
	// commands; slow steps (PAIR, LINK, INIT) override per step.
	DefaultTimeout  = 2 * time.Second
	DefaultQuietGap = 200 * time.Millisecond
)

// Options is the per-command policy.
type Options struct {
	// ExpectOK requires the reply to contain the acknowledgement marker for
	// the attempt to count as acked. When false, completing a read at all
	// is success.
	ExpectOK bool

	// Retries is the total attempt budget (minimum 1).
	Retries int

	// Timeout bounds the whole read when no bytes ever arrive.
	Timeout time.Duration

	// QuietGap is how long the line must stay idle, after bytes have
	// arrived, before the reply is considered complete.
	QuietGap time.Duration
}

// DefaultOptions returns the policy for an ordinary acked command.
func DefaultOptions() Options {
	return Options{
		ExpectOK: true,
		Retries:  1,
		Timeout:  DefaultTimeout,
		QuietGap: DefaultQuietGap,
	}
}

// Result is the outcome of one Send.
type Result struct {
	// Acked reports whether any attempt's reply contained the
	// acknowledgement marker.
	Acked bool

	// Reply is the decoded text of the last attempt's reply.
	Reply string
}

// Exchange sends commands over an open port. The zero value is not usable;
// construct with New.
type Exchange struct {
	clk clock.Clock
}

// New creates an Exchange using clk for all waiting.
func New(clk clock.Clock) *Exchange {
	return &Exchange{clk: clk}
}

// Send writes command on port and collects the reply, retrying up to the
// option budget. A returned error means an I/O fault or cancellation; a
// missing acknowledgement is reported through Result.Acked instead.
func (x *Exchange) Send(ctx context.Context, port transport.Port, command string, profile transport.Profile, opts Options, sink logx.Sink) (Result, error) {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.QuietGap <= 0 {
		opts.QuietGap = DefaultQuietGap
	}

	payload := append([]byte(command), profile.Ending.Terminator()...)

	var res Result
	for attempt := 1; attempt <= opts.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			logx.Printf(sink, ".. cancelled")
			return res, err
		}

		if err := port.ResetInputBuffer(); err != nil {
			return res, fmt.Errorf("reset input: %w", err)
		}
		x.clk.Sleep(settleDelay)

		logx.Printf(sink, ">> %s (%s)", command, profile)
		if _, err := port.Write(payload); err != nil {
			logx.Printf(sink, "!! Write failed: %v", err)
			return res, fmt.Errorf("write %q: %w", command, err)
		}
		if err := port.Drain(); err != nil {
			return res, fmt.Errorf("drain after %q: %w", command, err)
		}

		reply, err := x.readReply(ctx, port, opts.Timeout, opts.QuietGap)
		if err != nil {
			return res, err
		}
		res.Reply = reply

		if trimmed := strings.TrimSpace(reply); trimmed != "" {
			logx.Printf(sink, "<< %s", trimmed)
		} else {
			logx.Printf(sink, "<< (no response)")
		}

		res.Acked = containsAck(reply)
		if res.Acked || !opts.ExpectOK {
			return res, nil
		}

		if attempt < opts.Retries {
			logx.Printf(sink, ".. retrying ..")
			x.clk.Sleep(retryBackoff)
		}
	}
	return res, nil
}

// readReply collects bytes until the overall timeout elapses with nothing
// received, or bytes arrive and the line then stays quiet for quietGap.
func (x *Exchange) readReply(ctx context.Context, port transport.Port, timeout, quietGap time.Duration) (string, error) {
	start := x.clk.Now()
	last := start
	var buf bytes.Buffer
	tmp := make([]byte, 256)

	for x.clk.Since(start) < timeout {
		if err := ctx.Err(); err != nil {
			return decode(buf.Bytes()), err
		}
		n, err := port.Read(tmp)
		if err != nil {
			return decode(buf.Bytes()), fmt.Errorf("read: %w", err)
		}
		if n > 0 {
			buf.Write(tmp[:n])
			last = x.clk.Now()
			continue
		}
		if buf.Len() > 0 && x.clk.Since(last) >= quietGap {
			break
		}
	}
	return decode(buf.Bytes()), nil
}

// decode drops bytes that are not valid UTF-8; garbled bytes at a wrong
// baud rate must not fail the read.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}

func containsAck(reply string) bool {
	return strings.Contains(strings.ToUpper(reply), at.OK)
}
