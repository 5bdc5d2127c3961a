package transport

import (
	"strings"
	"time"

	"github.com/danieljhkim/hcpair/internal/clock"
)

// ScriptPort is a Port whose far end is scripted, for testing the exchange,
// detector, and engine without hardware. Each Write looks up the reply for
// the command just sent; subsequent Reads serve that reply and then time
// out. Reads advance the associated FakeClock the way a real port spends
// wall time, so idle-gap and window loops terminate deterministically.
type ScriptPort struct {
	Clock *clock.FakeClock

	// Replies maps command text (terminator stripped) to the raw reply the
	// module sends back. Commands not present reply with Default.
	Replies map[string]string

	// Default is served for unscripted commands. Empty means silence.
	Default string

	// WriteErr, when set, is returned by every Write.
	WriteErr error

	// Writes records each command observed, terminator stripped.
	Writes []string

	pending     []byte
	readTimeout time.Duration
	dataDelay   time.Duration
	closed      bool
}

// NewScriptPort returns a ScriptPort bound to clk with the port defaults a
// real opener would configure.
func NewScriptPort(clk *clock.FakeClock, replies map[string]string) *ScriptPort {
	return &ScriptPort{
		Clock:       clk,
		Replies:     replies,
		readTimeout: readTimeout,
		dataDelay:   10 * time.Millisecond,
	}
}

// Opener returns a transport.Opener serving this port for any device.
func (s *ScriptPort) Opener() Opener {
	return func(string, Profile) (Port, error) {
		s.closed = false
		return s, nil
	}
}

func (s *ScriptPort) Write(p []byte) (int, error) {
	if s.WriteErr != nil {
		return 0, s.WriteErr
	}
	cmd := strings.TrimRight(string(p), "\r\n")
	s.Writes = append(s.Writes, cmd)
	if reply, ok := s.Replies[cmd]; ok {
		s.pending = []byte(reply)
	} else {
		s.pending = []byte(s.Default)
	}
	return len(p), nil
}

func (s *ScriptPort) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		s.Clock.Advance(s.readTimeout)
		return 0, nil
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	s.Clock.Advance(s.dataDelay)
	return n, nil
}

func (s *ScriptPort) SetReadTimeout(d time.Duration) error {
	s.readTimeout = d
	return nil
}

func (s *ScriptPort) ResetInputBuffer() error {
	s.pending = nil
	return nil
}

func (s *ScriptPort) Drain() error { return nil }

func (s *ScriptPort) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called since the last open.
func (s *ScriptPort) Closed() bool { return s.closed }
