package transport

import (
	"io"
	"time"
)

// Port is an open duplex byte stream to a module. Reads must return after
// the configured read timeout with a zero count rather than blocking
// indefinitely; every wait loop in the tool depends on that.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long a single Read may block.
	SetReadTimeout(d time.Duration) error

	// ResetInputBuffer discards unread input, re-priming the line before a
	// fresh command attempt.
	ResetInputBuffer() error

	// Drain blocks until buffered output has been transmitted.
	Drain() error
}

// Opener opens a device at the given profile. The engine and detector take
// an Opener rather than a concrete port so tests can script the far end.
type Opener func(device string, profile Profile) (Port, error)
