// Package transport provides the serial link the AT dialects travel over: a
// duplex byte stream opened at a given baud rate and line-ending convention.
package transport

import "fmt"

// LineEnding selects the terminator appended to each command. HC-05 AT mode
// expects CRLF; most HC-06 firmwares expect none.
type LineEnding string

const (
	EndingNone LineEnding = "none"
	EndingCRLF LineEnding = "crlf"
)

// Terminator returns the bytes appended to a command for this ending.
func (e LineEnding) Terminator() []byte {
	if e == EndingCRLF {
		return []byte("\r\n")
	}
	return nil
}

// Profile is one (baud rate, line ending) combination a module may speak.
// Profiles are immutable and tried in a fixed priority order during
// detection.
type Profile struct {
	Baud   int
	Ending LineEnding
}

// String renders the profile for log lines.
func (p Profile) String() string {
	return fmt.Sprintf("%d baud, line ending %s", p.Baud, string(p.Ending))
}
