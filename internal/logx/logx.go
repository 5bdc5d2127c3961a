// Package logx defines the logging contract for the whole tool: a single
// callback that receives one human-readable line per event. Hosts decide
// where lines go (terminal, GUI text box, file); the core never logs any
// other way.
package logx

import "fmt"

// Sink receives one log line per event, without a trailing newline.
type Sink func(line string)

// Discard is a Sink that drops every line.
func Discard(string) {}

// Printf formats a line and emits it on s. A nil s is a no-op, so callers
// can log unconditionally.
func Printf(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	s(fmt.Sprintf(format, args...))
}

// Prefix returns a Sink that tags every line with "[prefix] " before
// forwarding to next. Used to distinguish the SLAVE and MASTER phases in a
// shared log stream.
func Prefix(next Sink, prefix string) Sink {
	if next == nil {
		return Discard
	}
	return func(line string) {
		next(fmt.Sprintf("[%s] %s", prefix, line))
	}
}
