package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/danieljhkim/hcpair/internal/cache"
	"github.com/danieljhkim/hcpair/internal/clock"
	"github.com/danieljhkim/hcpair/internal/engine"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/transport"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// newEngine creates an engine wired to the real serial transport and clock.
// A broken cache location only loses the address memo, never the run.
func newEngine() *engine.Engine {
	clk := &clock.RealClock{}
	var store *cache.Cache
	if path, err := cache.DefaultPath(); err == nil {
		store = cache.New(path, clk)
	}
	return engine.New(transport.Open, clk, store)
}

// signalContext returns a context cancelled by Ctrl-C, so a pairing run in
// the middle of a long PAIR or LINK wait stops cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// consoleSink is the logx.Sink for interactive runs.
func consoleSink(line string) {
	fmt.Println(line)
}

var _ logx.Sink = consoleSink

// PrintSuccess prints a success message with a checkmark.
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol.
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message.
func PrintInfo(msg string) {
	fmt.Println(msg)
}
