// Package detect probes a serial device to find which module family is
// attached and which serial profile it speaks.
package detect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/exchange"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/transport"
)

// Family identifies the command dialect a module speaks.
type Family string

const (
	// FamilyHC05 modules understand ROLE/CMODE/INQ/PAIR/BIND/LINK and can
	// act as master or slave.
	FamilyHC05 Family = "hc05"

	// FamilyHC06 modules are slave-only with the terse concatenated
	// dialect and coded baud table.
	FamilyHC06 Family = "hc06"
)

// ErrNotDetected means no profile produced an acknowledgement, or the
// device could not be opened at all.
var ErrNotDetected = errors.New("module not detected")

// Profiles is the fixed priority order tried during detection: the common
// AT-mode settings of each family first, then the cross combinations.
var Profiles = []transport.Profile{
	{Baud: 38400, Ending: transport.EndingCRLF}, // common HC-05 AT mode
	{Baud: 9600, Ending: transport.EndingNone},  // common HC-06 AT mode
	{Baud: 38400, Ending: transport.EndingNone}, // fallback
	{Baud: 9600, Ending: transport.EndingCRLF},  // fallback
}

// Result describes a detected module.
type Result struct {
	// Family is the best-effort dialect classification.
	Family Family

	// Profile is the serial profile the module acknowledged on.
	Profile transport.Profile

	// RoleReply is the raw classification reply, kept for display.
	RoleReply string
}

// Detect probes device with each profile in order, accepting the first one
// on which the liveness command acknowledges, then classifies the family
// from the role query reply. Profiles may be nil to use the default order.
func Detect(ctx context.Context, open transport.Opener, device string, profiles []transport.Profile, x *exchange.Exchange, sink logx.Sink) (*Result, error) {
	if len(profiles) == 0 {
		profiles = Profiles
	}

	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			logx.Printf(sink, ".. detect cancelled")
			return nil, err
		}

		logx.Printf(sink, "Probing %s with %s ...", device, profile)
		res, err := probe(ctx, open, device, profile, x, sink)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logx.Printf(sink, "!! Could not open %s: %v", device, err)
			// A device that fails at the I/O level will fail at every baud.
			return nil, fmt.Errorf("%w: %s", ErrNotDetected, device)
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotDetected, device)
}

// probe tries a single profile. A nil, nil return means the module did not
// acknowledge on this profile.
func probe(ctx context.Context, open transport.Opener, device string, profile transport.Profile, x *exchange.Exchange, sink logx.Sink) (*Result, error) {
	port, err := open(device, profile)
	if err != nil {
		return nil, err
	}
	defer port.Close()

	ping := exchange.DefaultOptions()
	ping.Retries = 2
	res, err := x.Send(ctx, port, at.CmdPing, profile, ping, sink)
	if err != nil {
		return nil, err
	}
	if !res.Acked {
		return nil, nil
	}

	query := exchange.DefaultOptions()
	query.ExpectOK = false
	role, err := x.Send(ctx, port, at.CmdQueryRole, profile, query, sink)
	if err != nil {
		return nil, err
	}

	family := FamilyHC06
	if strings.Contains(strings.ToUpper(role.Reply), at.RoleMarker) {
		family = FamilyHC05
	}
	return &Result{Family: family, Profile: profile, RoleReply: role.Reply}, nil
}
