package planner

import (
	"time"

	"github.com/danieljhkim/hcpair/internal/exchange"
)

// Kind distinguishes ordinary command steps from the inquiry scan, which
// has its own collection loop instead of a single round trip.
type Kind string

const (
	KindCommand Kind = "command"
	KindInquiry Kind = "inquiry"
)

// Category separates the built-in sequence from operator-supplied extras.
type Category string

const (
	CategoryBasic Category = "basic"
	CategoryExtra Category = "extra"
)

// Step ids. Critical steps can never appear in a skip set; the builders
// reject that before any transport activity.
const (
	StepPing         = "at"
	StepFactoryReset = "orgl"
	StepRoleSlave    = "role0"
	StepRoleMaster   = "role1"
	StepConnectMode  = "cmode"
	StepName         = "name"
	StepPIN          = "pin"
	StepUART         = "uart"
	StepAddr         = "addr"
	StepClearBonded  = "rmaad"
	StepInitRadio    = "init"
	StepInquire      = "inq"
	StepPair         = "pair"
	StepBind         = "bind"
	StepLink         = "link"
	StepReset        = "reset"
)

// Step is one command in a plan. Steps are immutable once built.
type Step struct {
	// ID identifies the step for skip sets and outcome tracking.
	ID string

	// Label is the human-readable form shown in plan listings.
	Label string

	// Command is the literal command text, possibly containing the peer
	// address placeholder rewritten at execution time.
	Command string

	// Value is the operator-supplied field behind the command (name, pin),
	// used when the executor re-derives a family-specific form.
	Value string

	// Critical steps abort the phase on failure and cannot be skipped.
	Critical bool

	// Optional steps log their failure and let the phase continue. Many
	// firmwares reject ORGL, RMAAD, or PAIR outright.
	Optional bool

	// ExpectOK requires an acknowledgement in the reply.
	ExpectOK bool

	// Retries is the attempt budget for the step's command.
	Retries int

	// Capture marks steps whose reply is mined for a hardware address.
	Capture bool

	Kind     Kind
	Category Category

	// Timeout and QuietGap override the exchange defaults; PAIR and LINK
	// replies can take tens of seconds.
	Timeout  time.Duration
	QuietGap time.Duration
}

// ExchangeOptions translates the step's policy for the exchange layer.
func (s Step) ExchangeOptions() exchange.Options {
	opts := exchange.Options{
		ExpectOK: s.ExpectOK,
		Retries:  s.Retries,
		Timeout:  s.Timeout,
		QuietGap: s.QuietGap,
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = exchange.DefaultTimeout
	}
	if opts.QuietGap <= 0 {
		opts.QuietGap = exchange.DefaultQuietGap
	}
	return opts
}

// command builds a plain basic step with the defaults most steps share.
func command(id, text string) Step {
	return Step{
		ID:       id,
		Label:    text,
		Command:  text,
		ExpectOK: true,
		Retries:  1,
		Kind:     KindCommand,
		Category: CategoryBasic,
		Timeout:  exchange.DefaultTimeout,
		QuietGap: exchange.DefaultQuietGap,
	}
}
