package planner

import (
	"fmt"
	"time"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/detect"
)

// BuildMasterPlan produces the ordered plan that configures the initiating
// station. peer is the slave address when already known; wantScan adds an
// inquiry fallback when it is not. requireLink marks AT+LINK critical,
// which the orchestrator sets only in two-port mode where both stations
// are presumed powered.
func BuildMasterPlan(det *detect.Result, name, pin string, baud int, flags Flags, peer *addr.Address, wantScan, requireLink bool) ([]Step, error) {
	if det.Family != detect.FamilyHC05 {
		return nil, &PlanError{Reason: "master must be HC-05 (needs ROLE/PAIR/BIND/LINK)"}
	}

	addrText := at.AddrPlaceholder
	if peer != nil {
		addrText = peer.Comma
	}

	var steps []Step
	if flags.Basic {
		ping := command(StepPing, at.CmdPing)
		ping.Critical = true
		ping.Retries = 2
		steps = append(steps, ping)

		role := command(StepRoleMaster, at.CmdRoleMaster)
		role.Critical = true
		steps = append(steps, role)

		cmode := command(StepConnectMode, at.CmdConnectFixed)
		cmode.Critical = true
		steps = append(steps, cmode)

		if name != "" {
			n := command(StepName, fmt.Sprintf("AT+NAME=%s", name))
			n.Value = name
			steps = append(steps, n)
		}
		if pin != "" {
			p := command(StepPIN, fmt.Sprintf("AT+PSWD=%s", pin))
			p.Value = pin
			steps = append(steps, p)
		}

		uart := command(StepUART, fmt.Sprintf("AT+UART=%d,0,0", baud))
		uart.Critical = true
		steps = append(steps, uart)

		if !flags.NoClearBonded {
			rmaad := command(StepClearBonded, at.CmdClearBonded)
			rmaad.Optional = true
			rmaad.Timeout = 5 * time.Second
			steps = append(steps, rmaad)
		}

		init := command(StepInitRadio, at.CmdInitRadio)
		init.Optional = true
		init.Timeout = 8 * time.Second
		steps = append(steps, init)

		if wantScan && peer == nil {
			inq := command(StepInquire, at.CmdInquire)
			inq.Label = "AT+INQ (scan + pick slave)"
			inq.Critical = true
			inq.ExpectOK = false
			inq.Kind = KindInquiry
			inq.Timeout = 9 * time.Second
			steps = append(steps, inq)
		}

		if !flags.NoPair {
			// The command itself waits up to 20s for the peer, so the read
			// timeout must outlast it. Optional: many firmwares answer
			// ERROR:(16) and pair fine through BIND alone.
			pair := command(StepPair, fmt.Sprintf("AT+PAIR=%s,20", addrText))
			pair.Optional = true
			pair.Timeout = 25 * time.Second
			pair.QuietGap = 300 * time.Millisecond
			steps = append(steps, pair)
		}

		// BIND is what makes data-mode auto connect reliable.
		bind := command(StepBind, fmt.Sprintf("AT+BIND=%s", addrText))
		bind.Critical = true
		bind.Timeout = 4 * time.Second
		steps = append(steps, bind)

		if !flags.NoLink {
			link := command(StepLink, fmt.Sprintf("AT+LINK=%s", addrText))
			link.Critical = requireLink
			link.Optional = !requireLink
			link.Timeout = 15 * time.Second
			link.QuietGap = 300 * time.Millisecond
			steps = append(steps, link)
		}

		reset := command(StepReset, at.CmdReset)
		reset.Optional = true
		reset.ExpectOK = false
		reset.Timeout = 3 * time.Second
		steps = append(steps, reset)
	}

	filtered, err := filter(steps, flags)
	if err != nil {
		return nil, err
	}
	return append(filtered, extraSteps("master", flags.ExtraMasterCmds)...), nil
}
