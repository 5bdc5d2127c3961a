package planner

import (
	"fmt"
	"time"

	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/detect"
)

// BuildSlavePlan produces the ordered plan that configures the accepting
// station. requireAddr marks the address read critical, which the
// orchestrator sets only in one-port swap mode where the master phase
// cannot fall back to a scan.
func BuildSlavePlan(det *detect.Result, name, pin string, baud int, flags Flags, requireAddr bool) ([]Step, error) {
	var steps []Step
	hc05 := det.Family == detect.FamilyHC05

	if flags.Basic {
		ping := command(StepPing, at.CmdPing)
		ping.Critical = true
		ping.Retries = 2
		steps = append(steps, ping)

		if hc05 && !flags.NoFactoryReset {
			orgl := command(StepFactoryReset, at.CmdFactoryReset)
			orgl.Optional = true
			orgl.Timeout = 3 * time.Second
			steps = append(steps, orgl)
		}
		if hc05 {
			role := command(StepRoleSlave, at.CmdRoleSlave)
			role.Critical = true
			steps = append(steps, role)
		}
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

		if hc05 {
			uart := command(StepUART, fmt.Sprintf("AT+UART=%d,0,0", baud))
			uart.Critical = true
			steps = append(steps, uart)

			a := command(StepAddr, at.CmdQueryAddr)
			a.Critical = requireAddr
			a.Optional = !requireAddr
			a.ExpectOK = false
			a.Capture = true
			steps = append(steps, a)
		} else {
			code, ok := HC06BaudCode(baud)
			if !ok {
				return nil, unsupportedBaudError(baud)
			}
			uart := command(StepUART, fmt.Sprintf("AT+BAUD%s", code))
			uart.Critical = true
			steps = append(steps, uart)

			// HC-06 rarely reports its address, but asking costs nothing
			// and saves the master a scan when it does.
			a := command(StepAddr, at.CmdQueryAddr)
			a.Optional = true
			a.ExpectOK = false
			a.Capture = true
			steps = append(steps, a)
		}
	}

	filtered, err := filter(steps, flags)
	if err != nil {
		return nil, err
	}
	return append(filtered, extraSteps("slave", flags.ExtraSlaveCmds)...), nil
}

// extraSteps wraps operator-supplied raw commands: never critical, no
// acknowledgement required, outside the basic category so they survive
// --no-basic.
func extraSteps(role string, cmds []string) []Step {
	var out []Step
	for i, cmd := range cmds {
		out = append(out, Step{
			ID:       fmt.Sprintf("extra-%s-%d", role, i+1),
			Label:    fmt.Sprintf("Extra (%s) %s", role, cmd),
			Command:  cmd,
			Optional: true,
			Retries:  1,
			Kind:     KindCommand,
			Category: CategoryExtra,
			Timeout:  2500 * time.Millisecond,
		})
	}
	return out
}
