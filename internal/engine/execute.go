package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/detect"
	"github.com/danieljhkim/hcpair/internal/exchange"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/planner"
	"github.com/danieljhkim/hcpair/internal/transport"
)

const (
	// scanWindow is how long an inquiry scan collects replies; scanPoll is
	// the read poll interval inside that window.
	scanWindow = 8 * time.Second
	scanPoll   = 200 * time.Millisecond
)

// ChooseAddrFunc selects one address from an inquiry scan's results. A
// false return aborts the scan step.
type ChooseAddrFunc func(found []addr.Address) (addr.Address, bool)

// phaseConfig carries the operator fields the executor needs when it
// re-derives family-specific command forms.
type phaseConfig struct {
	name string
	pin  string
	baud int
}

// runPlan executes steps strictly in order on one freshly opened transport.
// The bool reports phase success; the error is non-nil only on
// cancellation. I/O and protocol failures become step outcomes.
func (e *Engine) runPlan(ctx context.Context, device string, det *detect.Result, steps []planner.Step, flags planner.Flags, cfg phaseConfig, pctx *pairContext, choose ChooseAddrFunc, sink logx.Sink) (bool, error) {
	logx.Printf(sink, "Using profile %s on %s", det.Profile, device)

	if flags.DryRun {
		logx.Printf(sink, ".. DRY-RUN: skipping serial writes.")
		return true, nil
	}

	port, err := e.open(device, det.Profile)
	if err != nil {
		logx.Printf(sink, "!! Serial error on port %s: %v", device, err)
		return false, nil
	}
	defer port.Close()

	for _, step := range steps {
		ok, err := e.executeStep(ctx, port, det, step, cfg, pctx, choose, sink)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// executeStep runs one step. Optional-step failures are absorbed here: the
// step logs and reports success so the phase continues. Critical and plain
// step failures report false.
func (e *Engine) executeStep(ctx context.Context, port transport.Port, det *detect.Result, step planner.Step, cfg phaseConfig, pctx *pairContext, choose ChooseAddrFunc, sink logx.Sink) (bool, error) {
	if err := ctx.Err(); err != nil {
		logx.Printf(sink, ".. cancelled")
		return false, err
	}

	if step.Kind == planner.KindInquiry {
		return e.runInquiry(ctx, port, det.Profile, pctx, choose, sink)
	}

	cmd := step.Command
	if strings.Contains(cmd, at.AddrPlaceholder) {
		// No known address fails the step regardless of its flags; sending
		// a literal placeholder would misconfigure the module.
		if pctx.slaveAddr == nil {
			logx.Printf(sink, "!! Missing slave address; cannot continue.")
			return false, nil
		}
		cmd = strings.ReplaceAll(cmd, at.AddrPlaceholder, pctx.slaveAddr.Comma)
	}

	opts := step.ExchangeOptions()

	switch step.ID {
	case planner.StepName:
		if cfg.name == "" {
			return true, nil
		}
		primary, fallback := nameForms(det.Family, cfg.name)
		ok, err := e.sendWithFallback(ctx, port, det.Profile, primary, fallback, opts, sink)
		if err != nil {
			return false, err
		}
		if !ok && step.Optional {
			logx.Printf(sink, ".. NAME step skipped (optional).")
			return true, nil
		}
		return ok, nil

	case planner.StepPIN:
		if cfg.pin == "" {
			return true, nil
		}
		primary, fallback := pinForms(det.Family, cfg.pin)
		ok, err := e.sendWithFallback(ctx, port, det.Profile, primary, fallback, opts, sink)
		if err != nil {
			return false, err
		}
		if !ok && step.Optional {
			logx.Printf(sink, ".. PIN step skipped (optional).")
			return true, nil
		}
		return ok, nil

	case planner.StepUART:
		form, ok := uartForm(det.Family, cfg.baud)
		if !ok {
			logx.Printf(sink, "!! Baud %d not supported by HC-06 auto map.", cfg.baud)
			return false, nil
		}
		sent, _, err := e.sendOnce(ctx, port, det.Profile, form, opts, sink)
		if err != nil {
			return false, err
		}
		if !sent && step.Optional {
			logx.Printf(sink, ".. UART step skipped (optional).")
			return true, nil
		}
		return sent, nil

	case planner.StepAddr:
		_, reply, err := e.sendOnce(ctx, port, det.Profile, cmd, opts, sink)
		if err != nil {
			return false, err
		}
		if a, found := addr.Parse(reply); found {
			pctx.slaveAddr = &a
			logx.Printf(sink, "SLAVE ADDRESS: %s  (use: %s)", a.Colon, a.Comma)
			return true, nil
		}
		if step.Critical {
			logx.Printf(sink, "!! One-port swap needs the SLAVE address (recommend SLAVE as HC-05).")
			return false, nil
		}
		logx.Printf(sink, ".. Could not read slave address; master will rely on INQ.")
		return true, nil
	}

	ok, reply, err := e.sendOnce(ctx, port, det.Profile, cmd, opts, sink)
	if err != nil {
		return false, err
	}

	if ok {
		switch step.ID {
		case planner.StepBind:
			pctx.bindOK = true
		case planner.StepLink:
			pctx.linkOK = true
		}
	}

	if !ok && step.Optional {
		if strings.TrimSpace(reply) != "" {
			logx.Printf(sink, ".. Optional step '%s' failed; continuing.", step.Label)
		} else {
			logx.Printf(sink, ".. Optional step '%s' no response; continuing.", step.Label)
		}
		return true, nil
	}
	return ok, nil
}

// sendOnce performs one exchange. Cancellation propagates as an error;
// I/O faults collapse into a failed outcome, since per-step policy decides
// what a failure means.
func (e *Engine) sendOnce(ctx context.Context, port transport.Port, profile transport.Profile, cmd string, opts exchange.Options, sink logx.Sink) (bool, string, error) {
	res, err := e.x.Send(ctx, port, cmd, profile, opts, sink)
	if err != nil {
		if ctx.Err() != nil {
			return false, res.Reply, err
		}
		logx.Printf(sink, "!! %v", err)
		return false, res.Reply, nil
	}
	return res.Acked || !opts.ExpectOK, res.Reply, nil
}

// sendWithFallback tries the primary command form and, when it does not
// acknowledge, the same-step fallback form.
func (e *Engine) sendWithFallback(ctx context.Context, port transport.Port, profile transport.Profile, primary, fallback string, opts exchange.Options, sink logx.Sink) (bool, error) {
	ok, _, err := e.sendOnce(ctx, port, profile, primary, opts, sink)
	if err != nil || ok || fallback == "" {
		return ok, err
	}
	logx.Printf(sink, ".. %s failed; trying %s", primary, fallback)
	ok, _, err = e.sendOnce(ctx, port, profile, fallback, opts, sink)
	return ok, err
}

// runInquiry handles a scan-kind step: broadcast AT+INQ, collect replies
// for the scan window, and let the selection callback pick a device.
func (e *Engine) runInquiry(ctx context.Context, port transport.Port, profile transport.Profile, pctx *pairContext, choose ChooseAddrFunc, sink logx.Sink) (bool, error) {
	if pctx.slaveAddr != nil {
		logx.Printf(sink, ".. address already known; skipping INQ.")
		return true, nil
	}

	found, err := e.inquire(ctx, port, profile, sink)
	if err != nil {
		return false, err
	}
	if len(found) == 0 {
		logx.Printf(sink, "!! No devices found via INQ.")
		return false, nil
	}

	selected := found[0]
	if choose != nil {
		var ok bool
		if selected, ok = choose(found); !ok {
			logx.Printf(sink, "!! No address selected.")
			return false, nil
		}
	}
	pctx.slaveAddr = &selected
	logx.Printf(sink, ".. Selected %s (use: %s)", selected.Colon, selected.Comma)
	return true, nil
}

// inquire broadcasts the scan command and reads everything the module
// reports within the scan window.
func (e *Engine) inquire(ctx context.Context, port transport.Port, profile transport.Profile, sink logx.Sink) ([]addr.Address, error) {
	if err := port.ResetInputBuffer(); err != nil {
		logx.Printf(sink, "!! %v", err)
		return nil, nil
	}

	logx.Printf(sink, ">> %s", at.CmdInquire)
	payload := append([]byte(at.CmdInquire), profile.Ending.Terminator()...)
	if _, err := port.Write(payload); err != nil {
		logx.Printf(sink, "!! Write failed: %v", err)
		return nil, nil
	}
	if err := port.Drain(); err != nil {
		logx.Printf(sink, "!! %v", err)
		return nil, nil
	}

	var buf strings.Builder
	tmp := make([]byte, 256)
	start := e.clk.Now()
	for e.clk.Since(start) < scanWindow {
		if err := ctx.Err(); err != nil {
			logx.Printf(sink, ".. cancelled")
			return nil, err
		}
		n, err := port.Read(tmp)
		if err != nil {
			logx.Printf(sink, "!! %v", err)
			break
		}
		if n > 0 {
			chunk := strings.ToValidUTF8(string(tmp[:n]), "")
			if trimmed := strings.TrimSpace(chunk); trimmed != "" {
				logx.Printf(sink, "<< %s", trimmed)
			}
			buf.WriteString(chunk)
		}
		e.clk.Sleep(scanPoll)
	}
	return addr.ParseAll(buf.String()), nil
}

// nameForms returns the primary and same-step fallback command forms for
// setting the device name. HC-06 firmwares split on whether NAME takes an
// equals sign.
func nameForms(family detect.Family, name string) (primary, fallback string) {
	if family == detect.FamilyHC06 {
		return "AT+NAME" + name, "AT+NAME=" + name
	}
	return "AT+NAME=" + name, ""
}

// pinForms returns the command forms for setting the PIN. Each family is
// tried with its native form first and its sibling's form second.
func pinForms(family detect.Family, pin string) (primary, fallback string) {
	if family == detect.FamilyHC06 {
		return "AT+PIN" + pin, "AT+PSWD=" + pin
	}
	return "AT+PSWD=" + pin, "AT+PIN=" + pin
}

// uartForm returns the family's baud-setting command, or false for an
// unmapped HC-06 rate.
func uartForm(family detect.Family, baud int) (string, bool) {
	if family == detect.FamilyHC06 {
		code, ok := planner.HC06BaudCode(baud)
		if !ok {
			return "", false
		}
		return "AT+BAUD" + code, true
	}
	return fmt.Sprintf("AT+UART=%d,0,0", baud), true
}
