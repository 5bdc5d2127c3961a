package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/detect"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/planner"
)

// Mode selects how two stations are reached during one attempt.
type Mode string

const (
	// ModeOnePort configures both stations sequentially through one
	// physical transport, with a manual cable swap between phases.
	ModeOnePort Mode = "one"

	// ModeTwoPort uses two distinct transports, one per station.
	ModeTwoPort Mode = "two"
)

// SwapPromptFunc asks the operator to move the cable to the master station
// in one-port mode. It may return a replacement device name; an empty
// return keeps the current one.
type SwapPromptFunc func(message, masterPort string) string

// TuneFunc lets the operator edit a role's flags after seeing the built
// plan. The engine rebuilds the plan from the returned flags, repeating
// until the tuner reports it is done.
type TuneFunc func(role string, plan []planner.Step, flags planner.Flags) (planner.Flags, bool)

// PairRequest describes one pairing attempt. All fields arrive validated
// or are validated before any transport opens.
type PairRequest struct {
	Mode Mode

	// Port is the shared device for one-port mode. MasterPort and
	// SlavePort are the per-station devices for two-port mode.
	Port       string
	MasterPort string
	SlavePort  string

	NameMaster string
	NameSlave  string

	// PIN must be exactly four digits when set; it is applied to both
	// stations.
	PIN string

	// Baud is the data-mode rate both stations are set to.
	Baud int

	Flags planner.Flags

	// ChooseAddr picks a device from inquiry scan results; nil takes the
	// first found. PromptSwap handles the one-port cable move; nil skips
	// straight on. Tune drives interactive plan editing; nil disables it.
	ChooseAddr ChooseAddrFunc
	PromptSwap SwapPromptFunc
	Tune       TuneFunc

	Sink logx.Sink
}

// PairResult is the outcome of an attempt that got past validation.
type PairResult struct {
	// Passed is the final verdict. It intentionally differs from "every
	// step succeeded": see Verdict.
	Passed bool

	// Message is the operator-facing explanation of the verdict or
	// failure.
	Message string

	// SlaveAddr is the discovered slave address, when one was captured.
	SlaveAddr *addr.Address

	// BindOK and LinkOK record the master's bind and link outcomes.
	BindOK bool
	LinkOK bool

	// SlaveFlags and MasterFlags are the per-role flags after interactive
	// tuning, for hosts that persist them.
	SlaveFlags  planner.Flags
	MasterFlags planner.Flags
}

// Pair runs the full two-phase attempt: detect and configure the slave,
// carry its address across the swap (or to the second port), then detect
// and configure the master, and derive the verdict.
//
// Configuration faults (bad request fields, unbuildable plans) return an
// error before or instead of transport activity. Operational failures
// return a PairResult with Passed false.
func (e *Engine) Pair(ctx context.Context, req PairRequest) (*PairResult, error) {
	flags := req.Flags
	if flags.SkipSteps == nil {
		flags.SkipSteps = map[string]bool{}
	}
	if flags.Advanced {
		flags.Interactive = true
	}
	flags.ShowPlan = flags.ShowPlan || flags.Advanced || flags.DryRun || flags.Interactive

	if err := validatePair(&req); err != nil {
		return nil, err
	}

	pctx := &pairContext{}
	slaveFlags := flags.Clone()
	masterFlags := flags.Clone()
	masterPort := req.MasterPort

	result := func(passed bool, message string) *PairResult {
		return &PairResult{
			Passed:      passed,
			Message:     message,
			SlaveAddr:   pctx.slaveAddr,
			BindOK:      pctx.bindOK,
			LinkOK:      pctx.linkOK,
			SlaveFlags:  slaveFlags,
			MasterFlags: masterFlags,
		}
	}

	// ---- Slave phase ----
	slaveSink := logx.Prefix(req.Sink, "SLAVE")
	slaveDet, err := e.Detect(ctx, req.SlavePort, slaveSink)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logx.Printf(slaveSink, "!! Detect failed on SLAVE.")
		return result(false, "could not detect SLAVE module; check wiring, AT mode, and baud/line ending"), nil
	}

	if req.Mode == ModeOnePort && slaveDet.Family != detect.FamilyHC05 {
		logx.Printf(slaveSink, "!! One-port swap needs the SLAVE address (recommend SLAVE as HC-05).")
		return result(false, "one-port mode requires an HC-05 slave so its address can be read before the swap"), nil
	}

	requireAddr := req.Mode == ModeOnePort
	slavePlan, err := e.buildAndTune(ctx, "SLAVE", &slaveFlags, req, slaveSink, func(f planner.Flags) ([]planner.Step, error) {
		return planner.BuildSlavePlan(slaveDet, req.NameSlave, req.PIN, req.Baud, f, requireAddr)
	})
	if err != nil {
		return nil, err
	}

	slaveOK, err := e.runPlan(ctx, req.SlavePort, slaveDet, slavePlan, slaveFlags,
		phaseConfig{name: req.NameSlave, pin: req.PIN, baud: req.Baud}, pctx, req.ChooseAddr, slaveSink)
	if err != nil {
		return nil, err
	}
	if !slaveOK {
		logx.Printf(req.Sink, "[FAIL] Could not configure SLAVE.")
		return result(false, "slave configuration failed; see log for the failing step"), nil
	}

	if pctx.slaveAddr != nil && e.store != nil {
		meta := map[string]string{
			"port":       req.SlavePort,
			"baud":       strconv.Itoa(req.Baud),
			"name_slave": req.NameSlave,
			"mode":       string(req.Mode),
		}
		if err := e.store.WriteLast(*pctx.slaveAddr, meta); err != nil {
			logx.Printf(req.Sink, ".. could not write address cache: %v", err)
		}
	}

	if req.Mode == ModeOnePort && pctx.slaveAddr == nil && !slaveFlags.DryRun {
		logx.Printf(slaveSink, "!! One-port swap needs the SLAVE address (recommend SLAVE as HC-05).")
		return result(false, "slave address not captured; one-port mode cannot continue"), nil
	}

	// ---- Swap (one-port mode) ----
	if req.Mode == ModeOnePort && !flags.DryRun {
		logx.Printf(req.Sink, "Unplug SLAVE from USB-UART.")
		logx.Printf(req.Sink, "IMPORTANT: To complete LINK immediately, SLAVE should remain POWERED in DATA mode (KEY/EN LOW).")
		logx.Printf(req.Sink, "If SLAVE is not powered, MASTER will still be configured (BIND) and will auto-connect later when both are powered.")
		if req.PromptSwap != nil {
			if replacement := req.PromptSwap("Swap to MASTER (HC-05). Put MASTER in AT mode (KEY/EN high when powering).", masterPort); replacement != "" {
				masterPort = replacement
			}
		}
	}

	// ---- Master phase ----
	masterSink := logx.Prefix(req.Sink, "MASTER")
	masterDet, err := e.Detect(ctx, masterPort, masterSink)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logx.Printf(masterSink, "!! Detect failed on MASTER.")
		return result(false, "could not detect MASTER module; check wiring, AT mode, and baud/line ending"), nil
	}

	// Two-port mode wants the live link; one-port mode must tolerate an
	// unpowered slave after the swap.
	requireLink := req.Mode == ModeTwoPort && !masterFlags.NoLink

	wantScan := pctx.slaveAddr == nil
	masterPlan, err := e.buildAndTune(ctx, "MASTER", &masterFlags, req, masterSink, func(f planner.Flags) ([]planner.Step, error) {
		return planner.BuildMasterPlan(masterDet, req.NameMaster, req.PIN, req.Baud, f, pctx.slaveAddr, wantScan, requireLink)
	})
	if err != nil {
		return nil, err
	}

	masterOK, err := e.runPlan(ctx, masterPort, masterDet, masterPlan, masterFlags,
		phaseConfig{name: req.NameMaster, pin: req.PIN, baud: req.Baud}, pctx, req.ChooseAddr, masterSink)
	if err != nil {
		return nil, err
	}
	if !masterOK {
		logx.Printf(req.Sink, "[FAIL] MASTER phase failed.")
		return result(false, "master configuration failed; see log for the failing step"), nil
	}

	passed, message := Verdict(req.Mode, requireLink, pctx.linkOK)
	if passed {
		logx.Printf(req.Sink, "[PASS] %s", message)
	} else {
		logx.Printf(req.Sink, "[FAIL] %s", message)
	}
	return result(passed, message), nil
}

// buildAndTune builds a role's plan, shows it when asked, and loops through
// the interactive tuner, rebuilding from the edited flags each round.
func (e *Engine) buildAndTune(ctx context.Context, role string, flags *planner.Flags, req PairRequest, sink logx.Sink, build func(planner.Flags) ([]planner.Step, error)) ([]planner.Step, error) {
	plan, err := build(*flags)
	if err != nil {
		return nil, err
	}
	if flags.ShowPlan {
		planner.Format(role, plan, req.Sink)
	}

	if flags.Interactive && req.Tune != nil {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			edited, again := req.Tune(role, plan, *flags)
			*flags = edited
			plan, err = build(*flags)
			if err != nil {
				return nil, err
			}
			if flags.ShowPlan {
				planner.Format(role, plan, req.Sink)
			}
			if !again {
				break
			}
		}
	}
	return plan, nil
}

// validatePair checks the request and normalizes the per-mode port fields.
// Every failure here happens before any transport activity.
func validatePair(req *PairRequest) error {
	if req.PIN != "" && !validPIN(req.PIN) {
		return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
	}
	if req.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", ErrValidation)
	}

	switch req.Mode {
	case ModeOnePort:
		port := req.Port
		if port == "" {
			port = req.SlavePort
		}
		if port == "" {
			port = req.MasterPort
		}
		if port == "" {
			return fmt.Errorf("%w: one-port mode requires a shared port", ErrValidation)
		}
		req.SlavePort = port
		req.MasterPort = port
	case ModeTwoPort:
		if req.MasterPort == "" || req.SlavePort == "" {
			return fmt.Errorf("%w: two-port mode requires both --master-port and --slave-port", ErrValidation)
		}
		if req.MasterPort == req.SlavePort {
			return fmt.Errorf("%w: master and slave ports must differ in two-port mode", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: mode must be %q or %q", ErrValidation, ModeOnePort, ModeTwoPort)
	}
	return nil
}

// validPIN enforces the module constraint of exactly four ASCII digits.
func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
