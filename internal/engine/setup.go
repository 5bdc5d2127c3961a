package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/hcpair/internal/at"
	"github.com/danieljhkim/hcpair/internal/detect"
	"github.com/danieljhkim/hcpair/internal/exchange"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/planner"
	"github.com/danieljhkim/hcpair/internal/transport"
)

// Module force values for SetupRequest.
const (
	ModuleAuto = "auto"
	ModuleHC05 = "hc05"
	ModuleHC06 = "hc06"
)

// Role values for SetupRequest (HC-05 only; HC-06 is slave-only hardware).
const (
	RoleSlave  = "slave"
	RoleMaster = "master"
)

// SetupRequest configures a single module outside the pairing flow.
type SetupRequest struct {
	Device string

	// Module forces the dialect; ModuleAuto follows detection.
	Module string

	Name string
	PIN  string
	Baud int

	// Role applies to HC-05 only.
	Role string

	Sink logx.Sink
}

// Setup detects the module on Device and applies name, pin, baud, and (for
// HC-05) role. The detection result is returned even when configuration
// fails, so hosts can report what was found.
func (e *Engine) Setup(ctx context.Context, req SetupRequest) (*detect.Result, error) {
	if err := validateSetup(&req); err != nil {
		return nil, err
	}

	det, err := e.Detect(ctx, req.Device, req.Sink)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logx.Printf(req.Sink, "!! Could not detect module. Check wiring (RX/TX swapped?), AT mode, baud/line ending.")
		return nil, fmt.Errorf("detect %s: %w", req.Device, err)
	}

	logx.Printf(req.Sink, "Detected %s using %s", det.Family, det.Profile)

	family := det.Family
	if req.Module != ModuleAuto {
		family = detect.Family(req.Module)
		if family != det.Family {
			logx.Printf(req.Sink, "Warning: user forced module=%s, but detection suggested %s.", family, det.Family)
		}
	}

	port, err := e.open(req.Device, det.Profile)
	if err != nil {
		return det, fmt.Errorf("open %s: %w", req.Device, err)
	}
	defer port.Close()

	if family == detect.FamilyHC05 {
		err = e.setupHC05(ctx, port, det.Profile, req)
	} else {
		err = e.setupHC06(ctx, port, det.Profile, req)
	}
	if err != nil {
		return det, err
	}
	return det, nil
}

func (e *Engine) setupHC05(ctx context.Context, port transport.Port, profile transport.Profile, req SetupRequest) error {
	ping := exchange.DefaultOptions()
	ping.Retries = 2
	ok, _, err := e.sendOnce(ctx, port, profile, at.CmdPing, ping, req.Sink)
	if err != nil {
		return err
	}
	if !ok {
		logx.Printf(req.Sink, "!! HC-05 did not confirm AT. Check AT mode wiring and baud/ending.")
		return fmt.Errorf("HC-05 did not acknowledge AT")
	}

	opts := exchange.DefaultOptions()
	if req.Name != "" {
		primary, fallback := nameForms(detect.FamilyHC05, req.Name)
		if ok, err = e.sendWithFallback(ctx, port, profile, primary, fallback, opts, req.Sink); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("name set failed")
		}
	}
	if req.PIN != "" {
		primary, fallback := pinForms(detect.FamilyHC05, req.PIN)
		if ok, err = e.sendWithFallback(ctx, port, profile, primary, fallback, opts, req.Sink); err != nil {
			return err
		} else if !ok {
			logx.Printf(req.Sink, "!! PIN set failed.")
			return fmt.Errorf("pin set failed")
		}
	}

	if ok, _, err = e.sendOnce(ctx, port, profile, fmt.Sprintf("AT+UART=%d,0,0", req.Baud), opts, req.Sink); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("baud set failed")
	}

	roleCmd := at.CmdRoleSlave
	if req.Role == RoleMaster {
		roleCmd = at.CmdRoleMaster
	}
	if ok, _, err = e.sendOnce(ctx, port, profile, roleCmd, opts, req.Sink); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("role set failed")
	}

	// Some firmwares are silent on RESET.
	silent := exchange.DefaultOptions()
	silent.ExpectOK = false
	if _, _, err = e.sendOnce(ctx, port, profile, at.CmdReset, silent, req.Sink); err != nil {
		return err
	}
	logx.Printf(req.Sink, "HC-05 setup done. If the module does not restart, disconnect/reconnect power.")
	return nil
}

func (e *Engine) setupHC06(ctx context.Context, port transport.Port, profile transport.Profile, req SetupRequest) error {
	ping := exchange.DefaultOptions()
	ping.Retries = 2
	ok, _, err := e.sendOnce(ctx, port, profile, at.CmdPing, ping, req.Sink)
	if err != nil {
		return err
	}
	if !ok {
		logx.Printf(req.Sink, "!! HC-06 did not confirm AT. Check wiring and baud/ending.")
		return fmt.Errorf("HC-06 did not acknowledge AT")
	}

	opts := exchange.DefaultOptions()
	if req.Name != "" {
		primary, fallback := nameForms(detect.FamilyHC06, req.Name)
		if ok, err = e.sendWithFallback(ctx, port, profile, primary, fallback, opts, req.Sink); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("name set failed")
		}
	}
	if req.PIN != "" {
		primary, fallback := pinForms(detect.FamilyHC06, req.PIN)
		if ok, err = e.sendWithFallback(ctx, port, profile, primary, fallback, opts, req.Sink); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("pin set failed")
		}
	}

	code, mapped := planner.HC06BaudCode(req.Baud)
	if !mapped {
		logx.Printf(req.Sink, "!! Baud %d not in common HC-06 BAUD table. Firmware mappings differ; try a supported value.", req.Baud)
		return fmt.Errorf("%w: baud %d has no HC-06 code", ErrValidation, req.Baud)
	}
	if ok, _, err = e.sendOnce(ctx, port, profile, "AT+BAUD"+code, opts, req.Sink); err != nil {
		return err
	} else if !ok {
		logx.Printf(req.Sink, "!! Baud change command did not return OK.")
		return fmt.Errorf("baud set failed")
	}

	logx.Printf(req.Sink, "HC-06 setup done. If baud changed, reconnect at the new data-mode speed.")
	return nil
}

func validateSetup(req *SetupRequest) error {
	if req.Device == "" {
		return fmt.Errorf("%w: a device is required", ErrValidation)
	}
	if req.PIN != "" && !validPIN(req.PIN) {
		return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
	}
	if req.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", ErrValidation)
	}
	if req.Module == "" {
		req.Module = ModuleAuto
	}
	switch req.Module {
	case ModuleAuto, ModuleHC05, ModuleHC06:
	default:
		return fmt.Errorf("%w: module must be auto, hc05, or hc06", ErrValidation)
	}
	if req.Role == "" {
		req.Role = RoleSlave
	}
	if req.Role != RoleSlave && req.Role != RoleMaster {
		return fmt.Errorf("%w: role must be slave or master", ErrValidation)
	}
	return nil
}
