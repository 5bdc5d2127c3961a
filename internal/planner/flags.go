package planner

// Flags is the operator's plan-shaping configuration. The orchestrator
// clones it once per role before interactive tuning, so edits to one role's
// flags never leak into the other.
type Flags struct {
	// Basic enables the built-in step sequence. With Basic off only extra
	// commands run.
	Basic bool

	// SkipSteps holds step ids to leave out of the plan. Skipping a
	// critical step while Basic is on is a build error.
	SkipSteps map[string]bool

	// ExtraMasterCmds and ExtraSlaveCmds are raw commands appended after
	// the basic sequence, never critical, no acknowledgement required.
	ExtraMasterCmds []string
	ExtraSlaveCmds  []string

	// Advanced implies Interactive; Interactive enables the plan tuning
	// loop; ShowPlan prints the checklist before execution.
	Advanced    bool
	Interactive bool
	DryRun      bool
	ShowPlan    bool

	// NoFactoryReset drops AT+ORGL from the slave plan (absent on some
	// clone firmwares).
	NoFactoryReset bool

	// NoClearBonded drops AT+RMAAD from the master plan.
	NoClearBonded bool

	// NoPair drops the explicit AT+PAIR negotiation; many firmwares reject
	// it and rely on BIND alone.
	NoPair bool

	// NoLink drops AT+LINK, leaving the bound connection to establish
	// itself in data mode.
	NoLink bool
}

// NewFlags returns the default flags: run the basic sequence, skip nothing.
func NewFlags() Flags {
	return Flags{
		Basic:     true,
		SkipSteps: map[string]bool{},
	}
}

// Clone returns a deep copy; the skip set and extra lists are independent
// of the original.
func (f Flags) Clone() Flags {
	out := f
	out.SkipSteps = make(map[string]bool, len(f.SkipSteps))
	for id := range f.SkipSteps {
		out.SkipSteps[id] = true
	}
	out.ExtraMasterCmds = append([]string(nil), f.ExtraMasterCmds...)
	out.ExtraSlaveCmds = append([]string(nil), f.ExtraSlaveCmds...)
	return out
}

// Skip adds a step id to the skip set.
func (f *Flags) Skip(id string) {
	if f.SkipSteps == nil {
		f.SkipSteps = map[string]bool{}
	}
	f.SkipSteps[id] = true
}

// include decides whether a built step survives flag filtering. Skipping a
// critical step while the basic sequence is active is a configuration
// fault.
func include(step Step, flags Flags) (bool, error) {
	if step.Category == CategoryBasic && !flags.Basic {
		return false, nil
	}
	if flags.SkipSteps[step.ID] {
		if step.Critical && flags.Basic {
			return false, &PlanError{Reason: "cannot skip critical step: " + step.Label}
		}
		return false, nil
	}
	return true, nil
}

// filter applies flag filtering to an ordered step list.
func filter(steps []Step, flags Flags) ([]Step, error) {
	out := make([]Step, 0, len(steps))
	for _, step := range steps {
		keep, err := include(step, flags)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, step)
		}
	}
	return out, nil
}
