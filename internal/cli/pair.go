package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hcpair/internal/engine"
	"github.com/danieljhkim/hcpair/internal/planner"
)

var pairOpts struct {
	mode       string
	port       string
	masterPort string
	slavePort  string
	nameMaster string
	nameSlave  string
	pin        string
	baud       int

	noFactoryReset bool
	noClearBonded  bool
	noPair         bool
	noLink         bool

	advanced        bool
	showPlan        bool
	basic           bool
	noBasic         bool
	skipSteps       string
	extraMasterCmds []string
	extraSlaveCmds  []string
	dryRun          bool
}

var pairCmd = &cobra.Command{
	Use:     "pair",
	Short:   "Pair one HC-05 master with a slave module",
	GroupID: "module-operations",
	Long: `Configure a SLAVE and an HC-05 MASTER so the master auto-connects to the
slave in data mode.

Mode "one" uses a single USB-UART adapter: the slave is configured first,
then the wizard pauses while you move the cable to the master. Mode "two"
configures both at once on separate ports and additionally verifies the
live AT+LINK connection.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		ctx, cancel := signalContext()
		defer cancel()

		mode := engine.Mode(strings.ToLower(pairOpts.mode))
		if err := resolvePairPorts(mode); err != nil {
			return err
		}

		flags := planner.NewFlags()
		flags.NoFactoryReset = pairOpts.noFactoryReset
		flags.NoClearBonded = pairOpts.noClearBonded
		flags.NoPair = pairOpts.noPair
		flags.NoLink = pairOpts.noLink
		flags.Advanced = pairOpts.advanced
		flags.ShowPlan = pairOpts.showPlan
		flags.DryRun = pairOpts.dryRun
		flags.Basic = pairOpts.basic && !pairOpts.noBasic
		flags.ExtraMasterCmds = pairOpts.extraMasterCmds
		flags.ExtraSlaveCmds = pairOpts.extraSlaveCmds
		for _, id := range strings.Split(pairOpts.skipSteps, ",") {
			if id = strings.TrimSpace(id); id != "" {
				flags.Skip(id)
			}
		}

		if a, ok := eng.LastSlaveAddr(); ok {
			PrintInfo(fmt.Sprintf("Last paired slave: %s", a))
		}

		res, err := eng.Pair(ctx, engine.PairRequest{
			Mode:       mode,
			Port:       pairOpts.port,
			MasterPort: pairOpts.masterPort,
			SlavePort:  pairOpts.slavePort,
			NameMaster: pairOpts.nameMaster,
			NameSlave:  pairOpts.nameSlave,
			PIN:        pairOpts.pin,
			Baud:       pairOpts.baud,
			Flags:      flags,
			ChooseAddr: chooseAddr,
			PromptSwap: promptSwap,
			Tune:       tunePlan,
			Sink:       consoleSink,
		})
		if err != nil {
			return err
		}
		if !res.Passed {
			return errors.New(res.Message)
		}
		PrintSuccess(res.Message)
		return nil
	},
}

// resolvePairPorts fills missing port flags interactively, mirroring the
// engine's per-mode rules so the operator is asked before validation
// rejects the request.
func resolvePairPorts(mode engine.Mode) error {
	switch mode {
	case engine.ModeOnePort:
		if pairOpts.port == "" && pairOpts.masterPort == "" && pairOpts.slavePort == "" {
			port, err := pickPort("pair (one-port swap)", "")
			if err != nil {
				return err
			}
			pairOpts.port = port
		}
	case engine.ModeTwoPort:
		if pairOpts.masterPort == "" {
			port, err := pickPort("pair MASTER", pairOpts.slavePort)
			if err != nil {
				return err
			}
			pairOpts.masterPort = port
		}
		if pairOpts.slavePort == "" {
			port, err := pickPort("pair SLAVE", pairOpts.masterPort)
			if err != nil {
				return err
			}
			pairOpts.slavePort = port
		}
	}
	return nil
}

func init() {
	f := pairCmd.Flags()
	f.StringVar(&pairOpts.mode, "mode", "", `Pairing mode: "one" (port swap) or "two" (two ports)`)
	f.StringVar(&pairOpts.port, "port", "", "Serial port for mode=one (shared)")
	f.StringVar(&pairOpts.masterPort, "master-port", "", "Serial port for MASTER (mode=two)")
	f.StringVar(&pairOpts.slavePort, "slave-port", "", "Serial port for SLAVE (mode=two)")
	f.StringVar(&pairOpts.nameMaster, "name-master", "", "Name to set on MASTER (optional)")
	f.StringVar(&pairOpts.nameSlave, "name-slave", "", "Name to set on SLAVE (optional)")
	f.StringVar(&pairOpts.pin, "pin", "1234", "4-digit PIN to set on both modules")
	f.IntVar(&pairOpts.baud, "baud", 9600, "Desired data-mode baud after setup")
	f.BoolVar(&pairOpts.noFactoryReset, "no-orgl", false, "Skip AT+ORGL on SLAVE (if firmware lacks it)")
	f.BoolVar(&pairOpts.noClearBonded, "no-rmaad", false, "Skip AT+RMAAD on MASTER (if firmware lacks it)")
	f.BoolVar(&pairOpts.noPair, "no-pair", false, "Skip AT+PAIR; rely on BIND alone")
	f.BoolVar(&pairOpts.noLink, "no-link", false, "Skip AT+LINK; let data mode auto-connect")
	f.BoolVar(&pairOpts.advanced, "advanced", false, "Interactive plan tuning (skip steps / add extra)")
	f.BoolVar(&pairOpts.showPlan, "show-plan", false, "Show the plan before running")
	f.BoolVar(&pairOpts.basic, "basic", true, "Run the basic sequence (default)")
	f.BoolVar(&pairOpts.noBasic, "no-basic", false, "Disable the basic sequence (only extra commands)")
	f.StringVar(&pairOpts.skipSteps, "skip-steps", "", `Comma-separated step ids to skip (e.g. "orgl,rmaad,init,reset")`)
	f.StringArrayVar(&pairOpts.extraMasterCmds, "extra-master-cmd", nil, "Extra AT command for MASTER (can repeat)")
	f.StringArrayVar(&pairOpts.extraSlaveCmds, "extra-slave-cmd", nil, "Extra AT command for SLAVE (can repeat)")
	f.BoolVar(&pairOpts.dryRun, "dry-run", false, "Print the plan only; do not send commands")
	_ = pairCmd.MarkFlagRequired("mode")

	rootCmd.AddCommand(pairCmd)
}
