package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hcpair/internal/engine"
	"github.com/danieljhkim/hcpair/internal/planner"
)

var setupOpts struct {
	port       string
	module     string
	name       string
	pin        string
	baud       int
	role       string
	detectOnly bool
	showPlan   bool
	dryRun     bool
}

var setupCmd = &cobra.Command{
	Use:     "setup",
	Short:   "Configure a single module (name, PIN, baud, role)",
	GroupID: "module-operations",
	Long: `Detect the module on one port and apply its configuration.

HC-05 modules take a name, PIN, UART baud, and role; HC-06 modules take a
name, PIN, and a coded baud from the common AT+BAUD table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		ctx, cancel := signalContext()
		defer cancel()

		if setupOpts.port == "" {
			port, err := pickPort("setup", "")
			if err != nil {
				return err
			}
			setupOpts.port = port
		}

		if setupOpts.detectOnly {
			return runDetect(eng, setupOpts.port)
		}

		if setupOpts.showPlan {
			printSetupChecklist()
			if setupOpts.dryRun {
				PrintInfo("\n(DRY-RUN) Exiting without sending commands.")
				return nil
			}
			if !promptYesNo("Run setup now?", true) {
				return fmt.Errorf("cancelled")
			}
		}

		_, err := eng.Setup(ctx, engine.SetupRequest{
			Device: setupOpts.port,
			Module: setupOpts.module,
			Name:   setupOpts.name,
			PIN:    setupOpts.pin,
			Baud:   setupOpts.baud,
			Role:   setupOpts.role,
			Sink:   consoleSink,
		})
		if err != nil {
			return err
		}
		PrintSuccess("Setup complete.")
		return nil
	},
}

// printSetupChecklist previews the commands setup will send, approximately;
// the executor picks family-specific fallbacks at run time.
func printSetupChecklist() {
	PrintInfo("Setup plan:")
	PrintInfo(fmt.Sprintf("  Port:   %s", setupOpts.port))
	PrintInfo(fmt.Sprintf("  Module: %s", setupOpts.module))
	if setupOpts.name != "" {
		PrintInfo(fmt.Sprintf("  Name:   %s", setupOpts.name))
	}
	if setupOpts.pin != "" {
		PrintInfo(fmt.Sprintf("  PIN:    %s", setupOpts.pin))
	}
	PrintInfo(fmt.Sprintf("  Baud:   %d", setupOpts.baud))

	PrintInfo("\nCommands (approx):")
	PrintInfo("  Detect: AT (+ROLE? to infer HC-05 vs HC-06)")
	if setupOpts.module == engine.ModuleAuto || setupOpts.module == engine.ModuleHC05 {
		if setupOpts.name != "" {
			PrintInfo(fmt.Sprintf("  - AT+NAME=%s", setupOpts.name))
		}
		if setupOpts.pin != "" {
			PrintInfo(fmt.Sprintf("  - AT+PSWD=%s  (fallback AT+PIN=%s if needed)", setupOpts.pin, setupOpts.pin))
		}
		PrintInfo(fmt.Sprintf("  - AT+UART=%d,0,0", setupOpts.baud))
		role := "0"
		if setupOpts.role == engine.RoleMaster {
			role = "1"
		}
		PrintInfo(fmt.Sprintf("  - AT+ROLE=%s", role))
		PrintInfo("  - AT+RESET (optional, some firmwares silent)")
	} else {
		if setupOpts.name != "" {
			PrintInfo(fmt.Sprintf("  - AT+NAME%s  (fallback AT+NAME=%s)", setupOpts.name, setupOpts.name))
		}
		if setupOpts.pin != "" {
			PrintInfo(fmt.Sprintf("  - AT+PIN%s    (fallback AT+PSWD=%s)", setupOpts.pin, setupOpts.pin))
		}
		if code, ok := planner.HC06BaudCode(setupOpts.baud); ok {
			PrintInfo(fmt.Sprintf("  - AT+BAUD%s", code))
		} else {
			PrintInfo(fmt.Sprintf("  - (baud %d has no HC-06 code)", setupOpts.baud))
		}
	}
}

func init() {
	f := setupCmd.Flags()
	f.StringVar(&setupOpts.port, "port", "", "Serial port (COM3, /dev/ttyUSB0, etc.)")
	f.StringVar(&setupOpts.module, "module", engine.ModuleAuto, "Force module type: auto, hc05, or hc06")
	f.StringVar(&setupOpts.name, "name", "", "Bluetooth name to set (optional)")
	f.StringVar(&setupOpts.pin, "pin", "", "4-digit PIN (optional)")
	f.IntVar(&setupOpts.baud, "baud", 9600, "Desired data-mode baud after setup")
	f.StringVar(&setupOpts.role, "role", engine.RoleSlave, "HC-05 only: role to set (slave/master)")
	f.BoolVar(&setupOpts.detectOnly, "detect-only", false, "Only detect module and AT profile, then exit")
	f.BoolVar(&setupOpts.showPlan, "show-plan", false, "Print the checklist before running")
	f.BoolVar(&setupOpts.dryRun, "dry-run", false, "Print the checklist then exit (requires --show-plan)")

	rootCmd.AddCommand(setupCmd)
}
