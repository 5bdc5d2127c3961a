package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hcpair/internal/engine"
)

var detectOpts struct {
	port string
}

var detectCmd = &cobra.Command{
	Use:     "detect",
	Short:   "Detect which module family and AT profile a port speaks",
	GroupID: "module-operations",
	Long: `Probe a port with the common AT-mode serial profiles and report which
module family answered and on which settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		if detectOpts.port == "" {
			port, err := pickPort("detect", "")
			if err != nil {
				return err
			}
			detectOpts.port = port
		}
		return runDetect(eng, detectOpts.port)
	},
}

func runDetect(eng *engine.Engine, device string) error {
	ctx, cancel := signalContext()
	defer cancel()

	det, err := eng.Detect(ctx, device, consoleSink)
	if err != nil {
		PrintError("Could not detect module. Check wiring (RX/TX swapped?), AT mode, baud/line ending.")
		return err
	}

	PrintSuccess(fmt.Sprintf("Detected %s using %s", strings.ToUpper(string(det.Family)), det.Profile))
	if reply := strings.TrimSpace(det.RoleReply); reply != "" {
		PrintInfo(fmt.Sprintf("ROLE? response: %s", reply))
	} else {
		PrintInfo("ROLE? response: (no data)")
	}
	return nil
}

func init() {
	detectCmd.Flags().StringVar(&detectOpts.port, "port", "", "Serial port (COM3, /dev/ttyUSB0, etc.)")
	rootCmd.AddCommand(detectCmd)
}
