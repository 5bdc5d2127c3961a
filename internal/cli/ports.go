package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hcpair/internal/transport"
)

var portsCmd = &cobra.Command{
	Use:     "ports",
	Short:   "List available serial ports",
	GroupID: "cli-tooling",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := transport.List()
		if err != nil {
			return fmt.Errorf("list serial ports: %w", err)
		}
		if len(ports) == 0 {
			PrintInfo("No ports detected.")
			return nil
		}
		PrintInfo("Serial ports:")
		for i, p := range ports {
			fmt.Printf("[%d] %s\n", i+1, p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
