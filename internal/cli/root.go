package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the root command for hcpair.
var rootCmd = &cobra.Command{
	Use:     "hcpair",
	Version: "dev",
	Short:   "Detect, configure, and pair HC-05 / HC-06 Bluetooth serial modules",
	Long: `hcpair talks to HC-05 and HC-06 modules over a USB-UART adapter in AT mode.

It detects which module family is attached and at which serial settings,
configures single modules (name, PIN, baud, role), and pairs a master with a
slave through one shared port (cable swap) or two ports at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "module-operations",
		Title: "Module Operations:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the hcpair CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
