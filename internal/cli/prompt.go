package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danieljhkim/hcpair/internal/addr"
	"github.com/danieljhkim/hcpair/internal/transport"
)

var stdin = bufio.NewReader(os.Stdin)

// promptLine asks for one line of input, returning def on a blank answer.
func promptLine(label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := stdin.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptYesNo(label string, defaultYes bool) bool {
	hint := "Y/n"
	if !defaultYes {
		hint = "y/N"
	}
	answer := strings.ToLower(promptLine(fmt.Sprintf("%s (%s)", label, hint), ""))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// pickPort lists serial ports and lets the operator choose one. exclude
// removes a port already claimed by the other role.
func pickPort(purpose, exclude string) (string, error) {
	all, err := transport.List()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}
	var ports []string
	for _, p := range all {
		if p != exclude {
			ports = append(ports, p)
		}
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports detected")
	}

	fmt.Printf("Select port for %s:\n", purpose)
	for i, p := range ports {
		fmt.Printf("[%d] %s\n", i+1, p)
	}
	for attempts := 0; attempts < 3; attempts++ {
		choice := promptLine(fmt.Sprintf("Choose (1-%d) or Enter to cancel", len(ports)), "")
		if choice == "" {
			return "", fmt.Errorf("cancelled")
		}
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(ports) {
			return ports[idx-1], nil
		}
		fmt.Println("Invalid choice.")
	}
	return "", fmt.Errorf("cancelled")
}

// chooseAddr presents inquiry scan results for selection. A blank answer
// cancels, which fails the scan step.
func chooseAddr(found []addr.Address) (addr.Address, bool) {
	fmt.Println("Select SLAVE address found via INQ:")
	for i, a := range found {
		fmt.Printf("[%d] %s (use: %s)\n", i+1, a.Colon, a.Comma)
	}
	for attempts := 0; attempts < 3; attempts++ {
		choice := promptLine(fmt.Sprintf("Choose (1-%d) or Enter to cancel", len(found)), "")
		if choice == "" {
			return addr.Address{}, false
		}
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(found) {
			return found[idx-1], true
		}
		fmt.Println("Invalid choice.")
	}
	return addr.Address{}, false
}

// promptSwap pauses for the one-port cable move. The current master port is
// kept; the engine accepts a replacement but the CLI flow stays on one
// device.
func promptSwap(message, masterPort string) string {
	fmt.Printf("%s\n(Press Enter to continue)\n", message)
	_, _ = stdin.ReadString('\n')
	return masterPort
}
