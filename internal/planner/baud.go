package planner

import (
	"fmt"
	"sort"
	"strings"
)

// hc06BaudCodes maps data-mode baud rates to the single-character codes of
// the common HC-06 AT+BAUDx table. Firmware mappings differ above 115200;
// this is the widely shipped table.
var hc06BaudCodes = map[int]string{
	1200:    "1",
	2400:    "2",
	4800:    "3",
	9600:    "4",
	19200:   "5",
	38400:   "6",
	57600:   "7",
	115200:  "8",
	230400:  "9",
	460800:  "A",
	921600:  "B",
	1382400: "C",
}

// HC06BaudCode returns the AT+BAUDx code for baud, or false when the rate
// has no mapping.
func HC06BaudCode(baud int) (string, bool) {
	code, ok := hc06BaudCodes[baud]
	return code, ok
}

// HC06SupportedBauds lists the mapped rates in ascending order.
func HC06SupportedBauds() []int {
	bauds := make([]int, 0, len(hc06BaudCodes))
	for b := range hc06BaudCodes {
		bauds = append(bauds, b)
	}
	sort.Ints(bauds)
	return bauds
}

func unsupportedBaudError(baud int) *PlanError {
	supported := HC06SupportedBauds()
	parts := make([]string, len(supported))
	for i, b := range supported {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return &PlanError{Reason: fmt.Sprintf(
		"baud %d not supported by HC-06 BAUD map (choose one of: %s)",
		baud, strings.Join(parts, ", "))}
}
