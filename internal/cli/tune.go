package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danieljhkim/hcpair/internal/planner"
)

// tunePlan is the interactive plan editor behind --advanced. It edits one
// round of flags and reports whether the operator wants another round after
// the rebuilt plan is shown.
func tunePlan(role string, steps []planner.Step, flags planner.Flags) (planner.Flags, bool) {
	basic := planner.BasicSteps(steps)
	if len(basic) == 0 {
		return flags, false
	}

	fmt.Printf("[%s] Choose plan (a=all, b=skip steps, c=no-basic, d=add extra).\n", role)
	choice := strings.ToLower(promptLine(fmt.Sprintf("%s choice [a/b/c/d]", role), "a"))
	switch choice {
	case "a":
		return flags, false
	case "c":
		flags.Basic = false
		return flags, false
	case "b":
		nums := promptLine(fmt.Sprintf("%s skip steps (e.g. 2,7,8)", role), "")
		for _, token := range strings.Split(nums, ",") {
			token = strings.TrimSpace(token)
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 1 || idx > len(basic) {
				continue
			}
			step := basic[idx-1]
			if step.Critical {
				fmt.Printf("[%s] !! Cannot skip critical step: %s\n", role, step.Label)
				continue
			}
			flags.Skip(step.ID)
		}
	case "d":
		fmt.Printf("[%s] Enter extra commands (one per line, blank to finish):\n", role)
		var extras []string
		for {
			line := promptLine("", "")
			if line == "" {
				break
			}
			extras = append(extras, line)
		}
		if role == "SLAVE" {
			flags.ExtraSlaveCmds = append(flags.ExtraSlaveCmds, extras...)
		} else {
			flags.ExtraMasterCmds = append(flags.ExtraMasterCmds, extras...)
		}
	}

	return flags, promptYesNo(fmt.Sprintf("%s adjust more?", role), false)
}
