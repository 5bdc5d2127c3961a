package planner

import (
	"github.com/danieljhkim/hcpair/internal/logx"
)

// BasicSteps returns the basic-category steps of a plan, in plan order.
// Displayed numbering and interactive skip indices are both derived from
// this slice of the filtered plan, so what the operator sees is exactly
// what will run.
func BasicSteps(steps []Step) []Step {
	var out []Step
	for _, s := range steps {
		if s.Category == CategoryBasic {
			out = append(out, s)
		}
	}
	return out
}

// Format logs the plan checklist under the given role prefix.
func Format(prefix string, steps []Step, sink logx.Sink) {
	basic := BasicSteps(steps)
	logx.Printf(sink, "[%s] BASIC STEPS:", prefix)
	for i, step := range basic {
		suffix := ""
		if step.Optional {
			suffix = " (optional)"
		}
		logx.Printf(sink, "  %d) %s%s", i+1, step.Label, suffix)
	}

	var hasExtra bool
	for _, step := range steps {
		if step.Category == CategoryExtra {
			if !hasExtra {
				logx.Printf(sink, "[%s] EXTRA STEPS:", prefix)
				hasExtra = true
			}
			logx.Printf(sink, "  - %s", step.Label)
		}
	}
}
