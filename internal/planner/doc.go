// Package planner builds the ordered command plans that configure and pair
// HC-05/HC-06 modules.
//
// A plan is an immutable, id-unique sequence of steps produced from the
// detected module family, the requested settings, and the operator's flags.
// Plans are rebuilt from scratch whenever flags change; they are never
// edited in place. Validation happens here, before any serial traffic:
// unsupported baud rates, skipped critical steps, and wrong-family role
// requests all fail the build.
package planner
