package planner

// PlanError is a configuration fault raised while building a plan. It is
// always produced before any transport activity.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string {
	return e.Reason
}
