package optimizer

import "errors"

// InfeasibleError reports that no feasible squad exists under the current
// constraints: the exact optimizer surfaces solver infeasibility, the
// heuristics surface exhausted candidate pools or a spent budget. A partial
// squad is never returned alongside it.
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string {
	return "optimization infeasible: " + e.Reason
}

func infeasible(reason string) error {
	return &InfeasibleError{Reason: reason}
}

// IsInfeasible reports whether err is an InfeasibleError.
func IsInfeasible(err error) bool {
	var ie *InfeasibleError
	return errors.As(err, &ie)
}
