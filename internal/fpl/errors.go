package fpl

// InvalidRosterError reports a squad, team or captaincy invariant violation.
// The aggregate never stores the offending value; callers receive the first
// failing condition only.
type InvalidRosterError struct {
	Reason string
}

func (e *InvalidRosterError) Error() string {
	return "invalid roster: " + e.Reason
}

func invalidRoster(reason string) error {
	return &InvalidRosterError{Reason: reason}
}
