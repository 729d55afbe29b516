package poker

import "fmt"

// InvalidActionError reports an action that is illegal in the current
// table state. The action is rejected and no state mutates; Reason is
// suitable for surfacing to the acting seat.
type InvalidActionError struct {
	Action Action
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Action, e.Reason)
}

func invalidAction(action Action, format string, args ...any) error {
	return &InvalidActionError{Action: action, Reason: fmt.Sprintf(format, args...)}
}
