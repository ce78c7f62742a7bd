package orders

import "errors"

// ErrIllegalTransition signals a status change outside the legal table.
// The UI only offers legal next actions, so hitting this is a caller defect.
var ErrIllegalTransition = errors.New("illegal order status transition")

// successor is the single forced-forward step per status. Terminal states
// have no entry.
var successor = map[string]string{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

// canonical folds the SERVED alias into COMPLETED.
func canonical(status string) string {
	if status == StatusServed {
		return StatusCompleted
	}
	return status
}

// NextStatus returns the forced next status in the chain, or ("", false)
// at a terminal state.
func NextStatus(current string) (string, bool) {
	next, ok := successor[canonical(current)]
	return next, ok
}

// CanCancel reports whether an order may still be cancelled: only before
// the kitchen has started, i.e. while PENDING or CONFIRMED.
func CanCancel(current string) bool {
	c := canonical(current)
	return c == StatusPending || c == StatusConfirmed
}

// IsTerminal reports whether no further transition exists.
func IsTerminal(current string) bool {
	c := canonical(current)
	return c == StatusCompleted || c == StatusCancelled
}

// CanTransition reports whether from -> to is in the legal table: the
// forward chain plus cancellation edges.
func CanTransition(from, to string) bool {
	f, t := canonical(from), canonical(to)
	if next, ok := successor[f]; ok && next == t {
		return true
	}
	if t == StatusCancelled {
		return CanCancel(f)
	}
	return false
}

// Transition validates from -> to, returning ErrIllegalTransition when the
// pair is not in the legal table.
func Transition(from, to string) error {
	if !CanTransition(from, to) {
		return ErrIllegalTransition
	}
	return nil
}
