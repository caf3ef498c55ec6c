package models

import "fmt"

// Status is an order lifecycle status
type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusPickuped  Status = "PICKUPED"
	StatusReturned  Status = "RETURNED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// validNext is the order status transition table. COMPLETED and CANCELLED
// are terminal. Re-submitting the current status is handled separately in
// NextStatus so retried requests stay idempotent.
var validNext = map[Status]map[Status]bool{
	StatusReserved:  {StatusPickuped: true, StatusCancelled: true},
	StatusPickuped:  {StatusReturned: true, StatusCompleted: true, StatusCancelled: true},
	StatusReturned:  {StatusCompleted: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ErrInvalidTransition is returned by NextStatus for a transition the table rejects
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// IsValidStatus reports whether s is one of the five known statuses
func IsValidStatus(s Status) bool {
	switch s {
	case StatusReserved, StatusPickuped, StatusReturned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the transition table allows from -> to
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// NextStatus validates a requested status change against the transition
// table and returns the resulting status. Requesting the current status is
// accepted as a no-op so clients can safely retry.
func NextStatus(current, requested Status) (Status, error) {
	if !IsValidStatus(requested) {
		return current, fmt.Errorf("unknown order status %q", requested)
	}
	if requested == current {
		return current, nil
	}
	if !CanTransition(current, requested) {
		return current, &ErrInvalidTransition{From: current, To: requested}
	}
	return requested, nil
}

// IsTerminal reports whether no further transitions are possible from s
func (s Status) IsTerminal() bool {
	return len(validNext[s]) == 0
}
