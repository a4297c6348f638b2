package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// IsActive reports whether a booking in this status still occupies its time
// slot and therefore participates in conflict checks.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusRejected: true, StatusCancelled: true},
	StatusConfirmed: {StatusCancelled: true, StatusCompleted: true},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusRejected:  {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
