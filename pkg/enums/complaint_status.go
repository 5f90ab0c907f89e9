package enums

import "fmt"

// ComplaintStatus tracks a complaint through its lifecycle.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusEscalated  ComplaintStatus = "ESCALATED"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusEscalated,
}

// String implements fmt.Stringer.
func (s ComplaintStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ComplaintStatus.
func (s ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions may leave this status.
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusEscalated
}

// ParseComplaintStatus converts raw input into a ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}
