package model

// Status is one step of a record lifecycle. A timesheet carries two of these
// on the same row, Status for the hour grid and TodoStatus for the
// objectives list, and each advances and locks on its own.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

// ReadOnly reports whether the lifecycle locks editing. Submitted and
// approved records are frozen for the owner; only an admin revert to draft
// reopens them.
func (s Status) ReadOnly() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// Valid reports whether s is a known lifecycle state. A missing value is
// treated as draft by callers, matching rows created before the status
// column existed.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved:
		return true
	}
	return false
}

// CanTransition is the transition table shared by both lifecycles:
//
//	draft     → submitted   owner only
//	submitted → approved    admin only
//	approved  → draft       admin only (devalidate)
//
// Everything else is denied. The remote authorization layer remains the real
// guard; this table only keeps the service honest.
func CanTransition(from, to Status, role Role, isOwner bool) bool {
	switch {
	case from == StatusDraft && to == StatusSubmitted:
		return isOwner
	case from == StatusSubmitted && to == StatusApproved:
		return role == RoleAdmin
	case from == StatusApproved && to == StatusDraft:
		return role == RoleAdmin
	}
	return false
}

// Label returns the French display label used by the original UI.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Soumise"
	case StatusApproved:
		return "Validée"
	default:
		return "Brouillon"
	}
}
