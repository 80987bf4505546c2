package model

const (
	TaskStatusPending  = "pending"
	TaskStatusApproved = "approved"
	TaskStatusRejected = "rejected"
)

// ChargeableTask is one catalog entry of the approval workflow gating which
// task names may appear on a timesheet. Employees propose; admins approve or
// reject.
type ChargeableTask struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ProposedBy string `json:"proposed_by,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`

	// ProposerName is resolved from the profiles table after fetching, it is
	// not a column.
	ProposerName string `json:"proposer_name,omitempty"`
}
