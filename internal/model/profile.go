package model

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Profile mirrors one row of the remote profiles table. Its ID is the
// authenticated identity the remote row-level security keys on.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
