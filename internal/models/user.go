package models

import "time"

// Role values stored in the users.usertype column.
const (
	RoleParent = "parent"
	RoleChild  = "child"
)

// User represents a family member account.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          string    `json:"role"`
	PasswordHash  string    `json:"-"` // Never expose this to the client
	Token         string    `json:"-"` // Last issued token, bookkeeping only
	TokenIssuedAt int64     `json:"tokenIssued,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsParent reports whether the user holds the elevated role.
func (u User) IsParent() bool {
	return u.Role == RoleParent
}
