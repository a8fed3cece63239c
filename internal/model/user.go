package model

import "time"

// Role values stored in users.role.
const (
	RoleMember = "member"
	RoleCoach  = "coach"
	RoleAdmin  = "admin"
)

// User is a directory record: members, certified coaches, and admins.
// Email is deliberately excluded from JSON — the contact relay is the only
// component allowed to touch it, and it never leaves the server.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"-"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Headline       string     `json:"headline,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	City           string     `json:"city,omitempty"`
	Certifications []string   `json:"certifications,omitempty"`
	SuspendedAt    *time.Time `json:"suspended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsCoach reports whether the user is an active certified coach.
func (u *User) IsCoach() bool {
	return u.Role == RoleCoach && u.SuspendedAt == nil
}

// IsSuspended returns true if the account is currently suspended.
func (u *User) IsSuspended() bool {
	return u.SuspendedAt != nil
}
