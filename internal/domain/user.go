package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleAdmin     UserRole = "admin"
	UserRoleSystem    UserRole = "system"
	UserRoleAnonymous UserRole = "anonymous"
)

// AnonymousUserID is the fixed id of the canonical anonymous donor. The row
// is created lazily the first time an anonymous donation needs it and every
// anonymous or unresolvable identity collapses onto it.
const AnonymousUserID = "anonymous"

// AnonymousUserEmail is the fixed email on the canonical anonymous user row.
const AnonymousUserEmail = "anonymous@carebridge.org"

// User represents a registered account or the canonical anonymous donor.
// PasswordHash is empty for platform-managed identities.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          UserRole
	Verified      bool
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSystem reports whether the user is a platform-managed identity rather
// than a person.
func (u User) IsSystem() bool {
	return u.Role == UserRoleSystem || u.Role == UserRoleAnonymous
}

// AnonymousUser returns the canonical anonymous user row as it should exist
// in the store.
func AnonymousUser() *User {
	return &User{
		ID:       AnonymousUserID,
		Email:    AnonymousUserEmail,
		Name:     "Anonymous",
		Role:     UserRoleSystem,
		Verified: true,
	}
}
