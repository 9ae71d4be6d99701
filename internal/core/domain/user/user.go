package user

import (
	"fmt"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"time"
)

type ID string

type Role string

const (
	RoleUser      = Role("user")
	RoleGuide     = Role("guide")
	RoleLeadGuide = Role("lead-guide")
	RoleAdmin     = Role("admin")
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID                     ID
	Name                   string
	Email                  c.Email
	PasswordHash           PasswordHash
	Role                   Role
	IsActive               bool
	CreatedAt              time.Time
	PasswordChangedAt      c.Optional[time.Time]
	PasswordResetTokenHash c.Optional[PasswordResetTokenHash]
	PasswordResetExpiresAt c.Optional[time.Time]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %s", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %s", u.ID))
	}
	if !u.Role.IsValid() {
		return e.NewInvalidStateError(fmt.Sprintf("invalid role '%s' for user %s", u.Role, u.ID))
	}
	if u.PasswordResetTokenHash.IsPresent != u.PasswordResetExpiresAt.IsPresent {
		return e.NewInvalidStateError(fmt.Sprintf("incomplete password reset state for user %s", u.ID))
	}
	return nil
}

// ChangedPasswordAfter reports whether a credential issued at the given moment
// predates the last password change.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if !u.PasswordChangedAt.IsPresent {
		return false
	}
	return issuedAt.Before(u.PasswordChangedAt.Value)
}

func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// PasswordChangedAt returns the value persisted along with a new password hash.
// Session tokens carry issued-at with millisecond precision, so the change
// moment is truncated to the same precision before the write.
func PasswordChangedAt(now time.Time) time.Time {
	return now.Truncate(time.Millisecond)
}
