package user

import "context"

type PasswordHasher interface {
	HashPassword(ctx context.Context, password RawPassword) (PasswordHash, error)
	// ValidatePassword returns false on mismatch and an error only
	// if the hash itself is structurally invalid.
	ValidatePassword(ctx context.Context, password RawPassword, hash PasswordHash) (bool, error)
}
