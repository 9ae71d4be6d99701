package user

import (
	"context"
	c "natours/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	ID           ID
	Name         string
	Email        c.Email
	PasswordHash PasswordHash
	Role         Role
	CreatedAt    time.Time
}

type UpdateUserInput struct {
	ID    ID
	Name  c.Optional[string]
	Email c.Optional[c.Email]
}

// UserRepository reads only active users. There is exactly one way to write
// a password hash, SetPassword, and it always records the change moment.
type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, input UpdateUserInput) (User, error)
	Deactivate(ctx context.Context, id ID) error

	SetPassword(ctx context.Context, id ID, password PasswordHash, changedAt time.Time) (User, error)
	SetPasswordResetToken(ctx context.Context, id ID, hash PasswordResetTokenHash, expiresAt time.Time) error
	// ClearPasswordResetToken clears the reset digest only while it still
	// equals hash, so a digest written by a later request survives.
	ClearPasswordResetToken(ctx context.Context, id ID, hash PasswordResetTokenHash) error
	// ConsumePasswordResetToken matches an unexpired token hash and clears it
	// in a single operation. Two concurrent calls with the same hash never
	// both succeed.
	ConsumePasswordResetToken(ctx context.Context, hash PasswordResetTokenHash, now time.Time) (User, error)
}
