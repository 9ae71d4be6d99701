package passwordhasher

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

var ErrEmptyPasswordHash = errors.New("password hash must not be empty")

type Bcrypt struct {
	secret []byte
	cost   int
	sem    *semaphore.Weighted
}

// NewBcrypt returns a hasher that allows at most concurrency bcrypt
// computations at a time. The secret is mixed in with HMAC-SHA256 first,
// bcrypt ignores input past 72 bytes.
func NewBcrypt(secret string, cost int, concurrency int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		panic(e.NewInvalidStateError("invalid bcrypt cost"))
	}
	if concurrency < 1 {
		panic(e.NewInvalidStateError("bcrypt concurrency must be positive"))
	}
	return &Bcrypt{
		secret: []byte(secret),
		cost:   cost,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

func (h *Bcrypt) HashPassword(ctx context.Context, password user.RawPassword) (hash user.PasswordHash, err error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return hash, err
	}
	defer h.sem.Release(1)

	bcryptHash, err := bcrypt.GenerateFromPassword(h.pepper(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

// ValidatePassword fails only when the stored hash is structurally invalid,
// a mismatch is reported as false.
func (h *Bcrypt) ValidatePassword(
	ctx context.Context,
	password user.RawPassword,
	hash user.PasswordHash,
) (bool, error) {
	if hash == "" {
		return false, ErrEmptyPasswordHash
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), h.pepper(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (h *Bcrypt) pepper(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
