package passwordresetter

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"natours/internal/core/domain/user"
)

const tokenBytes = 32

// Random generates opaque reset tokens. Only the SHA-256 digest of a token is
// meant to be stored.
type Random struct{}

func NewRandom() *Random {
	return &Random{}
}

func (r *Random) GenerateToken() (token user.PasswordResetToken, hash user.PasswordResetTokenHash, err error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return token, hash, err
	}
	token = user.PasswordResetToken(hex.EncodeToString(b))
	return token, r.HashToken(token), nil
}

func (r *Random) HashToken(token user.PasswordResetToken) user.PasswordResetTokenHash {
	sum := sha256.Sum256([]byte(token))
	return user.PasswordResetTokenHash(hex.EncodeToString(sum[:]))
}
