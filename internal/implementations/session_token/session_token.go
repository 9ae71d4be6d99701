package sessiontoken

import (
	"errors"
	"fmt"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken   = errors.New("malformed session token")
	ErrInvalidSignature = errors.New("invalid session token signature")
	ErrTokenExpired     = errors.New("session token expired")
)

type claims struct {
	jwt.RegisteredClaims
	// IssuedAtMs keeps millisecond precision, the registered iat claim is
	// whole seconds only.
	IssuedAtMs int64 `json:"iat_ms"`
}

// JWT issues and verifies HS256 signed session tokens.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWT(secret string, ttl time.Duration, now func() time.Time) *JWT {
	if secret == "" {
		panic(e.NewInvalidStateError("session token secret must not be empty"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidStateError("session token TTL must be positive"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}
}

func (t *JWT) IssueToken(userID user.ID) (token user.SessionToken, err error) {
	if userID == "" {
		return token, e.NewInvalidStateError("user ID must not be empty")
	}
	now := t.now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		IssuedAtMs: now.UnixMilli(),
	}).SignedString(t.secret)
	if err != nil {
		return token, fmt.Errorf("could not sign session token: %w", err)
	}
	return user.SessionToken(signed), nil
}

func (t *JWT) VerifyToken(token user.SessionToken) (result user.SessionClaims, err error) {
	var c claims
	_, err = t.parser.ParseWithClaims(string(token), &c, func(parsed *jwt.Token) (interface{}, error) {
		// Any algorithm but HS256 counts as malformed, not as a bad signature.
		if parsed.Method != jwt.SigningMethodHS256 {
			return nil, ErrMalformedToken
		}
		return t.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return result, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return result, ErrTokenExpired
	default:
		return result, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if c.Subject == "" || c.IssuedAt == nil || c.ExpiresAt == nil {
		return result, ErrMalformedToken
	}
	issuedAt := c.IssuedAt.Time
	if c.IssuedAtMs != 0 {
		issuedAt = time.UnixMilli(c.IssuedAtMs)
	}
	return user.SessionClaims{
		UserID:    user.ID(c.Subject),
		IssuedAt:  issuedAt.UTC(),
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}, nil
}
