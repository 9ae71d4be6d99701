package user

import "time"

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type SessionClaims struct {
	UserID    ID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type SessionTokenIssuer interface {
	IssueToken(userID ID) (SessionToken, error)
}

type SessionTokenVerifier interface {
	VerifyToken(token SessionToken) (SessionClaims, error)
}

type IDGenerator interface {
	GenerateID() ID
}
