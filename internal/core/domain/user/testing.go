package user

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	c "natours/internal/core/domain/common"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct {
	HashCount int
	lock      sync.Mutex
}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(ctx context.Context, password RawPassword) (PasswordHash, error) {
	h.lock.Lock()
	h.HashCount++
	h.lock.Unlock()
	return fakeHash(password), nil
}

func (h *FakePasswordHasher) ValidatePassword(
	ctx context.Context,
	password RawPassword,
	hash PasswordHash,
) (bool, error) {
	if hash == "" {
		return false, errors.New("empty password hash")
	}
	return fakeHash(password) == hash, nil
}

func fakeHash(password RawPassword) PasswordHash {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil)))
}

type FakeIDGenerator struct {
	prefix string
	next   int
	lock   sync.Mutex
}

func NewFakeIDGenerator(prefix string) *FakeIDGenerator {
	return &FakeIDGenerator{prefix: prefix}
}

func (g *FakeIDGenerator) GenerateID() ID {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.next++
	return ID(fmt.Sprintf("%s-%d", g.prefix, g.next))
}

// FakeSessionTokens issues unsigned "<user id>|<issued at, unix ms>" tokens.
type FakeSessionTokens struct {
	TTL time.Duration
	Now func() time.Time
}

func NewFakeSessionTokens(ttl time.Duration, now func() time.Time) *FakeSessionTokens {
	return &FakeSessionTokens{TTL: ttl, Now: now}
}

func (t *FakeSessionTokens) IssueToken(userID ID) (SessionToken, error) {
	return SessionToken(fmt.Sprintf("%s|%d", userID, t.Now().UnixMilli())), nil
}

func (t *FakeSessionTokens) VerifyToken(token SessionToken) (claims SessionClaims, err error) {
	parts := strings.SplitN(string(token), "|", 2)
	if len(parts) != 2 || parts[0] == "" {
		return claims, errors.New("malformed fake session token")
	}
	issuedAtMs, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return claims, errors.New("malformed fake session token")
	}
	issuedAt := time.UnixMilli(issuedAtMs).UTC()
	expiresAt := issuedAt.Add(t.TTL)
	if !t.Now().Before(expiresAt) {
		return claims, errors.New("fake session token expired")
	}
	return SessionClaims{UserID: ID(parts[0]), IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

type FakeUserRepository struct {
	Users              []User
	ReturnError        bool
	ReturnErrorOnClear bool
	ClearCalls         int
	lock               sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Users {
		if existing.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
	}
	u = User{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id && u.IsActive {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) List(ctx context.Context) ([]User, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not list users")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	users := make([]User, 0, len(r.Users))
	for _, u := range r.Users {
		if u.IsActive {
			users = append(users, u)
		}
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *FakeUserRepository) Update(ctx context.Context, input UpdateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if input.Email.IsPresent {
		for _, existing := range r.Users {
			if existing.ID != input.ID && existing.Email == input.Email.Value {
				return u, ErrEmailAlreadyExists
			}
		}
	}
	for ix, u := range r.Users {
		if u.ID == input.ID && u.IsActive {
			if input.Name.IsPresent {
				r.Users[ix].Name = input.Name.Value
			}
			if input.Email.IsPresent {
				r.Users[ix].Email = input.Email.Value
			}
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) Deactivate(ctx context.Context, id ID) error {
	if r.ReturnError {
		return fmt.Errorf("could not deactivate user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id && u.IsActive {
			r.Users[ix].IsActive = false
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(
	ctx context.Context,
	id ID,
	password PasswordHash,
	changedAt time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not set password for user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id && u.IsActive {
			r.Users[ix].PasswordHash = password
			r.Users[ix].PasswordChangedAt = c.NewOptional(changedAt, true)
			r.Users[ix].PasswordResetTokenHash = c.Optional[PasswordResetTokenHash]{}
			r.Users[ix].PasswordResetExpiresAt = c.Optional[time.Time]{}
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPasswordResetToken(
	ctx context.Context,
	id ID,
	hash PasswordResetTokenHash,
	expiresAt time.Time,
) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password reset token for user %v", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id && u.IsActive {
			r.Users[ix].PasswordResetTokenHash = c.NewOptional(hash, true)
			r.Users[ix].PasswordResetExpiresAt = c.NewOptional(expiresAt, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) ClearPasswordResetToken(
	ctx context.Context,
	id ID,
	hash PasswordResetTokenHash,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ClearCalls++
	if r.ReturnError || r.ReturnErrorOnClear {
		return fmt.Errorf("could not clear password reset token for user %v", id)
	}
	for ix, u := range r.Users {
		if u.ID == id {
			if u.PasswordResetTokenHash != c.NewOptional(hash, true) {
				return nil
			}
			r.Users[ix].PasswordResetTokenHash = c.Optional[PasswordResetTokenHash]{}
			r.Users[ix].PasswordResetExpiresAt = c.Optional[time.Time]{}
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) ConsumePasswordResetToken(
	ctx context.Context,
	hash PasswordResetTokenHash,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not consume password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if !u.IsActive || !u.PasswordResetTokenHash.IsPresent {
			continue
		}
		if u.PasswordResetTokenHash.Value == hash && u.PasswordResetExpiresAt.Value.After(now) {
			r.Users[ix].PasswordResetTokenHash = c.Optional[PasswordResetTokenHash]{}
			r.Users[ix].PasswordResetExpiresAt = c.Optional[time.Time]{}
			return r.Users[ix], nil
		}
	}
	return u, ErrInvalidPasswordResetToken
}

// Get returns a user regardless of its active flag.
func (r *FakeUserRepository) Get(id ID) (u User, ok bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, true
		}
	}
	return u, false
}

type FakePasswordResetter struct {
	Token       PasswordResetToken
	ReturnError bool
}

func NewFakePasswordResetter(token string) *FakePasswordResetter {
	return &FakePasswordResetter{Token: PasswordResetToken(token)}
}

func (r *FakePasswordResetter) GenerateToken() (PasswordResetToken, PasswordResetTokenHash, error) {
	if r.ReturnError {
		return "", "", errors.New("could not generate password reset token")
	}
	return r.Token, r.HashToken(r.Token), nil
}

func (r *FakePasswordResetter) HashToken(token PasswordResetToken) PasswordResetTokenHash {
	return PasswordResetTokenHash("hashed:" + string(token))
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	Err         error
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	user User,
	token PasswordResetToken,
) error {
	if s.Err != nil {
		return s.Err
	}
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}
