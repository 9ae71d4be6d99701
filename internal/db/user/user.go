package user

import (
	"context"
	"database/sql"
	"errors"
	c "natours/internal/core/domain/common"
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/user"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const userColumns = `
	id,
	name,
	email,
	password_hash,
	role,
	active,
	created_at,
	password_changed_at,
	password_reset_token_hash,
	password_reset_expires_at
`

const createUser = `
INSERT INTO "user" (id, name, email, password_hash, role, active, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
RETURNING` + userColumns

const getUserByID = `SELECT` + userColumns + `FROM "user" WHERE id = $1 AND active`

const getUserByEmail = `SELECT` + userColumns + `FROM "user" WHERE email = $1 AND active`

const listUsers = `SELECT` + userColumns + `FROM "user" WHERE active ORDER BY created_at, id`

const updateUser = `
UPDATE "user" SET
	name = CASE WHEN $2::boolean THEN $3 ELSE name END,
	email = CASE WHEN $4::boolean THEN $5 ELSE email END
WHERE id = $1 AND active
RETURNING` + userColumns

const deactivateUser = `UPDATE "user" SET active = FALSE WHERE id = $1 AND active`

const setPassword = `
UPDATE "user" SET
	password_hash = $2,
	password_changed_at = $3,
	password_reset_token_hash = NULL,
	password_reset_expires_at = NULL
WHERE id = $1 AND active
RETURNING` + userColumns

const setPasswordResetToken = `
UPDATE "user" SET
	password_reset_token_hash = $2,
	password_reset_expires_at = $3
WHERE id = $1 AND active
`

const clearPasswordResetToken = `
UPDATE "user" SET
	password_reset_token_hash = NULL,
	password_reset_expires_at = NULL
WHERE id = $1 AND password_reset_token_hash = $2
`

const consumePasswordResetToken = `
UPDATE "user" SET
	password_reset_token_hash = NULL,
	password_reset_expires_at = NULL
WHERE password_reset_token_hash = $1 AND password_reset_expires_at > $2 AND active
RETURNING` + userColumns

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		createUser,
		string(input.ID),
		input.Name,
		string(input.Email),
		string(input.PasswordHash),
		string(input.Role),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if isEmailUniqueViolation(err) {
		return u, user.ErrEmailAlreadyExists
	}
	return u, err
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	return scanUser(r.db.QueryRow(ctx, getUserByID, string(id)))
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	return scanUser(r.db.QueryRow(ctx, getUserByEmail, string(email)))
}

func (r *PgxUserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PgxUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		updateUser,
		string(input.ID),
		input.Name.IsPresent,
		input.Name.Value,
		input.Email.IsPresent,
		string(input.Email.Value),
	)
	u, err = scanUser(row)
	if isEmailUniqueViolation(err) {
		return u, user.ErrEmailAlreadyExists
	}
	return u, err
}

func (r *PgxUserRepository) Deactivate(ctx context.Context, id user.ID) error {
	tag, err := r.db.Exec(ctx, deactivateUser, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) SetPassword(
	ctx context.Context,
	id user.ID,
	password user.PasswordHash,
	changedAt time.Time,
) (u user.User, err error) {
	return scanUser(r.db.QueryRow(ctx, setPassword, string(id), string(password), changedAt))
}

func (r *PgxUserRepository) SetPasswordResetToken(
	ctx context.Context,
	id user.ID,
	hash user.PasswordResetTokenHash,
	expiresAt time.Time,
) error {
	tag, err := r.db.Exec(ctx, setPasswordResetToken, string(id), string(hash), expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

// ClearPasswordResetToken is a no-op when the stored digest is no longer hash.
func (r *PgxUserRepository) ClearPasswordResetToken(
	ctx context.Context,
	id user.ID,
	hash user.PasswordResetTokenHash,
) error {
	_, err := r.db.Exec(ctx, clearPasswordResetToken, string(id), string(hash))
	return err
}

func (r *PgxUserRepository) ConsumePasswordResetToken(
	ctx context.Context,
	hash user.PasswordResetTokenHash,
	now time.Time,
) (u user.User, err error) {
	u, err = scanUser(r.db.QueryRow(ctx, consumePasswordResetToken, string(hash), now))
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return u, user.ErrInvalidPasswordResetToken
	}
	return u, err
}

func isEmailUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id                     string
		name                   string
		email                  string
		passwordHash           string
		role                   string
		active                 bool
		createdAt              time.Time
		passwordChangedAt      sql.NullTime
		passwordResetTokenHash sql.NullString
		passwordResetExpiresAt sql.NullTime
	)
	err = row.Scan(
		&id,
		&name,
		&email,
		&passwordHash,
		&role,
		&active,
		&createdAt,
		&passwordChangedAt,
		&passwordResetTokenHash,
		&passwordResetExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}

	u = user.User{
		ID:           user.ID(id),
		Name:         name,
		Email:        c.Email(email),
		PasswordHash: user.PasswordHash(passwordHash),
		Role:         user.Role(role),
		IsActive:     active,
		CreatedAt:    createdAt.UTC(),
		PasswordChangedAt: c.NewOptional(
			passwordChangedAt.Time.UTC(),
			passwordChangedAt.Valid,
		),
		PasswordResetTokenHash: c.NewOptional(
			user.PasswordResetTokenHash(passwordResetTokenHash.String),
			passwordResetTokenHash.Valid,
		),
		PasswordResetExpiresAt: c.NewOptional(
			passwordResetExpiresAt.Time.UTC(),
			passwordResetExpiresAt.Valid,
		),
	}
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}
