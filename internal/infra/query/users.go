package query

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, email, name, password_hash, role, is_active, total_earnings_cents, last_login, created_at, updated_at`

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.TotalEarningsCents,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

const createUser = `
INSERT INTO users (id, email, name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Name, arg.PasswordHash, arg.Role).Scan(&id)
	return id, err
}

const findUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByID, id))
}

const findUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

func (q *Queries) FindUserByEmail(ctx context.Context, db DBTX, email string) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByEmail, email))
}

const updateUserLastLogin = `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`

func (q *Queries) UpdateUserLastLogin(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, updateUserLastLogin, id)
	return err
}

// The increment happens in SQL so concurrent captures never lose an update.
const incrementUserEarnings = `
UPDATE users
SET total_earnings_cents = total_earnings_cents + $2, updated_at = now()
WHERE id = $1`

func (q *Queries) IncrementUserEarnings(ctx context.Context, db DBTX, id uuid.UUID, cents int64) (int64, error) {
	tag, err := db.Exec(ctx, incrementUserEarnings, id, cents)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
