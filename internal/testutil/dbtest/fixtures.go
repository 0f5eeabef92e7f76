//go:build integration

package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// DBLike is the minimal interface fixtures need.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const DefaultPassword = "password123"

func CreateUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	_, err = db.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
		id, email, "Test "+role, string(hash), role)
	require.NoError(t, err)
	return id
}

// CreateResource inserts an approved listing.
func CreateResource(t *testing.T, db DBLike, ownerID uuid.UUID, kind string, unitPriceCents int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO resources (id, owner_id, kind, title, unit_price_cents, currency, max_guests, status)
		 VALUES ($1, $2, $3, $4, $5, 'USD', 4, 'approved')`,
		id, ownerID, kind, "Test "+kind, unitPriceCents)
	require.NoError(t, err)
	return id
}

func UserEarnings(t *testing.T, db DBLike, userID uuid.UUID) int64 {
	t.Helper()
	var cents int64
	err := db.QueryRow(context.Background(), `SELECT total_earnings_cents FROM users WHERE id = $1`, userID).Scan(&cents)
	require.NoError(t, err)
	return cents
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(), `SELECT count(*) FROM `+pgx.Identifier{table}.Sanitize()).Scan(&n)
	require.NoError(t, err)
	return n
}
