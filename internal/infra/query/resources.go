package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const resourceColumns = `id, owner_id, kind, title, unit_price_cents, currency, max_guests, status, created_at, updated_at`

func scanResource(row scanner) (Resource, error) {
	var r Resource
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Kind,
		&r.Title,
		&r.UnitPriceCents,
		&r.Currency,
		&r.MaxGuests,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

type CreateResourceParams struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Kind           string
	Title          string
	UnitPriceCents int64
	Currency       string
	MaxGuests      int32
	Status         string
}

const createResource = `
INSERT INTO resources (id, owner_id, kind, title, unit_price_cents, currency, max_guests, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (q *Queries) CreateResource(ctx context.Context, db DBTX, arg CreateResourceParams) error {
	_, err := db.Exec(ctx, createResource,
		arg.ID, arg.OwnerID, arg.Kind, arg.Title, arg.UnitPriceCents, arg.Currency, arg.MaxGuests, arg.Status)
	return err
}

const findResourceByID = `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

func (q *Queries) FindResourceByID(ctx context.Context, db DBTX, id uuid.UUID) (Resource, error) {
	return scanResource(db.QueryRow(ctx, findResourceByID, id))
}

type ListResourcesParams struct {
	Kind    pgtype.Text
	Status  pgtype.Text
	OwnerID pgtype.UUID
	Limit   int32
	Offset  int32
}

const resourceFilter = `
WHERE ($1::text IS NULL OR kind = $1)
  AND ($2::text IS NULL OR status = $2)
  AND ($3::uuid IS NULL OR owner_id = $3)`

const listResources = `SELECT ` + resourceColumns + ` FROM resources` + resourceFilter + `
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5`

func (q *Queries) ListResources(ctx context.Context, db DBTX, arg ListResourcesParams) ([]Resource, error) {
	rows, err := db.Query(ctx, listResources, arg.Kind, arg.Status, arg.OwnerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanResource)
}

const countResources = `SELECT count(*) FROM resources` + resourceFilter

func (q *Queries) CountResources(ctx context.Context, db DBTX, arg ListResourcesParams) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countResources, arg.Kind, arg.Status, arg.OwnerID).Scan(&n)
	return n, err
}
