package repository

import (
	"context"

	"travel-booking/internal/domain/resource"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
)

type ResourceWriteQueries interface {
	CreateResource(ctx context.Context, db query.DBTX, arg query.CreateResourceParams) error
}

type ResourceRepository struct {
	queries ResourceWriteQueries
	db      query.DBTX
}

func NewResourceRepository(queries ResourceWriteQueries, db query.DBTX) *ResourceRepository {
	return &ResourceRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	err := r.queries.CreateResource(ctx, r.db, query.CreateResourceParams{
		ID:             res.ID(),
		OwnerID:        res.OwnerID(),
		Kind:           string(res.Kind()),
		Title:          res.Title(),
		UnitPriceCents: res.UnitPrice().Cents(),
		Currency:       res.UnitPrice().Currency(),
		MaxGuests:      int32(res.MaxGuests()), // #nosec G115 -- validated small
		Status:         string(res.Status()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create resource", err)
	}
	return nil
}
