package readstore

import (
	"context"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/resource"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceReadQueries interface {
	FindResourceByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Resource, error)
	ListResources(ctx context.Context, db query.DBTX, arg query.ListResourcesParams) ([]query.Resource, error)
	CountResources(ctx context.Context, db query.DBTX, arg query.ListResourcesParams) (int64, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      query.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db query.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceReadStore) find(ctx context.Context, id uuid.UUID) (query.Resource, error) {
	row, err := r.queries.FindResourceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return row, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return row, infra.WrapRepoErr("failed to find resource by ID", err)
	}
	return row, nil
}

func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResourceView(row), nil
}

// FindSnapshot loads the write-side view of a resource.
func (r *ResourceReadStore) FindSnapshot(ctx context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	price, err := money.New(row.UnitPriceCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored resource has invalid price", err, infra.KindDBFailure)
	}
	return &shared.ResourceSnapshot{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Kind:      row.Kind,
		Title:     row.Title,
		UnitPrice: price,
		MaxGuests: int(row.MaxGuests),
		Status:    row.Status,
	}, nil
}

// List returns approved resources, optionally of one kind.
func (r *ResourceReadStore) List(ctx context.Context, kind *string, limit, offset int) ([]*queries.ResourceView, int64, error) {
	approved := string(resource.StatusApproved)
	params := query.ListResourcesParams{
		Kind:   pgconv.StringPtrToPgtype(kind),
		Status: pgconv.StringPtrToPgtype(&approved),
		Limit:  int32(limit),  // #nosec G115 -- bounded by queries.MaxListLimit
		Offset: int32(offset), // #nosec G115 -- bounded by queries.NormalizePage
	}

	total, err := r.queries.CountResources(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count resources", err)
	}
	if total == 0 {
		return []*queries.ResourceView{}, 0, nil
	}

	rows, err := r.queries.ListResources(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list resources", err)
	}

	result := make([]*queries.ResourceView, len(rows))
	for i, row := range rows {
		result[i] = toResourceView(row)
	}
	return result, total, nil
}

func toResourceView(row query.Resource) *queries.ResourceView {
	return &queries.ResourceView{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Kind:           row.Kind,
		BillingUnit:    resource.Kind(row.Kind).BillingUnit(),
		Title:          row.Title,
		UnitPriceCents: row.UnitPriceCents,
		Currency:       row.Currency,
		MaxGuests:      int(row.MaxGuests),
		Status:         row.Status,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
