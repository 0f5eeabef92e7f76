package queries

import (
	"context"

	"travel-booking/internal/domain/resource"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=../../mock/queries/$GOFILE -package=queriesmock

var ErrInvalidKind = errs.Category("kind must be property or vehicle", errs.ErrValidation)

type ResourceQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	List(ctx context.Context, kind string, page, limit int) (*Page[*ResourceView], error)
}

type ResourceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	List(ctx context.Context, kind *string, limit, offset int) ([]*ResourceView, int64, error)
}

type resourceQueriesImpl struct {
	readStore ResourceReadStore
}

func NewResourceQueries(readStore ResourceReadStore) ResourceQueries {
	return &resourceQueriesImpl{
		readStore: readStore,
	}
}

func (q *resourceQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *resourceQueriesImpl) List(ctx context.Context, kind string, page, limit int) (*Page[*ResourceView], error) {
	var kindFilter *string
	if kind != "" {
		k, err := resource.NewKind(kind)
		if err != nil {
			return nil, ErrInvalidKind
		}
		s := string(k)
		kindFilter = &s
	}

	page, limit, offset := NormalizePage(page, limit)
	items, total, err := q.readStore.List(ctx, kindFilter, limit, offset)
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, limit), nil
}
