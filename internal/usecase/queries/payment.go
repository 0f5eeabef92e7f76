package queries

import (
	"context"

	"travel-booking/internal/domain/policy"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=../../mock/queries/$GOFILE -package=queriesmock

var ErrPaymentNotFound = errs.Category("payment not found", errs.ErrNotFound)

type PaymentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actor policy.Actor) (*PaymentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int, actor policy.Actor) (*Page[*PaymentView], error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int, actor policy.Actor) (*Page[*PaymentView], error)
}

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	ListByPayer(ctx context.Context, payerID uuid.UUID, limit, offset int) ([]*PaymentView, int64, error)
	ListByPayee(ctx context.Context, payeeID uuid.UUID, limit, offset int) ([]*PaymentView, int64, error)
}

type paymentQueriesImpl struct {
	readStore PaymentReadStore
}

func NewPaymentQueries(readStore PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{
		readStore: readStore,
	}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor policy.Actor) (*PaymentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if err := policy.Authorize(actor, policy.PaymentRead, policy.Target{OwnerID: &view.PayeeID, SubjectID: view.PayerID}); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *paymentQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int, actor policy.Actor) (*Page[*PaymentView], error) {
	if err := policy.Authorize(actor, policy.PaymentListUser, policy.Target{SubjectID: &userID}); err != nil {
		return nil, err
	}

	page, limit, offset := NormalizePage(page, limit)
	items, total, err := q.readStore.ListByPayer(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, limit), nil
}

func (q *paymentQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int, actor policy.Actor) (*Page[*PaymentView], error) {
	if err := policy.Authorize(actor, policy.PaymentListOwner, policy.Target{OwnerID: &ownerID}); err != nil {
		return nil, err
	}

	page, limit, offset := NormalizePage(page, limit)
	items, total, err := q.readStore.ListByPayee(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, limit), nil
}
