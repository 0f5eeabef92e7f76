package commands

import (
	"context"
	"log/slog"
	"strings"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/resource"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/patch"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"
)

var ErrOwnerNotFound = errs.Category("owner not found", errs.ErrNotFound)

//go:generate mockgen -source=$GOFILE -destination=../../mock/commands/$GOFILE -package=commandsmock

type ResourceCommands interface {
	CreateResource(ctx context.Context, req reqdto.CreateResourceRequest, actor policy.Actor) (*queries.ResourceView, error)
}

type resourceCommandsImpl struct {
	uow      shared.UnitOfWork
	reads    queries.ResourceReadStore
	settings Settings
}

func NewResourceCommands(uow shared.UnitOfWork, reads queries.ResourceReadStore, settings Settings) ResourceCommands {
	return &resourceCommandsImpl{
		uow:      uow,
		reads:    reads,
		settings: settings,
	}
}

func (c *resourceCommandsImpl) CreateResource(ctx context.Context, req reqdto.CreateResourceRequest, actor policy.Actor) (*queries.ResourceView, error) {
	if err := policy.Authorize(actor, policy.ResourceCreate, policy.Target{}); err != nil {
		return nil, err
	}

	ownerID := patch.Coalesce(req.OwnerID, *actor.UserID)
	if ownerID != *actor.UserID {
		if !actor.IsAdmin() {
			return nil, policy.ErrForbidden
		}
		if _, err := c.uow.CommandReads().UserByID(ctx, ownerID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, err
		}
	}

	kind, err := resource.NewKind(req.Kind)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = c.settings.Currency
	}
	price, err := money.ParseDecimal(req.UnitPrice.String(), currency)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	res, err := resource.NewResource(ownerID, kind, req.Title, price, req.MaxGuests, actor.IsAdmin())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Resources().Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("resource created", "resource_id", res.ID(), "owner_id", ownerID, "status", string(res.Status()))
	return c.reads.FindByID(ctx, res.ID())
}
