package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/policy"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const NotificationPaymentCompleted = "payment_completed"

//go:generate mockgen -source=$GOFILE -destination=../../mock/commands/$GOFILE -package=commandsmock

var (
	ErrPaymentNotFound       = errs.Category("payment not found", errs.ErrNotFound)
	ErrPaymentAlreadySettled = errs.Category("payment already settled", errs.ErrConflict)
	ErrBookingNotPayable     = errs.Category("only pending bookings can be paid", errs.ErrValidation)
	ErrAmountMismatch        = errs.Category("amount does not match the booking total", errs.ErrValidation)
	ErrDuplicateOrder        = errs.Category("provider order already recorded", errs.ErrConflict)
	ErrBookingAlreadyPaid    = errs.Category("booking already paid", errs.ErrConflict)
	ErrPaymentInProgress     = errs.Category("another payment for this booking is in progress", errs.ErrConflict)
	ErrBookingNoLongerOpen   = errs.Category("booking is no longer awaiting payment", errs.ErrConflict)
)

type CreateOrderResult struct {
	OrderID     string
	PaymentID   uuid.UUID
	ApprovalURL string
	Status      string
}

type CaptureSummary struct {
	OrderID   string
	Status    string
	CaptureID string
}

type CaptureResult struct {
	Payment *queries.PaymentView
	Booking *queries.BookingView
	Capture CaptureSummary
}

type PaymentCommands interface {
	CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, actor policy.Actor) (*CreateOrderResult, error)
	CaptureOrder(ctx context.Context, orderID string, actor policy.Actor) (*CaptureResult, error)
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	provider PaymentProvider
	payments queries.PaymentReadStore
	bookings queries.BookingReadStore
	clock    clock.Clock
	settings Settings
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	provider PaymentProvider,
	payments queries.PaymentReadStore,
	bookings queries.BookingReadStore,
	clk clock.Clock,
	settings Settings,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		provider: provider,
		payments: payments,
		bookings: bookings,
		clock:    clk,
		settings: settings,
	}
}

func (c *paymentCommandsImpl) CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, actor policy.Actor) (*CreateOrderResult, error) {
	if err := policy.Authorize(actor, policy.PaymentCreateOrder, policy.Target{}); err != nil {
		return nil, err
	}

	reads := c.uow.CommandReads()
	b, err := reads.BookingByID(ctx, req.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Wrap(err, "load booking")
	}
	if b.Status() != booking.StatusPending {
		return nil, ErrBookingNotPayable
	}

	amount, err := money.ParseDecimal(req.Amount.String(), b.Total().Currency())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if amount.Cents() <= 0 {
		return nil, errs.Mark(payment.ErrNonPositiveAmount, errs.ErrValidation)
	}
	if !amount.Equal(b.Total()) {
		return nil, ErrAmountMismatch
	}

	res, err := reads.ResourceByID(ctx, b.ResourceID())
	if err != nil {
		return nil, errs.Wrap(err, "load booked resource")
	}

	order, err := c.provider.CreateOrder(ctx, OrderRequest{
		ReferenceID: b.Reference().String(),
		Description: orderDescription(b, res.Title),
		Amount:      amount,
		ReturnURL:   c.settings.Checkout.ReturnURL,
		CancelURL:   c.settings.Checkout.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	payerID := actor.UserID
	if payerID == nil {
		payerID = b.UserID()
	}

	p, err := payment.NewPayment(b.ID(), payerID, b.OwnerID(), amount, order.ID, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := c.supersedeOpenPayments(ctx, tx, b.ID(), order.ID); err != nil {
			return err
		}
		return tx.Payments().Create(ctx, p)
	})
	switch {
	case infra.IsConstraint(err, infra.ConstraintPaymentOrderID):
		return nil, ErrDuplicateOrder
	case infra.IsConstraint(err, infra.ConstraintPaymentOpenPerBooking):
		return nil, ErrPaymentInProgress
	case err != nil:
		return nil, err
	}

	slog.Info("payment order created",
		"payment_id", p.ID(),
		"booking_id", b.ID(),
		"order_id", order.ID,
		"amount", amount.String())

	return &CreateOrderResult{
		OrderID:     order.ID,
		PaymentID:   p.ID(),
		ApprovalURL: order.ApprovalURL,
		Status:      p.Status().String(),
	}, nil
}

// supersedeOpenPayments fails the booking's pending payment so only the new
// order can be captured. A completed payment blocks the new order.
func (c *paymentCommandsImpl) supersedeOpenPayments(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, orderID string) error {
	open, err := tx.Payments().OpenForBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	now := c.clock.Now()
	for _, prev := range open {
		if prev.Status() == payment.StatusCompleted {
			return ErrBookingAlreadyPaid
		}
		raw, err := json.Marshal(map[string]string{"superseded_by": orderID})
		if err != nil {
			return errs.Wrap(err, "encode superseded marker")
		}
		if err := prev.Fail(raw, now); err != nil {
			return ErrPaymentAlreadySettled
		}
		if err := tx.Payments().Settle(ctx, prev); err != nil {
			return err
		}
		slog.Info("pending payment superseded",
			"payment_id", prev.ID(),
			"booking_id", bookingID,
			"order_id", prev.ProviderOrderID(),
			"superseded_by", orderID)
	}
	return nil
}

func orderDescription(b *booking.Booking, title string) string {
	return fmt.Sprintf("%s %s (%s)", b.Reference().String(), title, b.Stay().String())
}

// CaptureOrder asks the provider to capture and then records the outcome.
// On completion the payment, booking, ledger, earnings and outbox rows are
// written in one transaction; the locked re-read rejects a second capture
// that raced past the first check.
func (c *paymentCommandsImpl) CaptureOrder(ctx context.Context, orderID string, actor policy.Actor) (*CaptureResult, error) {
	if err := policy.Authorize(actor, policy.PaymentCapture, policy.Target{}); err != nil {
		return nil, err
	}

	current, err := c.uow.CommandReads().PaymentByOrderID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, errs.Wrap(err, "load payment")
	}
	if current.Status().IsSettled() {
		return nil, ErrPaymentAlreadySettled
	}
	if err := c.ensureBookingAwaitsPayment(ctx, current); err != nil {
		return nil, err
	}

	capture, err := c.provider.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var settled *payment.Payment
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var txErr error
		settled, txErr = c.settle(ctx, tx, orderID, capture)
		return txErr
	})
	if err != nil {
		if capture.Status == ProviderStatusCompleted && !errs.Is(err, ErrPaymentAlreadySettled) {
			slog.Error("provider captured but settlement was not recorded",
				"order_id", orderID,
				"capture_id", capture.CaptureID,
				"error", err.Error())
		}
		return nil, err
	}

	if settled.Status() == payment.StatusCompleted {
		slog.Info("payment captured", "payment_id", settled.ID(), "order_id", orderID, "capture_id", capture.CaptureID)
	} else {
		slog.Warn("payment capture not completed", "payment_id", settled.ID(), "order_id", orderID, "provider_status", capture.Status)
	}

	paymentView, err := c.payments.FindByID(ctx, settled.ID())
	if err != nil {
		return nil, err
	}
	bookingView, err := c.bookings.FindByID(ctx, settled.BookingID())
	if err != nil {
		return nil, err
	}

	return &CaptureResult{
		Payment: paymentView,
		Booking: bookingView,
		Capture: CaptureSummary{
			OrderID:   orderID,
			Status:    capture.Status,
			CaptureID: capture.CaptureID,
		},
	}, nil
}

// ensureBookingAwaitsPayment closes a pending payment whose booking left the
// pending state, so the provider is never asked to capture it.
func (c *paymentCommandsImpl) ensureBookingAwaitsPayment(ctx context.Context, p *payment.Payment) error {
	b, err := c.uow.CommandReads().BookingByID(ctx, p.BookingID())
	if err != nil {
		return errs.Wrap(err, "load booking")
	}
	if b.Status() == booking.StatusPending {
		return nil
	}

	raw, err := json.Marshal(map[string]string{"booking_status": b.Status().String()})
	if err != nil {
		return errs.Wrap(err, "encode booking status marker")
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Payments().FindByOrderIDForUpdate(ctx, p.ProviderOrderID())
		if err != nil {
			return err
		}
		if locked.Status().IsSettled() {
			return ErrPaymentAlreadySettled
		}
		if err := locked.Fail(raw, c.clock.Now()); err != nil {
			return ErrPaymentAlreadySettled
		}
		return tx.Payments().Settle(ctx, locked)
	})
	if err != nil {
		return err
	}

	slog.Warn("capture refused for a booking that is no longer pending",
		"payment_id", p.ID(),
		"booking_id", b.ID(),
		"booking_status", b.Status().String())
	return ErrBookingNoLongerOpen
}

func (c *paymentCommandsImpl) settle(ctx context.Context, tx shared.Tx, orderID string, capture *ProviderCapture) (*payment.Payment, error) {
	p, err := tx.Payments().FindByOrderIDForUpdate(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status().IsSettled() {
		return nil, ErrPaymentAlreadySettled
	}

	now := c.clock.Now()
	if capture.Status != ProviderStatusCompleted {
		if err := p.Fail(capture.Raw, now); err != nil {
			return nil, ErrPaymentAlreadySettled
		}
		return p, tx.Payments().Settle(ctx, p)
	}

	if err := p.Complete(payment.Capture{
		CaptureID:       capture.CaptureID,
		ProviderPayerID: capture.PayerID,
		PayerEmail:      capture.PayerEmail,
		Raw:             capture.Raw,
	}, now); err != nil {
		return nil, ErrPaymentAlreadySettled
	}
	if err := tx.Payments().Settle(ctx, p); err != nil {
		return nil, err
	}

	b, err := tx.Bookings().FindForUpdate(ctx, p.BookingID())
	if err != nil {
		return nil, err
	}
	if b.Status() == booking.StatusPending {
		if err := b.TransitionTo(booking.StatusConfirmed, nil, now); err != nil {
			return nil, err
		}
		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("payment completed for a booking that is no longer pending",
			"booking_id", b.ID(),
			"booking_status", b.Status().String(),
			"payment_id", p.ID())
	}

	for _, entry := range p.LedgerEntries() {
		if err := tx.Ledger().Append(ctx, entry); err != nil {
			return nil, err
		}
	}
	if err := tx.Users().AddEarnings(ctx, p.PayeeID(), p.OwnerPayout().Cents()); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(paymentCompletedPayload{
		PaymentID:        p.ID(),
		BookingID:        b.ID(),
		Reference:        b.Reference().String(),
		GuestName:        b.Guest().Name(),
		GuestEmail:       b.Guest().Email(),
		AmountCents:      p.Amount().Cents(),
		OwnerPayoutCents: p.OwnerPayout().Cents(),
		Currency:         p.Amount().Currency(),
	})
	if err != nil {
		return nil, errs.Wrap(err, "encode notification payload")
	}
	if err := tx.Notifications().CreateJob(ctx, NotificationPaymentCompleted, b.Reference().String(), payload, now); err != nil {
		return nil, err
	}

	return p, nil
}

type paymentCompletedPayload struct {
	PaymentID        uuid.UUID `json:"payment_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	Reference        string    `json:"reference"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	AmountCents      int64     `json:"amount_cents"`
	OwnerPayoutCents int64     `json:"owner_payout_cents"`
	Currency         string    `json:"currency"`
}
