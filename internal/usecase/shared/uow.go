package shared

import (
	"context"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/resource"
	"travel-booking/internal/domain/user"
	"travel-booking/internal/infra/query"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

// Tx hands out repositories bound to one database transaction.
type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Ledger() LedgerRepository
	Users() UserRepository
	Resources() ResourceRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() query.DBTX
}

type CommandReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	BookingStays(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error)
	PaymentByOrderID(ctx context.Context, orderID string) (*payment.Payment, error)
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	StaysInRange(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.Payment, error)
	Settle(ctx context.Context, p *payment.Payment) error
	CountByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)
	OpenForBooking(ctx context.Context, bookingID uuid.UUID) ([]*payment.Payment, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, e payment.LedgerEntry) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
	AddEarnings(ctx context.Context, userID uuid.UUID, cents int64) error
}

type ResourceRepository interface {
	Create(ctx context.Context, r *resource.Resource) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
