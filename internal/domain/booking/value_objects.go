package booking

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"travel-booking/internal/domain/user"
)

var (
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrInvalidOccupancy = errors.New("invalid occupancy")
	ErrInvalidGuest     = errors.New("guest name and a valid email are required")
	ErrInvalidReference = errors.New("invalid booking reference")
)

// DateRange is a half-open [start, end) span of calendar days.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := truncateToDate(start), truncateToDate(end)
	if !e.After(s) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: s, end: e}, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Units is the number of nights (or rental days) in the range.
func (r DateRange) Units() int {
	return int(r.end.Sub(r.start) / (24 * time.Hour))
}

// Overlaps is the half-open interval test. Back-to-back ranges do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

func (r DateRange) String() string {
	return r.start.Format(time.DateOnly) + "/" + r.end.Format(time.DateOnly)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Occupancy struct {
	adults   int
	children int
	quantity int
}

func NewOccupancy(adults, children, quantity int) (Occupancy, error) {
	if adults < 1 || children < 0 || quantity < 1 {
		return Occupancy{}, ErrInvalidOccupancy
	}
	return Occupancy{adults: adults, children: children, quantity: quantity}, nil
}

func (o Occupancy) Adults() int   { return o.adults }
func (o Occupancy) Children() int { return o.children }
func (o Occupancy) Quantity() int { return o.quantity }
func (o Occupancy) Guests() int   { return o.adults + o.children }

type GuestInfo struct {
	name  string
	email user.Email
	phone string
}

func NewGuestInfo(name, email, phone string) (GuestInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GuestInfo{}, ErrInvalidGuest
	}
	e, err := user.NewEmail(email)
	if err != nil {
		return GuestInfo{}, ErrInvalidGuest
	}
	return GuestInfo{name: name, email: e, phone: strings.TrimSpace(phone)}, nil
}

func (g GuestInfo) Name() string  { return g.name }
func (g GuestInfo) Email() string { return g.email.Value() }
func (g GuestInfo) Phone() string { return g.phone }

// Reference is the human-facing booking code, BK-YYYYMMDD-XXXXXX.
type Reference string

var referenceRegex = regexp.MustCompile(`^BK-\d{8}-[0-9A-F]{6}$`)

func ParseReference(s string) (Reference, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !referenceRegex.MatchString(s) {
		return "", ErrInvalidReference
	}
	return Reference(s), nil
}

func (r Reference) String() string { return string(r) }

type ReferenceGenerator interface {
	Generate(at time.Time) (Reference, error)
}

// RandomReferenceGenerator draws the suffix from crypto/rand. Uniqueness is
// enforced by storage; callers retry on collision.
type RandomReferenceGenerator struct{}

func NewRandomReferenceGenerator() *RandomReferenceGenerator {
	return &RandomReferenceGenerator{}
}

func (RandomReferenceGenerator) Generate(at time.Time) (Reference, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return Reference("BK-" + at.Format("20060102") + "-" + suffix), nil
}
