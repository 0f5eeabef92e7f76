package infra

// Schema constraint names that callers branch on.
const (
	ConstraintBookingNoOverlap      = "bookings_no_overlap"
	ConstraintBookingReference      = "bookings_reference_key"
	ConstraintPaymentOrderID        = "payments_provider_order_id_key"
	ConstraintPaymentOpenPerBooking = "payments_one_open_per_booking"
	ConstraintUserEmail             = "users_email_key"
)
