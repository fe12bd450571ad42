package domain

// PaymentState tracks where a registration sits in the payment flow.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
	PaymentFailed  PaymentState = "failed"
)

// Valid reports whether the state is a known value.
func (s PaymentState) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from s to next is allowed.
// Paid is terminal: the only permitted "transition" out of it is the
// paid-to-paid replay, which callers treat as a no-op.
func (s PaymentState) CanTransition(next PaymentState) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case PaymentPaid:
		return next == PaymentPaid
	case PaymentPending:
		return true
	case PaymentFailed:
		return next == PaymentPending || next == PaymentFailed || next == PaymentPaid
	default:
		// Unset state on a fresh record accepts anything valid.
		return true
	}
}
