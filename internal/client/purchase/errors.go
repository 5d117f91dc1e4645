package purchase

import "errors"

var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrBillingUnavailable = errors.New("store billing unavailable")
	ErrNoPaymentIntent    = errors.New("payment intent not available")
	ErrDeclined           = errors.New("payment declined")
	ErrConfirmRejected    = errors.New("purchase not confirmed by backend")
	// ErrPaidNotConfirmed means the card was charged but the backend has not
	// recorded the purchase. Retrying confirms again without charging.
	ErrPaidNotConfirmed = errors.New("payment taken but not confirmed")
	ErrAttemptClosed    = errors.New("purchase attempt closed")
	ErrBusy             = errors.New("purchase step already running")
)

// DeclineError carries the processor's message for a refused payment.
type DeclineError struct {
	Message string
}

func (e *DeclineError) Error() string { return "payment declined: " + e.Message }

func (e *DeclineError) Unwrap() error { return ErrDeclined }
