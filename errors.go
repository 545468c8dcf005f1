package zapwire

import (
	"errors"
	"fmt"
)

// Nothing in this package is fatal: every failure below is returned to
// the caller as an outcome, never a panic.
var (
	// ErrBadAddress means the payment address is not of the form
	// user@domain.
	ErrBadAddress = errors.New("invalid payment address")

	// ErrUnreachable means a metadata or callback endpoint could not
	// be reached or answered non-2xx. The caller may retry the whole
	// negotiation; this package never retries.
	ErrUnreachable = errors.New("endpoint unreachable")

	// ErrMalformedResponse means a remote answered 2xx but the body
	// is missing mandatory fields or is not parseable.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNoZapSupport means the resolved metadata does not advertise
	// zap receipts for this recipient.
	ErrNoZapSupport = errors.New("recipient does not support zaps")

	// ErrMissingInvoice means the callback answered without the
	// expected invoice field.
	ErrMissingInvoice = errors.New("callback response missing invoice")

	// ErrAmountOutOfBounds means the requested amount falls outside
	// the provider's sendable interval. Raised before any network
	// write.
	ErrAmountOutOfBounds = errors.New("amount outside sendable bounds")

	// ErrPaymentInProgress means another session is already awaiting
	// its receipt. Raised before any network write.
	ErrPaymentInProgress = errors.New("payment already in progress")

	// ErrReceiptTimeout means no valid receipt arrived within the
	// configured window. Distinct from any per-event rejection.
	ErrReceiptTimeout = errors.New("timed out waiting for zap receipt")
)

// ProviderError is an explicit failure reported by the remote service,
// carrying its reason verbatim.
type ProviderError struct {
	Reason string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Reason)
}
