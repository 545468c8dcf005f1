package zapwire

import (
	"encoding/json"
	"strconv"
)

// Outcome is the result of validating one inbound event against a
// session.
type Outcome struct {
	// Valid reports whether the event is a receipt satisfying the
	// session.
	Valid bool

	// Reason names the first failed check when Valid is false.
	Reason string

	// AmountSats is the paid amount declared by the embedded request.
	AmountSats int64

	// SenderPubkey is the identity that signed the embedded request.
	SenderPubkey string

	// Bolt11 is the paid invoice string carried by the receipt.
	Bolt11 string

	// EventID and Timestamp identify the receipt event itself.
	EventID   string
	Timestamp int64
}

func rejected(reason string) Outcome {
	return Outcome{Reason: reason}
}

// Validator decides whether an untrusted relay event proves payment for
// a session.
type Validator struct {
	// Verify is the delegated cryptographic signature check. When
	// nil, only the structural presence of signature fields is
	// enforced.
	Verify func(*Event) bool
}

// Validate runs the receipt checks in order and short-circuits on the
// first failure. Overpayment is accepted; underpayment is not.
//
// The receipt is correlated to the session by recipient, amount and the
// subscription's time window only. The embedded request content is not
// bound to the session id, so two concurrent payments of the same
// amount to the same recipient are indistinguishable. Known protocol
// limitation.
func (v *Validator) Validate(ev *Event, session *PaymentSession) Outcome {
	if ev.Kind != KindZapReceipt {
		return rejected("not a receipt")
	}

	if ev.ID == "" || ev.Sig == "" || ev.Pubkey == "" ||
		ev.CreatedAt == 0 {

		return rejected("invalid signature")
	}
	if v.Verify != nil && !v.Verify(ev) {
		return rejected("invalid signature")
	}

	bolt11, hasBolt11 := ev.Tag("bolt11")
	description, hasDescription := ev.Tag("description")
	recipient, hasRecipient := ev.Tag("p")
	if !hasBolt11 || !hasDescription || !hasRecipient {
		return rejected("missing required tags")
	}

	if recipient != session.RecipientPubkey {
		return rejected("recipient mismatch")
	}

	var request Event
	if err := json.Unmarshal([]byte(description), &request); err != nil {
		return rejected("invalid embedded request")
	}

	if request.Kind != KindZapRequest {
		return rejected("invalid request kind")
	}

	amount, ok := request.Tag("amount")
	if !ok {
		return rejected("insufficient amount")
	}
	msats, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || msats/1000 < session.AmountSats {
		return rejected("insufficient amount")
	}

	if zapRecipient, _ := request.Tag("p"); zapRecipient !=
		session.RecipientPubkey {

		return rejected("zap recipient mismatch")
	}

	return Outcome{
		Valid:        true,
		AmountSats:   msats / 1000,
		SenderPubkey: request.Pubkey,
		Bolt11:       bolt11,
		EventID:      ev.ID,
		Timestamp:    ev.CreatedAt,
	}
}
