package zapwire

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
)

// BuildZapRequest constructs the signed payment-intent record for a
// session. The record is deterministic given its inputs apart from the
// ephemeral signing key, performs no network I/O, and is immutable once
// built.
//
// The amount bounds are enforced here, before the negotiator touches
// the network, so a doomed request never costs a round trip.
func BuildZapRequest(session *PaymentSession, meta *LnurlMetadata,
	relays []string) (*Event, error) {

	if session.AmountMsats < meta.MinSendable ||
		session.AmountMsats > meta.MaxSendable {

		return nil, fmt.Errorf("%w: %d msat not in [%d, %d]",
			ErrAmountOutOfBounds, session.AmountMsats,
			meta.MinSendable, meta.MaxSendable)
	}

	relayTag := append([]string{"relays"}, relays...)
	tags := [][]string{
		relayTag,
		{"amount", strconv.FormatUint(
			uint64(session.AmountMsats), 10,
		)},
		{"lnurl", meta.LnurlEncoded},
		{"p", meta.NostrPubkey},
	}

	ev := &Event{
		Kind:      KindZapRequest,
		CreatedAt: session.CreatedAt.Unix(),
		Tags:      tags,
		Content: fmt.Sprintf(
			"zap to %s", session.RecipientAddress,
		),
	}

	// Sign with a throwaway key: the request proves intent, not a
	// long lived identity.
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate session key: %w",
			err)
	}
	if err := ev.Sign(priv); err != nil {
		return nil, err
	}

	return ev, nil
}
