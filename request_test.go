package zapwire

import (
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

func testSession(amountSats int64) *PaymentSession {
	return &PaymentSession{
		ID:               "abcd",
		RecipientAddress: "alice@example.com",
		AmountSats:       amountSats,
		AmountMsats:      lnwire.MilliSatoshi(amountSats * 1000),
		CreatedAt:        time.Unix(1700000000, 0),
		State:            StateNegotiating,
	}
}

func testMetadata() *LnurlMetadata {
	return &LnurlMetadata{
		CallbackUrl:  "https://example.com/cb",
		MinSendable:  1000,
		MaxSendable:  500000,
		AllowsNostr:  true,
		NostrPubkey:  "ab12cd34",
		LnurlEncoded: "LNURL1TEST",
	}
}

func TestBuildZapRequest(t *testing.T) {
	session := testSession(100)
	relays := []string{"wss://r1.example.com", "wss://r2.example.com"}

	ev, err := BuildZapRequest(session, testMetadata(), relays)
	require.NoError(t, err)

	require.Equal(t, KindZapRequest, ev.Kind)
	require.Equal(t, session.CreatedAt.Unix(), ev.CreatedAt)

	amount, ok := ev.Tag("amount")
	require.True(t, ok)
	require.Equal(t, "100000", amount)

	recipient, ok := ev.Tag("p")
	require.True(t, ok)
	require.Equal(t, "ab12cd34", recipient)

	lnurl, ok := ev.Tag("lnurl")
	require.True(t, ok)
	require.Equal(t, "LNURL1TEST", lnurl)

	require.Equal(t,
		append([]string{"relays"}, relays...), ev.Tags[0])

	// The record is signed with an ephemeral key and verifies as-is.
	require.True(t, VerifySignature(ev))
}

// TestBuildZapRequestBounds checks that out-of-bounds amounts fail
// before anything could reach the network: the builder does no I/O at
// all, and the flow stops before the callback is called (covered in
// the session tests).
func TestBuildZapRequestBounds(t *testing.T) {
	tests := []struct {
		name       string
		amountSats int64
		ok         bool
	}{
		{name: "below min", amountSats: 0},
		{name: "at min", amountSats: 1, ok: true},
		{name: "within", amountSats: 100, ok: true},
		{name: "at max", amountSats: 500, ok: true},
		{name: "above max", amountSats: 501},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := BuildZapRequest(
				testSession(test.amountSats), testMetadata(),
				nil,
			)
			if test.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrAmountOutOfBounds)
			}
		})
	}
}
