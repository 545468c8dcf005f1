package zapwire

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

// TestTagFirstMatch checks that duplicate tag keys resolve to the first
// occurrence, matching the wire protocol's first-match semantics.
func TestTagFirstMatch(t *testing.T) {
	ev := &Event{
		Tags: [][]string{
			{"p", "first"},
			{"amount"}, // too short, skipped
			{"p", "second"},
			{"amount", "1000"},
		},
	}

	v, ok := ev.Tag("p")
	require.True(t, ok)
	require.Equal(t, "first", v)

	v, ok = ev.Tag("amount")
	require.True(t, ok)
	require.Equal(t, "1000", v)

	_, ok = ev.Tag("bolt11")
	require.False(t, ok)
}

func TestSignAndVerify(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	ev := &Event{
		Kind:      KindZapRequest,
		CreatedAt: 1700000000,
		Tags:      [][]string{{"amount", "100000"}},
		Content:   "test",
	}
	require.NoError(t, ev.Sign(priv))

	require.NotEmpty(t, ev.ID)
	require.NotEmpty(t, ev.Pubkey)
	require.NotEmpty(t, ev.Sig)
	require.True(t, VerifySignature(ev))

	// Mutating any signed field must break verification.
	tampered := *ev
	tampered.Content = "other"
	require.False(t, VerifySignature(&tampered))

	tampered = *ev
	tampered.CreatedAt++
	require.False(t, VerifySignature(&tampered))

	tampered = *ev
	flip := byte('0')
	if ev.Sig[0] == '0' {
		flip = '1'
	}
	tampered.Sig = string(flip) + ev.Sig[1:]
	require.False(t, VerifySignature(&tampered))
}

func TestVerifyGarbage(t *testing.T) {
	require.False(t, VerifySignature(&Event{
		ID:     "not hex",
		Pubkey: "nope",
		Sig:    "nope",
	}))
}
