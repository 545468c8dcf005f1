package zapwire

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// VerifySignature checks an event's id against its canonical form and
// its schnorr signature against its pubkey. It satisfies the Verify
// hook on Validator; the validator itself only checks that signature
// fields are present.
func VerifySignature(e *Event) bool {
	id, err := e.ComputeID()
	if err != nil || id != e.ID {
		return false
	}

	pubBytes, err := hex.DecodeString(e.Pubkey)
	if err != nil {
		return false
	}
	pub, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(e.Sig)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}

	hash, err := hex.DecodeString(id)
	if err != nil {
		return false
	}

	return sig.Verify(hash, pub)
}
