package zapwire

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	// KindZapRequest is the event kind of an outbound payment-intent
	// record.
	KindZapRequest = 9734

	// KindZapReceipt is the event kind of an inbound proof-of-payment
	// record.
	KindZapReceipt = 9735
)

// Event is a relay event. Inbound events are adversarial input: nothing
// about their shape is guaranteed until validated.
type Event struct {
	ID        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Tag returns the value of the first tag with the given key. Tag keys
// are not unique on the wire, so first match wins.
func (e *Event) Tag(key string) (string, bool) {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == key {
			return tag[1], true
		}
	}
	return "", false
}

// Serialize returns the canonical form of the event used for its id:
// a JSON array of [0, pubkey, created_at, kind, tags, content].
func (e *Event) Serialize() ([]byte, error) {
	return json.Marshal([]interface{}{
		0, e.Pubkey, e.CreatedAt, e.Kind, e.Tags, e.Content,
	})
}

// ComputeID returns the hex encoded sha256 of the canonical form.
func (e *Event) ComputeID() (string, error) {
	raw, err := e.Serialize()
	if err != nil {
		return "", err
	}

	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:]), nil
}

// Sign fills in the event's pubkey, id and signature from the given
// private key.
func (e *Event) Sign(priv *btcec.PrivateKey) error {
	e.Pubkey = hex.EncodeToString(
		schnorr.SerializePubKey(priv.PubKey()),
	)

	id, err := e.ComputeID()
	if err != nil {
		return err
	}
	e.ID = id

	hash, err := hex.DecodeString(id)
	if err != nil {
		return err
	}

	sig, err := schnorr.Sign(priv, hash)
	if err != nil {
		return fmt.Errorf("could not sign event: %w", err)
	}
	e.Sig = hex.EncodeToString(sig.Serialize())

	return nil
}
