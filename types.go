package zapwire

import (
	"encoding/json"

	"github.com/lightningnetwork/lnd/lnwire"
)

// PayResponse is the wire shape of a well-known lnurlp lookup.
type PayResponse struct {
	// Callback is the URL from LN SERVICE which will accept the pay
	// request parameters.
	Callback string `json:"callback"`

	// MaxSendable is the max amount LN SERVICE is willing to receive,
	// in millisatoshis. Providers encode this as a number or a
	// string.
	MaxSendable json.Number `json:"maxSendable"`

	// MinSendable is the min amount LN SERVICE is willing to receive,
	// can not be less than 1 or more than MaxSendable.
	MinSendable json.Number `json:"minSendable"`

	// Type of LNURL.
	Tag Type `json:"tag"`

	// AllowsNostr is set if the service emits zap receipts for
	// payments negotiated with a zap request attached.
	AllowsNostr bool `json:"allowsNostr"`

	// NostrPubkey is the key the service signs zap receipts with.
	NostrPubkey string `json:"nostrPubkey"`
}

// InvoiceResponse is the wire shape of a callback response.
type InvoiceResponse struct {
	// PayRequest is a serialized lightning invoice.
	PayRequest string `json:"pr"`

	// Routes an empty array.
	Routes []string `json:"routes"`
}

type Type string

const (
	TypePayRequest = "payRequest"
)

// Error is the explicit failure discriminator some providers answer
// with instead of a payload.
type Error struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// LnurlMetadata is the resolved view of a payment address, valid for
// the lifetime of one payment attempt.
type LnurlMetadata struct {
	// CallbackUrl accepts the invoice negotiation request.
	CallbackUrl string

	// MinSendable and MaxSendable bound the amount the recipient
	// accepts. MinSendable <= MaxSendable always holds once resolved.
	MinSendable lnwire.MilliSatoshi
	MaxSendable lnwire.MilliSatoshi

	// AllowsNostr is set if the provider emits zap receipts.
	AllowsNostr bool

	// NostrPubkey is the identity the provider signs receipts with.
	// May be empty.
	NostrPubkey string

	// LnurlEncoded is the bech32 encoding of the well-known URL the
	// metadata was fetched from, passed along during negotiation.
	LnurlEncoded string
}
