package zapwire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/lnwire"
)

// Negotiator submits a zap request to a resolved callback and extracts
// the invoice the provider answers with. The invoice string is returned
// untouched; its internals are not this package's concern.
type Negotiator struct {
	Client Getter
}

// Negotiate calls the callback with the amount, the serialized request
// record and the lnurl identifier as query parameters.
func (n *Negotiator) Negotiate(ctx context.Context, meta *LnurlMetadata,
	request *Event, amount lnwire.MilliSatoshi) (string, error) {

	reqJSON, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("amount", strconv.FormatUint(uint64(amount), 10))
	params.Set("nostr", string(reqJSON))
	if meta.LnurlEncoded != "" {
		params.Set("lnurl", meta.LnurlEncoded)
	}

	delim := "?"
	if strings.Contains(meta.CallbackUrl, "?") {
		delim = "&"
	}
	getInvoice := meta.CallbackUrl + delim + params.Encode()

	status, body, err := n.Client.Get(ctx, getInvoice)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: callback returned status %d",
			ErrUnreachable, status)
	}

	var provErr Error
	if err := json.Unmarshal(body, &provErr); err == nil &&
		provErr.Status == "ERROR" {

		return "", &ProviderError{Reason: provErr.Reason}
	}

	var resp InvoiceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.PayRequest == "" {
		return "", ErrMissingInvoice
	}

	return resp.PayRequest, nil
}
