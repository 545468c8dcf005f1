package zapwire

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/lightningnetwork/lnd/lnwire"
)

// Getter performs a single HTTP GET. It is the only network capability
// the resolver and negotiator consume; no retries are performed through
// it.
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// HTTPGetter is the production Getter backed by an http.Client.
type HTTPGetter struct {
	Client *http.Client
}

func (g *HTTPGetter) Get(ctx context.Context, url string) (int, []byte,
	error) {

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("GET request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not read response body: %w",
			err)
	}

	return resp.StatusCode, body, nil
}

// Resolver turns a user@domain payment address into LNURL metadata via
// the domain's well-known lookup path.
type Resolver struct {
	Client Getter
}

// WellKnownURL returns the lnurlp lookup URL for a payment address.
func WellKnownURL(address string) (string, error) {
	parts := strings.Split(address, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("%w: expected the form "+
			"<username>@<domain>, got %q", ErrBadAddress, address)
	}

	user, domain := parts[0], parts[1]
	return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", domain, user),
		nil
}

// Resolve fetches and validates the metadata for a payment address.
// The metadata is only good for one payment attempt; callers must not
// reuse it across recipient configurations.
func (r *Resolver) Resolve(ctx context.Context, address string) (
	*LnurlMetadata, error) {

	url, err := WellKnownURL(address)
	if err != nil {
		return nil, err
	}

	status, body, err := r.Client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: lookup returned status %d",
			ErrUnreachable, status)
	}

	// Providers report failure in-band with a status discriminator.
	var provErr Error
	if err := json.Unmarshal(body, &provErr); err == nil &&
		provErr.Status == "ERROR" {

		return nil, &ProviderError{Reason: provErr.Reason}
	}

	var resp PayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.Callback == "" {
		return nil, fmt.Errorf("%w: missing callback",
			ErrMalformedResponse)
	}
	if resp.Tag != TypePayRequest {
		return nil, fmt.Errorf("%w: unexpected tag %q",
			ErrMalformedResponse, resp.Tag)
	}

	minSendable, err := resp.MinSendable.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse minSendable: %v",
			ErrMalformedResponse, err)
	}
	maxSendable, err := resp.MaxSendable.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse maxSendable: %v",
			ErrMalformedResponse, err)
	}
	if minSendable < 1 || minSendable > maxSendable {
		return nil, fmt.Errorf("%w: invalid sendable bounds "+
			"[%d, %d]", ErrMalformedResponse, minSendable,
			maxSendable)
	}

	encoded, err := EncodeURL(url)
	if err != nil {
		return nil, err
	}

	return &LnurlMetadata{
		CallbackUrl:  resp.Callback,
		MinSendable:  lnwire.MilliSatoshi(minSendable),
		MaxSendable:  lnwire.MilliSatoshi(maxSendable),
		AllowsNostr:  resp.AllowsNostr,
		NostrPubkey:  resp.NostrPubkey,
		LnurlEncoded: encoded,
	}, nil
}
