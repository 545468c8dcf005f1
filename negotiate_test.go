package zapwire

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	session := testSession(100)
	meta := testMetadata()

	request, err := BuildZapRequest(session, meta, nil)
	require.NoError(t, err)

	getter := &fakeGetter{
		handler: func(rawURL string) (int, []byte, error) {
			require.True(t,
				strings.HasPrefix(rawURL, meta.CallbackUrl+"?"))

			u, err := url.Parse(rawURL)
			require.NoError(t, err)
			params := u.Query()

			require.Equal(t, "100000", params.Get("amount"))
			require.Equal(t, meta.LnurlEncoded,
				params.Get("lnurl"))

			// The request record travels percent-encoded and
			// must survive the trip intact.
			var got Event
			require.NoError(t, json.Unmarshal(
				[]byte(params.Get("nostr")), &got,
			))
			require.Equal(t, request.ID, got.ID)
			require.Equal(t, request.Sig, got.Sig)
			require.Equal(t, request.Tags, got.Tags)

			return 200, []byte(`{"pr":"lnbc100u1fake"}`), nil
		},
	}

	n := &Negotiator{Client: getter}
	invoice, err := n.Negotiate(
		context.Background(), meta, request, session.AmountMsats,
	)
	require.NoError(t, err)
	require.Equal(t, "lnbc100u1fake", invoice)
	require.Equal(t, 1, getter.calls)
}

// TestNegotiateCallbackWithQuery checks that an existing query string
// on the callback is extended, not clobbered.
func TestNegotiateCallbackWithQuery(t *testing.T) {
	session := testSession(100)
	meta := testMetadata()
	meta.CallbackUrl = "https://example.com/cb?user=alice"

	request, err := BuildZapRequest(session, meta, nil)
	require.NoError(t, err)

	getter := &fakeGetter{
		handler: func(rawURL string) (int, []byte, error) {
			u, err := url.Parse(rawURL)
			require.NoError(t, err)
			require.Equal(t, "alice", u.Query().Get("user"))
			require.Equal(t, "100000", u.Query().Get("amount"))

			return 200, []byte(`{"pr":"lnbc1"}`), nil
		},
	}

	_, err = (&Negotiator{Client: getter}).Negotiate(
		context.Background(), meta, request, session.AmountMsats,
	)
	require.NoError(t, err)
}

func TestNegotiateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{{
		name:    "non 2xx",
		status:  500,
		body:    "boom",
		wantErr: ErrUnreachable,
	}, {
		name:   "provider error",
		status: 200,
		body:   `{"status":"ERROR","reason":"amount too small"}`,
	}, {
		name:    "missing invoice",
		status:  200,
		body:    `{"routes":[]}`,
		wantErr: ErrMissingInvoice,
	}, {
		name:    "not json",
		status:  200,
		body:    "oops",
		wantErr: ErrMalformedResponse,
	}}

	session := testSession(100)
	meta := testMetadata()
	request, err := BuildZapRequest(session, meta, nil)
	require.NoError(t, err)

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			getter := &fakeGetter{
				handler: func(string) (int, []byte, error) {
					return test.status,
						[]byte(test.body), nil
				},
			}

			_, err := (&Negotiator{Client: getter}).Negotiate(
				context.Background(), meta, request,
				session.AmountMsats,
			)

			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}

			var provErr *ProviderError
			require.ErrorAs(t, err, &provErr)
			require.Equal(t, "amount too small", provErr.Reason)
		})
	}
}
