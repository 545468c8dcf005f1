package zapwire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satrat/zapwire/bech32"
)

func TestURLRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com/.well-known/lnurlp/alice",
		"https://example.com/cb?session=1",
		"",
	}

	for _, url := range urls {
		enc, err := EncodeURL(url)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(enc, "LNURL"))
		require.Equal(t, strings.ToUpper(enc), enc)

		dec, err := DecodeURL(enc)
		require.NoError(t, err)
		require.Equal(t, url, dec)
	}
}

func TestDecodeURLWrongPrefix(t *testing.T) {
	enc, err := bech32.Encode("zap", nil)
	require.NoError(t, err)

	_, err = DecodeURL(enc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "incorrect hrp")
}
