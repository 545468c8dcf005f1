package zapwire

import (
	"fmt"
	"strings"

	"github.com/satrat/zapwire/bech32"
)

const humanReadablePart = "lnurl"

// DecodeURL unwraps a bech32-encoded LNURL string back into the URL it
// carries.
func DecodeURL(lnurl string) (string, error) {
	hrp, data, err := bech32.Decode(lnurl)
	if err != nil {
		return "", err
	}

	if hrp != humanReadablePart {
		return "", fmt.Errorf("incorrect hrp for LNURL. Expected "+
			"'%s', got '%s'", humanReadablePart, hrp)
	}

	data, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// EncodeURL wraps a URL as an uppercase bech32 LNURL string.
func EncodeURL(url string) (string, error) {
	converted, err := bech32.ConvertBits([]byte(url), 8, 5, true)
	if err != nil {
		return "", err
	}

	str, err := bech32.Encode(humanReadablePart, converted)
	if err != nil {
		return "", err
	}

	return strings.ToUpper(str), nil
}
