package streamz

import (
	"fmt"
	"net/url"
	"strings"
)

// KeyType identifies the DRM license key construction mode.
type KeyType string

const (
	KeyTypeA KeyType = "A"
	KeyTypeR KeyType = "R"
	KeyTypeB KeyType = "B"
	KeyTypeD KeyType = "D"
)

// ssmPlaceholder is substituted by the DRM consumer at playback time.
const ssmPlaceholder = "{SSM}"

// CreateLicenseKey builds the license key string consumed by DRM-aware
// players. The output is four pipe-separated fields, in order: license URL,
// URL-encoded headers, encoded key value, and a trailing empty field. That
// exact layout is a wire contract and must not change.
//
// For types A, R and B the key value is fixed to "<type>{SSM}" regardless of
// the supplied value. For type D the supplied value must already contain the
// literal "D{SSM}" and is percent-encoded.
func CreateLicenseKey(keyURL string, keyType KeyType, keyHeaders map[string]string, keyValue string) (string, error) {
	var header string
	if len(keyHeaders) > 0 {
		values := url.Values{}
		for name, value := range keyHeaders {
			values.Set(name, value)
		}
		header = values.Encode()
	}

	switch keyType {
	case KeyTypeA, KeyTypeR, KeyTypeB:
		keyValue = string(keyType) + ssmPlaceholder
	case KeyTypeD:
		if !strings.Contains(keyValue, string(KeyTypeD)+ssmPlaceholder) {
			return "", ErrMalformedKeyDescriptor
		}
		keyValue = quote(keyValue)
	default:
		return "", ErrMalformedKeyDescriptor
	}

	return fmt.Sprintf("%s|%s|%s|", keyURL, header, keyValue), nil
}

// quote percent-encodes everything except unreserved characters and path
// separators. Stricter than url.PathEscape, which keeps sub-delimiters like
// "=", "&" and "@" literal; consumers of the descriptor expect those encoded.
func quote(s string) string {
	parts := strings.Split(s, "/")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(url.QueryEscape(part), "+", "%20")
	}
	return strings.Join(parts, "/")
}
