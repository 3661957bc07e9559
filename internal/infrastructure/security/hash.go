// Package security provides signing and token utilities
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// GenerateSHA256Hash computes the HMAC-SHA256 signature over the UTF-8 bytes
// of stringToHash and returns it as a lowercase hex string. This is the only
// digest format the connector accepts; the legacy double-url-encoded raw-byte
// variant is not supported.
func GenerateSHA256Hash(secretKey, stringToHash string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(stringToHash))
	return hex.EncodeToString(mac.Sum(nil))
}

// UnixTimestamp returns t as whole seconds since 1970-01-01T00:00:00Z.
func UnixTimestamp(t time.Time) int64 {
	return t.UTC().Unix()
}

// TimeFromUnixTimestamp parses a unix-seconds string. Unparseable input
// resolves to the epoch, which downstream checks treat as already expired.
func TimeFromUnixTimestamp(s string) time.Time {
	seconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		seconds = 0
	}
	return time.Unix(seconds, 0).UTC()
}
