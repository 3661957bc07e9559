package security

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSHA256Hash(t *testing.T) {
	// Known-answer vector, verified against the reference SDK.
	hash := GenerateSHA256Hash("secret-key", "payload-to-sign")
	assert.Equal(t, "c482ab5028f38dfb17501ef133810b402fa71ecd81ee8727294a6a1032b400f4", hash)

	// Any change in key or payload changes the digest.
	assert.NotEqual(t, hash, GenerateSHA256Hash("secret-keY", "payload-to-sign"))
	assert.NotEqual(t, hash, GenerateSHA256Hash("secret-key", "payload-to-sigN"))
}

func TestTimeFromUnixTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "valid seconds", input: "1000000000", expected: time.Unix(1000000000, 0).UTC()},
		{name: "empty resolves to epoch", input: "", expected: time.Unix(0, 0).UTC()},
		{name: "garbage resolves to epoch", input: "not-a-number", expected: time.Unix(0, 0).UTC()},
		{name: "float resolves to epoch", input: "100.5", expected: time.Unix(0, 0).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeFromUnixTimestamp(tt.input))
		})
	}
}

func TestUnixTimestampRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	assert.Equal(t, now, TimeFromUnixTimestamp(strconv.FormatInt(UnixTimestamp(now), 10)))
}

func TestGenerateULID(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()
	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}
