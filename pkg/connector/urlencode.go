package connector

import "strings"

const upperhex = "0123456789ABCDEF"

// urlEncode percent-encodes every byte except the RFC 3986 unreserved set.
// Go's url.QueryEscape leaves sub-delims like "!" and "*" alone and encodes
// spaces as "+", which the waiting room does not accept; this matches the
// component encoding the other connector generations emit.
func urlEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}
