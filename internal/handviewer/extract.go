// Package handviewer pulls the LIN hand record out of a Bridge Base hand viewer URL.
// The URL is only parsed as text, never fetched.
package handviewer

import (
	"errors"
	"strings"
)

const (
	// Domain is the host substring a hand viewer URL must carry.
	Domain = "bridgebase.com"
	// Param is the query key holding the encoded LIN record.
	Param = "lin"
)

var (
	// ErrInvalidHost indicates the URL does not point at Bridge Base.
	ErrInvalidHost = errors.New("URL must be from " + Domain)
	// ErrMissingParameter indicates the URL carries no lin value.
	ErrMissingParameter = errors.New("URL must contain '" + Param + "' parameter")
)

// ExtractLIN validates rawURL and returns the decoded value of its lin
// query parameter. When lin appears more than once the first non-blank
// value wins. The result is returned verbatim; LIN syntax is not checked.
//
// Hand viewer links are often pasted with hand-typed annotations, so
// nothing here rejects a malformed escape: a '%' not followed by two hex
// digits is kept as a literal '%'.
func ExtractLIN(rawURL string) (string, error) {
	host, rawQuery := splitURL(rawURL)

	if !strings.Contains(strings.ToLower(host), Domain) {
		return "", ErrInvalidHost
	}

	raw, ok := firstValue(rawQuery, Param)
	if !ok {
		return "", ErrMissingParameter
	}
	return unescape(raw), nil
}

// splitURL returns the host (port included, userinfo dropped) and the raw
// query of rawURL. Unlike url.Parse it cannot fail: the path is never
// decoded, so a stray '%' there does not matter.
func splitURL(rawURL string) (host, rawQuery string) {
	rest, _, _ := strings.Cut(rawURL, "#")
	rest, rawQuery, _ = strings.Cut(rest, "?")

	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		rest = rest[i+1:]
	}
	if !strings.HasPrefix(rest, "//") {
		return "", rawQuery
	}

	authority := rest[2:]
	if i := strings.IndexByte(authority, '/'); i >= 0 {
		authority = authority[:i]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}
	return authority, rawQuery
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// firstValue scans the raw query for key and returns its first non-blank
// raw (still encoded) value.
func firstValue(rawQuery, key string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if unescape(k) != key {
			continue
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// unescape applies query-string decoding: '+' is a space and %XX is a
// byte. Invalid escapes are copied through and invalid UTF-8 becomes U+FFFD.
func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
