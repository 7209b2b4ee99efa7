package email

import (
	"io"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/emersion/go-message/charset"
)

// wordDecoder handles RFC 2047 encoded words. A charset the registry does
// not know falls back to passing the raw bytes through, so decoding a
// header never fails outright.
var wordDecoder = mime.WordDecoder{
	CharsetReader: func(cs string, input io.Reader) (io.Reader, error) {
		r, err := charset.Reader(cs, input)
		if err != nil {
			return input, nil
		}
		return r, nil
	},
}

// DecodeHeader decodes a header value containing MIME encoded words mixed
// with literal text, preserving segment order. Worst case it returns the
// input unmodified; the result is always valid UTF-8.
func DecodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return strings.ToValidUTF8(decoded, "")
}

var displayNameRe = regexp.MustCompile(`^"?([^"<]+)"?\s*<(.+)>$`)

// ExtractName pulls the display name out of a From value such as
// `"John Doe" <john@example.com>`. A bare address is returned as-is.
func ExtractName(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "Unknown"
	}
	if m := displayNameRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ParseDate parses a free-form Date header best-effort. The zero time means
// the value was unparseable; callers keep the raw string either way.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
