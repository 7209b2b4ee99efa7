package email

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func init() {
	// go-message handles the usual single-byte charsets out of the box;
	// gbk shows up in real mailboxes often enough to register explicitly.
	charset.RegisterEncoding("gbk", simplifiedchinese.GBK)
}

// Spellings the IANA registry does not know but mail in the wild uses.
var encodingAliases = map[string]string{
	"latin-1":  "iso-8859-1",
	"latin1":   "iso-8859-1",
	"utf8":     "utf-8",
	"ascii":    "utf-8",
	"us-ascii": "utf-8",
}

// DecodeText decodes a payload by attempting each named encoding in order
// and returning the first success. UTF-8 is validated strictly so that a
// configured fallback is actually reachable; single-byte charmaps map every
// byte and so never fail, which makes them natural last entries.
func DecodeText(payload []byte, encodings []string) (string, error) {
	if len(encodings) == 0 {
		encodings = []string{"utf-8"}
	}

	var lastErr error
	for _, name := range encodings {
		text, err := decodeWith(name, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func decodeWith(name string, payload []byte) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[canonical]; ok {
		canonical = alias
	}

	switch canonical {
	case "utf-8":
		if !utf8.Valid(payload) {
			return "", fmt.Errorf("payload is not valid utf-8")
		}
		return string(payload), nil
	case "iso-8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	enc, err := ianaindex.MIME.Encoding(canonical)
	if err != nil || enc == nil {
		enc, err = ianaindex.IANA.Encoding(canonical)
	}
	if err != nil || enc == nil {
		return "", fmt.Errorf("unknown encoding %q", name)
	}

	out, err := enc.NewDecoder().Bytes(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
