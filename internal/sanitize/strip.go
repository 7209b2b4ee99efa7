package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// StripTags renders HTML as plain text. Tag markup is dropped, script and
// style bodies are skipped entirely, entities are decoded, and whitespace
// runs collapse to a single space.
func StripTags(src string) string {
	if src == "" {
		return ""
	}

	var b strings.Builder
	skip := 0
	tz := html.NewTokenizer(strings.NewReader(src))
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))
		case html.StartTagToken:
			name, _ := tz.TagName()
			if skippedElement(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if skippedElement(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tz.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skippedElement(name string) bool {
	return name == "script" || name == "style" || name == "noscript"
}
