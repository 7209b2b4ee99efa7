package email

import (
	"strings"

	"go.uber.org/zap"

	"mbox2html/internal/sanitize"
)

// Markers that betray HTML hiding in a text/plain body. Promotional mail
// mislabels HTML as plain text often enough that we sniff for these.
var htmlMarkers = []string{
	"<html", "<head", "<body", "<div", "<table", "<style", "<!doctype",
}

// Resolver selects the displayable bodies of a parsed message.
type Resolver struct {
	encodings []string
	log       *zap.Logger
}

// NewResolver builds a Resolver that decodes payloads by trying encodings
// in order (typically the configured default followed by a fallback).
func NewResolver(encodings []string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{encodings: encodings, log: log}
}

// Resolve returns the plain-text body, the HTML body, and whether the
// message is HTML-flavored.
//
// For multipart messages the first non-attachment text/plain and text/html
// parts win; later parts of the same type are ignored, and parts that fail
// every configured encoding are skipped. When only a "plain" body exists
// but it contains HTML markers, it is reclassified as the HTML body. When
// the result is HTML and no genuine plain part existed, the plain text is
// a markup-stripped rendering of the HTML, never the raw markup.
func (r *Resolver) Resolve(msg *Message) (string, string, bool) {
	var bodyText, bodyHTML string

	if msg.Multipart {
		for _, part := range msg.Parts {
			if part.Disposition == "attachment" {
				continue
			}
			if part.MediaType != "text/plain" && part.MediaType != "text/html" {
				continue
			}
			if len(part.Body) == 0 {
				continue
			}
			decoded, err := DecodeText(part.Body, r.encodings)
			if err != nil {
				r.log.Debug("skipping undecodable part",
					zap.String("media_type", part.MediaType),
					zap.Error(err))
				continue
			}
			switch part.MediaType {
			case "text/plain":
				if bodyText == "" {
					bodyText = decoded
				}
			case "text/html":
				if bodyHTML == "" {
					bodyHTML = decoded
				}
			}
		}
	} else if len(msg.Parts) > 0 {
		part := msg.Parts[0]
		decoded, err := DecodeText(part.Body, r.encodings)
		if err != nil {
			r.log.Debug("skipping undecodable body", zap.Error(err))
		} else if part.MediaType == "text/html" {
			bodyHTML = decoded
		} else {
			bodyText = decoded
		}
	}

	if bodyHTML == "" && bodyText != "" && looksLikeHTML(bodyText) {
		bodyHTML = bodyText
		bodyText = ""
	}

	if bodyHTML != "" {
		if bodyText == "" {
			bodyText = sanitize.StripTags(bodyHTML)
		}
		return bodyText, bodyHTML, true
	}
	return bodyText, "", false
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range htmlMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
