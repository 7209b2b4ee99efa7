package email

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
)

// Part is one leaf of a message's content tree, flattened in document
// order. Body holds the payload with the transfer encoding already undone
// (and converted to UTF-8 when the declared charset was known).
type Part struct {
	MediaType   string
	Disposition string
	Filename    string
	Charset     string
	Body        []byte
}

// Message is the parsed form the pipeline works on: the raw top-level
// headers plus the flattened parts.
type Message struct {
	Subject   string
	From      string
	To        string
	Date      string
	Multipart bool
	Parts     []Part
}

// Parse reads one RFC 822 message. Unknown charsets are tolerated (the
// affected parts keep their raw bytes); structural failures are returned
// to the caller, which treats them as a per-message skip.
func Parse(r io.Reader) (*Message, error) {
	ent, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("read message: %w", err)
	}

	msg := &Message{
		Subject: ent.Header.Get("Subject"),
		From:    ent.Header.Get("From"),
		To:      ent.Header.Get("To"),
		Date:    ent.Header.Get("Date"),
	}
	collectParts(ent, msg)
	return msg, nil
}

// collectParts walks the entity tree depth-first, appending leaves in
// document order. A part whose payload cannot be read is dropped; the
// remaining parts still count.
func collectParts(ent *message.Entity, msg *Message) {
	if mr := ent.MultipartReader(); mr != nil {
		msg.Multipart = true
		for {
			sub, err := mr.NextPart()
			if err == io.EOF {
				return
			}
			if err != nil && !message.IsUnknownCharset(err) {
				// The stream cannot be trusted past a structural error.
				return
			}
			if sub == nil {
				return
			}
			collectParts(sub, msg)
		}
	}

	mediaType, params, err := ent.Header.ContentType()
	if err != nil || mediaType == "" {
		mediaType = "text/plain"
	}
	disp, dispParams, _ := ent.Header.ContentDisposition()

	filename := dispParams["filename"]
	if filename == "" && params != nil {
		filename = params["name"]
	}

	body, err := io.ReadAll(ent.Body)
	if err != nil {
		return
	}

	var cs string
	if params != nil {
		cs = params["charset"]
	}
	msg.Parts = append(msg.Parts, Part{
		MediaType:   strings.ToLower(mediaType),
		Disposition: strings.ToLower(disp),
		Filename:    filename,
		Charset:     cs,
		Body:        body,
	})
}
