package archive

import (
	"fmt"
	"time"
)

// Email is the normalized record produced for one message. The JSON tags
// shape the search index embedded in the generated index page; the bodies
// never reach the index and are cleared once the message's page is written.
type Email struct {
	ID          int          `json:"id"`
	Subject     string       `json:"subject"`
	From        string       `json:"from"`
	FromName    string       `json:"from_name"`
	To          string       `json:"to"`
	Date        string       `json:"date"`
	Timestamp   time.Time    `json:"-"`
	BodyText    string       `json:"-"`
	BodyHTML    string       `json:"-"`
	IsHTML      bool         `json:"-"`
	Preview     string       `json:"preview"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment records one file written to disk for its owning Email. Path is
// relative to the archive root, always forward-slashed.
type Attachment struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
}

// FormatSize renders a byte count for humans: "500.0 B", "2.0 KB", "5.0 MB".
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}
