package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mbox2html/internal/archive"
)

func TestLinkify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no urls", "hello world", "hello world"},
		{
			"http url",
			"see https://example.com/page now",
			`see <a href="https://example.com/page" target="_blank" rel="noopener noreferrer">https://example.com/page</a> now`,
		},
		{
			"www url gets scheme",
			"visit www.example.com today",
			`visit <a href="https://www.example.com" target="_blank" rel="noopener noreferrer">www.example.com</a> today`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Linkify(tc.in); got != tc.want {
				t.Fatalf("Linkify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSetupCreatesLayout(t *testing.T) {
	out := filepath.Join(t.TempDir(), "archive")
	g := NewGenerator(out, "emails", "attachments", nil)

	if err := g.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, dir := range []string{out, filepath.Join(out, "emails"), filepath.Join(out, "attachments")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
	}
	if g.AttachmentsDir() != filepath.Join(out, "attachments") {
		t.Fatalf("unexpected attachments dir: %s", g.AttachmentsDir())
	}
}

func TestWriteEmailPagePlainText(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(out, "emails", "attachments", nil)
	if err := g.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}

	rec := &archive.Email{
		ID:       1,
		Subject:  "Tools < Dies & Parts",
		From:     "alice@example.com",
		To:       "bob@example.com",
		Date:     "Mon, 02 Jan 2006 15:04:05 -0700",
		BodyText: "hello, see https://example.com for more",
	}

	if err := g.WriteEmailPage(rec); err != nil {
		t.Fatalf("write page: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "emails", "1.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, "Tools &lt; Dies &amp; Parts") {
		t.Fatalf("subject not escaped: %s", page)
	}
	if !strings.Contains(page, `<a href="https://example.com"`) {
		t.Fatalf("plain-text url not linkified: %s", page)
	}
	if !strings.Contains(page, `class="body-text"`) {
		t.Fatal("expected plain-text body container")
	}
}

func TestWriteEmailPageHTMLBody(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(out, "emails", "attachments", nil)
	if err := g.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}

	rec := &archive.Email{
		ID:       2,
		Subject:  "newsletter",
		IsHTML:   true,
		BodyHTML: "<p>already <b>sanitized</b></p>",
		Attachments: []archive.Attachment{
			{Filename: "report.pdf", Path: "attachments/2/report.pdf", Size: 2048},
		},
	}

	if err := g.WriteEmailPage(rec); err != nil {
		t.Fatalf("write page: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "emails", "2.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, "<p>already <b>sanitized</b></p>") {
		t.Fatalf("sanitized html was re-escaped: %s", page)
	}
	if !strings.Contains(page, `href="../attachments/2/report.pdf"`) {
		t.Fatalf("attachment link missing: %s", page)
	}
	if !strings.Contains(page, "report.pdf (2.0 KB)") {
		t.Fatalf("attachment label missing: %s", page)
	}
}

func TestWriteIndex(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(out, "emails", "attachments", nil)
	if err := g.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}

	records := []*archive.Email{
		{
			ID: 1, Subject: "first", From: "a@example.com", FromName: "A",
			To: "b@example.com", Date: "today", Preview: "short preview",
			Attachments: []archive.Attachment{},
		},
		{
			ID: 2, Subject: "</script><script>alert(1)</script>", From: "c@example.com",
			FromName: "C", To: "d@example.com", Date: "today", Preview: "p",
			Attachments: []archive.Attachment{},
		},
	}

	if err := g.WriteIndex(records); err != nil {
		t.Fatalf("write index: %v", err)
	}

	data, err := os.ReadFile(g.IndexPath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, `"subject":"first"`) {
		t.Fatalf("index JSON missing record: %s", page)
	}
	if !strings.Contains(page, `<span id="total-emails">2</span>`) {
		t.Fatal("total count missing")
	}
	if strings.Contains(page, "</script><script>alert(1)</script>\"") {
		t.Fatal("script-closing subject embedded unescaped")
	}
}

func TestWriteIndexEmpty(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(out, "emails", "attachments", nil)
	if err := g.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := g.WriteIndex(nil); err != nil {
		t.Fatalf("write empty index: %v", err)
	}
	data, err := os.ReadFile(g.IndexPath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(data), "const emailsData = []") {
		t.Fatalf("expected empty array embed: %s", data)
	}
}
