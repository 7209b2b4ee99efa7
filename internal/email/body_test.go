package email

import (
	"strings"
	"testing"
)

func defaultEncodings() []string {
	return []string{"utf-8", "latin-1"}
}

func TestResolveMultipartPrefersFirstOfEachType(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)
	msg := &Message{
		Multipart: true,
		Parts: []Part{
			{MediaType: "text/plain", Body: []byte("first plain")},
			{MediaType: "text/plain", Body: []byte("second plain")},
			{MediaType: "text/html", Body: []byte("<p>first html</p>")},
			{MediaType: "text/html", Body: []byte("<p>second html</p>")},
		},
	}

	text, html, isHTML := r.Resolve(msg)
	if !isHTML {
		t.Fatal("expected isHTML true")
	}
	if text != "first plain" {
		t.Fatalf("expected first plain part, got %q", text)
	}
	if html != "<p>first html</p>" {
		t.Fatalf("expected first html part, got %q", html)
	}
}

func TestResolveSkipsAttachmentParts(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)
	msg := &Message{
		Multipart: true,
		Parts: []Part{
			{MediaType: "text/plain", Disposition: "attachment", Filename: "log.txt", Body: []byte("attached log")},
			{MediaType: "text/plain", Body: []byte("real body")},
		},
	}

	text, _, isHTML := r.Resolve(msg)
	if isHTML {
		t.Fatal("expected plain message")
	}
	if text != "real body" {
		t.Fatalf("attachment part leaked into body: %q", text)
	}
}

func TestResolveSkipsUndecodablePart(t *testing.T) {
	// utf-8 only: the broken part has no fallback and must be skipped.
	r := NewResolver([]string{"utf-8"}, nil)
	msg := &Message{
		Multipart: true,
		Parts: []Part{
			{MediaType: "text/plain", Body: []byte{0xff, 0xfe, 0xfd}},
			{MediaType: "text/plain", Body: []byte("good part")},
		},
	}

	text, _, _ := r.Resolve(msg)
	if text != "good part" {
		t.Fatalf("expected decodable part to win, got %q", text)
	}
}

func TestResolveSingleLeaf(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)

	t.Run("plain", func(t *testing.T) {
		msg := &Message{Parts: []Part{{MediaType: "text/plain", Body: []byte("hello")}}}
		text, html, isHTML := r.Resolve(msg)
		if isHTML || text != "hello" || html != "" {
			t.Fatalf("unexpected result: %q %q %v", text, html, isHTML)
		}
	})

	t.Run("html", func(t *testing.T) {
		msg := &Message{Parts: []Part{{MediaType: "text/html", Body: []byte("<p>hello</p>")}}}
		text, html, isHTML := r.Resolve(msg)
		if !isHTML {
			t.Fatal("expected isHTML true")
		}
		if html != "<p>hello</p>" {
			t.Fatalf("unexpected html: %q", html)
		}
		if text != "hello" {
			t.Fatalf("expected stripped text, got %q", text)
		}
	})
}

func TestResolveDetectsHTMLInPlaintext(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)

	cases := []struct {
		name string
		body string
	}{
		{"table", "Check this out: <table><tr><td>deal!</td></tr></table>"},
		{"doctype", "<!DOCTYPE html><html><body>hi</body></html>"},
		{"uppercase div", "<DIV>promo</DIV>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := &Message{Parts: []Part{{MediaType: "text/plain", Body: []byte(tc.body)}}}
			_, html, isHTML := r.Resolve(msg)
			if !isHTML {
				t.Fatalf("markers not detected in %q", tc.body)
			}
			if html != tc.body {
				t.Fatalf("html body should be the reclassified text, got %q", html)
			}
		})
	}

	t.Run("plain prose stays plain", func(t *testing.T) {
		msg := &Message{Parts: []Part{{MediaType: "text/plain", Body: []byte("meet me at 3 < 4 pm")}}}
		_, _, isHTML := r.Resolve(msg)
		if isHTML {
			t.Fatal("prose misdetected as HTML")
		}
	})
}

func TestResolveHTMLOnlyDerivesStrippedText(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)
	msg := &Message{
		Multipart: true,
		Parts: []Part{
			{MediaType: "text/html", Body: []byte("<div><p>Only html here</p><script>bad()</script></div>")},
		},
	}

	text, _, isHTML := r.Resolve(msg)
	if !isHTML {
		t.Fatal("expected isHTML true")
	}
	if strings.Contains(text, "<") || strings.Contains(text, "bad()") {
		t.Fatalf("stripped text still has markup: %q", text)
	}
	if !strings.Contains(text, "Only html here") {
		t.Fatalf("stripped text lost content: %q", text)
	}
}

func TestResolveNothingRecoverable(t *testing.T) {
	r := NewResolver(defaultEncodings(), nil)
	msg := &Message{Multipart: true, Parts: []Part{
		{MediaType: "image/png", Body: []byte{1, 2, 3}},
	}}

	text, html, isHTML := r.Resolve(msg)
	if text != "" || html != "" || isHTML {
		t.Fatalf("expected empty result, got %q %q %v", text, html, isHTML)
	}
}
