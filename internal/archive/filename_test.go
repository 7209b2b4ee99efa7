package archive

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "unnamed_file"},
		{"simple", "report.pdf", "report.pdf"},
		{"spaces kept", "my report.pdf", "my report.pdf"},
		{"unicode kept", "résumé.pdf", "résumé.pdf"},
		{"separator replaced", "a/b.txt", "a_b.txt"},
		{"backslash replaced", `a\b.txt`, "a_b.txt"},
		{"shell chars replaced", "a;b|c&d.txt", "a_b_c_d.txt"},
		{"only traversal", "..", "unnamed_file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeFilenameTraversal(t *testing.T) {
	got := SanitizeFilename("../../etc/passwd")
	if strings.Contains(got, "..") {
		t.Fatalf("traversal marker survived: %q", got)
	}
	if strings.ContainsAny(got, `/\`) {
		t.Fatalf("path separator survived: %q", got)
	}
	if got == "" {
		t.Fatal("result is empty")
	}
}

func TestSanitizeFilenameTruncation(t *testing.T) {
	t.Run("long name with extension", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("a", 300) + ".txt")
		if len(got) > 255 {
			t.Fatalf("result is %d chars, want <= 255", len(got))
		}
		if !strings.HasSuffix(got, ".txt") {
			t.Fatalf("extension lost: %q", got)
		}
	})

	t.Run("long name without extension", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("b", 300))
		if len(got) != 255 {
			t.Fatalf("result is %d chars, want 255", len(got))
		}
	})

	t.Run("at the limit untouched", func(t *testing.T) {
		in := strings.Repeat("c", 251) + ".txt"
		if got := SanitizeFilename(in); got != in {
			t.Fatalf("255-char name was modified: %q", got)
		}
	})
}
