package archive

import (
	"regexp"
	"strings"
)

const (
	unnamedFile    = "unnamed_file"
	maxFilenameLen = 255
)

var unsafeFilenameRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.-]`)

// SanitizeFilename normalizes an attachment name into something safe to
// write under the archive directory. Traversal sequences go first, then the
// character-class filter; the result is never empty and never contains a
// path separator. Names over 255 characters are truncated with the final
// extension preserved.
func SanitizeFilename(name string) string {
	if name == "" {
		return unnamedFile
	}

	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, `\`, "_")
	name = unsafeFilenameRe.ReplaceAllString(name, "_")

	if strings.TrimSpace(name) == "" {
		return unnamedFile
	}

	if len(name) > maxFilenameLen {
		name = truncateWithExtension(name)
	}

	return name
}

func truncateWithExtension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return name[:maxFilenameLen]
	}

	ext := name[dot+1:]
	keep := maxFilenameLen - len(ext) - 1
	if keep < 1 {
		// Extension alone blows the limit; plain truncation is all that's left.
		return name[:maxFilenameLen]
	}

	stem := name[:dot]
	if len(stem) > keep {
		stem = stem[:keep]
	}
	return stem + "." + ext
}
