package archive

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mbox2html/internal/email"
)

// Extractor writes attachment parts to disk under a per-message directory
// and reports what it wrote. A part that cannot be written is skipped; the
// rest of the message is unaffected.
type Extractor struct {
	root    string // filesystem directory attachments are written under
	dirname string // directory name recorded in archive-relative paths
	log     *zap.Logger
}

func NewExtractor(root, dirname string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{root: root, dirname: dirname, log: log}
}

// Extract persists every attachment-disposition part of msg that declares a
// filename. Attachments only arise from multipart structure; single-part
// messages yield an empty list.
func (e *Extractor) Extract(msg *email.Message, messageID int) []Attachment {
	attachments := []Attachment{}
	if !msg.Multipart {
		return attachments
	}

	for _, part := range msg.Parts {
		if part.Disposition != "attachment" || part.Filename == "" {
			continue
		}

		name := SanitizeFilename(email.DecodeHeader(part.Filename))

		dir := filepath.Join(e.root, strconv.Itoa(messageID))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.log.Warn("could not create attachment directory",
				zap.Int("message_id", messageID),
				zap.Error(err))
			continue
		}

		target := ensureUniqueFilename(filepath.Join(dir, name))
		if err := os.WriteFile(target, part.Body, 0o644); err != nil {
			e.log.Warn("could not save attachment",
				zap.String("filename", name),
				zap.Error(err))
			continue
		}

		// The name on disk may differ from the sanitized name when a
		// duplicate forced a suffix; records always carry the disk name.
		finalName := filepath.Base(target)
		attachments = append(attachments, Attachment{
			Filename: finalName,
			Path:     path.Join(e.dirname, strconv.Itoa(messageID), finalName),
			Size:     len(part.Body),
		})

		e.log.Debug("saved attachment",
			zap.String("filename", finalName),
			zap.String("size", FormatSize(int64(len(part.Body)))))
	}

	return attachments
}

func ensureUniqueFilename(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	ext := filepath.Ext(path)
	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
	return path
}
