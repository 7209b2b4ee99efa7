package archive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"mbox2html/internal/email"
	"mbox2html/internal/mbox"
	"mbox2html/internal/sanitize"
)

// Defaults substituted for absent headers.
const (
	defaultSubject = "(No Subject)"
	defaultAddress = "Unknown"
	defaultDate    = "Unknown Date"
)

type Options struct {
	PreviewLength int
	ProgressEvery int
}

// Summary is the end-of-run report. FirstDate/LastDate bound the archive's
// parseable Date headers and stay zero when none parsed.
type Summary struct {
	Found        int
	Processed    int
	Skipped      int
	Attachments  int
	Sanitization sanitize.Stats
	FirstDate    time.Time
	LastDate     time.Time
}

// Sink receives each completed record in container order. A sink error is
// fatal: unlike a message that fails to parse, a sink that cannot persist
// output means the run as a whole cannot succeed.
type Sink func(*Email) error

// Ingestor drives one sequential pass over a container: resolve bodies,
// sanitize HTML, extract attachments, assemble records. One message is fully
// processed before the next is read.
type Ingestor struct {
	opts      Options
	resolver  *email.Resolver
	sanitizer *sanitize.Sanitizer
	extractor *Extractor
	log       *zap.Logger
}

func NewIngestor(opts Options, resolver *email.Resolver, sanitizer *sanitize.Sanitizer, extractor *Extractor, log *zap.Logger) *Ingestor {
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{
		opts:      opts,
		resolver:  resolver,
		sanitizer: sanitizer,
		extractor: extractor,
		log:       log,
	}
}

// Run processes every message in the container at path. A message that fails
// to parse is logged with its ordinal and skipped; a container that cannot
// be opened or read aborts the run. Cancellation is observed between
// messages, never mid-message, so files already written stay intact.
func (in *Ingestor) Run(ctx context.Context, path string, sink Sink) (*Summary, error) {
	total, err := mbox.Count(path)
	if err != nil {
		return nil, err
	}

	reader, err := mbox.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	in.log.Info("found messages in container", zap.Int("count", total))

	sum := &Summary{Found: total}
	ordinal := 0
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		msg, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, err
		}
		ordinal++

		rec, err := in.ingestOne(msg, ordinal)
		if err != nil {
			sum.Skipped++
			in.log.Warn("skipping message",
				zap.Int("ordinal", ordinal),
				zap.Error(err))
			continue
		}

		if in.opts.ProgressEvery > 0 && (ordinal%in.opts.ProgressEvery == 0 || ordinal == total) {
			in.log.Info("processing",
				zap.String("progress", fmt.Sprintf("%d/%d (%.1f%%)", ordinal, total, float64(ordinal)/float64(total)*100)),
				zap.String("subject", truncateRunes(rec.Subject, 50)))
		}

		if !rec.Timestamp.IsZero() {
			if sum.FirstDate.IsZero() || rec.Timestamp.Before(sum.FirstDate) {
				sum.FirstDate = rec.Timestamp
			}
			if rec.Timestamp.After(sum.LastDate) {
				sum.LastDate = rec.Timestamp
			}
		}
		sum.Attachments += len(rec.Attachments)

		if err := sink(rec); err != nil {
			return sum, err
		}
		sum.Processed++
	}

	sum.Sanitization = in.sanitizer.Stats()
	return sum, nil
}

// ingestOne assembles the record for a single message. The recover keeps a
// pathological message from taking down the whole run; it surfaces as an
// ordinary per-message skip.
func (in *Ingestor) ingestOne(r io.Reader, ordinal int) (rec *Email, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("message %d panicked: %v", ordinal, p)
		}
	}()

	msg, err := email.Parse(r)
	if err != nil {
		return nil, err
	}

	subject := email.DecodeHeader(headerOrDefault(msg.Subject, defaultSubject))
	from := email.DecodeHeader(headerOrDefault(msg.From, defaultAddress))
	to := email.DecodeHeader(headerOrDefault(msg.To, defaultAddress))
	date := headerOrDefault(msg.Date, defaultDate)

	bodyText, bodyHTML, isHTML := in.resolver.Resolve(msg)
	if isHTML {
		bodyHTML = in.sanitizer.Sanitize(bodyHTML)
	}

	return &Email{
		ID:          ordinal,
		Subject:     subject,
		From:        from,
		FromName:    email.ExtractName(from),
		To:          to,
		Date:        date,
		Timestamp:   email.ParseDate(msg.Date),
		BodyText:    bodyText,
		BodyHTML:    bodyHTML,
		IsHTML:      isHTML,
		Preview:     Preview(bodyText, in.opts.PreviewLength),
		Attachments: in.extractor.Extract(msg, ordinal),
	}, nil
}

// Preview bounds text to limit characters with newlines collapsed to spaces,
// appending "..." only when something was cut.
func Preview(text string, limit int) string {
	if limit <= 0 {
		limit = 200
	}
	runes := []rune(text)
	truncated := len(runes) > limit
	if truncated {
		runes = runes[:limit]
	}
	p := strings.NewReplacer("\r", "", "\n", " ").Replace(string(runes))
	p = strings.TrimSpace(p)
	if truncated {
		p += "..."
	}
	return p
}

func headerOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
