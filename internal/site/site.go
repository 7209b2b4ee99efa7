package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mbox2html/internal/archive"
)

// Generator writes the browsable archive: one page per email plus an index
// page carrying the embedded search data.
type Generator struct {
	outputDir          string
	emailsDirname      string
	attachmentsDirname string
	log                *zap.Logger
}

func NewGenerator(outputDir, emailsDirname, attachmentsDirname string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		outputDir:          outputDir,
		emailsDirname:      emailsDirname,
		attachmentsDirname: attachmentsDirname,
		log:                log,
	}
}

// Setup creates the archive directory layout.
func (g *Generator) Setup() error {
	for _, dir := range []string{
		g.outputDir,
		filepath.Join(g.outputDir, g.emailsDirname),
		filepath.Join(g.outputDir, g.attachmentsDirname),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	return nil
}

// AttachmentsDir is the filesystem directory attachment payloads belong in.
func (g *Generator) AttachmentsDir() string {
	return filepath.Join(g.outputDir, g.attachmentsDirname)
}

// IndexPath is where the search page ends up.
func (g *Generator) IndexPath() string {
	return filepath.Join(g.outputDir, "index.html")
}

type pageAttachment struct {
	Name string
	Path string
	Size string
}

type pageData struct {
	Subject     string
	From        string
	To          string
	Date        string
	IsHTML      bool
	BodyHTML    template.HTML
	BodyText    template.HTML
	Attachments []pageAttachment
}

// WriteEmailPage renders one record to <emailsDirname>/<id>.html. The HTML
// body arrives already sanitized and is inserted as-is; plain text is
// escaped first and linkified second, so the anchors survive escaping.
func (g *Generator) WriteEmailPage(rec *archive.Email) error {
	data := pageData{
		Subject: rec.Subject,
		From:    rec.From,
		To:      rec.To,
		Date:    rec.Date,
		IsHTML:  rec.IsHTML,
	}
	if rec.IsHTML {
		data.BodyHTML = template.HTML(rec.BodyHTML)
	} else {
		data.BodyText = template.HTML(Linkify(html.EscapeString(rec.BodyText)))
	}
	for _, att := range rec.Attachments {
		data.Attachments = append(data.Attachments, pageAttachment{
			Name: att.Filename,
			Path: "../" + att.Path,
			Size: archive.FormatSize(int64(att.Size)),
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "render email page")
	}

	path := filepath.Join(g.outputDir, g.emailsDirname, fmt.Sprintf("%d.html", rec.ID))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write email page")
	}

	g.log.Debug("wrote email page", zap.Int("id", rec.ID))
	return nil
}

type indexData struct {
	Total  int
	Emails template.JS
}

// WriteIndex renders the search page with the record metadata embedded as
// JSON. encoding/json escapes <, > and & inside strings, which keeps the
// payload inert inside the script element.
func (g *Generator) WriteIndex(records []*archive.Email) error {
	if records == nil {
		records = []*archive.Email{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "marshal search index")
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{Total: len(records), Emails: template.JS(payload)}); err != nil {
		return errors.Wrap(err, "render index page")
	}

	if err := os.WriteFile(g.IndexPath(), buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write index page")
	}

	g.log.Info("wrote index page", zap.Int("emails", len(records)))
	return nil
}
