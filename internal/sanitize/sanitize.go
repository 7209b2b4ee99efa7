package sanitize

import (
	"regexp"
)

// Rules selects which optional cleanup passes run and carries their
// thresholds. The security passes (scripts, event handlers, javascript:
// hrefs) always run and are not represented here.
type Rules struct {
	StripExternalImages bool
	StripBase64Images   bool
	StripStyles         bool
	StripLinkElements   bool
	StripTrackingPixels bool

	// Base64SizeThreshold is the serialized <img> tag length above which a
	// data:image source is replaced. Tags at or below the threshold stay.
	Base64SizeThreshold int

	// MaxStyleAttrLength is the longest style="..." attribute kept intact;
	// longer ones are reduced to a minimal safe value.
	MaxStyleAttrLength int
}

func DefaultRules() Rules {
	return Rules{
		StripExternalImages: true,
		StripBase64Images:   true,
		StripStyles:         true,
		StripLinkElements:   true,
		StripTrackingPixels: true,
		Base64SizeThreshold: 1000,
		MaxStyleAttrLength:  500,
	}
}

// Stats counts removals across every Sanitize call on one Sanitizer.
// Scripts and StyleBlocks count calls that removed at least one block;
// the image counters count individual elements.
type Stats struct {
	Scripts        int
	ExternalImages int
	Base64Images   int
	StyleBlocks    int
	TrackingPixels int
}

// Sanitizer rewrites email HTML for offline, script-free viewing. It is a
// pure text transform: rules run in a fixed order over the serialized
// markup, and the only side effect is the removal counters.
type Sanitizer struct {
	rules Rules
	stats Stats
}

func New(rules Rules) *Sanitizer {
	return &Sanitizer{rules: rules}
}

const (
	externalImagePlaceholder = `<div style="padding:10px;background:#f0f0f0;border:1px dashed #ccc;text-align:center;color:#666;font-size:12px;border-radius:4px;">🖼️ [External image - not available offline]</div>`
	inlineImagePlaceholder   = `<div style="padding:10px;background:#fff3cd;border:1px dashed #ffc107;text-align:center;color:#856404;font-size:12px;border-radius:4px;">📷 [Inline image removed - prevented HTML bloat]</div>`
	styleAttrReplacement     = `style="max-width:100%;word-wrap:break-word;"`
)

var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	noscriptBlockRe = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	eventHandlerRe  = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*["'][^"']*["']`)
	jsHrefRe        = regexp.MustCompile(`(?i)href\s*=\s*["']javascript:[^"']*["']`)
	externalImgRe   = regexp.MustCompile(`(?i)<img[^>]*src="https?://[^"]*"[^>]*>`)
	base64ImgRe     = regexp.MustCompile(`(?i)<img[^>]*src="data:image/[^"]*"[^>]*>`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	styleAttrRe     = regexp.MustCompile(`(?i)style="[^"]*"`)
	stylesheetRe    = regexp.MustCompile(`(?i)<link[^>]*rel=["']stylesheet["'][^>]*>`)
	linkElementRe   = regexp.MustCompile(`(?i)<link[^>]*>`)
	trackingPixelRe = regexp.MustCompile(`(?i)<img[^>]*(?:width|height)\s*=\s*["']?1(?:px)?["']?[^>]*(?:width|height)\s*=\s*["']?1(?:px)?["']?[^>]*>`)
)

// Sanitize applies the rules in order. Order matters: later rules assume
// the earlier ones already ran (an external 1x1 tracker, say, is handled by
// the external-image pass before the tracking-pixel pass ever sees it).
func (s *Sanitizer) Sanitize(html string) string {
	if html == "" {
		return ""
	}

	html = s.removeScripts(html)
	html = eventHandlerRe.ReplaceAllString(html, "")
	html = jsHrefRe.ReplaceAllString(html, `href="#"`)

	if s.rules.StripExternalImages {
		html = s.replaceExternalImages(html)
	}
	if s.rules.StripBase64Images {
		html = s.replaceOversizedInlineImages(html)
	}
	if s.rules.StripStyles {
		html = s.stripStyles(html)
	}
	if s.rules.StripLinkElements {
		html = stylesheetRe.ReplaceAllString(html, "")
		html = linkElementRe.ReplaceAllString(html, "")
	}
	if s.rules.StripTrackingPixels {
		html = s.removeTrackingPixels(html)
	}

	return html
}

// Stats returns a copy of the accumulated counters.
func (s *Sanitizer) Stats() Stats {
	return s.stats
}

func (s *Sanitizer) ResetStats() {
	s.stats = Stats{}
}

func (s *Sanitizer) removeScripts(html string) string {
	cleaned := scriptBlockRe.ReplaceAllString(html, "")
	cleaned = noscriptBlockRe.ReplaceAllString(cleaned, "")
	if cleaned != html {
		s.stats.Scripts++
	}
	return cleaned
}

func (s *Sanitizer) replaceExternalImages(html string) string {
	return externalImgRe.ReplaceAllStringFunc(html, func(string) string {
		s.stats.ExternalImages++
		return externalImagePlaceholder
	})
}

func (s *Sanitizer) replaceOversizedInlineImages(html string) string {
	return base64ImgRe.ReplaceAllStringFunc(html, func(tag string) string {
		if len(tag) <= s.rules.Base64SizeThreshold {
			return tag
		}
		s.stats.Base64Images++
		return inlineImagePlaceholder
	})
}

func (s *Sanitizer) stripStyles(html string) string {
	cleaned := styleBlockRe.ReplaceAllString(html, "")
	if cleaned != html {
		s.stats.StyleBlocks++
	}
	return styleAttrRe.ReplaceAllStringFunc(cleaned, func(attr string) string {
		if len(attr) <= s.rules.MaxStyleAttrLength {
			return attr
		}
		return styleAttrReplacement
	})
}

func (s *Sanitizer) removeTrackingPixels(html string) string {
	return trackingPixelRe.ReplaceAllStringFunc(html, func(string) string {
		s.stats.TrackingPixels++
		return ""
	})
}
