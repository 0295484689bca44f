// Package content holds the text and file-name transformations applied to
// user submitted listings before they are stored.
package content

import (
	"crypto/rand"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/oklog/ulid/v2"
)

const redacted = "[hidden]"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)
	// 8+ digits, optionally prefixed with + and separated by spaces, dots or dashes
	phonePattern = regexp.MustCompile(`\+?\d(?:[\s.\-]?\d){7,}`)
	spaces       = regexp.MustCompile(`\s+`)
)

// Sanitize strips every HTML tag and returns the visible text on a single
// line, with every whitespace run collapsed to one space.
func Sanitize(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		doc.Find("script, style").Remove()
		text = doc.Text()
	}
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}

// MaskSensitive redacts emails, links and phone numbers
func MaskSensitive(text string) string {
	text = emailPattern.ReplaceAllString(text, redacted)
	text = urlPattern.ReplaceAllString(text, redacted)
	return phonePattern.ReplaceAllString(text, redacted)
}

// Prepare runs the description pipeline: sanitize, then mask.
func Prepare(text string) string {
	return MaskSensitive(Sanitize(text))
}

// IsArabic reports whether more than half of the runes fall in U+0600..U+06FF
func IsArabic(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return false
	}
	arabic := 0
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	return float64(arabic)/float64(total) > 0.5
}

// ImageName builds a collision resistant object name: a ULID (millisecond
// timestamp + 80 random bits) followed by the original lowercase extension.
func ImageName(original string, now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	return strings.ToLower(id.String()) + strings.ToLower(filepath.Ext(original))
}

// Initials masks an email address as the uppercase initials of its local
// part, e.g. "jane.doe@x.io" -> "JD". Empty input yields "YY".
func Initials(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	var b strings.Builder
	n := 0
	for _, p := range parts {
		r, _ := utf8.DecodeRuneInString(p)
		b.WriteRune(r)
		n++
		if n == 2 {
			break
		}
	}
	if n == 0 {
		return "YY"
	}
	if n == 1 && utf8.RuneCountInString(local) > 1 {
		_, size := utf8.DecodeRuneInString(local)
		r, _ := utf8.DecodeRuneInString(local[size:])
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
