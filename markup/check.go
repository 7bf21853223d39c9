package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrEmpty         = errors.New("xml content is empty")
	ErrNoDeclaration = errors.New("xml declaration is missing")
	ErrNoRoot        = errors.New("document root element is missing or not closed")
	ErrNoBody        = errors.New("body element is missing or not closed")
	ErrIllegalChar   = errors.New("illegal xml control character")
	ErrUnbalanced    = errors.New("unbalanced markup")
	ErrUnescapedAmp  = errors.New("unescaped ampersand in text")
)

var criticalTags = []string{"w:document", "w:body"}

// Check performs structural self-check of assembled document part. It does
// not parse the document, so it is cheap enough to run on every conversion.
// All discovered problems are reported together.
func Check(xml string) error {
	if len(xml) == 0 {
		return ErrEmpty
	}

	var err error
	if !strings.Contains(xml, "<?xml") {
		err = multierr.Append(err, ErrNoDeclaration)
	}
	if !strings.Contains(xml, "<w:document") || !strings.Contains(xml, "</w:document>") {
		err = multierr.Append(err, ErrNoRoot)
	}
	if !strings.Contains(xml, "<w:body>") || !strings.Contains(xml, "</w:body>") {
		err = multierr.Append(err, ErrNoBody)
	}
	if pos := strings.IndexFunc(xml, IsIllegal); pos >= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: 0x%x at offset %d", ErrIllegalChar, xml[pos], pos))
	}
	for _, tag := range criticalTags {
		opened := countOpen(xml, tag)
		closed := strings.Count(xml, "</"+tag+">")
		if opened != closed {
			err = multierr.Append(err, fmt.Errorf("%w: tag %s (opened %d, closed %d)", ErrUnbalanced, tag, opened, closed))
		}
	}
	if lt, gt := strings.Count(xml, "<"), strings.Count(xml, ">"); lt != gt {
		err = multierr.Append(err, fmt.Errorf("%w: %d '<' vs %d '>'", ErrUnbalanced, lt, gt))
	}
	if frag := FindUnescapedAmp(xml); len(frag) > 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrUnescapedAmp, frag))
	}
	return err
}

// CheckBasic is the light check for auxiliary package parts.
func CheckBasic(xml, name string) error {
	if len(xml) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	var err error
	if !strings.Contains(xml, "<?xml") {
		err = multierr.Append(err, fmt.Errorf("%s: %w", name, ErrNoDeclaration))
	}
	if HasIllegal(xml) {
		err = multierr.Append(err, fmt.Errorf("%s: %w", name, ErrIllegalChar))
	}
	return err
}

// countOpen counts opening tags, either followed by '>' or by attributes.
func countOpen(xml, tag string) int {
	open := "<" + tag
	n := 0
	for rest := xml; ; {
		i := strings.Index(rest, open)
		if i < 0 {
			return n
		}
		rest = rest[i+len(open):]
		if len(rest) > 0 && (rest[0] == '>' || rest[0] == ' ') {
			n++
		}
	}
}

var reText = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)

// FindUnescapedAmp returns first text element containing raw '&' which does
// not start a character reference, or empty string.
func FindUnescapedAmp(xml string) string {
	for _, m := range reText.FindAllStringSubmatchIndex(xml, -1) {
		if hasRawAmp(xml[m[2]:m[3]]) {
			return xml[m[0]:m[1]]
		}
	}
	return ""
}

func hasRawAmp(text string) bool {
	for i := strings.IndexByte(text, '&'); i >= 0; {
		tail := text[i+1:]
		if !startsReference(tail) {
			return true
		}
		j := strings.IndexByte(tail, '&')
		if j < 0 {
			return false
		}
		i += 1 + j
	}
	return false
}

func startsReference(s string) bool {
	for _, p := range []string{"amp;", "lt;", "gt;", "quot;", "apos;", "#"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
