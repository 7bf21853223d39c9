// Package markup keeps generated WordprocessingML well formed: it escapes
// text, repairs stray ampersands without double escaping, prunes empty
// elements and performs cheap structural self-check of the final document.
package markup

import (
	"strings"
)

// IsIllegal reports characters which may not appear in XML 1.0 documents or
// which Word refuses to open: C0 controls except TAB, LF and CR, DEL and C1
// controls except NEL.
func IsIllegal(r rune) bool {
	switch {
	case r <= 0x08, r == 0x0B, r == 0x0C, r >= 0x0E && r <= 0x1F:
		return true
	case r >= 0x7F && r <= 0x84, r >= 0x86 && r <= 0x9F:
		return true
	}
	return false
}

// HasIllegal reports whether s contains any character IsIllegal rejects.
func HasIllegal(s string) bool {
	return strings.IndexFunc(s, IsIllegal) >= 0
}

// StripIllegal removes characters IsIllegal rejects.
func StripIllegal(s string) string {
	if !HasIllegal(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if IsIllegal(r) {
			return -1
		}
		return r
	}, s)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape strips illegal characters and escapes markup reserved ones, so
// result may be placed into element text or attribute value.
func Escape(s string) string {
	return escaper.Replace(StripIllegal(s))
}
