package markup

import (
	"regexp"
	"strings"
)

// Placeholders use characters StripIllegal removes, so they never clash with
// document content.
const (
	markNamed   = "\x01"
	markDecimal = "\x06"
	markHex     = "\x07"
)

var (
	reNamedEntity   = regexp.MustCompile(`&(amp|lt|gt|quot|apos);`)
	reDecimalEntity = regexp.MustCompile(`&#([0-9]+);`)
	reHexEntity     = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)

	reNamedMark   = regexp.MustCompile(markNamed + `([a-z]+)` + markNamed)
	reDecimalMark = regexp.MustCompile(markDecimal + `([0-9]+)` + markDecimal)
	reHexMark     = regexp.MustCompile(markHex + `([0-9a-fA-F]+)` + markHex)

	reEmptyText     = regexp.MustCompile(`<w:t(?:\s[^>]*)?></w:t>`)
	reEmptyRun      = regexp.MustCompile(`<w:r>\s*(?:<w:rPr/>|<w:rPr>(?:<[^>]*/>)*</w:rPr>)?\s*</w:r>`)
	reBlankPara     = regexp.MustCompile(`(<w:p(?:\s[^>]*)?>)((?:<w:pPr/>|<w:pPr>(?:<[^>]*/>|<w:[A-Za-z]+>(?:<[^>]*/>)*</w:[A-Za-z]+>)*</w:pPr>)?)<w:r>(?:<w:rPr/>|<w:rPr>(?:<[^>]*/>)*</w:rPr>)?<w:t(?:\s[^>]*)?>\s*</w:t></w:r>(</w:p>)`)
	reEmptyMath     = regexp.MustCompile(`<m:oMath>\s*</m:oMath>`)
	reEmptyMathPara = regexp.MustCompile(`<m:oMathPara>\s*</m:oMathPara>`)
)

// FixAmpersands escapes every raw '&' which does not start a well formed
// named or numeric character reference. Already escaped content is left
// intact, so applying it repeatedly is safe.
func FixAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	s = reNamedEntity.ReplaceAllString(s, markNamed+"${1}"+markNamed)
	s = reDecimalEntity.ReplaceAllString(s, markDecimal+"${1}"+markDecimal)
	s = reHexEntity.ReplaceAllString(s, markHex+"${1}"+markHex)

	s = strings.ReplaceAll(s, "&", "&amp;")

	s = reNamedMark.ReplaceAllString(s, "&${1};")
	s = reDecimalMark.ReplaceAllString(s, "&#${1};")
	s = reHexMark.ReplaceAllString(s, "&#x${1};")
	return s
}

// Prune removes elements which carry nothing: empty text, runs left without
// content and empty equations. Whitespace only text is kept since it
// separates neighbouring runs, unless it is the only run of a paragraph.
// Paragraphs themselves are never removed. Passes repeat until nothing
// changes, since removing one element may leave its parent empty.
func Prune(s string) string {
	for {
		pruned := prune(s)
		if pruned == s {
			return s
		}
		s = pruned
	}
}

func prune(s string) string {
	s = reEmptyText.ReplaceAllString(s, "")
	s = reEmptyRun.ReplaceAllString(s, "")
	s = reEmptyMath.ReplaceAllString(s, "")
	s = reEmptyMathPara.ReplaceAllString(s, "")
	s = reBlankPara.ReplaceAllString(s, "${1}${2}${3}")
	return s
}

// Sanitize is the final pass over assembled document body. The result has no
// illegal characters and no unescaped ampersands, and Sanitize(Sanitize(s))
// equals Sanitize(s).
func Sanitize(s string) string {
	return Prune(FixAmpersands(StripIllegal(s)))
}
