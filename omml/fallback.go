package omml

import (
	"strings"
	"unicode/utf8"

	"hdocx/content"
)

const texEncoding = "application/x-tex"

// FindMath returns MathML element of formula: the element itself or its first
// math descendant.
func FindMath(el *content.Node) *content.Node {
	if el == nil {
		return nil
	}
	if el.Tag == "math" {
		return el
	}
	return el.Find(content.ByTag("math"))
}

func texAnnotation(el *content.Node) string {
	ann := el.Find(func(n *content.Node) bool {
		return n.IsElement() && n.Tag == "annotation" && n.AttrOr("encoding", "") == texEncoding
	})
	if ann == nil {
		return ""
	}
	return normalizeSpace(ann.TextContent())
}

// TeXSource returns TeX source of formula: TeX annotation of MathML, original
// text attribute or, when there is no MathML at all, text of the element.
func TeXSource(el, math *content.Node) string {
	if el == nil {
		return ""
	}
	if tex := texAnnotation(el); tex != "" {
		return tex
	}
	if v := normalizeSpace(el.AttrOr("data-original-text", "")); v != "" {
		return v
	}
	if math == nil {
		return normalizeSpace(el.TextContent())
	}
	return ""
}

// FallbackSource selects raw text for textual rendition: TeX annotation,
// original text attribute, MathML text, element text, whichever comes first.
func FallbackSource(el, math *content.Node) string {
	if el == nil {
		return ""
	}
	if tex := texAnnotation(el); tex != "" {
		return tex
	}
	if v := normalizeSpace(el.AttrOr("data-original-text", "")); v != "" {
		return v
	}
	if math != nil {
		if v := normalizeSpace(math.TextContent()); v != "" {
			return v
		}
	}
	return normalizeSpace(el.TextContent())
}

// FallbackText is complete textual rendition of formula element.
func FallbackText(el *content.Node) string {
	return FormatFallback(FallbackSource(el, FindMath(el)))
}

// FormatFallback turns TeX source into readable plain text: letters and
// operators become glyphs, fractions and roots get linear form, font
// wrappers and sizing delimiters disappear and any other command is reduced
// to its name. Result never contains backslashes or braces.
func FormatFallback(text string) string {
	s := normalizeSpace(text)
	if s == "" {
		return ""
	}
	s = cleanTeX(s)
	s = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, s)
	return normalizeSpace(s)
}

func cleanTeX(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			i++
			continue
		}

		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		if j == i+1 {
			// control symbol
			if j >= len(s) {
				break
			}
			r, size := utf8.DecodeRuneInString(s[j:])
			name := string(r)
			i = j + size
			switch {
			case spacing[name], name == "\\":
				sb.WriteByte(' ')
			default:
				sb.WriteString(escapes[name])
			}
			continue
		}

		name := s[i+1 : j]
		i = j
		switch {
		case name == "left" || name == "right":
			for i < len(s) && s[i] == ' ' {
				i++
			}
			if i < len(s) && s[i] == '.' {
				i++
			}
		case name == "frac" || name == "dfrac" || name == "tfrac":
			var num, den string
			num, i = group(s, i)
			den, i = group(s, i)
			sb.WriteString(parenthesize(cleanTeX(num)) + "/" + parenthesize(cleanTeX(den)))
		case name == "sqrt":
			var deg, arg string
			if k := skipSpaces(s, i); k < len(s) && s[k] == '[' {
				if end := strings.IndexByte(s[k:], ']'); end > 0 {
					deg, i = s[k+1:k+end], k+end+1
				}
			}
			arg, i = group(s, i)
			sb.WriteString(cleanTeX(deg) + "√" + parenthesize(cleanTeX(arg)))
		case textual[name] || wrappers[name] || spacing[name]:
			if spacing[name] {
				sb.WriteByte(' ')
			}
			// argument follows as group, braces are dropped later
		default:
			if g, ok := symbol(name); ok {
				sb.WriteString(g)
			} else {
				sb.WriteString(name)
			}
		}
	}
	return sb.String()
}

// group returns content of braced group or single character starting at i
// (after optional spaces) and position following it.
func group(s string, i int) (string, int) {
	i = skipSpaces(s, i)
	if i >= len(s) {
		return "", i
	}
	if s[i] != '{' {
		if s[i] == '\\' {
			j := i + 1
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			if j == i+1 && j < len(s) {
				j++
			}
			return s[i:j], j
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		return s[i : i+size], i + size
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1
			}
		}
	}
	return s[i+1:], len(s)
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func parenthesize(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	return "(" + s + ")"
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
