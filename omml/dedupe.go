package omml

import (
	"slices"
	"strings"
	"unicode"
)

// invisible spacing characters which make visually identical fallbacks
// differ.
func isInvisible(r rune) bool {
	return r >= 0x2000 && r <= 0x200B || r == 0x202F || r == 0x205F || r == 0x2060
}

// Dedupe collapses repetitions typical for formulas extracted together with
// their rendered copies: the whole string repeated, or short phrases
// repeated back to back.
func Dedupe(s string) string {
	s = strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, s)
	s = dedupeWhole(s)
	for range 3 {
		next := dedupePhrases(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// dedupeWhole returns single copy when string consists of a unit of at least
// 8 characters repeated, or of two or three equal parts.
func dedupeWhole(s string) string {
	rs := []rune(s)
	n := len(rs)
	for unit := 8; unit <= n/2; unit++ {
		if n%unit == 0 && isRepetition(rs, unit) {
			return string(rs[:unit])
		}
	}
	for _, parts := range []int{2, 3} {
		if n > 0 && n%parts == 0 && isRepetition(rs, n/parts) {
			return string(rs[:n/parts])
		}
	}
	return s
}

func isRepetition(rs []rune, unit int) bool {
	for i := unit; i < len(rs); i += unit {
		if !slices.Equal(rs[:unit], rs[i:i+unit]) {
			return false
		}
	}
	return true
}

func isPhraseRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) ||
		strings.ContainsRune(".-±×·≤≥≠∞°%", r)
}

type span struct{ start, end int }

// dedupePhrases replaces phrase of one to five tokens immediately followed
// by whitespace separated copies of itself with single phrase, scanning left
// to right and preferring longest phrase.
func dedupePhrases(s string) string {
	rs := []rune(s)

	// tokens are maximal runs of phrase runes
	var tokens []span
	for i := 0; i < len(rs); {
		if !isPhraseRune(rs[i]) {
			i++
			continue
		}
		j := i
		for j < len(rs) && isPhraseRune(rs[j]) {
			j++
		}
		tokens = append(tokens, span{i, j})
		i = j
	}

	var (
		sb   strings.Builder
		last int
	)
	for t := 0; t < len(tokens); {
		matched := false
		for k := min(5, len(tokens)-t); k >= 1 && !matched; k-- {
			if !separatedBySpace(rs, tokens[t:t+k]) {
				continue
			}
			phrase := rs[tokens[t].start:tokens[t+k-1].end]
			end := tokens[t+k-1].end
			repeats := 0
			for {
				next := skipSpace(rs, end)
				if next == end || next+len(phrase) > len(rs) || !slices.Equal(rs[next:next+len(phrase)], phrase) {
					break
				}
				after := next + len(phrase)
				if after < len(rs) && isPhraseRune(rs[after]) {
					break
				}
				end = after
				repeats++
			}
			if repeats == 0 {
				continue
			}
			sb.WriteString(string(rs[last:tokens[t].start]))
			sb.WriteString(string(phrase))
			last = end
			for t < len(tokens) && tokens[t].start < end {
				t++
			}
			matched = true
		}
		if !matched {
			t++
		}
	}
	if last == 0 {
		return s
	}
	sb.WriteString(string(rs[last:]))
	return sb.String()
}

// separatedBySpace reports tokens separated only by whitespace.
func separatedBySpace(rs []rune, tokens []span) bool {
	for i := 1; i < len(tokens); i++ {
		gap := rs[tokens[i-1].end:tokens[i].start]
		if len(gap) == 0 {
			return false
		}
		for _, r := range gap {
			if !unicode.IsSpace(r) {
				return false
			}
		}
	}
	return true
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}
