package css

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/colornames"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw       string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value     float64 // Numeric value if applicable
	Unit      string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword   string  // Keyword if applicable: "bold", "italic", "center", etc.
	Important bool
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declarations maps lower-cased property names to their values.
type Declarations map[string]Value

// Bold reports font-weight of bold, bolder or numeric weight of 700 and more.
func (d Declarations) Bold() bool {
	v, ok := d["font-weight"]
	if !ok {
		return false
	}
	switch v.Keyword {
	case "bold", "bolder":
		return true
	}
	return v.IsNumeric() && v.Unit == "" && v.Value >= 700
}

// Italic reports font-style of italic or oblique.
func (d Declarations) Italic() bool {
	v, ok := d["font-style"]
	return ok && (v.Keyword == "italic" || strings.HasPrefix(v.Keyword, "oblique"))
}

// Underline reports text-decoration (or text-decoration-line) containing
// underline.
func (d Declarations) Underline() bool {
	for _, name := range []string{"text-decoration", "text-decoration-line"} {
		if v, ok := d[name]; ok && strings.Contains(strings.ToLower(v.Raw), "underline") {
			return true
		}
	}
	return false
}

// Color returns value of color property as upper-case RRGGBB hex string.
func (d Declarations) Color() (string, bool) {
	v, ok := d["color"]
	if !ok {
		return "", false
	}
	return ParseColor(v.Raw)
}

// Pixels returns length of the named property in CSS pixels. Percentages,
// font relative units and keywords are not lengths for our purposes.
func (d Declarations) Pixels(name string) (float64, bool) {
	v, ok := d[name]
	if !ok || !v.IsNumeric() {
		return 0, false
	}
	switch v.Unit {
	case "", "px":
		return v.Value, true
	case "pt":
		return v.Value * 96 / 72, true
	case "in":
		return v.Value * 96, true
	case "cm":
		return v.Value * 96 / 2.54, true
	case "mm":
		return v.Value * 96 / 25.4, true
	}
	return 0, false
}

// ParseColor accepts #rgb, #rrggbb, rgb() and rgba() functions and named
// colors, returning upper-case RRGGBB. Alpha is ignored.
func ParseColor(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}

	if hex, found := strings.CutPrefix(s, "#"); found {
		switch len(hex) {
		case 3, 4:
			if !isHex(hex) {
				return "", false
			}
			return strings.ToUpper(string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})), true
		case 6, 8:
			if !isHex(hex) {
				return "", false
			}
			return strings.ToUpper(hex[:6]), true
		}
		return "", false
	}

	if args, found := strings.CutPrefix(s, "rgba("); found {
		return parseRGB(args)
	}
	if args, found := strings.CutPrefix(s, "rgb("); found {
		return parseRGB(args)
	}

	if c, ok := colornames.Map[s]; ok {
		return hexOf(c), true
	}
	return "", false
}

func parseRGB(args string) (string, bool) {
	args, found := strings.CutSuffix(args, ")")
	if !found {
		return "", false
	}
	args = strings.ReplaceAll(args, "/", " ")
	parts := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if len(parts) < 3 {
		return "", false
	}
	var rgb [3]uint8
	for i := range 3 {
		p := parts[i]
		var (
			f   float64
			err error
		)
		if pct, isPct := strings.CutSuffix(p, "%"); isPct {
			f, err = strconv.ParseFloat(pct, 64)
			f = f * 255 / 100
		} else {
			f, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return "", false
		}
		rgb[i] = uint8(min(max(f+0.5, 0), 255))
	}
	return hexOf(color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}), true
}

func hexOf(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func isHex(s string) bool {
	for _, r := range s {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return false
		}
	}
	return true
}
