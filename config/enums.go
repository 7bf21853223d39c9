package config

import (
	"errors"
	"fmt"
	"strings"
)

// Formula rendering modes.
// ENUM(omml, text)
type MathMode int

const (
	// MathModeOmml converts formulas into native Word equations.
	MathModeOmml MathMode = iota
	// MathModeText always renders the cleaned textual form of a formula.
	MathModeText
)

var ErrInvalidMathMode = errors.New("not a valid MathMode")

var mathModeNames = []string{"omml", "text"}

// MathModeNames returns a list of possible string values of MathMode.
func MathModeNames() []string {
	out := make([]string, len(mathModeNames))
	copy(out, mathModeNames)
	return out
}

func (x MathMode) String() string {
	if x.IsValid() {
		return mathModeNames[x]
	}
	return fmt.Sprintf("MathMode(%d)", x)
}

// IsValid provides a quick way to determine if the typed value is part of the
// allowed enumerated values.
func (x MathMode) IsValid() bool {
	return x >= 0 && int(x) < len(mathModeNames)
}

// ParseMathMode attempts to convert a string to a MathMode.
func ParseMathMode(name string) (MathMode, error) {
	for i, n := range mathModeNames {
		if strings.EqualFold(n, name) {
			return MathMode(i), nil
		}
	}
	return MathMode(0), fmt.Errorf("%s is %w", name, ErrInvalidMathMode)
}

func (x MathMode) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

func (x *MathMode) UnmarshalText(text []byte) error {
	tmp, err := ParseMathMode(string(text))
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}
