package omml

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	ErrUnbalanced  = errors.New("unbalanced group")
	ErrUnsupported = errors.New("unsupported construct")
)

// ParseTeX transcodes TeX formula source into equation. It understands
// scripts, fractions, roots, delimiters, font wrappers, Greek letters,
// common operators and function names. Anything beyond (environments,
// alignment, unknown commands) is reported as error, so caller may fall
// back to textual form.
func ParseTeX(src string) (*Equation, error) {
	p := &texParser{src: src}
	eq, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrUnbalanced, p.src[p.pos], p.pos)
	}
	if eq.IsEmpty() {
		return nil, fmt.Errorf("%w: empty formula", ErrUnsupported)
	}
	return eq, nil
}

type texParser struct {
	src string
	pos int
}

// terminators for expr
const (
	stopNone = iota
	stopBrace
	stopBracket
	stopRight
)

func (p *texParser) expr(stop int) (*Equation, error) {
	row := Row()
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			if stop != stopNone {
				return nil, fmt.Errorf("%w: missing closing delimiter", ErrUnbalanced)
			}
			return row, nil
		}
		c := p.src[p.pos]
		switch {
		case c == '}' && stop == stopBrace:
			p.pos++
			return row, nil
		case c == ']' && stop == stopBracket:
			p.pos++
			return row, nil
		case c == '}':
			return nil, fmt.Errorf("%w: unexpected '}' at %d", ErrUnbalanced, p.pos)
		case stop == stopRight && p.peekCommand() == "right":
			return row, nil
		}

		term, err := p.term()
		if err != nil {
			return nil, err
		}
		if term != nil {
			row.Args = append(row.Args, term)
		}
	}
}

// term parses atom followed by optional scripts.
func (p *texParser) term() (*Equation, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	var sub, sup *Equation
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		c := p.src[p.pos]
		if c != '^' && c != '_' {
			break
		}
		p.pos++
		script, err := p.atom()
		if err != nil {
			return nil, err
		}
		if script == nil {
			return nil, fmt.Errorf("%w: missing script operand", ErrUnbalanced)
		}
		if c == '^' {
			if sup != nil {
				return nil, fmt.Errorf("%w: double superscript", ErrUnsupported)
			}
			sup = script
		} else {
			if sub != nil {
				return nil, fmt.Errorf("%w: double subscript", ErrUnsupported)
			}
			sub = script
		}
	}
	if sub == nil && sup == nil {
		return base, nil
	}
	if base == nil {
		base = Row()
	}
	switch {
	case sub != nil && sup != nil:
		return node(EqSubSup, base, sub, sup), nil
	case sup != nil:
		return node(EqSup, base, sup), nil
	default:
		return node(EqSub, base, sub), nil
	}
}

// atom parses single operand. It may return nil for constructs which produce
// nothing, like \displaystyle.
func (p *texParser) atom() (*Equation, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, nil
	}
	c := p.src[p.pos]
	switch {
	case c == '{':
		p.pos++
		return p.expr(stopBrace)
	case c == '\\':
		return p.command()
	case c == '&' || c == '#' || c == '$':
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, c)
	case c == '\'':
		p.pos++
		return Token("′"), nil
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		return Token(p.src[start:p.pos]), nil
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return Token(string(r)), nil
}

func (p *texParser) command() (*Equation, error) {
	name := p.readCommand()
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: dangling backslash", ErrUnbalanced)
	case name == "frac" || name == "dfrac" || name == "tfrac":
		num, err := p.operand()
		if err != nil {
			return nil, err
		}
		den, err := p.operand()
		if err != nil {
			return nil, err
		}
		return node(EqFrac, num, den), nil
	case name == "sqrt":
		p.skipSpace()
		var degree *Equation
		if p.pos < len(p.src) && p.src[p.pos] == '[' {
			p.pos++
			d, err := p.expr(stopBracket)
			if err != nil {
				return nil, err
			}
			degree = d
		}
		base, err := p.operand()
		if err != nil {
			return nil, err
		}
		if degree != nil {
			return node(EqRoot, base, degree), nil
		}
		return node(EqSqrt, base), nil
	case name == "left":
		open := p.delimiter()
		inner, err := p.expr(stopRight)
		if err != nil {
			return nil, err
		}
		if p.readCommand() != "right" {
			return nil, fmt.Errorf("%w: \\left without \\right", ErrUnbalanced)
		}
		return &Equation{Kind: EqFenced, Open: open, Close: p.delimiter(), Args: inner.Args}, nil
	case name == "right":
		return nil, fmt.Errorf("%w: \\right without \\left", ErrUnbalanced)
	case name == "begin" || name == "end" || name == "\\":
		return nil, fmt.Errorf("%w: \\%s", ErrUnsupported, name)
	case name == "displaystyle" || name == "textstyle" || name == "!":
		return nil, nil
	case spacing[name]:
		return Token(" "), nil
	case textual[name]:
		text, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return Token(text), nil
	case wrappers[name]:
		return p.operand()
	case name == "{" || name == "}":
		return Token(name), nil
	case functions[name]:
		return Token(name), nil
	}
	if g, ok := escapes[name]; ok {
		return Token(g), nil
	}
	if g, ok := symbol(name); ok {
		return Token(g), nil
	}
	return nil, fmt.Errorf("%w: \\%s", ErrUnsupported, name)
}

// operand is mandatory argument of a command: braced group or single atom.
func (p *texParser) operand() (*Equation, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: missing argument", ErrUnbalanced)
	}
	// \frac12 takes digits one at a time
	if c := p.src[p.pos]; c >= '0' && c <= '9' {
		p.pos++
		return Token(string(c)), nil
	}
	return p.atom()
}

// rawGroup returns verbatim content of braced group, or of single character
// when argument is not braced.
func (p *texParser) rawGroup() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("%w: missing argument", ErrUnbalanced)
	}
	if p.src[p.pos] != '{' {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
		return string(r), nil
	}
	depth := 0
	for i := p.pos; i < len(p.src); i++ {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				text := p.src[p.pos+1 : i]
				p.pos = i + 1
				return text, nil
			}
		}
	}
	return "", fmt.Errorf("%w: missing closing brace", ErrUnbalanced)
}

// delimiter reads delimiter following \left or \right. "." means none.
func (p *texParser) delimiter() string {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return ""
	}
	if p.src[p.pos] == '\\' {
		name := p.readCommand()
		switch name {
		case "{", "lbrace":
			return "{"
		case "}", "rbrace":
			return "}"
		case "|", "Vert":
			return "‖"
		}
		if g, ok := symbol(name); ok {
			return g
		}
		return ""
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	if r == '.' {
		return ""
	}
	return string(r)
}

// readCommand consumes backslash and command name: run of letters or single
// non letter character.
func (p *texParser) readCommand() string {
	if p.pos >= len(p.src) || p.src[p.pos] != '\\' {
		return ""
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start && p.pos < len(p.src) {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *texParser) peekCommand() string {
	save := p.pos
	name := p.readCommand()
	p.pos = save
	return name
}

func (p *texParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
