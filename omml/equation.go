// Package omml converts formulas into Office Math Markup. MathML trees are
// mapped structurally, TeX sources are transcoded through the same equation
// model, and everything else degrades to cleaned up text.
package omml

import (
	"strings"

	"hdocx/content"
)

type EqKind int

const (
	EqRow EqKind = iota
	EqToken
	EqSup
	EqSub
	EqSubSup
	EqFrac
	EqSqrt
	EqRoot
	EqFenced
	EqOver
	EqUnder
	EqUnderOver
)

// Equation is a node of formula tree. Scripts, fractions and roots keep
// their operands in Args positionally:
//
//	EqSup, EqOver:         base, script
//	EqSub, EqUnder:        base, script
//	EqSubSup, EqUnderOver: base, sub, sup
//	EqFrac:                numerator, denominator
//	EqRoot:                base, degree
//
// Rows, square roots and fenced groups keep their content in Args as well.
type Equation struct {
	Kind  EqKind
	Text  string
	Open  string
	Close string
	Args  []*Equation
}

func Token(text string) *Equation {
	return &Equation{Kind: EqToken, Text: text}
}

// Row groups non-nil items.
func Row(items ...*Equation) *Equation {
	eq := &Equation{Kind: EqRow}
	for _, it := range items {
		if it != nil {
			eq.Args = append(eq.Args, it)
		}
	}
	return eq
}

func node(kind EqKind, args ...*Equation) *Equation {
	return &Equation{Kind: kind, Args: args}
}

// IsEmpty reports equation without any tokens.
func (eq *Equation) IsEmpty() bool {
	if eq == nil {
		return true
	}
	if eq.Kind == EqToken {
		return false
	}
	for _, a := range eq.Args {
		if !a.IsEmpty() {
			return false
		}
	}
	return eq.Kind == EqRow
}

// FromMathML builds equation from MathML element. Nodes with fewer operands
// than their shape requires are flattened into rows.
func FromMathML(n *content.Node) *Equation {
	if n == nil {
		return nil
	}
	if n.IsText() {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			return nil
		}
		return Token(text)
	}

	switch n.Tag {
	case "annotation", "annotation-xml":
		return nil
	case "mi", "mn", "mo", "mtext", "ms":
		return Token(n.TextContent())
	}

	args := operands(n)
	need := map[string]int{
		"msup": 2, "msub": 2, "msubsup": 3, "mfrac": 2, "mroot": 2,
		"mover": 2, "munder": 2, "munderover": 3,
	}[n.Tag]
	if len(args) < need {
		return Row(children(n)...)
	}

	switch n.Tag {
	case "msup":
		return node(EqSup, args[0], args[1])
	case "msub":
		return node(EqSub, args[0], args[1])
	case "msubsup":
		return node(EqSubSup, args[0], args[1], args[2])
	case "mover":
		return node(EqOver, args[0], args[1])
	case "munder":
		return node(EqUnder, args[0], args[1])
	case "munderover":
		return node(EqUnderOver, args[0], args[1], args[2])
	case "mfrac":
		return node(EqFrac, args[0], args[1])
	case "mroot":
		return node(EqRoot, args[0], args[1])
	case "msqrt":
		return node(EqSqrt, Row(children(n)...))
	case "mfenced":
		return &Equation{
			Kind:  EqFenced,
			Open:  "(",
			Close: ")",
			Args:  Row(children(n)...).Args,
		}
	}
	// math, mrow, semantics, mstyle, mpadded and everything unknown
	return Row(children(n)...)
}

// operands returns converted children skipping whitespace only text, so
// positional slots are not shifted by formatting.
func operands(n *content.Node) []*Equation {
	var out []*Equation
	for _, c := range n.Children {
		if c.IsText() && strings.TrimSpace(c.Text) == "" {
			continue
		}
		out = append(out, FromMathML(c))
	}
	return out
}

func children(n *content.Node) []*Equation {
	var out []*Equation
	for _, c := range n.Children {
		if eq := FromMathML(c); eq != nil {
			out = append(out, eq)
		}
	}
	return out
}
