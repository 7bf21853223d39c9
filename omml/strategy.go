package omml

import (
	"hdocx/content"
)

// Formula is formula element found in content together with its MathML.
type Formula struct {
	Element *content.Node
	Math    *content.Node
	Display bool
}

// NewFormula locates MathML of the formula element.
func NewFormula(el *content.Node, display bool) Formula {
	return Formula{Element: el, Math: FindMath(el), Display: display}
}

// Result carries either OMML equation or its textual rendition.
type Result struct {
	OMML string
	Text string
	// Strategy names conversion which produced result.
	Strategy string
}

func (r Result) IsText() bool {
	return r.OMML == ""
}

// Strategy is single step of formula conversion. It reports false when it
// cannot handle the formula, so the next strategy is tried.
type Strategy struct {
	Name  string
	Apply func(Formula) (Result, bool)
}

// Chain tries strategies in order and stops at first success.
type Chain []Strategy

// Convert never fails: when no strategy succeeds textual rendition is
// returned.
func (c Chain) Convert(f Formula) Result {
	for _, s := range c {
		if res, ok := s.Apply(f); ok {
			res.Strategy = s.Name
			return res
		}
	}
	res, _ := Textual().Apply(f)
	res.Strategy = "textual"
	return res
}

// Structural maps MathML of the formula with converter.
func Structural(conv Converter) Strategy {
	return Strategy{
		Name: "structural",
		Apply: func(f Formula) (Result, bool) {
			if f.Math == nil || conv == nil {
				return Result{}, false
			}
			out := conv.ConvertMathML(f.Math)
			if out == "" {
				return Result{}, false
			}
			return Result{OMML: out}, true
		},
	}
}

// Transcode parses TeX source of the formula.
func Transcode(m *Mapper) Strategy {
	return Strategy{
		Name: "tex",
		Apply: func(f Formula) (Result, bool) {
			src := TeXSource(f.Element, f.Math)
			if src == "" {
				return Result{}, false
			}
			eq, err := ParseTeX(src)
			if err != nil {
				return Result{}, false
			}
			out := m.Convert(eq)
			if out == "" {
				return Result{}, false
			}
			return Result{OMML: out}, true
		},
	}
}

// Textual renders cleaned and deduplicated text.
func Textual() Strategy {
	return Strategy{
		Name: "textual",
		Apply: func(f Formula) (Result, bool) {
			return Result{Text: Dedupe(FormatFallback(FallbackSource(f.Element, f.Math)))}, true
		},
	}
}

// DefaultChain is structural mapping, optional TeX transcoding and textual
// fallback. Nil converter selects built-in mapper.
func DefaultChain(conv Converter, transcodeTeX bool) Chain {
	m := &Mapper{}
	if conv == nil {
		conv = m
	}
	chain := Chain{Structural(conv)}
	if transcodeTeX {
		chain = append(chain, Transcode(m))
	}
	return append(chain, Textual())
}

// TextChain always renders formulas as text.
func TextChain() Chain {
	return Chain{Textual()}
}
