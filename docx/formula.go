package docx

import (
	"go.uber.org/zap"

	"hdocx/content"
	"hdocx/omml"
)

func (s *Session) formula(el *content.Node, display bool, ctx Context) omml.Result {
	chain := s.formulas
	if ctx.SkipFormula {
		chain = omml.TextChain()
	}
	res := chain.Convert(omml.NewFormula(el, display))
	s.log.Debug("Formula converted", zap.String("strategy", res.Strategy), zap.Bool("display", display))
	return res
}

// fallbackRun is unformatted run with textual formula. Inside table cell the
// same text is printed only once.
func fallbackRun(text string, ctx Context) (Run, bool) {
	r, ok := textRun(text, Context{})
	if !ok {
		return Run{}, false
	}
	if ctx.formulas != nil && !ctx.formulas.add(r.Text) {
		return Run{}, false
	}
	return r, true
}

// inlineFormula places equation directly into paragraph.
func (s *Session) inlineFormula(el *content.Node, display bool, ctx Context) []Run {
	res := s.formula(el, display, ctx)
	if !res.IsText() {
		return []Run{{Kind: RunMath, OMML: res.OMML}}
	}
	if r, ok := fallbackRun(res.Text, ctx); ok {
		return []Run{r}
	}
	return nil
}

// blockFormula renders display formula as equation paragraph.
func (s *Session) blockFormula(el *content.Node, ctx Context) []Block {
	res := s.formula(el, true, ctx)
	if !res.IsText() {
		return []Block{newParagraph(Run{Kind: RunMath, OMML: res.OMML, Display: true})}
	}
	if r, ok := fallbackRun(res.Text, ctx); ok {
		return []Block{newParagraph(r)}
	}
	return nil
}
