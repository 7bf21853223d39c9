package docx

import (
	"hdocx/content"
	"hdocx/css"
)

const (
	linkColor = "1D4ED8"
	// BodyWidth is printable width of US Letter page with 1 inch margins, in
	// twips.
	BodyWidth = 9360
	// cellPadding is subtracted from column width to get width available to
	// cell content.
	cellPadding = 240
)

// Context is passed by value down the tree walk. It accumulates inline
// formatting and carries the width available to content. Children get
// modified copies, so nothing leaks to siblings.
type Context struct {
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
	Color     string
	VertAlign string
	FontSize  int
	// MaxWidth is width available to content in twips, 0 when unknown.
	MaxWidth int
	// SkipFormula renders formulas as text.
	SkipFormula bool

	formulas *formulaCache
}

func (c Context) props() RunProps {
	return RunProps{
		Bold:      c.Bold,
		Italic:    c.Italic,
		Underline: c.Underline,
		Code:      c.Code,
		Color:     c.Color,
		VertAlign: c.VertAlign,
		Size:      c.FontSize,
	}
}

// inline returns context extended by formatting of inline element.
func (c Context) inline(n *content.Node) Context {
	switch n.Kind {
	case content.KindStrong:
		c.Bold = true
	case content.KindEmphasis:
		c.Italic = true
	case content.KindUnderline:
		c.Underline = true
	case content.KindCode:
		c.Code = true
	case content.KindSuperscript:
		c.VertAlign = "superscript"
	case content.KindSubscript:
		c.VertAlign = "subscript"
	case content.KindSpan:
		if style, ok := n.Attr("style"); ok {
			c = c.styled(css.ParseDeclarations(style))
		}
	}
	return c
}

func (c Context) styled(decls css.Declarations) Context {
	if decls.Bold() {
		c.Bold = true
	}
	if decls.Italic() {
		c.Italic = true
	}
	if decls.Underline() {
		c.Underline = true
	}
	if color, ok := decls.Color(); ok {
		c.Color = color
	}
	return c
}

// cell returns context for content of table cell of given width. Formulas
// are rendered as text and deduplicated within the cell.
func (c Context) cell(width int) Context {
	c.MaxWidth = max(0, width-cellPadding)
	c.SkipFormula = true
	if c.formulas == nil {
		c.formulas = newFormulaCache()
	}
	return c
}

// formulaCache remembers textual formulas already printed in a table cell.
type formulaCache struct {
	seen map[string]struct{}
}

func newFormulaCache() *formulaCache {
	return &formulaCache{seen: make(map[string]struct{})}
}

// add reports false when text was added before.
func (fc *formulaCache) add(text string) bool {
	if _, ok := fc.seen[text]; ok {
		return false
	}
	fc.seen[text] = struct{}{}
	return true
}
