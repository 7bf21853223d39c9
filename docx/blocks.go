package docx

import (
	"strconv"
	"strings"

	"hdocx/content"
)

// convertBlock converts node met at block level.
func (s *Session) convertBlock(n *content.Node, ctx Context) []Block {
	switch n.Kind {
	case content.KindText:
		if r, ok := textRun(strings.TrimSpace(collapseSpace(n.Text)), Context{}); ok {
			return []Block{newParagraph(r)}
		}
		return nil
	case content.KindIgnored:
		return nil
	case content.KindAlignFlex:
		return s.convertAlignFlex(n, ctx)
	case content.KindTransparent, content.KindTableSection:
		return s.convertChildren(n.Children, ctx)
	case content.KindChunkHeader:
		return chunkHeader(n)
	case content.KindFormulaBlock:
		return s.blockFormula(n, ctx)
	case content.KindFormulaInline:
		return []Block{newParagraph(s.inlineFormula(n, false, ctx)...)}
	case content.KindParagraph, content.KindListItem, content.KindOther:
		return []Block{s.paragraph(n.Children, ctx)}
	case content.KindHeading:
		p := s.paragraph(n.Children, ctx)
		p.Props.Style = headingStyle(n.Level)
		return []Block{p}
	case content.KindList:
		return s.convertList(n, ctx, 1)
	case content.KindTable:
		return []Block{s.convertTable(n, ctx)}
	case content.KindTableRow:
		return []Block{s.buildTable([][]*content.Node{rowCells(n)}, ctx)}
	case content.KindTableCell:
		return []Block{s.buildTable([][]*content.Node{{n}}, ctx)}
	case content.KindPreformatted:
		next := ctx
		next.Code = true
		p := s.paragraph(n.Children, next)
		p.Props.Shading = "F2F2F2"
		return []Block{p}
	case content.KindBlockquote:
		return s.convertBlockquote(n, ctx)
	case content.KindImage:
		return []Block{imageParagraph(s.imageRun(n, ctx))}
	case content.KindRule:
		return []Block{ruleParagraph()}
	case content.KindContainer:
		return s.convertContainer(n, ctx)
	}
	// inline element standing alone keeps its own formatting
	return []Block{s.paragraph([]*content.Node{n}, ctx)}
}

func (s *Session) convertChildren(nodes []*content.Node, ctx Context) []Block {
	var blocks []Block
	for _, n := range nodes {
		blocks = append(blocks, s.convertBlock(n, ctx)...)
	}
	return blocks
}

func (s *Session) paragraph(nodes []*content.Node, ctx Context) *Paragraph {
	return newParagraph(s.convertInline(nodes, ctx)...)
}

// convertContainer makes single paragraph of container which has no block
// level children, otherwise converts every child on its own. Wrappers never
// produce empty paragraphs this way.
func (s *Session) convertContainer(el *content.Node, ctx Context) []Block {
	for _, c := range el.Children {
		if c.IsBlock() {
			return s.convertChildren(el.Children, ctx)
		}
	}
	return []Block{s.paragraph(el.Children, ctx)}
}

func (s *Session) convertBlockquote(el *content.Node, ctx Context) []Block {
	blocks := s.convertContainer(el, ctx)
	for i, b := range blocks {
		blocks[i] = b.indent(quoteIndent)
	}
	return blocks
}

// convertList renders every item as indented paragraph starting with bullet
// or number. Nested lists follow their item one level deeper.
func (s *Session) convertList(el *content.Node, ctx Context, depth int) []Block {
	ordered := el.Tag == "ol"
	start := 1
	if v, err := strconv.Atoi(strings.TrimSpace(el.AttrOr("start", ""))); err == nil {
		start = v
	}

	var blocks []Block
	for i, item := range el.Elements() {
		marker := "• "
		if ordered {
			marker = strconv.Itoa(start+i) + ". "
		}

		var inline, nested []*content.Node
		for _, c := range item.Children {
			if c.Kind == content.KindList {
				nested = append(nested, c)
				continue
			}
			inline = append(inline, c)
		}

		runs := append([]Run{{Kind: RunText, Text: marker}}, s.convertInline(inline, ctx)...)
		p := newParagraph(runs...)
		p.Props.IndentLeft = listIndent * depth
		p.Props.After = listAfter
		blocks = append(blocks, p)

		for _, l := range nested {
			blocks = append(blocks, s.convertList(l, ctx, depth+1)...)
		}
	}
	return blocks
}

// chunkHeader turns chunk title and statistics line into headings.
func chunkHeader(el *content.Node) []Block {
	var blocks []Block
	if h := el.Find(content.ByTag("h4")); h != nil {
		if r, ok := textRun(strings.TrimSpace(h.TextContent()), Context{Bold: true}); ok {
			p := newParagraph(r)
			p.Props.Style = headingStyle(2)
			blocks = append(blocks, p)
		}
	}
	if st := el.Find(content.ByClass("chunk-stats")); st != nil {
		if r, ok := textRun(strings.TrimSpace(collapseSpace(st.TextContent())), Context{Italic: true}); ok {
			p := newParagraph(r)
			p.Props.Style = headingStyle(3)
			blocks = append(blocks, p)
		}
	}
	return blocks
}
