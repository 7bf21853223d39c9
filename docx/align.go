package docx

import (
	"strings"
	"unicode"

	"hdocx/content"
)

type pairLayout int

const (
	pairSideBySide pairLayout = iota
	// pairStacked puts panes one under another, so tables and pictures are
	// not squeezed into half of the page.
	pairStacked
)

// convertAlignFlex renders comparison wrapper. Single pane is rendered as
// is, two panes holding tables or only pictures are stacked in two rows of
// single column table, anything else becomes one row with a column per pane.
func (s *Session) convertAlignFlex(el *content.Node, ctx Context) []Block {
	var panes []*content.Node
	for _, c := range el.Elements() {
		if c.HasClass("align-block") {
			panes = append(panes, c)
		}
	}

	switch len(panes) {
	case 0:
		return s.convertContainer(el, ctx)
	case 1:
		width := ctx.MaxWidth
		if width <= 0 {
			width = BodyWidth
		}
		return s.convertPane(panes[0], width, ctx)
	case 2:
		if classifyPair(panes[0], panes[1]) == pairStacked {
			return []Block{s.stackedPanes(panes[0], panes[1], ctx)}
		}
	}
	return []Block{s.sideBySidePanes(panes, ctx)}
}

func classifyPair(left, right *content.Node) pairLayout {
	if left.HasClass("table-pair") || right.HasClass("table-pair") {
		return pairStacked
	}
	lc, rc := paneContent(left), paneContent(right)
	if hasTable(lc) || hasTable(rc) {
		return pairStacked
	}
	if imageOnly(lc) || imageOnly(rc) {
		return pairStacked
	}
	return pairSideBySide
}

func paneContent(pane *content.Node) *content.Node {
	return pane.Find(content.ByClass("align-content"))
}

func hasTable(n *content.Node) bool {
	return n != nil && n.Find(content.ByKind(content.KindTable)) != nil
}

// imageOnly reports pane with pictures and no visible text.
func imageOnly(n *content.Node) bool {
	if n == nil || hasTable(n) || n.Find(content.ByKind(content.KindImage)) == nil {
		return false
	}
	return strings.IndexFunc(n.TextContent(), func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

func (s *Session) stackedPanes(top, bottom *content.Node, ctx Context) *Table {
	width := tableWidth(ctx)
	inner := max(0, width-cellPadding)
	return &Table{
		Width: width,
		Grid:  []int{width},
		Rows: [][]Cell{
			{{Width: width, Blocks: s.convertPane(top, inner, ctx)}},
			{{Width: width, Blocks: s.convertPane(bottom, inner, ctx)}},
		},
	}
}

func (s *Session) sideBySidePanes(panes []*content.Node, ctx Context) *Table {
	width := tableWidth(ctx)
	grid := equalGrid(width, len(panes))
	row := make([]Cell, 0, len(panes))
	for _, p := range panes {
		row = append(row, Cell{
			Width:  grid[0],
			Header: p.Tag == "th",
			Blocks: s.convertPane(p, max(0, grid[0]-cellPadding), ctx),
		})
	}
	return &Table{Width: width, Grid: grid, Rows: [][]Cell{row}}
}

// convertPane renders optional bold title of the pane followed by its
// content laid out at given width.
func (s *Session) convertPane(pane *content.Node, width int, ctx Context) []Block {
	var blocks []Block
	if title := paneTitle(pane); title != "" {
		if r, ok := textRun(title, Context{Bold: true}); ok {
			blocks = append(blocks, newParagraph(r))
		}
	}
	if body := paneContent(pane); body != nil {
		next := ctx
		if width > 0 {
			next.MaxWidth = width
		}
		blocks = append(blocks, s.convertChildren(body.Children, next)...)
	}
	if len(blocks) == 0 {
		blocks = append(blocks, emptyParagraph())
	}
	return blocks
}

func paneTitle(pane *content.Node) string {
	for _, t := range pane.FindAll(content.ByClass("align-title")) {
		if span := t.Find(content.ByTag("span")); span != nil {
			return strings.TrimSpace(span.TextContent())
		}
	}
	return ""
}
