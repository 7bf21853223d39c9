package docx

import (
	"fmt"
	"strings"

	"hdocx/content"
)

const (
	headerShading = "F8FAFF"
	tableBorders  = `<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:color="D9D9D9"/>` +
		`<w:left w:val="single" w:sz="4" w:color="D9D9D9"/>` +
		`<w:bottom w:val="single" w:sz="4" w:color="D9D9D9"/>` +
		`<w:right w:val="single" w:sz="4" w:color="D9D9D9"/>` +
		`<w:insideH w:val="single" w:sz="4" w:color="E5E7EB"/>` +
		`<w:insideV w:val="single" w:sz="4" w:color="E5E7EB"/>` +
		`</w:tblBorders>`
)

// Cell is table cell with its content.
type Cell struct {
	Width  int
	Header bool
	Blocks []Block
}

// Table is fixed layout table, all widths are in twips.
type Table struct {
	Width int
	Grid  []int
	Rows  [][]Cell
}

func (t *Table) render(sb *strings.Builder) {
	sb.WriteString("<w:tbl><w:tblPr>")
	fmt.Fprintf(sb, `<w:tblStyle w:val="TableGrid"/><w:tblW w:w="%d" w:type="dxa"/>`, t.Width)
	sb.WriteString(tableBorders)
	sb.WriteString(`<w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	for _, w := range t.Grid {
		fmt.Fprintf(sb, `<w:gridCol w:w="%d"/>`, w)
	}
	sb.WriteString("</w:tblGrid>")
	for _, row := range t.Rows {
		sb.WriteString("<w:tr>")
		for _, c := range row {
			c.render(sb)
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
}

func (c *Cell) render(sb *strings.Builder) {
	fmt.Fprintf(sb, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, c.Width)
	if c.Header {
		fmt.Fprintf(sb, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, headerShading)
	}
	sb.WriteString("</w:tcPr>")
	for _, b := range c.Blocks {
		b.render(sb)
	}
	// cell must end with paragraph
	if len(c.Blocks) == 0 {
		emptyParagraph().render(sb)
	} else if _, ok := c.Blocks[len(c.Blocks)-1].(*Table); ok {
		emptyParagraph().render(sb)
	}
	sb.WriteString("</w:tc>")
}

func (t *Table) bold() Block {
	out := &Table{Width: t.Width, Grid: t.Grid, Rows: make([][]Cell, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = make([]Cell, len(row))
		for j, c := range row {
			out.Rows[i][j] = Cell{Width: c.Width, Header: c.Header, Blocks: boldBlocks(c.Blocks)}
		}
	}
	return out
}

// indent keeps tables in place, only paragraphs are indented.
func (t *Table) indent(int) Block {
	return t
}

func boldBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.bold()
	}
	return out
}

// tableWidth is context width limited by body width.
func tableWidth(ctx Context) int {
	if ctx.MaxWidth > 0 {
		return min(BodyWidth, ctx.MaxWidth)
	}
	return BodyWidth
}

// equalGrid splits width into n equal columns. Division remainder is left
// unused, so columns never add up to more than the width.
func equalGrid(width, n int) []int {
	n = max(n, 1)
	grid := make([]int, n)
	for i := range grid {
		grid[i] = width / n
	}
	return grid
}

// tableRows collects rows of the table including ones inside row groups, but
// not rows of nested tables.
func tableRows(table *content.Node) [][]*content.Node {
	var rows [][]*content.Node
	for _, c := range table.Elements() {
		switch c.Kind {
		case content.KindTableRow:
			rows = append(rows, rowCells(c))
		case content.KindTableSection:
			for _, r := range c.Elements() {
				if r.Kind == content.KindTableRow {
					rows = append(rows, rowCells(r))
				}
			}
		}
	}
	return rows
}

func rowCells(row *content.Node) []*content.Node {
	var cells []*content.Node
	for _, c := range row.Elements() {
		if c.Kind == content.KindTableCell {
			cells = append(cells, c)
		}
	}
	return cells
}

func (s *Session) convertTable(el *content.Node, ctx Context) *Table {
	return s.buildTable(tableRows(el), ctx)
}

// buildTable lays rows out on grid of equal columns, their number is the
// largest number of cells in a row.
func (s *Session) buildTable(rows [][]*content.Node, ctx Context) *Table {
	cols := 1
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	width := tableWidth(ctx)
	grid := equalGrid(width, cols)

	t := &Table{Width: width, Grid: grid, Rows: make([][]Cell, 0, len(rows))}
	for _, r := range rows {
		cells := make([]Cell, 0, len(r))
		for _, c := range r {
			cells = append(cells, s.convertCell(c, grid[0], ctx))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// convertCell converts cell content with width reduced by padding. Header
// cell content is made bold.
func (s *Session) convertCell(el *content.Node, width int, ctx Context) Cell {
	blocks := s.convertContainer(el, ctx.cell(width))
	header := el.Tag == "th"
	if header {
		blocks = boldBlocks(blocks)
	}
	return Cell{Width: width, Header: header, Blocks: blocks}
}
