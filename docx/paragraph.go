package docx

import (
	"fmt"
	"strings"
)

// Block is top level body element: paragraph or table.
type Block interface {
	render(sb *strings.Builder)
	// bold forces bold on every text run inside the block.
	bold() Block
	// indent shifts paragraphs of the block to the right.
	indent(twips int) Block
}

// renderBlocks concatenates markup of blocks.
func renderBlocks(blocks ...Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		b.render(&sb)
	}
	return sb.String()
}

const (
	// noSpacing omits spacing element.
	noSpacing     = -1
	defaultAfter  = 160
	listAfter     = 120
	quoteIndent   = 720
	listIndent    = 720
	headingStyles = 6
)

var outlineLevels = map[string]int{
	"Heading1": 0,
	"Heading2": 1,
	"Heading3": 2,
	"Heading4": 3,
	"Heading5": 4,
	"Heading6": 5,
}

func headingStyle(level int) string {
	return fmt.Sprintf("Heading%d", min(max(level, 1), headingStyles))
}

// Border is paragraph border, all sides or bottom only.
type Border struct {
	Color      string
	Size       int
	Space      int
	BottomOnly bool
}

// ParaProps is paragraph formatting. Zero Before, IndentLeft and IndentRight
// are omitted, After is omitted when set to noSpacing.
type ParaProps struct {
	Style       string
	Border      *Border
	Shading     string
	Before      int
	After       int
	IndentLeft  int
	IndentRight int
	Align       string
}

// Paragraph is paragraph block. Paragraph without runs renders as empty one.
type Paragraph struct {
	Props ParaProps
	Runs  []Run
}

func newParagraph(runs ...Run) *Paragraph {
	return &Paragraph{Props: ParaProps{After: defaultAfter}, Runs: runs}
}

func (p *Paragraph) render(sb *strings.Builder) {
	sb.WriteString("<w:p>")
	p.Props.render(sb)
	for _, r := range p.Runs {
		r.render(sb)
	}
	sb.WriteString("</w:p>")
}

func (p *Paragraph) bold() Block {
	out := &Paragraph{Props: p.Props, Runs: make([]Run, len(p.Runs))}
	for i, r := range p.Runs {
		out.Runs[i] = r.Bold()
	}
	return out
}

func (p *Paragraph) indent(twips int) Block {
	out := &Paragraph{Props: p.Props, Runs: p.Runs}
	out.Props.IndentLeft += twips
	return out
}

// render writes paragraph properties in schema order.
func (p ParaProps) render(sb *strings.Builder) {
	var b strings.Builder
	if p.Style != "" {
		fmt.Fprintf(&b, `<w:pStyle w:val="%s"/>`, p.Style)
	}
	if p.Border != nil {
		p.Border.render(&b)
	}
	if p.Shading != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, p.Shading)
	}
	if p.Before > 0 || p.After >= 0 {
		b.WriteString("<w:spacing")
		if p.Before > 0 {
			fmt.Fprintf(&b, ` w:before="%d"`, p.Before)
		}
		if p.After >= 0 {
			fmt.Fprintf(&b, ` w:after="%d"`, p.After)
		}
		b.WriteString("/>")
	}
	if p.IndentLeft > 0 || p.IndentRight > 0 {
		b.WriteString("<w:ind")
		if p.IndentLeft > 0 {
			fmt.Fprintf(&b, ` w:left="%d"`, p.IndentLeft)
		}
		if p.IndentRight > 0 {
			fmt.Fprintf(&b, ` w:right="%d"`, p.IndentRight)
		}
		b.WriteString("/>")
	}
	if p.Align != "" {
		fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, p.Align)
	}
	if lvl, ok := outlineLevels[p.Style]; ok {
		fmt.Fprintf(&b, `<w:outlineLvl w:val="%d"/>`, lvl)
	}
	if b.Len() == 0 {
		return
	}
	sb.WriteString("<w:pPr>")
	sb.WriteString(b.String())
	sb.WriteString("</w:pPr>")
}

func (b *Border) render(sb *strings.Builder) {
	sides := []string{"top", "left", "bottom", "right"}
	if b.BottomOnly {
		sides = []string{"bottom"}
	}
	sb.WriteString("<w:pBdr>")
	for _, side := range sides {
		fmt.Fprintf(sb, `<w:%s w:val="single" w:sz="%d" w:space="%d" w:color="%s"/>`, side, b.Size, b.Space, b.Color)
	}
	sb.WriteString("</w:pBdr>")
}

// emptyParagraph is used where markup requires paragraph but there is no
// content.
func emptyParagraph() *Paragraph {
	return newParagraph()
}

// placeholderParagraph replaces block which failed to convert.
const placeholderParagraph = `<w:p><w:pPr><w:spacing w:after="0"/></w:pPr></w:p>`

func ruleParagraph() *Paragraph {
	p := newParagraph()
	p.Props.Border = &Border{Color: "D9D9D9", Size: 4, Space: 1, BottomOnly: true}
	return p
}

func pageBreakParagraph() *Paragraph {
	return &Paragraph{Props: ParaProps{After: noSpacing}, Runs: []Run{{Kind: RunPageBreak}}}
}
