package docx

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"hdocx/markup"
)

type RunKind int

const (
	RunText RunKind = iota
	RunBreak
	RunPageBreak
	RunHyperlink
	RunImage
	RunMath
)

// RunProps is character formatting of text run.
type RunProps struct {
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
	Color     string
	VertAlign string
	// Size is in half-points, 0 keeps style default.
	Size int
}

// Drawing is inline picture placement, sizes are in EMU.
type Drawing struct {
	RelID  string
	ID     int
	Width  int64
	Height int64
}

// Run is single inline unit of a paragraph. Text of RunText is kept
// unescaped and escaped on render.
type Run struct {
	Kind  RunKind
	Text  string
	Props RunProps
	// RelID and Children are set for hyperlinks.
	RelID    string
	Children []Run
	Drawing  *Drawing
	// OMML is rendered equation, Display wraps it into equation paragraph.
	OMML    string
	Display bool
}

// Bold returns copy of the run with bold forced on every text it carries.
// Breaks, pictures and equations have no character formatting and are
// returned unchanged.
func (r Run) Bold() Run {
	switch r.Kind {
	case RunText:
		r.Props.Bold = true
	case RunHyperlink:
		children := make([]Run, len(r.Children))
		for i, c := range r.Children {
			children[i] = c.Bold()
		}
		r.Children = children
	}
	return r
}

func (r Run) render(sb *strings.Builder) {
	switch r.Kind {
	case RunText:
		sb.WriteString("<w:r>")
		r.Props.render(sb)
		for i, seg := range strings.Split(r.Text, "\n") {
			if i > 0 {
				sb.WriteString("<w:br/>")
			}
			sb.WriteString(`<w:t xml:space="preserve">`)
			sb.WriteString(markup.Escape(seg))
			sb.WriteString("</w:t>")
		}
		sb.WriteString("</w:r>")
	case RunBreak:
		sb.WriteString("<w:r><w:br/></w:r>")
	case RunPageBreak:
		sb.WriteString(`<w:r><w:br w:type="page"/></w:r>`)
	case RunHyperlink:
		fmt.Fprintf(sb, `<w:hyperlink r:id="%s" w:history="1">`, r.RelID)
		for _, c := range r.Children {
			c.render(sb)
		}
		sb.WriteString("</w:hyperlink>")
	case RunImage:
		if r.Drawing != nil {
			r.Drawing.render(sb)
		}
	case RunMath:
		if r.Display {
			sb.WriteString("<m:oMathPara>")
			sb.WriteString(r.OMML)
			sb.WriteString("</m:oMathPara>")
			return
		}
		sb.WriteString(r.OMML)
	}
}

const (
	codeFonts   = `<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas" w:eastAsia="DengXian"/>`
	codeShading = `<w:shd w:val="clear" w:color="auto" w:fill="F2F2F2"/>`
)

// render writes run properties in schema order, nothing for plain text.
func (p RunProps) render(sb *strings.Builder) {
	if p == (RunProps{}) {
		return
	}
	sb.WriteString("<w:rPr>")
	if p.Code {
		sb.WriteString(codeFonts)
	}
	if p.Bold {
		sb.WriteString("<w:b/>")
	}
	if p.Italic {
		sb.WriteString("<w:i/>")
	}
	if p.Color != "" {
		fmt.Fprintf(sb, `<w:color w:val="%s"/>`, p.Color)
	}
	if p.Size > 0 {
		fmt.Fprintf(sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, p.Size, p.Size)
	}
	if p.Underline {
		sb.WriteString(`<w:u w:val="single"/>`)
	}
	if p.Code {
		sb.WriteString(codeShading)
	}
	if p.VertAlign != "" {
		fmt.Fprintf(sb, `<w:vertAlign w:val="%s"/>`, p.VertAlign)
	}
	sb.WriteString("</w:rPr>")
}

func (d *Drawing) render(sb *strings.Builder) {
	fmt.Fprintf(sb, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:effectExtent l="0" t="0" r="0" b="0"/>`+
		`<wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="%[5]s" noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic xmlns:a="%[5]s"><a:graphicData uri="%[6]s"><pic:pic xmlns:pic="%[6]s">`+
		`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="Picture %[3]d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[4]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		d.Width, d.Height, d.ID, d.RelID, nsDrawingML, nsPicture)
}

// textRun makes text run formatted by context. Illegal characters are
// removed, text is NFC normalized and whitespace collapsed unless context is
// code. Text which is blank
// after that produces no run.
func textRun(text string, ctx Context) (Run, bool) {
	text = norm.NFC.String(strings.ReplaceAll(markup.StripIllegal(text), "\r\n", "\n"))
	if !ctx.Code {
		text = collapseSpace(text)
	}
	if strings.TrimSpace(text) == "" {
		return Run{}, false
	}
	return Run{Kind: RunText, Text: text, Props: ctx.props()}, true
}

// collapseSpace replaces every run of white space with single space without
// trimming.
func collapseSpace(s string) string {
	var (
		sb      strings.Builder
		inSpace bool
	)
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
