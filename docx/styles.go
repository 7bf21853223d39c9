package docx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

type headingDef struct {
	before int
	size   int
}

var headingDefs = [headingStyles]headingDef{
	{before: 240, size: 32},
	{before: 200, size: 28},
	{before: 160, size: 26},
	{before: 160, size: 24},
	{before: 120, size: 22},
	{before: 120, size: 20},
}

const bodyTextSize = 21

func setVal(parent *etree.Element, tag, val string) *etree.Element {
	el := parent.CreateElement(tag)
	el.CreateAttr("w:val", val)
	return el
}

func setSize(rpr *etree.Element, size int) {
	v := strconv.Itoa(size)
	setVal(rpr, "w:sz", v)
	setVal(rpr, "w:szCs", v)
}

func setFonts(rpr *etree.Element) {
	fonts := rpr.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", "Calibri")
	fonts.CreateAttr("w:hAnsi", "Calibri")
	fonts.CreateAttr("w:eastAsia", "DengXian")
	fonts.CreateAttr("w:cs", "Calibri")
}

func setSpacing(ppr *etree.Element, before, after int) {
	sp := ppr.CreateElement("w:spacing")
	if before > 0 {
		sp.CreateAttr("w:before", strconv.Itoa(before))
	}
	sp.CreateAttr("w:after", strconv.Itoa(after))
}

func newStyle(styles *etree.Element, kind, id, name string) *etree.Element {
	st := styles.CreateElement("w:style")
	st.CreateAttr("w:type", kind)
	st.CreateAttr("w:styleId", id)
	setVal(st, "w:name", name)
	return st
}

// Styles builds styles part: document defaults, Normal, Title, six heading
// levels and grid table style.
func Styles() (string, error) {
	doc := newXMLDocument()
	styles := doc.CreateElement("w:styles")
	styles.CreateAttr("xmlns:w", nsWordML)

	defaults := styles.CreateElement("w:docDefaults")
	rpr := defaults.CreateElement("w:rPrDefault").CreateElement("w:rPr")
	setFonts(rpr)
	setSize(rpr, bodyTextSize)
	setSpacing(defaults.CreateElement("w:pPrDefault").CreateElement("w:pPr"), 0, defaultAfter)

	normal := newStyle(styles, "paragraph", "Normal", "Normal")
	normal.CreateAttr("w:default", "1")
	normal.CreateElement("w:qFormat")
	setSpacing(normal.CreateElement("w:pPr"), 0, defaultAfter)
	rpr = normal.CreateElement("w:rPr")
	setFonts(rpr)
	setSize(rpr, bodyTextSize)

	title := newStyle(styles, "paragraph", "Title", "Title")
	setVal(title, "w:basedOn", "Normal")
	setVal(title, "w:next", "Normal")
	setVal(title, "w:uiPriority", "1")
	title.CreateElement("w:qFormat")
	ppr := title.CreateElement("w:pPr")
	ppr.CreateElement("w:keepNext")
	ppr.CreateElement("w:keepLines")
	setSpacing(ppr, 240, defaultAfter)
	setVal(ppr, "w:jc", "center")
	rpr = title.CreateElement("w:rPr")
	rpr.CreateElement("w:b")
	setSize(rpr, 40)

	for i, def := range headingDefs {
		h := newStyle(styles, "paragraph", headingStyle(i+1), fmt.Sprintf("heading %d", i+1))
		setVal(h, "w:basedOn", "Normal")
		setVal(h, "w:next", "Normal")
		setVal(h, "w:uiPriority", "9")
		h.CreateElement("w:qFormat")
		ppr := h.CreateElement("w:pPr")
		ppr.CreateElement("w:keepNext")
		ppr.CreateElement("w:keepLines")
		setSpacing(ppr, def.before, 0)
		setVal(ppr, "w:outlineLvl", strconv.Itoa(i))
		rpr := h.CreateElement("w:rPr")
		rpr.CreateElement("w:b")
		setSize(rpr, def.size)
	}

	grid := newStyle(styles, "table", "TableGrid", "Table Grid")
	setVal(grid, "w:basedOn", "TableNormal")
	setVal(grid, "w:uiPriority", "59")
	tpr := grid.CreateElement("w:tblPr")
	borders := tpr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", "auto")
	}
	mar := tpr.CreateElement("w:tblCellMar")
	for _, side := range []string{"left", "right"} {
		m := mar.CreateElement("w:" + side)
		m.CreateAttr("w:w", "108")
		m.CreateAttr("w:type", "dxa")
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize styles: %w", err)
	}
	return out, nil
}
