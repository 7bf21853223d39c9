package docx

import (
	"fmt"
	"strconv"

	"hdocx/opc"
)

const (
	footerTarget   = "footer1.xml"
	footerTextSize = 18
)

// footer builds footer part with centered italic brand text and registers
// its relationship.
func (s *Session) footer() (xml, relID string, err error) {
	doc := newXMLDocument()
	ftr := doc.CreateElement("w:ftr")
	ftr.CreateAttr("xmlns:w", nsWordML)
	ftr.CreateAttr("xmlns:r", nsOfficeRels)

	p := ftr.CreateElement("w:p")
	ppr := p.CreateElement("w:pPr")
	ppr.CreateElement("w:spacing").CreateAttr("w:after", "0")
	ppr.CreateElement("w:jc").CreateAttr("w:val", "center")

	r := p.CreateElement("w:r")
	rpr := r.CreateElement("w:rPr")
	rpr.CreateElement("w:i")
	size := strconv.Itoa(footerTextSize)
	rpr.CreateElement("w:sz").CreateAttr("w:val", size)
	rpr.CreateElement("w:szCs").CreateAttr("w:val", size)
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(s.cfg.BrandText)

	xml, err = doc.WriteToString()
	if err != nil {
		return "", "", fmt.Errorf("unable to serialize footer: %w", err)
	}
	return xml, s.rels.Add(opc.RelFooter, footerTarget, false), nil
}

// sectionProperties describes US Letter page with one inch margins. Footer
// reference, when present, precedes page settings as schema requires.
func sectionProperties(footerID string) string {
	var ref string
	if footerID != "" {
		ref = fmt.Sprintf(`<w:footerReference w:type="default" r:id="%s"/>`, footerID)
	}
	return `<w:sectPr>` + ref +
		`<w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`</w:sectPr>`
}
