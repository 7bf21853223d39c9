package opc

import (
	"time"

	"github.com/google/uuid"
)

// Properties are document metadata stored in docProps parts.
type Properties struct {
	Title       string
	Creator     string
	Application string
	Created     time.Time
	// Identifier is stored as urn:uuid, zero value means new one is
	// generated.
	Identifier uuid.UUID
}

const w3cdtf = "2006-01-02T15:04:05Z"

// CoreProps builds docProps/core.xml.
func CoreProps(p Properties) (string, error) {
	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}
	id := p.Identifier
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewV7(); err != nil {
			id = uuid.New()
		}
	}

	doc := newDocument(true)
	cp := doc.CreateElement("cp:coreProperties")
	cp.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	cp.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	cp.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	cp.CreateAttr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	cp.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	cp.CreateElement("dc:title").SetText(p.Title)
	cp.CreateElement("dc:creator").SetText(p.Creator)
	cp.CreateElement("cp:lastModifiedBy").SetText(p.Creator)
	cp.CreateElement("dc:identifier").SetText(id.URN())

	stamp := created.UTC().Format(w3cdtf)
	for _, name := range []string{"dcterms:created", "dcterms:modified"} {
		el := cp.CreateElement(name)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}
	return Serialize(doc)
}

// AppProps builds docProps/app.xml.
func AppProps(p Properties) (string, error) {
	doc := newDocument(true)
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	props.CreateAttr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")
	props.CreateElement("Application").SetText(p.Application)
	return Serialize(doc)
}
