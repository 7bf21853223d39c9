package opc

import (
	"fmt"
)

// Relationship types.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// StylesRelID is reserved for styles part and never issued by counter.
const StylesRelID = "rIdStyles"

type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships issues ids from single counter in order of creation: rId1,
// rId2 and so on.
type Relationships struct {
	next int
	list []Relationship
}

func NewRelationships() *Relationships {
	return &Relationships{next: 1}
}

// Add registers relationship and returns its id.
func (r *Relationships) Add(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", r.next)
	r.next++
	r.list = append(r.list, Relationship{ID: id, Type: relType, Target: target, External: external})
	return id
}

// List returns issued relationships in order.
func (r *Relationships) List() []Relationship {
	return append([]Relationship(nil), r.list...)
}

func (r *Relationships) Len() int {
	return len(r.list)
}

// PackageRels builds _rels/.rels pointing to main document and properties.
func PackageRels() (string, error) {
	return relsXML([]Relationship{
		{ID: "rId1", Type: RelOfficeDocument, Target: PartDocument},
		{ID: "rId2", Type: RelCoreProps, Target: PartCoreProps},
		{ID: "rId3", Type: RelExtendedProps, Target: PartAppProps},
	}, false)
}

// DocumentRels builds word/_rels/document.xml.rels: styles relationship
// followed by issued ones.
func DocumentRels(rels []Relationship) (string, error) {
	all := make([]Relationship, 0, len(rels)+1)
	all = append(all, Relationship{ID: StylesRelID, Type: RelStyles, Target: "styles.xml"})
	return relsXML(append(all, rels...), true)
}

func relsXML(rels []Relationship, standalone bool) (string, error) {
	doc := newDocument(standalone)
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, rel := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", rel.ID)
		el.CreateAttr("Type", rel.Type)
		el.CreateAttr("Target", rel.Target)
		if rel.External {
			el.CreateAttr("TargetMode", "External")
		}
	}
	return Serialize(doc)
}
