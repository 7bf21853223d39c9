package content

import "fmt"

// NodeKind is structural classification of a node, computed once when the
// tree is ingested. Converters switch on it instead of re-inspecting tags and
// classes.
type NodeKind int

const (
	KindText NodeKind = iota
	// KindIgnored nodes are purely presentational and never produce output.
	KindIgnored
	// KindAlignFlex is comparison wrapper holding side by side panes.
	KindAlignFlex
	// KindTransparent wrappers are replaced by their children.
	KindTransparent
	KindChunkHeader
	KindFormulaBlock
	KindFormulaInline
	KindParagraph
	KindHeading
	KindList
	KindListItem
	KindTable
	KindTableSection
	KindTableRow
	KindTableCell
	KindPreformatted
	KindBlockquote
	KindImage
	KindRule
	// KindContainer is generic block container: figure, div, section and
	// similar.
	KindContainer
	KindBreak
	KindStrong
	KindEmphasis
	KindUnderline
	KindCode
	KindSuperscript
	KindSubscript
	KindSpan
	KindLink
	// KindOther covers everything else, rendered as paragraph when met at
	// block level and as its content inline.
	KindOther
)

var kindNames = [...]string{
	KindText:          "text",
	KindIgnored:       "ignored",
	KindAlignFlex:     "align-flex",
	KindTransparent:   "transparent",
	KindChunkHeader:   "chunk-header",
	KindFormulaBlock:  "formula-block",
	KindFormulaInline: "formula-inline",
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindList:          "list",
	KindListItem:      "list-item",
	KindTable:         "table",
	KindTableSection:  "table-section",
	KindTableRow:      "table-row",
	KindTableCell:     "table-cell",
	KindPreformatted:  "preformatted",
	KindBlockquote:    "blockquote",
	KindImage:         "image",
	KindRule:          "rule",
	KindContainer:     "container",
	KindBreak:         "break",
	KindStrong:        "strong",
	KindEmphasis:      "emphasis",
	KindUnderline:     "underline",
	KindCode:          "code",
	KindSuperscript:   "superscript",
	KindSubscript:     "subscript",
	KindSpan:          "span",
	KindLink:          "link",
	KindOther:         "other",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

var (
	presentationalClasses = []string{
		"block-toolbar", "align-actions", "align-edit-panel", "splitter",
		"chunk-controls", "chunk-loading", "block-loading",
	}
	transparentClasses = []string{"block-outer", "chunk-pair", "chunk-compare-container"}

	tagKinds = map[string]NodeKind{
		"p":          KindParagraph,
		"h1":         KindHeading,
		"h2":         KindHeading,
		"h3":         KindHeading,
		"h4":         KindHeading,
		"h5":         KindHeading,
		"h6":         KindHeading,
		"ul":         KindList,
		"ol":         KindList,
		"li":         KindListItem,
		"table":      KindTable,
		"thead":      KindTableSection,
		"tbody":      KindTableSection,
		"tfoot":      KindTableSection,
		"tr":         KindTableRow,
		"td":         KindTableCell,
		"th":         KindTableCell,
		"pre":        KindPreformatted,
		"blockquote": KindBlockquote,
		"img":        KindImage,
		"hr":         KindRule,
		"figure":     KindContainer,
		"div":        KindContainer,
		"section":    KindContainer,
		"article":    KindContainer,
		"main":       KindContainer,
		"header":     KindContainer,
		"footer":     KindContainer,
		"br":         KindBreak,
		"strong":     KindStrong,
		"b":          KindStrong,
		"em":         KindEmphasis,
		"i":          KindEmphasis,
		"u":          KindUnderline,
		"code":       KindCode,
		"sup":        KindSuperscript,
		"sub":        KindSubscript,
		"span":       KindSpan,
		"button":     KindIgnored,
		"svg":        KindIgnored,
		"path":       KindIgnored,
		"style":      KindIgnored,
		"script":     KindIgnored,
	}

	blockTags = map[string]bool{
		"p": true, "div": true, "section": true, "article": true, "main": true,
		"header": true, "footer": true, "ul": true, "ol": true, "li": true,
		"table": true, "tr": true, "td": true, "th": true, "blockquote": true,
		"pre": true, "figure": true, "img": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	}
)

// classify determines kind of the element node. Order matters: script and
// style are dropped first, comparison wrappers win over presentational
// classes, formula classes win over tags.
func classify(n *Node) NodeKind {
	if n.Type == TextNode {
		return KindText
	}
	if n.Tag == "style" || n.Tag == "script" {
		return KindIgnored
	}
	if n.HasClass("align-flex") {
		return KindAlignFlex
	}
	for _, c := range presentationalClasses {
		if n.HasClass(c) {
			return KindIgnored
		}
	}
	for _, c := range transparentClasses {
		if n.HasClass(c) {
			return KindTransparent
		}
	}
	if n.HasClass("chunk-header") {
		return KindChunkHeader
	}
	if n.HasClass("katex-display") || n.HasClass("katex-block") {
		return KindFormulaBlock
	}
	if n.HasClass("katex") {
		return KindFormulaInline
	}
	if n.Tag == "a" {
		if _, ok := n.Attr("href"); ok {
			return KindLink
		}
		return KindOther
	}
	if k, ok := tagKinds[n.Tag]; ok {
		return k
	}
	return KindOther
}
