// Package content ingests exported HTML into a read-only tree of classified
// nodes which the document converter walks.
package content

import (
	"slices"
	"strings"
)

type NodeType uint8

const (
	TextNode NodeType = iota
	ElementNode
)

// Node is either text or element. Element carries lower-cased tag, its
// attributes, class list and ordered children.
type Node struct {
	Type     NodeType
	Kind     NodeKind
	Tag      string
	Text     string
	Attrs    map[string]string
	Classes  []string
	Children []*Node
	Parent   *Node
	// Level is heading level 1-6 for KindHeading, 0 otherwise.
	Level int
}

// NewText creates detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Kind: KindText, Text: text}
}

// NewElement creates detached element node and classifies it. Class
// attribute, if present, is split into class list.
func NewElement(tag string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag), Attrs: attrs}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Classes = strings.Fields(n.Attrs["class"])
	for _, c := range children {
		n.Append(c)
	}
	n.Kind = classify(n)
	if n.Kind == KindHeading {
		n.Level = int(n.Tag[1] - '0')
	}
	return n
}

// Append adds child to the end of children list.
func (n *Node) Append(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// HasClass reports class list membership.
func (n *Node) HasClass(class string) bool {
	return n != nil && slices.Contains(n.Classes, class)
}

// Attr returns attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrOr returns attribute value or def when attribute is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// IsBlock reports elements which force generic container to be flattened
// into separate blocks.
func (n *Node) IsBlock() bool {
	return n.IsElement() && blockTags[n.Tag]
}

// Elements returns element children in document order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.Type == TextNode {
			sb.WriteString(c.Text)
			continue
		}
		c.writeText(sb)
	}
}

// Find returns first descendant (not the node itself) in document order
// satisfying the predicate.
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all descendants satisfying the predicate in document order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walk visits descendants depth first, skipping subtree of a node when fn
// returns false.
func (n *Node) walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if fn(c) {
			c.walk(fn)
		}
	}
}

// ByTag matches elements with given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.IsElement() && n.Tag == tag }
}

// ByClass matches elements having given class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool { return n.IsElement() && n.HasClass(class) }
}

// ByKind matches nodes of given kind.
func ByKind(kind NodeKind) func(*Node) bool {
	return func(n *Node) bool { return n.Kind == kind }
}

// replace substitutes node with another one in its parent's children list.
func (n *Node) replace(with *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			with.Parent = p
			p.Children[i] = with
			n.Parent = nil
			return
		}
	}
}
