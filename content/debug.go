package content

import (
	"strings"

	"hdocx/utils/debug"
)

// String returns readable dump of the subtree. It exists solely for manual
// inspection during debugging.
func (n *Node) String() string {
	if n == nil {
		return "<nil Node>"
	}
	tw := debug.NewTreeWriter()
	n.dump(tw, 0)
	return tw.String()
}

func (n *Node) dump(tw *debug.TreeWriter, depth int) {
	if n.Type == TextNode {
		if strings.TrimSpace(n.Text) != "" {
			tw.TextBlock(depth, "text", n.Text)
		}
		return
	}
	if len(n.Classes) > 0 {
		tw.Line(depth, "<%s> kind=%s class=%q", n.Tag, n.Kind, strings.Join(n.Classes, " "))
	} else {
		tw.Line(depth, "<%s> kind=%s", n.Tag, n.Kind)
	}
	attrs := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		if k != "class" {
			attrs[k] = abbreviate(v)
		}
	}
	tw.Attrs(depth+1, attrs)
	for _, c := range n.Children {
		c.dump(tw, depth+1)
	}
}

// abbreviate keeps data URIs from flooding the dump.
func abbreviate(v string) string {
	const limit = 64
	if len(v) <= limit {
		return v
	}
	return v[:limit] + "..."
}
