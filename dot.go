package cellgraph

import (
	"fmt"
	"io"

	"github.com/valyala/quicktemplate"
)

// WriteDOT renders the current graph as a Graphviz DOT digraph: one node
// per live cell (shaped by kind, labeled with its current value), one
// edge per live link, dep -> sub matching the direction a write
// propagates in. It builds the document into a pooled buffer rather
// than writing straight to w, the same buffer-reuse idiom
// quicktemplate's generated renderers use for their own output.
func (g *Graph) WriteDOT(w io.Writer) error {
	bb := quicktemplate.AcquireByteBuffer()
	defer quicktemplate.ReleaseByteBuffer(bb)

	cells, _ := g.Snapshot()

	fmt.Fprintf(bb, "digraph cellgraph {\n")
	for _, c := range cells {
		fmt.Fprintf(bb, "  %q [shape=%s label=%q];\n", c.ID, dotShape(c.Kind), dotLabel(c))
	}
	for i := range g.links {
		l := &g.links[i]
		if l.dep.isNil() && l.sub.isNil() {
			continue // freed slot
		}
		fmt.Fprintf(bb, "  \"%d.%d\" -> \"%d.%d\";\n", l.dep.idx, l.dep.gen, l.sub.idx, l.sub.gen)
	}
	fmt.Fprintf(bb, "}\n")

	_, err := w.Write(bb.B)
	return err
}

func dotShape(k CellKind) string {
	switch k {
	case KindSource:
		return "box"
	case KindEffect:
		return "doublecircle"
	default:
		return "ellipse"
	}
}

func dotLabel(c CellInfo) string {
	name := c.Label
	if name == "" {
		name = c.ID
	}
	return fmt.Sprintf("%s\\n%v [%s]", name, c.Value, c.Flags)
}
