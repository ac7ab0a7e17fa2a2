package cellgraph

import "fmt"

// CellKind is the exported form of a cell's kind bit, for diagnostics.
type CellKind string

const (
	KindSource  CellKind = "source"
	KindDerived CellKind = "derived"
	KindEffect  CellKind = "effect"
)

// CellInfo is a read-only snapshot of one cell, for diagnostic tooling
// (cmd/cellgraph-inspect, cmd/cellgraph-trace). It never aliases the
// live cellRecord: mutating a CellInfo has no effect on the graph.
type CellInfo struct {
	ID    string
	Label string
	Kind  CellKind
	Flags string
	Value any
	Depth uint32
	Deps  int
	Subs  int
}

// LinkInfo is a read-only snapshot of one edge.
type LinkInfo struct {
	Dep string
	Sub string
}

// Snapshot walks the whole arena and returns every live cell and link.
// It's O(n) and meant for diagnostics, not for anything on a hot path.
func (g *Graph) Snapshot() (cells []CellInfo, links []LinkInfo) {
	for i := range g.cells {
		rec := &g.cells[i]
		if rec.flags.kind() == 0 {
			continue // freed slot
		}
		id := cellID{idx: uint32(i + 1), gen: rec.gen}
		cells = append(cells, g.describeCell(id, rec))
	}

	for i := range g.links {
		l := &g.links[i]
		if l.dep.isNil() && l.sub.isNil() {
			continue // freed slot
		}
		links = append(links, LinkInfo{Dep: cellLabel(g, l.dep), Sub: cellLabel(g, l.sub)})
	}
	return cells, links
}

func (g *Graph) describeCell(id cellID, rec *cellRecord) CellInfo {
	kind := KindSource
	switch {
	case rec.isDerived():
		kind = KindDerived
	case rec.isEffect():
		kind = KindEffect
	}

	deps := 0
	for l := rec.depsHead; l != nilLink; l = g.linkRec(l).nextDep {
		deps++
	}
	subs := 0
	for l := rec.subsHead; l != nilLink; l = g.linkRec(l).nextSub {
		subs++
	}

	return CellInfo{
		ID:    fmt.Sprintf("%d.%d", id.idx, id.gen),
		Label: rec.label,
		Kind:  kind,
		Flags: describeFlags(rec.flags),
		Value: rec.value,
		Depth: rec.depth,
		Deps:  deps,
		Subs:  subs,
	}
}

func describeFlags(f flags) string {
	var s string
	for bit, name := range map[flags]string{
		stateStale:     "stale",
		statePending:   "pending",
		stateRunning:   "running",
		stateQueued:    "queued",
		stateRecursive: "recursive",
	} {
		if f.has(bit) {
			if s != "" {
				s += ","
			}
			s += name
		}
	}
	if s == "" {
		return "clean"
	}
	return s
}

func cellLabel(g *Graph, id cellID) string {
	rec := g.cell(id)
	if rec == nil {
		return "<disposed>"
	}
	if rec.label != "" {
		return rec.label
	}
	return fmt.Sprintf("%d.%d", id.idx, id.gen)
}
