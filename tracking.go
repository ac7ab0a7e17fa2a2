package cellgraph

import "github.com/cespare/xxhash/v2"

// hashCellID hashes a cellID for use as a key in a cell's per-run
// dependency index (link's out-of-order reuse path, strategy (b) from the
// tracking protocol) instead of relying on Go's built-in map hashing of
// the struct.
func hashCellID(id cellID) uint64 {
	b := id.bytes()
	return xxhash.Sum64(b[:])
}

// startTracking prepares sub to be re-evaluated: the previous
// depsHead...depsTail chain is retained so trackDependency can walk it in
// order and reuse links whose position still matches, and the per-run
// dependency index is cleared for reuse.
func (g *Graph) startTracking(sub cellID) {
	rec := g.cell(sub)
	rec.depsTail = nilLink
	rec.flags.clear(stateStale | statePending)
	rec.flags.set(stateRunning)
	if rec.runIndex != nil {
		clear(rec.runIndex)
	}
}

// trackDependency is the tracking protocol's `link` operation: called each
// time a running consumer reads a producer.
func (g *Graph) trackDependency(dep, sub cellID) {
	subRec := g.cell(sub)

	if subRec.depsTail != nilLink && g.linkRec(subRec.depsTail).dep == dep {
		return // same dep read twice in a row
	}

	var candidate linkID
	if subRec.depsTail != nilLink {
		candidate = g.linkRec(subRec.depsTail).nextDep
	} else {
		candidate = subRec.depsHead
	}
	if candidate != nilLink && g.linkRec(candidate).dep == dep {
		subRec.depsTail = candidate // prior run's link at this position is still valid
		g.rememberRead(subRec, dep, candidate)
		return
	}

	if subRec.runIndex != nil {
		if existing, ok := subRec.runIndex[hashCellID(dep)]; ok {
			if l := g.linkRec(existing); l != nil && l.dep == dep {
				return // already consumed earlier this run
			}
		}
	}

	id := g.spliceNewDep(dep, sub, subRec)
	g.rememberRead(subRec, dep, id)
}

func (g *Graph) rememberRead(subRec *cellRecord, dep cellID, id linkID) {
	if subRec.runIndex == nil {
		subRec.runIndex = make(map[uint64]linkID)
	}
	subRec.runIndex[hashCellID(dep)] = id
}

// endTracking unlinks whatever sub.deps* holds past the final depsTail:
// links left over from the previous run that were not re-read this run.
// A dep that loses its last subscriber as a direct result of this drain is
// cascaded (per this engine's eager-detach policy, DESIGN.md) into the
// work list: marked STALE and its own deps list spliced in for the same
// treatment, continuing until the drain reaches cells with no deps left.
func (g *Graph) endTracking(sub cellID) {
	rec := g.cell(sub)

	var leftover linkID
	if rec.depsTail != nilLink {
		leftover = g.linkRec(rec.depsTail).nextDep
		g.linkRec(rec.depsTail).nextDep = nilLink
	} else {
		leftover = rec.depsHead
		rec.depsHead = nilLink
	}

	g.drainUnlink(leftover)
	g.recomputeDepth(rec)
	rec.flags.clear(stateRunning)
}

// recomputeDepth sets rec.depth to one more than the deepest of its
// current dependencies (zero if it has none), the "longest path from a
// source" measure the heap scheduler buckets effects by. Each call
// recomputes from scratch off the just-finished deps chain rather than
// patching the previous value, so depth grows or shrinks with the deps
// read on this run (DESIGN.md, Open Question 2).
func (g *Graph) recomputeDepth(rec *cellRecord) {
	var deepest uint32
	for l := rec.depsHead; l != nilLink; l = g.linkRec(l).nextDep {
		dep := g.cell(g.linkRec(l).dep)
		if dep == nil {
			continue
		}
		if candidate := dep.depth + 1; candidate > deepest {
			deepest = candidate
		}
	}
	rec.depth = deepest
}

// drainUnlink walks a chain of a subscriber's now-obsolete dependency
// links (linked via nextDep), detaching each from its dep's subscriber
// list and cascading into that dep's own deps when it loses its last sub.
func (g *Graph) drainUnlink(chain linkID) {
	for chain != nilLink {
		l := g.linkRec(chain)
		dep := l.dep
		next := l.nextDep

		_, emptied := g.unlinkSub(chain)
		if emptied {
			g.cascadeDetach(dep)
		}

		chain = next
	}
}

// cascadeDetach implements the eager side of DESIGN.md's Open Question 1:
// a cell that just lost its last subscriber is marked STALE immediately
// and, if it has its own deps (it's a derived cell reading further
// upstream), those are unlinked too so the whole no-longer-observed chain
// is torn down in one pass rather than lingering until a future write.
func (g *Graph) cascadeDetach(id cellID) {
	rec := g.cell(id)
	if rec == nil || !rec.isDerived() {
		return
	}
	rec.flags.set(stateStale)
	rec.flags.clear(statePending)

	chain := rec.depsHead
	rec.depsHead, rec.depsTail = nilLink, nilLink
	g.drainUnlink(chain)
}

// disposeCell unlinks id from every dep it reads (same cascading unlink as
// drainUnlink) and from every sub that reads it, then frees its slot.
func (g *Graph) disposeCell(id cellID) {
	rec := g.cell(id)
	if rec == nil {
		return
	}

	chain := rec.depsHead
	rec.depsHead, rec.depsTail = nilLink, nilLink
	g.drainUnlink(chain)

	for s := rec.subsHead; s != nilLink; {
		l := g.linkRec(s)
		next := l.nextSub
		g.unlinkFromSubList(rec, s)
		chain := g.cell(l.sub)
		if chain != nil {
			g.removeFromDeps(chain, s)
		}
		g.freeLink(s)
		s = next
	}

	g.freeCell(id)
}

// unlinkFromSubList removes l from dep's subs list only (dep is already
// resolved by the caller).
func (g *Graph) unlinkFromSubList(dep *cellRecord, id linkID) {
	l := g.linkRec(id)
	if l.nextSub != nilLink {
		g.linkRec(l.nextSub).prevSub = l.prevSub
	} else {
		dep.subsTail = l.prevSub
	}
	if l.prevSub != nilLink {
		g.linkRec(l.prevSub).nextSub = l.nextSub
	} else {
		dep.subsHead = l.nextSub
	}
}

// removeFromDeps removes id from sub's singly-linked deps chain; used only
// by disposeCell, which must remove an arbitrary interior link rather than
// the usual tail-relative tracking operations.
func (g *Graph) removeFromDeps(sub *cellRecord, id linkID) {
	if sub.depsHead == id {
		sub.depsHead = g.linkRec(id).nextDep
		if sub.depsTail == id {
			sub.depsTail = nilLink
		}
		return
	}
	for cur := sub.depsHead; cur != nilLink; cur = g.linkRec(cur).nextDep {
		l := g.linkRec(cur)
		if l.nextDep == id {
			l.nextDep = g.linkRec(id).nextDep
			if sub.depsTail == id {
				sub.depsTail = cur
			}
			return
		}
	}
}
