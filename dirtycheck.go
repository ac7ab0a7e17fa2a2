package cellgraph

import mapset "github.com/deckarep/golang-set/v2"

// checkAncestorDirty is the DFS dirty check: it decides whether a PENDING
// or STALE derived cell's value has actually changed, recomputing upward
// through its dependency chain as needed. visiting holds every cell on
// the current DFS path so a real cycle among PENDING cells (one that
// propagate's forward pass alone cannot detect, since it only reasons
// about reachability, not about the shape of the path taken) is caught
// here instead of recursing forever.
func (g *Graph) checkAncestorDirty(id cellID, visiting mapset.Set[cellID]) bool {
	rec := g.cell(id)
	if rec == nil {
		return false
	}
	g.trace("dirty-check", id)

	if rec.flags.has(stateStale) {
		if visiting.Contains(id) {
			g.reportError(id, ErrCyclicReentry, &cyclicError{kind: ErrCyclicReentry})
			rec.flags.clear(stateStale | statePending)
			return false
		}
		return g.recomputeDerived(id)
	}

	if !rec.flags.has(statePending) {
		return false
	}

	if visiting.Contains(id) {
		g.reportError(id, ErrCyclicReentry, &cyclicError{kind: ErrCyclicReentry})
		rec.flags.clear(statePending)
		return false
	}

	visiting.Add(id)
	changed := false
	for l := rec.depsHead; l != nilLink; l = g.linkRec(l).nextDep {
		if g.checkAncestorDirty(g.linkRec(l).dep, visiting) {
			changed = true
			break
		}
	}
	visiting.Remove(id)

	if changed {
		return g.recomputeDerived(id)
	}
	rec.flags.clear(statePending)
	return false
}

// ensureFresh confirms id holds the value it would have if recomputed
// right now, recomputing it (and, transitively, whatever upstream of it
// needs recomputing first) if it doesn't already.
func (g *Graph) ensureFresh(id cellID) {
	rec := g.cell(id)
	if rec == nil || !rec.isDerived() {
		return
	}
	if rec.flags.has(stateRunning) {
		// id reads itself, directly or through some chain of other
		// derived cells that are all still on the call stack. Reported
		// once; id is left holding whatever value it had before this
		// evaluation started, and marked so future propagation gives up
		// on it instead of re-discovering the same cycle forever.
		g.reportError(id, ErrCyclicInit, &cyclicError{kind: ErrCyclicInit})
		rec.flags.set(stateRecursive)
		return
	}
	if rec.flags.has(stateStale) {
		g.recomputeDerived(id)
		return
	}
	if rec.flags.has(statePending) {
		g.checkAncestorDirty(id, mapset.NewThreadUnsafeSet[cellID]())
	}
}
