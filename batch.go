package cellgraph

// BatchBegin suppresses flushing until a matching BatchEnd at depth
// zero: writes and the propagation they trigger still happen
// immediately, only the effect run is deferred. Grounded on
// alien.ReactiveSystem.StartBatch/EndBatch/Batch and
// sig.reactiveContext.batch.
func (g *Graph) BatchBegin() {
	g.batchDepth++
}

// BatchEnd ends one level of batching, flushing once depth returns to
// zero.
func (g *Graph) BatchEnd() {
	if g.batchDepth == 0 {
		return
	}
	g.batchDepth--
	if g.batchDepth == 0 {
		g.flush()
	}
}

// flush drains the scheduler's effect queue. It is re-entrancy-guarded:
// an effect that writes a source mid-flush triggers propagate, which may
// enqueue more effects, but the scheduler's own loop (not a recursive
// flush call) is what picks those up — flushing only stops a second,
// redundant top-level drain from starting while one is already running.
func (g *Graph) flush() {
	if g.flushing {
		return
	}
	g.flushing = true
	defer func() { g.flushing = false }()
	g.sched.flush(g)
}
