package cellgraph

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Graph owns the whole cell/link arena and every piece of engine state:
// the active-consumer stack tracking drains through, the batch depth,
// and the effect scheduler. The zero value is not usable; construct one
// with NewGraph.
type Graph struct {
	cells     []cellRecord
	freeCells []uint32
	links     []linkRecord
	freeLinks []uint32

	activeConsumer cellID
	consumerStack  []cellID

	batchDepth int
	flushing   bool

	sched scheduler

	equal   func(a, b any) bool
	onError ErrorHandler
	tracer  TraceFunc
}

// TraceFunc observes propagation and dirty-check visits as they happen,
// for diagnostics (cmd/cellgraph-trace). phase is "propagate" or
// "dirty-check"; label is the visited cell's label (or its id, encoded
// as a string, if it has none).
type TraceFunc func(phase string, label string)

func (g *Graph) trace(phase string, id cellID) {
	if g.tracer != nil {
		g.tracer(phase, cellLabel(g, id))
	}
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Graph)

// WithEqual overrides the value-comparison used to decide whether a
// source write or a derived recompute actually changed anything. The
// default is Go's == over the dynamic value, which panics for
// non-comparable types (slices, maps, funcs) — callers storing those
// must supply their own.
func WithEqual(fn func(a, b any) bool) GraphOption {
	return func(g *Graph) { g.equal = fn }
}

// WithErrorHandler registers the callback that receives every internal
// error the graph recovers from (see ErrorKind).
func WithErrorHandler(h ErrorHandler) GraphOption {
	return func(g *Graph) { g.onError = h }
}

// WithHeapScheduler switches the effect scheduler from the default FIFO
// queue to the depth-ordered bucketed heap, and is required to use
// EffectCreateStep.
func WithHeapScheduler() GraphOption {
	return func(g *Graph) { g.sched = &schedulerHeap{} }
}

// WithTracer registers a callback invoked for every cell visited by
// propagate or the dirty check, in visit order. Mainly useful for
// cmd/cellgraph-trace; nil (the default) costs nothing on the hot path
// beyond one nil check per visit.
func WithTracer(fn TraceFunc) GraphOption {
	return func(g *Graph) { g.tracer = fn }
}

func defaultEqual(a, b any) bool { return a == b }

// NewGraph builds an empty graph ready to have sources, derived cells
// and effects created on it.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{equal: defaultEqual, sched: &schedulerSimple{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) scheduler() scheduler { return g.sched }

// SourceCreate allocates a new source cell holding initial.
func (g *Graph) SourceCreate(initial any, label string) cellID {
	id := g.allocCell()
	rec := g.cell(id)
	rec.flags.set(kindSource)
	rec.value = initial
	rec.initialized = true
	rec.label = label
	return id
}

// SourceRead returns a source's current value, tracking it as a
// dependency of whatever consumer is currently running.
func (g *Graph) SourceRead(id cellID) any {
	rec := g.cell(id)
	if rec == nil {
		return nil
	}
	g.trackRead(id)
	return rec.value
}

// SourceWrite stores value into a source cell. A write that g.equal
// judges unchanged from the current value is a no-op: it propagates
// nothing and does not trigger a flush.
func (g *Graph) SourceWrite(id cellID, value any) {
	rec := g.cell(id)
	if rec == nil {
		return
	}
	if rec.initialized && g.equal(rec.value, value) {
		return
	}
	rec.value = value
	rec.initialized = true
	g.propagate(rec.subsHead)
	if g.batchDepth == 0 {
		g.flush()
	}
}

// DerivedCreate allocates a derived cell. It starts STALE: its compute
// runs on first read, not at creation.
func (g *Graph) DerivedCreate(compute ComputeFunc, label string) cellID {
	id := g.allocCell()
	rec := g.cell(id)
	rec.flags.set(kindDerived | stateStale)
	rec.compute = compute
	rec.label = label
	return id
}

// DerivedRead confirms id holds an up-to-date value (recomputing it and
// whatever upstream of it needs recomputing first, if not), tracks it as
// a dependency of the active consumer, and returns its value.
func (g *Graph) DerivedRead(id cellID) any {
	rec := g.cell(id)
	if rec == nil {
		return nil
	}
	g.ensureFresh(id)
	g.trackRead(id)
	return rec.value
}

// EffectCreate allocates an effect and runs it immediately, establishing
// its initial dependency set the same way any later re-run does.
func (g *Graph) EffectCreate(run EffectFunc, label string) cellID {
	id := g.allocCell()
	rec := g.cell(id)
	rec.flags.set(kindEffect)
	rec.run = run
	rec.label = label
	g.runEffect(id)
	return id
}

// EffectCreateStep allocates a suspension-capable effect driven by fn
// instead of a plain EffectFunc. It requires the graph be constructed
// with WithHeapScheduler, since only the depth-bucketed scheduler knows
// how to re-queue a paused step at its new depth.
func (g *Graph) EffectCreateStep(fn StepFunc, label string) cellID {
	id := g.allocCell()
	rec := g.cell(id)
	rec.flags.set(kindEffect)
	rec.step = &cellStep{fn: fn}
	rec.label = label
	g.scheduler().enqueueEffect(g, id)
	if g.batchDepth == 0 {
		g.flush()
	}
	return id
}

// Dispose removes a cell from the graph: every link touching it, in
// either direction, is torn down first (cascading into any dependency
// that loses its last subscriber as a result), then its slot is freed.
func (g *Graph) Dispose(id cellID) {
	g.disposeCell(id)
}

func (g *Graph) trackRead(dep cellID) {
	if g.activeConsumer.isNil() {
		return
	}
	g.trackDependency(dep, g.activeConsumer)
}

// runTracked evaluates body with id registered as the active consumer,
// recovering a panic into an ErrComputeFailed report and guarding
// against id re-entering its own evaluation (ErrCyclicInit).
func (g *Graph) runTracked(id cellID, body func()) (panicked bool) {
	rec := g.cell(id)
	if rec.flags.has(stateRunning) {
		g.reportError(id, ErrCyclicInit, &cyclicError{kind: ErrCyclicInit})
		rec.flags.set(stateRecursive)
		return true
	}

	g.consumerStack = append(g.consumerStack, g.activeConsumer)
	g.activeConsumer = id
	g.startTracking(id)

	defer func() {
		g.endTracking(id)
		n := len(g.consumerStack) - 1
		g.activeConsumer = g.consumerStack[n]
		g.consumerStack = g.consumerStack[:n]

		if r := recover(); r != nil {
			panicked = true
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			g.reportError(id, ErrComputeFailed, err)
		}
	}()

	body()
	return false
}

// recomputeDerived re-runs a derived cell's compute, reporting whether
// the resulting value differs from what it held before (per g.equal). A
// panic keeps the prior value, per the compute-throws-keeps-prior-value
// error policy: the cell is cleared back to clean rather than left
// STALE forever.
func (g *Graph) recomputeDerived(id cellID) bool {
	rec := g.cell(id)
	old := rec.value
	hadValue := rec.initialized

	var next any
	panicked := g.runTracked(id, func() {
		next = rec.compute(g)
	})

	rec.flags.clear(stateStale | statePending)
	if panicked {
		return false
	}

	rec.version++
	changed := !hadValue || !g.equal(old, next)
	rec.value = next
	rec.initialized = true
	return changed
}

// runEffect runs a plain (non-StepFunc) effect's body, or dispatches to
// the step machinery if it was created with EffectCreateStep.
func (g *Graph) runEffect(id cellID) {
	rec := g.cell(id)
	if rec == nil || !rec.isEffect() {
		return
	}
	if rec.step != nil {
		g.runScheduled(id)
		return
	}
	if rec.flags.has(stateRecursive) {
		return
	}
	if !g.effectDue(id) {
		rec.flags.clear(stateStale | statePending)
		return
	}

	run := rec.run
	g.runTracked(id, func() { run(g) })
	rec.flags.clear(stateStale | statePending)
	rec.initialized = true
}

// effectDue runs the same dirty check a derived cell's PENDING read does
// (§4.4) before actually invoking an effect's body: direct STALE is an
// unconditional yes, but an effect reached only transitively, through an
// upstream derived cell, must confirm that cell actually recomputed to a
// changed value first. An effect that has never run is always due, the
// same way a derived cell with no prior value always recomputes on first
// read.
func (g *Graph) effectDue(id cellID) bool {
	rec := g.cell(id)
	if !rec.initialized {
		return true
	}
	if rec.flags.has(stateStale) {
		return true
	}
	if !rec.flags.has(statePending) {
		return false
	}
	visiting := mapset.NewThreadUnsafeSet[cellID]()
	for l := rec.depsHead; l != nilLink; l = g.linkRec(l).nextDep {
		if g.checkAncestorDirty(g.linkRec(l).dep, visiting) {
			return true
		}
	}
	return false
}

// runScheduled advances a scheduled cell by one step: a plain effect
// runs to completion, a StepFunc-driven effect runs until it finishes or
// suspends again.
func (g *Graph) runScheduled(id cellID) {
	rec := g.cell(id)
	if rec == nil || !rec.isEffect() {
		return
	}
	if rec.step == nil {
		g.runEffect(id)
		return
	}
	g.stepOnce(id, rec)
}

func (g *Graph) stepOnce(id cellID, rec *cellRecord) {
	step := rec.step
	fn := step.fn
	resume := step.resumeNext
	if !step.waitingOn.isNil() {
		g.ensureFresh(step.waitingOn)
		if waitRec := g.cell(step.waitingOn); waitRec != nil {
			resume = waitRec.value
		}
	}

	var result any
	var waitingOnHandle CellHandle
	var done bool
	panicked := g.runTracked(id, func() {
		result, waitingOnHandle, done = fn(g, resume)
	})
	waitingOn := waitingOnHandle.id

	if panicked {
		rec.step = nil
		rec.flags.clear(stateStale | statePending)
		return
	}

	if done {
		rec.step = nil
		rec.value = result
		rec.initialized = true
		rec.flags.clear(stateStale | statePending)
		return
	}

	waitRec := g.cell(waitingOn)
	if waitRec == nil {
		g.reportError(id, ErrNonReactiveYield, fmt.Errorf("cellgraph: step waited on a cell that no longer exists"))
		rec.step = nil
		return
	}

	step.waitingOn = waitingOn
	step.resumeNext = waitRec.value
	rec.depth = waitRec.depth + 1
	g.scheduler().enqueueEffect(g, id)
}
