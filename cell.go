package cellgraph

// ComputeFunc produces a derived cell's next value. It runs with the cell
// registered as the graph's active consumer, so any g.SourceRead /
// g.DerivedRead call made inside it is tracked as a dependency.
type ComputeFunc func(g *Graph) any

// EffectFunc runs an effect's side effect. Like ComputeFunc it runs with
// the effect registered as the active consumer.
type EffectFunc func(g *Graph)

// StepFunc is the suspension-capable alternative to ComputeFunc, used by
// cells scheduled on the depth-ordered heap scheduler (see
// scheduler_heap.go). Implementations that never need to suspend should
// use ComputeFunc/EffectFunc instead; the graph only ever calls StepFunc
// through the heap scheduler.
//
// On each call, a StepFunc either finishes (done=true, result holds the
// final value) or pauses waiting on waitingOn (done=false); resumeValue is
// the zero value on the first call and waitingOn's freshly settled value
// on every subsequent call.
type StepFunc func(g *Graph, resumeValue any) (result any, waitingOn CellHandle, done bool)

// cellStep holds the paused state of an in-progress StepFunc evaluation.
type cellStep struct {
	fn         StepFunc
	waitingOn  cellID
	resumeNext any
}

// cellRecord is the arena-resident, unified graph node: a source, a
// derived cell, or an effect, distinguished only by flags.kind().
type cellRecord struct {
	gen   uint32
	flags flags

	depsHead, depsTail linkID
	subsHead, subsTail linkID

	value any

	compute ComputeFunc
	run     EffectFunc
	step    *cellStep

	version     uint64
	depth       uint32
	initialized bool

	// heap scheduler bucket linkage; unused by the simple scheduler.
	heapNext, heapPrev cellID
	inHeap             bool

	// per-run dependency index for tracking's out-of-order reuse path
	// (tracking.go); cleared, not reallocated, at the start of each run.
	runIndex map[uint64]linkID

	label string
}

func (c *cellRecord) isSource() bool  { return c.flags.has(kindSource) }
func (c *cellRecord) isDerived() bool { return c.flags.has(kindDerived) }
func (c *cellRecord) isEffect() bool  { return c.flags.has(kindEffect) }
