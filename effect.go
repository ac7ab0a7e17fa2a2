package cellgraph

// Disposer stops an effect from ever running again and removes it from
// the graph.
type Disposer func()

// NewEffect creates and immediately runs an effect, returning a Disposer
// to tear it down.
func NewEffect(g *Graph, fn func(g *Graph), label string) Disposer {
	id := g.EffectCreate(fn, label)
	return func() { g.Dispose(id) }
}

// NewSteppedEffect creates a suspension-capable effect driven by fn
// instead of a plain body (see StepFunc). g must have been constructed
// with WithHeapScheduler.
func NewSteppedEffect(g *Graph, fn StepFunc, label string) Disposer {
	id := g.EffectCreateStep(fn, label)
	return func() { g.Dispose(id) }
}
