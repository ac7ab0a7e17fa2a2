package cellgraph

// Derived is a typed handle onto a derived cell.
type Derived[T any] struct {
	g  *Graph
	id cellID
}

// NewDerived creates a derived cell computed by fn. fn is not called
// until the first Get.
func NewDerived[T any](g *Graph, fn func(g *Graph) T, label string) Derived[T] {
	id := g.DerivedCreate(func(g *Graph) any { return fn(g) }, label)
	return Derived[T]{g: g, id: id}
}

// Get confirms the cell is up to date (recomputing it, and whatever
// upstream of it needs recomputing first, if not) and returns its value.
func (d Derived[T]) Get() T {
	v, _ := d.g.DerivedRead(d.id).(T)
	return v
}

// Dispose removes the derived cell from the graph.
func (d Derived[T]) Dispose() {
	d.g.Dispose(d.id)
}

// Handle returns a CellHandle naming this derived cell, for use as a
// StepFunc's waitingOn return value.
func (d Derived[T]) Handle() CellHandle { return CellHandle{id: d.id} }
