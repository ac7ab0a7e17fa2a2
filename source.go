package cellgraph

// Source is a typed handle onto a source cell. Every sibling experiment
// this engine's core is drawn from layers a generic signal type over an
// any-typed primitive graph the same way (alien.WriteableSignal[T],
// rocket.WriteableSignal[T], dumbdumb.WriteableSignal[T], flimsy.Signal
// [T]); this one is a thin wrapper for the same reason theirs are —
// cell-creation ergonomics are a host concern, not the engine's.
type Source[T any] struct {
	g  *Graph
	id cellID
}

// NewSource creates a source cell holding initial, labeled for
// diagnostics.
func NewSource[T any](g *Graph, initial T, label string) Source[T] {
	return Source[T]{g: g, id: g.SourceCreate(initial, label)}
}

// Get reads the current value, tracking a dependency if called from
// within a derived cell's compute or an effect's body.
func (s Source[T]) Get() T {
	v, _ := s.g.SourceRead(s.id).(T)
	return v
}

// Set stores a new value, propagating to every dependent and, outside a
// batch, flushing due effects before returning.
func (s Source[T]) Set(value T) {
	s.g.SourceWrite(s.id, value)
}

// Dispose removes the source cell from the graph.
func (s Source[T]) Dispose() {
	s.g.Dispose(s.id)
}

// Handle returns a CellHandle naming this source, for use as a
// StepFunc's waitingOn return value.
func (s Source[T]) Handle() CellHandle { return CellHandle{id: s.id} }
