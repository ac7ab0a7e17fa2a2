package cellgraph

// Batch runs fn with effect flushing suppressed until fn returns, so a
// sequence of writes that each individually trigger the same downstream
// effect only runs it once. Safe to call from within another Batch or
// from within a running effect/derived compute.
func Batch(g *Graph, fn func()) {
	g.BatchBegin()
	defer g.BatchEnd()
	fn()
}
