package cellgraph

// ErrorKind classifies an error the graph recovered from internally. All
// of them are non-fatal: the graph keeps functioning and reports the
// error to the host through an ErrorHandler rather than panicking or
// corrupting its own state.
type ErrorKind int

const (
	// ErrCyclicInit: a cell's compute/run tried to read itself, directly
	// or transitively, while it was already RUNNING.
	ErrCyclicInit ErrorKind = iota
	// ErrCyclicReentry: the dirty-check DFS revisited a cell already on
	// its own current path — a cycle discovered mid-traversal, rather
	// than mid-evaluation.
	ErrCyclicReentry
	// ErrComputeFailed: a derived cell's ComputeFunc, an effect's
	// EffectFunc, or a StepFunc panicked.
	ErrComputeFailed
	// ErrNonReactiveYield: a StepFunc reported it was waiting on a
	// cellID that does not resolve to a live cell.
	ErrNonReactiveYield
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCyclicInit:
		return "cyclic-init"
	case ErrCyclicReentry:
		return "cyclic-reentry"
	case ErrComputeFailed:
		return "compute-failed"
	case ErrNonReactiveYield:
		return "non-reactive-yield"
	default:
		return "unknown"
	}
}

// ErrorHandler receives every internal error the graph recovers from. A
// nil handler means such errors are silently swallowed, matching the
// spec's "recovered locally, graph continues to function" policy even
// when the host doesn't care to observe it. cell is the affected cell's
// label (or its id, encoded as a string, if it has none).
type ErrorHandler func(cell string, kind ErrorKind, err error)

func (g *Graph) reportError(id cellID, kind ErrorKind, err error) {
	if g.onError != nil {
		g.onError(cellLabel(g, id), kind, err)
	}
}

type cyclicError struct {
	kind ErrorKind
}

func (e *cyclicError) Error() string {
	if e.kind == ErrCyclicInit {
		return "cellgraph: reentrant evaluation of the same cell"
	}
	return "cellgraph: cycle detected during dirty check"
}
