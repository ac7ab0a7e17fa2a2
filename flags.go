package cellgraph

// flags packs a cell's kind and current propagation state into one
// bitset, mirroring the "unified node" data model: source, derived and
// effect cells are the same record with different bits set.
type flags uint16

const (
	// kind bits: mutually exclusive, set once at creation.
	kindSource flags = 1 << iota
	kindDerived
	kindEffect

	// state bits: mutated by tracking, propagation and the scheduler.
	stateStale     // must recompute unconditionally next time read/run
	statePending   // might need to recompute; a dirty check must confirm
	stateRunning   // currently mid-evaluation; reentrancy guard
	stateQueued    // already sitting in the scheduler's work list
	stateRecursive // aborted once for reentrant evaluation; skip on future propagation
)

const kindMask = kindSource | kindDerived | kindEffect

func (f flags) has(bit flags) bool { return f&bit != 0 }
func (f flags) any(bits flags) bool { return f&bits != 0 }

func (f *flags) set(bit flags)   { *f |= bit }
func (f *flags) clear(bit flags) { *f &^= bit }

func (f flags) kind() flags { return f & kindMask }
