package cellgraph

// CellHandle is the exported form of a cellID: the only way host code
// can name a specific cell when it must cross the package boundary, as
// StepFunc's waitingOn return value does. The zero CellHandle never
// names a live cell.
type CellHandle struct {
	id cellID
}

// IsZero reports whether h was never set to a real cell.
func (h CellHandle) IsZero() bool { return h.id.isNil() }
