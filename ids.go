package cellgraph

import "encoding/binary"

// cellID addresses a slot in Graph's cell arena. gen guards against a
// handle captured before Dispose from aliasing whatever cell later reuses
// the same slot.
type cellID struct {
	idx uint32
	gen uint32
}

// nilCell is never a valid arena slot: the arena is 1-indexed so index 0
// is always free.
var nilCell = cellID{}

func (id cellID) isNil() bool { return id.idx == 0 }

// bytes encodes id for hashing; used by the tracking protocol's per-run
// dependency index instead of relying on Go's built-in map hash.
func (id cellID) bytes() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], id.idx)
	binary.LittleEndian.PutUint32(b[4:8], id.gen)
	return b
}

// linkID addresses a slot in Graph's link arena. Links never escape the
// package, so unlike cellID they carry no generation: every unlink call
// site nils out every pointer to a link before it's returned to the free
// list, so a stale linkID is never dereferenced.
type linkID uint32

const nilLink linkID = 0
