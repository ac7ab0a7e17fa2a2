package cellgraph

// depthHeap buckets queued cells by depth (longest path from a source)
// and always yields the shallowest one due. Each bucket is a circular
// list threaded through the cell record's own heapNext/heapPrev fields,
// so inserting or removing a cell never allocates. Buckets grow lazily
// as deeper cells are seen; min tracks the lowest non-empty bucket so
// removeMin doesn't rescan from zero every time.
//
// This is a reconstruction, from notes rather than a file I can still
// open, of a bucketed min-heap design seen elsewhere in the retrieval
// pack (grow-on-demand bucket array, circular per-bucket list, a cursor
// tracking the lowest occupied bucket) — see DESIGN.md.
type depthHeap struct {
	buckets []cellID // buckets[d] is the head of depth d's circular list, or nilCell if empty
	count   []int    // buckets[d]'s list length, so emptiness doesn't need a walk
	min     uint32
	size    int
}

func (h *depthHeap) ensureDepth(depth uint32) {
	for uint32(len(h.buckets)) <= depth {
		h.buckets = append(h.buckets, nilCell)
		h.count = append(h.count, 0)
	}
}

func (h *depthHeap) insert(g *Graph, id cellID, depth uint32) {
	h.ensureDepth(depth)
	rec := g.cell(id)

	head := h.buckets[depth]
	if head.isNil() {
		rec.heapNext, rec.heapPrev = id, id
		h.buckets[depth] = id
	} else {
		headRec := g.cell(head)
		tail := headRec.heapPrev
		tailRec := g.cell(tail)
		tailRec.heapNext = id
		rec.heapPrev = tail
		rec.heapNext = head
		headRec.heapPrev = id
	}
	rec.inHeap = true
	h.count[depth]++
	h.size++

	if h.size == 1 || depth < h.min {
		h.min = depth
	}
}

// removeMin pops and returns a cell from the lowest non-empty bucket.
func (h *depthHeap) removeMin(g *Graph) (cellID, bool) {
	if h.size == 0 {
		return nilCell, false
	}
	for h.min < uint32(len(h.buckets)) && h.count[h.min] == 0 {
		h.min++
	}
	if h.min >= uint32(len(h.buckets)) {
		return nilCell, false
	}

	depth := h.min
	id := h.buckets[depth]
	h.remove(g, id, depth)
	return id, true
}

// remove detaches id from bucket depth's circular list.
func (h *depthHeap) remove(g *Graph, id cellID, depth uint32) {
	rec := g.cell(id)
	rec.inHeap = false
	h.count[depth]--
	h.size--

	if rec.heapNext == id {
		h.buckets[depth] = nilCell
	} else {
		next, prev := g.cell(rec.heapNext), g.cell(rec.heapPrev)
		next.heapPrev = rec.heapPrev
		prev.heapNext = rec.heapNext
		if h.buckets[depth] == id {
			h.buckets[depth] = rec.heapNext
		}
	}
	rec.heapNext, rec.heapPrev = nilCell, nilCell
}
