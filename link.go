package cellgraph

// linkRecord is one directed edge, dep -> sub, spliced through both the
// dependency's subscriber list and the subscriber's dependency list.
type linkRecord struct {
	dep, sub cellID

	prevSub, nextSub linkID
	nextDep          linkID
}

// spliceNewDep inserts a freshly allocated link into sub's dependency
// chain immediately after the current depsTail (or as depsHead if the
// chain is empty so far this run) and appends it to dep's subscriber
// chain. Whatever used to follow depsTail — leftover links from the
// previous run, not yet confirmed obsolete — is threaded onto the new
// link's own nextDep rather than dropped, so end_tracking still finds
// and drains them instead of leaking a subscription neither chain
// remembers.
func (g *Graph) spliceNewDep(dep, sub cellID, subRec *cellRecord) linkID {
	id := g.allocLink(dep, sub)

	var oldNext linkID
	if subRec.depsTail == nilLink {
		oldNext = subRec.depsHead
		subRec.depsHead = id
	} else {
		oldNext = g.linkRec(subRec.depsTail).nextDep
		g.linkRec(subRec.depsTail).nextDep = id
	}
	g.linkRec(id).nextDep = oldNext
	subRec.depsTail = id

	depRec := g.cell(dep)
	l := g.linkRec(id)
	l.prevSub = depRec.subsTail
	if depRec.subsTail == nilLink {
		depRec.subsHead = id
	} else {
		g.linkRec(depRec.subsTail).nextSub = id
	}
	depRec.subsTail = id

	return id
}

// unlinkSub detaches l from its dep's subscriber chain only, leaving the
// sub's dependency chain untouched (the caller is walking that chain and
// will fix up its head/tail itself). Returns l.nextDep, the caller's
// natural continuation point, and reports whether dep.subs is now empty.
func (g *Graph) unlinkSub(id linkID) (next linkID, depEmptied bool) {
	l := g.linkRec(id)
	dep := g.cell(l.dep)
	next = l.nextDep

	if l.nextSub != nilLink {
		g.linkRec(l.nextSub).prevSub = l.prevSub
	} else {
		dep.subsTail = l.prevSub
	}
	if l.prevSub != nilLink {
		g.linkRec(l.prevSub).nextSub = l.nextSub
	} else {
		dep.subsHead = l.nextSub
	}

	depEmptied = dep.subsHead == nilLink
	g.freeLink(id)
	return next, depEmptied
}
