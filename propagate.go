package cellgraph

// propagate is the forward BFS run after a source write: given
// the producer's subsHead link, it marks every reachable consumer
// STALE (direct source-triggered) or PENDING (reached only through other
// derived cells), and hands newly-reached effects to the scheduler.
func (g *Graph) propagate(subsHead linkID) {
	if subsHead == nilLink {
		return
	}

	type queued struct {
		chain      linkID
		targetFlag flags
	}
	queue := []queued{{chain: subsHead, targetFlag: stateStale}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for l := item.chain; l != nilLink; l = g.linkRec(l).nextSub {
			link := g.linkRec(l)
			sub := g.cell(link.sub)
			if sub == nil || sub.flags.has(stateRecursive) {
				continue // gave up on this cell after a reentrancy error; leave it alone
			}

			g.trace("propagate", link.sub)
			alreadyPropagating := sub.flags.any(stateStale | statePending | stateRunning)
			sub.flags.set(item.targetFlag)

			if alreadyPropagating {
				continue // downstream of sub was already walked in an earlier step
			}

			if sub.isEffect() {
				g.scheduler().enqueueEffect(g, link.sub)
				continue
			}

			if sub.isDerived() && sub.subsHead != nilLink {
				queue = append(queue, queued{chain: sub.subsHead, targetFlag: statePending})
			}
		}
	}
}
