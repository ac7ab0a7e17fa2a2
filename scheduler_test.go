package cellgraph_test

import (
	"testing"

	"github.com/Mox93/cellgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHeapSchedulerRunsShallowestFirst wires up two effects at different
// depths off the same source and writes the source once so both become
// due in the same flush; the depth-ordered scheduler must run the shallower one
// first regardless of which was created or marked due first.
func TestHeapSchedulerRunsShallowestFirst(t *testing.T) {
	g := cellgraph.NewGraph(cellgraph.WithHeapScheduler())

	s := cellgraph.NewSource(g, 1, "s")
	deep := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return s.Get() + 1 }, "deep1")
	for i := 0; i < 3; i++ {
		prev := deep
		deep = cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return prev.Get() + 1 }, "deepN")
	}

	var order []string
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		order = append(order, "deep")
		deep.Get()
	}, "e-deep")
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		order = append(order, "shallow")
		s.Get()
	}, "e-shallow")

	order = nil
	s.Set(2)

	require.Len(t, order, 2)
	assert.Equal(t, "shallow", order[0], "the effect reading the source directly has a smaller depth")
	assert.Equal(t, "deep", order[1])
}

// TestSteppedEffectSuspendsAndResumes drives a StepFunc through two
// pauses, first waiting on source a and then on source b, and confirms
// the final call is resumed with b's value.
func TestSteppedEffectSuspendsAndResumes(t *testing.T) {
	g := cellgraph.NewGraph(cellgraph.WithHeapScheduler())

	a := cellgraph.NewSource(g, 2, "a")
	b := cellgraph.NewSource(g, 3, "b")

	var got int
	step := 0
	fn := func(g *cellgraph.Graph, resume any) (any, cellgraph.CellHandle, bool) {
		switch step {
		case 0:
			step++
			return nil, a.Handle(), false
		case 1:
			step++
			return nil, b.Handle(), false
		default:
			bVal := resume.(int)
			got = bVal
			return bVal, cellgraph.CellHandle{}, true
		}
	}
	cellgraph.NewSteppedEffect(g, fn, "stepped")

	assert.Equal(t, 3, got)
}
