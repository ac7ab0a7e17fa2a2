package cellgraph_test

import (
	"testing"

	"github.com/Mox93/cellgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearChain(t *testing.T) {
	g := cellgraph.NewGraph()

	s := cellgraph.NewSource(g, 1, "s")
	aCalls := 0
	a := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		aCalls++
		return s.Get() + 1
	}, "a")
	bCalls := 0
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		bCalls++
		return a.Get() * 2
	}, "b")

	var printed []int
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		printed = append(printed, b.Get())
	}, "e")

	require.Equal(t, []int{4}, printed)

	s.Set(2)
	require.Equal(t, []int{4, 6}, printed)
	assert.Equal(t, 2, aCalls)
	assert.Equal(t, 2, bCalls)
}

func TestDiamond(t *testing.T) {
	g := cellgraph.NewGraph()

	s := cellgraph.NewSource(g, 0, "s")
	a := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return s.Get() + 1 }, "a")
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return s.Get() + 2 }, "b")
	cCalls := 0
	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		cCalls++
		return a.Get() + b.Get()
	}, "c")

	eRuns := 0
	var lastSeen int
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		eRuns++
		lastSeen = c.Get()
	}, "e")

	eRuns, cCalls = 0, 0
	s.Set(10)

	assert.Equal(t, 1, cCalls)
	assert.Equal(t, 1, eRuns)
	assert.Equal(t, 23, lastSeen)
}

func TestConditionalBranch(t *testing.T) {
	g := cellgraph.NewGraph()

	cond := cellgraph.NewSource(g, true, "cond")
	x := cellgraph.NewSource(g, 1, "x")
	y := cellgraph.NewSource(g, 100, "y")

	calls := 0
	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		calls++
		if cond.Get() {
			return x.Get()
		}
		return y.Get()
	}, "c")

	require.Equal(t, 1, c.Get())
	require.Equal(t, 1, calls)

	calls = 0
	y.Set(200)
	c.Get()
	assert.Equal(t, 0, calls, "c does not depend on y while cond is true")

	cond.Set(false)
	c.Get()

	calls = 0
	x.Set(999)
	c.Get()
	assert.Equal(t, 0, calls, "c no longer depends on x once cond is false")

	calls = 0
	y.Set(300)
	assert.Equal(t, 300, c.Get())
	assert.Equal(t, 1, calls)
}

func TestUnobservedPruning(t *testing.T) {
	g := cellgraph.NewGraph()

	s := cellgraph.NewSource(g, 1, "s")
	dCalls := 0
	d := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		dCalls++
		return s.Get() + 1
	}, "d")

	dispose := cellgraph.NewEffect(g, func(g *cellgraph.Graph) { d.Get() }, "e")
	require.Equal(t, 1, dCalls)

	dispose()
	dCalls = 0

	s.Set(2)
	assert.Equal(t, 0, dCalls, "d has no observers left, a source write must not recompute it")

	assert.Equal(t, 3, d.Get())
	assert.Equal(t, 1, dCalls, "reading d directly recomputes it exactly once")
}

func TestBatchAtomicity(t *testing.T) {
	g := cellgraph.NewGraph()

	a := cellgraph.NewSource(g, 1, "a")
	b := cellgraph.NewSource(g, 1, "b")
	cCalls := 0
	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		cCalls++
		return a.Get() + b.Get()
	}, "c")

	eRuns := 0
	var recorded int
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		eRuns++
		recorded = c.Get()
	}, "e")

	eRuns, cCalls = 0, 0
	cellgraph.Batch(g, func() {
		a.Set(10)
		b.Set(20)
	})

	assert.Equal(t, 1, eRuns)
	assert.Equal(t, 1, cCalls)
	assert.Equal(t, 30, recorded)
}

func TestCycleSafety(t *testing.T) {
	g := cellgraph.NewGraph()

	var reported []cellgraph.ErrorKind
	g2 := cellgraph.NewGraph(cellgraph.WithErrorHandler(func(_ string, kind cellgraph.ErrorKind, _ error) {
		reported = append(reported, kind)
	}))
	_ = g

	var d cellgraph.Derived[int]
	d = cellgraph.NewDerived(g2, func(g *cellgraph.Graph) int {
		return d.Get() + 1
	}, "d")

	assert.NotPanics(t, func() { d.Get() })
	require.Contains(t, reported, cellgraph.ErrCyclicInit)

	reported = nil

	x := cellgraph.NewSource(g2, 1, "x")
	other := cellgraph.NewDerived(g2, func(g *cellgraph.Graph) int { return x.Get() + 1 }, "other")
	assert.NotPanics(t, func() { x.Set(2) })
	assert.Equal(t, 3, other.Get())
	assert.Empty(t, reported, "a write to an unrelated, non-cyclic source must not re-trigger the cycle report")
}

func TestComputeThrowsKeepsPriorValue(t *testing.T) {
	var reported []cellgraph.ErrorKind
	g := cellgraph.NewGraph(cellgraph.WithErrorHandler(func(_ string, kind cellgraph.ErrorKind, _ error) {
		reported = append(reported, kind)
	}))

	s := cellgraph.NewSource(g, 1, "s")
	shouldPanic := false
	d := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		v := s.Get()
		if shouldPanic {
			panic("boom")
		}
		return v
	}, "d")

	require.Equal(t, 1, d.Get())

	shouldPanic = true
	s.Set(2)

	assert.Equal(t, 1, d.Get(), "a panicking recompute keeps the prior value")
	require.Contains(t, reported, cellgraph.ErrComputeFailed)
}

func TestIdempotentDerivedRead(t *testing.T) {
	g := cellgraph.NewGraph()

	s := cellgraph.NewSource(g, 1, "s")
	calls := 0
	d := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		calls++
		return s.Get() * 10
	}, "d")

	assert.Equal(t, 10, d.Get())
	assert.Equal(t, 10, d.Get())
	assert.Equal(t, 1, calls)
}

func TestUnchangedSourceWriteIsNoop(t *testing.T) {
	g := cellgraph.NewGraph()

	s := cellgraph.NewSource(g, 5, "s")
	calls := 0
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		calls++
		s.Get()
	}, "e")

	calls = 0
	s.Set(5)
	assert.Equal(t, 0, calls, "writing the same value again must not re-run the effect")
}

// TestDiamondTail supplements spec §8's scenarios with alien's
// "diamond tail" shape: a cell one hop past the diamond's join must
// also settle exactly once.
func TestDiamondTail(t *testing.T) {
	g := cellgraph.NewGraph()

	a := cellgraph.NewSource(g, "a", "a")
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) string { return a.Get() }, "b")
	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) string { return a.Get() }, "c")
	d := cellgraph.NewDerived(g, func(g *cellgraph.Graph) string { return b.Get() + " " + c.Get() }, "d")

	eCalls := 0
	e := cellgraph.NewDerived(g, func(g *cellgraph.Graph) string {
		eCalls++
		return d.Get()
	}, "e")

	require.Equal(t, "a a", e.Get())
	require.Equal(t, 1, eCalls)

	a.Set("aa")
	assert.Equal(t, "aa aa", e.Get())
	assert.Equal(t, 2, eCalls)
}

// TestDependencyAppearsDirectlyAndTransitively supplements spec §8: a
// cell that reads the same source both directly and through another
// derived cell in the same run is still tracked correctly and recomputes
// exactly once per source write.
func TestDependencyAppearsDirectlyAndTransitively(t *testing.T) {
	g := cellgraph.NewGraph()

	a := cellgraph.NewSource(g, 2, "a")
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return a.Get() - 1 }, "b")

	dCalls := 0
	d := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		dCalls++
		return a.Get() + b.Get()
	}, "d")

	require.Equal(t, 3, d.Get())
	require.Equal(t, 1, dCalls)

	a.Set(4)
	assert.Equal(t, 7, d.Get())
	assert.Equal(t, 2, dCalls)
}

// TestABADrop supplements spec §8's additional scenario 7: a source that
// oscillates away from and back to its original value within a single
// batch must not leave any downstream derived cell, or the effect
// watching it, thinking a net change occurred. Grounded on
// alien/topology_test.go's TestTopologyDropAbaUpdates shape.
func TestABADrop(t *testing.T) {
	g := cellgraph.NewGraph()

	a := cellgraph.NewSource(g, 1, "a")
	bCalls := 0
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		bCalls++
		return a.Get()
	}, "b")

	eRuns := 0
	var seen int
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		eRuns++
		seen = b.Get()
	}, "e")

	eRuns, bCalls = 0, 0
	cellgraph.Batch(g, func() {
		a.Set(5)
		a.Set(1)
	})

	assert.Equal(t, 0, eRuns, "b's net value is unchanged, so the effect watching it has nothing to react to")
	assert.Equal(t, 1, bCalls, "the dirty check still recomputes b once to confirm nothing changed")
	assert.Equal(t, 1, seen, "seen keeps whatever the effect's last real run saw")
}

// TestDepthPromotionMidFlush supplements spec §8's additional scenario
// 9: a conditional branch that switches to a deeper dependency chain
// mid-recompute must not cause the effect watching it to run more than
// once in the flush that triggered the switch, and the cell's recorded
// depth must reflect the new, deeper chain afterward.
func TestDepthPromotionMidFlush(t *testing.T) {
	g := cellgraph.NewGraph(cellgraph.WithHeapScheduler())

	useShallow := cellgraph.NewSource(g, true, "useShallow")
	x := cellgraph.NewSource(g, 1, "x")
	y1 := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return x.Get() + 1 }, "y1")
	y2 := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return y1.Get() + 1 }, "y2")
	y3 := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return y2.Get() + 1 }, "y3")

	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int {
		if useShallow.Get() {
			return x.Get()
		}
		return y3.Get()
	}, "c")

	eRuns := 0
	var lastSeen int
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) {
		eRuns++
		lastSeen = c.Get()
	}, "e")

	cellsBefore, _ := g.Snapshot()
	depthBefore := cellDepth(t, cellsBefore, "c")
	assert.Equal(t, uint32(1), depthBefore, "c starts one hop past x")

	eRuns = 0
	useShallow.Set(false)

	assert.Equal(t, 1, eRuns, "e still runs exactly once even though c's dependency chain deepened mid-flush")
	assert.Equal(t, 4, lastSeen)

	cellsAfter, _ := g.Snapshot()
	assert.Equal(t, uint32(4), cellDepth(t, cellsAfter, "c"), "c's depth now reflects the deeper y3 chain")
}

func cellDepth(t *testing.T, cells []cellgraph.CellInfo, label string) uint32 {
	t.Helper()
	for _, c := range cells {
		if c.Label == label {
			return c.Depth
		}
	}
	t.Fatalf("no cell labeled %q in snapshot", label)
	return 0
}
