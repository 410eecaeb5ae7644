package gc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhmouse/asteria-go/gc"
	"github.com/lhmouse/asteria-go/value"
)

// cell is a minimal Opaque standing in for a closure: it holds exactly one
// captured variable handle, the only way a cycle can form in this value
// model (arrays/objects hold Values, not handles).
type cell struct {
	captured value.VariableHandle
}

func (c *cell) Describe() string { return "cell" }
func (c *cell) EnumerateChildren(visit value.ChildVisitor) bool {
	if c.captured != nil {
		return visit(c.captured)
	}
	return true
}

func TestCreatePromotesAcrossGenerationsOnThreshold(t *testing.T) {
	c := gc.NewCollector(gc.Thresholds{Newest: 2, Middle: 100, Oldest: 20})

	v1 := c.Create(value.Integer(1), false)
	v1.AddRef()
	v2 := c.Create(value.Integer(2), false)
	v2.AddRef()
	assert.Equal(t, 0, v1.Generation())

	// A third Create pushes generation 0 past its threshold of 2, so it
	// collects generation 0; every live variable there (including v3
	// itself, rooted by its own birth) is promoted into generation 1.
	v3 := c.Create(value.Integer(3), false)
	v3.AddRef()

	assert.Equal(t, 1, v1.Generation())
	assert.Equal(t, 1, v2.Generation())
	assert.Equal(t, 1, v3.Generation())
}

func TestCollectReclaimsUnreachableCycle(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	a := c.Create(value.Null(), false)
	b := c.Create(value.Null(), false)

	// a -> b -> a, a self-contained cycle with no external references.
	require.NoError(t, a.Store(value.OpaqueValue(&cell{captured: b})))
	require.NoError(t, b.Store(value.OpaqueValue(&cell{captured: a})))

	assert.Equal(t, 2, c.Count())
	c.Collect(0, nil)
	assert.Equal(t, 0, c.Count())

	assert.True(t, a.Load().IsNull())
	assert.True(t, b.Load().IsNull())
}

func TestCollectKeepsCycleReachableFromExternalRoot(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	a := c.Create(value.Null(), false)
	b := c.Create(value.Null(), false)
	a.AddRef() // a is held by an active execution context.

	require.NoError(t, a.Store(value.OpaqueValue(&cell{captured: b})))
	require.NoError(t, b.Store(value.OpaqueValue(&cell{captured: a})))

	c.Collect(0, nil)

	assert.Equal(t, 2, c.Count())
	assert.False(t, a.Load().IsNull())
	assert.False(t, b.Load().IsNull())
}

func TestCollectHonorsExtraRoots(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	v := c.Create(value.Integer(9), false)
	c.Collect(0, []*gc.Variable{v})

	assert.Equal(t, 1, c.Count())
	assert.Equal(t, int64(9), mustInt(t, v.Load()))
}

func TestTeardownWipesAllGenerations(t *testing.T) {
	c := gc.NewCollector(gc.Thresholds{Newest: 1, Middle: 1, Oldest: 1})

	v1 := c.Create(value.Integer(1), false)
	v1.AddRef()
	v2 := c.Create(value.Integer(2), false)
	v2.AddRef()

	c.Teardown()

	assert.Equal(t, 0, c.Count())
	assert.True(t, v1.Load().IsNull())
	assert.True(t, v2.Load().IsNull())
}

func TestCollectGeneration1PromotesSurvivorToGeneration2(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	v := c.Create(value.Integer(1), false)
	v.AddRef()
	c.Collect(0, nil)
	require.Equal(t, 1, v.Generation())

	c.Collect(1, nil)

	assert.Equal(t, 2, v.Generation())
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 0, c.CountGeneration(0))
	assert.Equal(t, 0, c.CountGeneration(1))
	assert.Equal(t, 1, c.CountGeneration(2))
}

// TestCollectGeneration2ReclaimsCycleAndClearsGenerationZero is spec.md §8's
// scenario 5: two mutually cyclic, unreferenced gen-0 objects are fully
// reclaimed by a single generation-2 collection, and generation 0's slice
// itself must end up empty, not merely have its members wiped in place.
func TestCollectGeneration2ReclaimsCycleAndClearsGenerationZero(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	a := c.Create(value.Null(), false)
	b := c.Create(value.Null(), false)
	require.NoError(t, a.Store(value.OpaqueValue(&cell{captured: b})))
	require.NoError(t, b.Store(value.OpaqueValue(&cell{captured: a})))

	assert.Equal(t, 2, c.Count())
	c.Collect(2, nil)

	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0, c.CountGeneration(0))
	assert.True(t, a.Load().IsNull())
	assert.True(t, b.Load().IsNull())
}

// TestCollectGeneration2PreservesLiveSurvivorsFromYoungerGenerations guards
// the oldest-generation self-promotion path: survivors living in
// generations 0 and 1 at the time of a Collect(2) must be merged into
// generation 2, not discarded when gens[2] is replaced.
func TestCollectGeneration2PreservesLiveSurvivorsFromYoungerGenerations(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)

	v0 := c.Create(value.Integer(1), false)
	v0.AddRef()
	c.Collect(0, nil) // promotes v0 into generation 1

	v1 := c.Create(value.Integer(2), false)
	v1.AddRef()

	require.Equal(t, 1, v0.Generation())
	require.Equal(t, 0, v1.Generation())

	c.Collect(2, nil)

	assert.Equal(t, 2, v0.Generation())
	assert.Equal(t, 2, v1.Generation())
	assert.Equal(t, 0, c.CountGeneration(0))
	assert.Equal(t, 0, c.CountGeneration(1))
	assert.Equal(t, 2, c.CountGeneration(2))
}

func TestUntrackMarksVariableUntracked(t *testing.T) {
	c := gc.NewCollector(gc.DefaultThresholds)
	v := c.Create(value.Integer(1), false)

	assert.True(t, c.Untrack(v))
	assert.Equal(t, -1, v.Generation())
	assert.Equal(t, 0, c.Count())
}

func mustInt(t *testing.T, v value.Value) int64 {
	t.Helper()
	i, ok := v.AsInteger()
	require.True(t, ok)
	return i
}
