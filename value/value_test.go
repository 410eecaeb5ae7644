package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhmouse/asteria-go/value"
)

func TestZeroValueIsNull(t *testing.T) {
	var v value.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, value.KindNull, v.Kind())
	assert.False(t, v.Test())
}

func TestTestTruthiness(t *testing.T) {
	assert.False(t, value.Null().Test())
	assert.False(t, value.Boolean(false).Test())
	assert.True(t, value.Boolean(true).Test())
	assert.True(t, value.Integer(0).Test())
	assert.True(t, value.String("").Test())
	assert.True(t, value.Array(nil).Test())
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := value.NewObject()
	o.Set("b", value.Integer(1))
	o.Set("a", value.Integer(2))
	var keys []string
	o.Range(func(k string, _ value.Value) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestObjectSetExistingKeyKeepsPosition(t *testing.T) {
	o := value.NewObject()
	o.Set("a", value.Integer(1))
	o.Set("b", value.Integer(2))
	o.Set("a", value.Integer(99))

	var keys []string
	o.Range(func(k string, _ value.Value) bool {
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []string{"a", "b"}, keys)

	v, ok := o.Get("a")
	require.True(t, ok)
	i, _ := v.AsInteger()
	assert.Equal(t, int64(99), i)
}

func TestAsRealOrIntegerWidens(t *testing.T) {
	r, ok := value.Integer(3).AsRealOrInteger()
	require.True(t, ok)
	assert.Equal(t, 3.0, r)

	r, ok = value.Real(2.5).AsRealOrInteger()
	require.True(t, ok)
	assert.Equal(t, 2.5, r)

	_, ok = value.String("x").AsRealOrInteger()
	assert.False(t, ok)
}

type fakeOpaque struct {
	children []value.VariableHandle
}

func (f fakeOpaque) Describe() string { return "fake-opaque" }

func (f fakeOpaque) EnumerateChildren(visit value.ChildVisitor) bool {
	for _, h := range f.children {
		if !visit(h) {
			return false
		}
	}
	return true
}

type fakeHandle struct{ id int }

func (fakeHandle) IsVariableHandle() {}

func TestEnumerateChildrenRecursesThroughContainers(t *testing.T) {
	h := fakeHandle{id: 1}
	opq := fakeOpaque{children: []value.VariableHandle{h}}
	arr := value.Array([]value.Value{value.OpaqueValue(opq), value.Integer(5)})

	var seen []value.VariableHandle
	arr.EnumerateChildren(func(vh value.VariableHandle) bool {
		seen = append(seen, vh)
		return true
	})
	require.Len(t, seen, 1)
	assert.Equal(t, h, seen[0])
}

func TestScalarsHaveNoChildren(t *testing.T) {
	called := false
	value.Integer(1).EnumerateChildren(func(value.VariableHandle) bool {
		called = true
		return true
	})
	assert.False(t, called)
}
