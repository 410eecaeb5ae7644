package ref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhmouse/asteria-go/ref"
	"github.com/lhmouse/asteria-go/value"
)

type fakeVariable struct {
	v         value.Value
	immutable bool
}

func (*fakeVariable) IsVariableHandle() {}
func (f *fakeVariable) Load() value.Value { return f.v }
func (f *fakeVariable) Store(v value.Value) error {
	if f.immutable {
		return ref.ErrImmutableVariable
	}
	f.v = v
	return nil
}

func TestConstantReadWrite(t *testing.T) {
	r := ref.Constant(value.Integer(42))
	assert.Equal(t, int64(42), mustInt(t, r.Read()))
	assert.ErrorIs(t, r.Write(value.Integer(1)), ref.ErrWriteToConstant)
}

func TestVoidReadWrite(t *testing.T) {
	r := ref.Void()
	assert.True(t, r.Read().IsNull())
	assert.NoError(t, r.Write(value.Integer(5)))
}

func TestArrayIndexReadOutOfRangeYieldsNull(t *testing.T) {
	r := ref.Temporary(value.Array([]value.Value{value.Integer(1), value.Integer(2)})).
		Push(ref.ArrayIndex(5))
	assert.True(t, r.Read().IsNull())
}

func TestArrayNegativeIndex(t *testing.T) {
	r := ref.Temporary(value.Array([]value.Value{value.Integer(1), value.Integer(2), value.Integer(3)})).
		Push(ref.ArrayIndex(-1))
	assert.Equal(t, int64(3), mustInt(t, r.Read()))
}

func TestObjectKeyMissingYieldsNull(t *testing.T) {
	o := value.NewObject()
	o.Set("a", value.Integer(1))
	r := ref.Temporary(value.Obj(o)).Push(ref.ObjectKey("missing"))
	assert.True(t, r.Read().IsNull())
}

func TestVariableWriteThroughModifierChainMaterializes(t *testing.T) {
	fv := &fakeVariable{v: value.Null()}
	r := ref.FromVariable(fv).Push(ref.ObjectKey("a")).Push(ref.ArrayIndex(2))

	require.NoError(t, r.Write(value.Integer(9)))

	obj, ok := fv.Load().AsObject()
	require.True(t, ok)
	inner, ok := obj.Get("a")
	require.True(t, ok)
	arr, ok := inner.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, int64(9), mustInt(t, arr[2]))
	assert.True(t, arr[0].IsNull())
}

func TestWriteToImmutableVariableFails(t *testing.T) {
	fv := &fakeVariable{v: value.Integer(1), immutable: true}
	r := ref.FromVariable(fv)
	assert.ErrorIs(t, r.Write(value.Integer(2)), ref.ErrImmutableVariable)
}

func TestMaterializeTemporaryIntoVariable(t *testing.T) {
	var created value.Value
	factory := func(initial value.Value, immutable bool) ref.Variable {
		created = initial
		return &fakeVariable{v: initial, immutable: immutable}
	}
	r := ref.Temporary(value.Integer(7)).Materialize(factory)
	assert.Equal(t, ref.RootVariable, r.Root())
	assert.Equal(t, int64(7), mustInt(t, created))
}

func mustInt(t *testing.T, v value.Value) int64 {
	t.Helper()
	i, ok := v.AsInteger()
	require.True(t, ok)
	return i
}
