// Package ref implements Asteria's reference (l-value path) layer: a root
// plus a chain of modifiers, as described in spec.md §3.2/§4.2.
package ref

import (
	"errors"
	"fmt"

	"github.com/lhmouse/asteria-go/value"
)

// ErrWriteToConstant is returned by Write when the reference's root is a
// constant, which is never writable.
var ErrWriteToConstant = errors.New("asteria: cannot write to a constant reference")

// ErrImmutableVariable is returned by Write when the root variable was
// created immutable (spec.md §3.3).
var ErrImmutableVariable = errors.New("asteria: cannot assign to an immutable variable")

// Variable is the capability a reference needs from a GC-tracked variable:
// read/write its current value. gc.Variable implements this without ref
// importing the gc package, keeping the dependency one-directional.
type Variable interface {
	value.VariableHandle
	Load() value.Value
	Store(value.Value) error
}

// RootKind discriminates which of the five root variants a Reference holds.
type RootKind int

const (
	RootConstant RootKind = iota
	RootTemporary
	RootVariable
	RootVoid
	RootReturnSlot
)

// ModifierKind discriminates the four path-step variants.
type ModifierKind int

const (
	ModifierArrayIndex ModifierKind = iota
	ModifierArrayHead
	ModifierArrayTail
	ModifierObjectKey
)

// Modifier is one step of a reference's path.
type Modifier struct {
	Kind  ModifierKind
	Index int64
	Key   string
}

func ArrayIndex(i int64) Modifier { return Modifier{Kind: ModifierArrayIndex, Index: i} }
func ArrayHead() Modifier         { return Modifier{Kind: ModifierArrayHead} }
func ArrayTail() Modifier         { return Modifier{Kind: ModifierArrayTail} }
func ObjectKey(k string) Modifier { return Modifier{Kind: ModifierObjectKey, Key: k} }

// Reference is an l-value path: a root plus zero or more modifiers applied
// left to right.
type Reference struct {
	root      RootKind
	constant  value.Value
	temporary value.Value
	variable  Variable
	modifiers []Modifier
}

// Constant builds a reference rooted at an immutable literal value.
func Constant(v value.Value) Reference {
	return Reference{root: RootConstant, constant: v}
}

// Temporary builds a reference rooted at a value with no backing storage;
// writing to it in place is allowed (it simply replaces the temporary) but
// Materialize is required to give it a durable GC-tracked home.
func Temporary(v value.Value) Reference {
	return Reference{root: RootTemporary, temporary: v}
}

// FromVariable builds a reference rooted at a GC-tracked variable handle.
func FromVariable(v Variable) Reference {
	return Reference{root: RootVariable, variable: v}
}

// Void builds a reference to nowhere; reading it always yields null and
// writing to it is a no-op, matching the discard target of statements whose
// result is never used.
func Void() Reference {
	return Reference{root: RootVoid}
}

// ReturnSlot builds a reference to the active call's return-value slot,
// backed by a plain in-memory cell the caller supplies.
func ReturnSlot(slot *value.Value) Reference {
	return Reference{root: RootReturnSlot, temporary: *slot, variable: returnSlotVariable{slot}}
}

type returnSlotVariable struct{ slot *value.Value }

func (returnSlotVariable) IsVariableHandle() {}
func (r returnSlotVariable) Load() value.Value { return *r.slot }
func (r returnSlotVariable) Store(v value.Value) error {
	*r.slot = v
	return nil
}

// Root reports which root variant this reference holds.
func (r Reference) Root() RootKind { return r.root }

// Push appends a modifier, returning the extended reference (builder
// style, matching spec.md §4.2's "modify(push-modifier)").
func (r Reference) Push(m Modifier) Reference {
	r.modifiers = append(append([]Modifier(nil), r.modifiers...), m)
	return r
}

// Modifiers returns the modifier chain in application order.
func (r Reference) Modifiers() []Modifier {
	return r.modifiers
}

// rootValue returns the value currently held at the root, before any
// modifiers are applied.
func (r Reference) rootValue() value.Value {
	switch r.root {
	case RootConstant:
		return r.constant
	case RootTemporary:
		return r.temporary
	case RootVariable, RootReturnSlot:
		return r.variable.Load()
	default:
		return value.Null()
	}
}

// Read walks the modifier chain left to right, producing a value. A
// modifier chain that encounters a non-container mid-path, or an
// out-of-range array index, or a missing object key, yields null rather
// than an error (spec.md §4.2).
func (r Reference) Read() value.Value {
	cur := r.rootValue()
	for _, m := range r.modifiers {
		cur = applyRead(cur, m)
	}
	return cur
}

func applyRead(cur value.Value, m Modifier) value.Value {
	switch m.Kind {
	case ModifierArrayIndex:
		arr, ok := cur.AsArray()
		if !ok {
			return value.Null()
		}
		i := normalizeIndex(m.Index, len(arr))
		if i < 0 || i >= int64(len(arr)) {
			return value.Null()
		}
		return arr[i]
	case ModifierArrayHead:
		arr, ok := cur.AsArray()
		if !ok || len(arr) == 0 {
			return value.Null()
		}
		return arr[0]
	case ModifierArrayTail:
		arr, ok := cur.AsArray()
		if !ok || len(arr) == 0 {
			return value.Null()
		}
		return arr[len(arr)-1]
	case ModifierObjectKey:
		obj, ok := cur.AsObject()
		if !ok {
			return value.Null()
		}
		v, found := obj.Get(m.Key)
		if !found {
			return value.Null()
		}
		return v
	default:
		return value.Null()
	}
}

// normalizeIndex resolves negative indices from the end of the array, as
// Asteria's array-index modifier does.
func normalizeIndex(i int64, length int) int64 {
	if i < 0 {
		return int64(length) + i
	}
	return i
}

// Write stores v at the path denoted by this reference, materializing
// intermediate arrays/objects as needed. Writing to a constant root always
// fails; writing to an immutable variable root fails; writing through Void
// is a no-op that reports success, matching a discard target.
func (r *Reference) Write(v value.Value) error {
	switch r.root {
	case RootConstant:
		return ErrWriteToConstant
	case RootVoid:
		return nil
	case RootTemporary:
		if len(r.modifiers) == 0 {
			r.temporary = v
			return nil
		}
		root := r.temporary
		updated, err := materializeWrite(root, r.modifiers, v)
		if err != nil {
			return err
		}
		r.temporary = updated
		return nil
	case RootVariable, RootReturnSlot:
		if len(r.modifiers) == 0 {
			if err := r.variable.Store(v); err != nil {
				return err
			}
			return nil
		}
		root := r.variable.Load()
		updated, err := materializeWrite(root, r.modifiers, v)
		if err != nil {
			return err
		}
		return r.variable.Store(updated)
	default:
		return fmt.Errorf("asteria: unknown reference root kind %d", r.root)
	}
}

// materializeWrite rebuilds root along the modifier chain, creating arrays
// and objects in place of null or absent intermediates as necessary, and
// stores v at the final position.
func materializeWrite(root value.Value, mods []Modifier, v value.Value) (value.Value, error) {
	if len(mods) == 0 {
		return v, nil
	}
	head, rest := mods[0], mods[1:]

	switch head.Kind {
	case ModifierArrayIndex, ModifierArrayHead, ModifierArrayTail:
		arr, ok := root.AsArray()
		if !ok {
			if !root.IsNull() {
				return value.Value{}, fmt.Errorf("asteria: cannot index into a %s as an array", root.Kind())
			}
			arr = nil
		}
		idx, arr := resolveArrayWriteIndex(head, arr)
		var child value.Value
		if idx < int64(len(arr)) {
			child = arr[idx]
		}
		updatedChild, err := materializeWrite(child, rest, v)
		if err != nil {
			return value.Value{}, err
		}
		for int64(len(arr)) <= idx {
			arr = append(arr, value.Null())
		}
		arr[idx] = updatedChild
		return value.Array(arr), nil

	case ModifierObjectKey:
		obj, ok := root.AsObject()
		if !ok {
			if !root.IsNull() {
				return value.Value{}, fmt.Errorf("asteria: cannot index into a %s as an object", root.Kind())
			}
			obj = value.NewObject()
		} else {
			obj = obj.Clone()
		}
		child, _ := obj.Get(head.Key)
		updatedChild, err := materializeWrite(child, rest, v)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(head.Key, updatedChild)
		return value.Obj(obj), nil

	default:
		return value.Value{}, fmt.Errorf("asteria: unknown modifier kind %d", head.Kind)
	}
}

// resolveArrayWriteIndex turns a head/tail/index modifier into a concrete,
// non-negative slice index, growing arr if writing one past either end.
func resolveArrayWriteIndex(m Modifier, arr []value.Value) (int64, []value.Value) {
	switch m.Kind {
	case ModifierArrayHead:
		return 0, append([]value.Value{value.Null()}, arr...)
	case ModifierArrayTail:
		return int64(len(arr)), arr
	default:
		idx := normalizeIndex(m.Index, len(arr))
		if idx < 0 {
			// The zero Value is null, so this prepends -idx nulls.
			arr = append(make([]value.Value, -idx), arr...)
			idx = 0
		}
		return idx, arr
	}
}

// Materialize turns a temporary or constant reference into a variable
// reference backed by a freshly GC-tracked copy, using factory to create
// the variable (spec.md §4.2: "Variable roots are reference-counted
// handles"). Variable and return-slot references are returned unchanged.
func (r Reference) Materialize(factory func(initial value.Value, immutable bool) Variable) Reference {
	switch r.root {
	case RootVariable, RootReturnSlot:
		return r
	default:
		v := factory(r.Read(), false)
		return FromVariable(v)
	}
}
