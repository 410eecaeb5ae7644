package value

import "github.com/lhmouse/asteria-go/internal/intern"

// Object is an insertion-ordered mapping from interned string keys to
// values. Keys are unique; re-assigning an existing key updates its value
// in place without moving it to the end, matching an ordinary hash map with
// preserved insertion order.
type Object struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewObject returns an empty object ready for use.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len reports the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Get looks up key, returning the zero Value and false if absent.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.values[i], true
}

// Set inserts or updates key. The key is interned so that repeated
// construction of objects with common field names shares storage.
func (o *Object) Set(key string, v Value) {
	key = intern.Global(key)
	if i, ok := o.index[key]; ok {
		o.values[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

// Delete removes key if present, preserving the relative order of the
// remaining entries.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.keys = append(o.keys[:i], o.keys[i+1:]...)
	o.values = append(o.values[:i], o.values[i+1:]...)
	delete(o.index, key)
	for k, idx := range o.index {
		if idx > i {
			o.index[k] = idx - 1
		}
	}
	return true
}

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for i, k := range o.keys {
		if !fn(k, o.values[i]) {
			return
		}
	}
}

// KeyAt and ValueAt give positional access to the entry at insertion index
// i, letting a non-recursive walker (e.g. the JSON formatter) resume
// iteration over an object from a saved index without holding a closure.
func (o *Object) KeyAt(i int) string   { return o.keys[i] }
func (o *Object) ValueAt(i int) Value { return o.values[i] }

// Clone returns a shallow copy: entries are copied, but nested container
// Values are shared (consistent with Value's copy-on-assign semantics
// elsewhere in this package).
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   append([]string(nil), o.keys...),
		values: append([]Value(nil), o.values...),
		index:  make(map[string]int, len(o.index)),
	}
	for k, i := range o.index {
		c.index[k] = i
	}
	return c
}
