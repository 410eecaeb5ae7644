// Package gc implements Asteria's three-generation tracking garbage
// collector (spec.md §4.4): it reclaims cycles among script-visible
// variables that Go's own collector would otherwise keep alive forever,
// because the cycle only exists through opaque/function capability
// boundaries that Go's collector cannot see through a []byte/interned-key
// value model.
package gc

import (
	"fmt"
	"sync/atomic"

	"github.com/lhmouse/asteria-go/value"
)

// Variable is the unit the collector tracks: a Value slot plus the
// immutable/initialized flags from spec.md §3.3. It implements
// value.VariableHandle and ref.Variable (via Load/Store) without this
// package importing ref, keeping gc → value a one-way dependency.
type Variable struct {
	val         value.Value
	immutable   bool
	initialized bool

	// extRefs counts references to this variable that originate outside
	// the tracked variable set (held by active execution contexts, or by
	// the host). It does not count edges discovered by enumerate_children
	// from other tracked variables — those are "internal" per spec.md
	// §4.4 and are recomputed fresh at each Collect.
	extRefs int32

	// generation is -1 while the variable is untracked by any Collector,
	// and 0/1/2 once Create (or a later Collect promotion) places it in a
	// generation.
	generation int
}

// NewVariable constructs an untracked variable; it becomes tracked only
// once registered with a Collector via Create.
func NewVariable(initial value.Value, immutable bool) *Variable {
	return &Variable{val: initial, immutable: immutable, initialized: true, generation: -1}
}

func (*Variable) IsVariableHandle() {}

// Load returns the variable's current value.
func (v *Variable) Load() value.Value {
	return v.val
}

// Store overwrites the variable's value, failing if it was created
// immutable (spec.md §3.3: "An immutable variable fails on any write
// attempt with a dedicated error kind").
func (v *Variable) Store(nv value.Value) error {
	if v.immutable {
		return ErrImmutableVariable{val: v.val}
	}
	v.val = nv
	v.initialized = true
	return nil
}

// Immutable reports whether this variable was created immutable.
func (v *Variable) Immutable() bool { return v.immutable }

// Initialized reports whether this variable has ever been given a value.
func (v *Variable) Initialized() bool { return v.initialized }

// Generation reports which collector generation currently tracks v, or -1
// if v is untracked.
func (v *Variable) Generation() int {
	return v.generation
}

// AddRef/Release implement the explicit external reference count a host or
// execution context holds on top of the GC's own bookkeeping (spec.md
// §4.4's reachability root (a): "every reference currently held by an
// active execution context").
func (v *Variable) AddRef() {
	atomic.AddInt32(&v.extRefs, 1)
}

func (v *Variable) Release() {
	atomic.AddInt32(&v.extRefs, -1)
}

func (v *Variable) externalRefs() int32 {
	return atomic.LoadInt32(&v.extRefs)
}

// wipe clears a variable's value before it is dropped, guaranteeing no
// destructor sees a dangling child (spec.md §4.4 step 4).
func (v *Variable) wipe() {
	v.val = value.Null()
}

// ErrImmutableVariable is the dedicated error kind spec.md §3.3 calls for.
type ErrImmutableVariable struct {
	val value.Value
}

func (e ErrImmutableVariable) Error() string {
	return fmt.Sprintf("this variable having value `%v` is immutable and cannot be modified", e.val.Kind())
}
