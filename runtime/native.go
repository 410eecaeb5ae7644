package runtime

import "github.com/lhmouse/asteria-go/value"

// NativeFunction is a host-provided callable bound into a global context's
// standard-library root (spec.md §2 component F). It implements
// value.Function; a native never closes over script variables, so
// EnumerateChildren always reports no children, exactly as the design
// notes in spec.md §9 describe for host-extended capability interfaces
// ("reached by type-asserting back to a concrete type").
type NativeFunction struct {
	Name string
	Call func(args []value.Value) (value.Value, error)
}

func (f *NativeFunction) Describe() string {
	return f.Name + "()"
}

func (f *NativeFunction) EnumerateChildren(value.ChildVisitor) bool {
	return true
}

var _ value.Function = (*NativeFunction)(nil)
