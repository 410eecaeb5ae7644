package value

// VariableHandle is an opaque marker implemented by gc.Variable. The value
// package never looks inside one; Opaque and Function children hold these
// handles so the collector can discover cross-variable edges without this
// package importing the gc package back.
type VariableHandle interface {
	IsVariableHandle()
}

// ChildVisitor is called once per child variable handle an Opaque or
// Function value closes over. Returning false stops enumeration early,
// mirroring the short-circuiting "continue" callback described for
// enumerate_children.
type ChildVisitor func(VariableHandle) bool

// Opaque is a host-provided reference-counted blob. Only Describe and
// EnumerateChildren are needed by the runtime; any richer behavior is a
// matter between the host and its own code, reached by type-asserting back
// to a concrete type.
type Opaque interface {
	Describe() string
	// EnumerateChildren visits every VariableHandle this value closes over.
	// It returns false if the visitor asked to stop early.
	EnumerateChildren(visit ChildVisitor) bool
}

// Function is a host-provided reference-counted callable, e.g. a script
// closure capturing outer variables.
type Function interface {
	Describe() string
	EnumerateChildren(visit ChildVisitor) bool
}
