package gc

import "github.com/lhmouse/asteria-go/value"

// Thresholds configures how many tracked variables a generation may hold.
// Only Newest is read: Create runs an automatic generation-0 collection once
// generation 0 holds more than Newest variables. Middle and Oldest are
// stored but nothing reads them; no collection of generation 1 or 2 is ever
// triggered automatically. These are the spec.md §4.4 defaults, but per
// open-question decision (c) they are a contract parameter, not a hardcoded
// constant.
type Thresholds struct {
	Newest int
	Middle int
	Oldest int
}

// DefaultThresholds matches the table in spec.md §4.4.
var DefaultThresholds = Thresholds{Newest: 500, Middle: 100, Oldest: 20}

// Collector is a three-generation tracking garbage collector over
// *Variable. Generation 0 is newest, 2 is oldest; collecting generation g
// promotes survivors into g+1, and the oldest generation promotes into
// itself.
type Collector struct {
	gens       [3][]*Variable
	thresholds [3]int
}

// NewCollector builds a collector with the given generation thresholds.
func NewCollector(t Thresholds) *Collector {
	return &Collector{thresholds: [3]int{t.Newest, t.Middle, t.Oldest}}
}

// Create registers a new tracked variable in generation 0. If that
// generation's threshold is exceeded, an automatic collection of
// generation 0 runs before returning (spec.md §4.4 "Create").
func (c *Collector) Create(initial value.Value, immutable bool) *Variable {
	v := NewVariable(initial, immutable)
	v.generation = 0
	c.gens[0] = append(c.gens[0], v)
	if len(c.gens[0]) > c.thresholds[0] {
		// v is rooted here explicitly: it was just created and its caller
		// has not had a chance to store it anywhere or AddRef it yet, so
		// without this it would look like unreachable garbage to its own
		// birth collection.
		c.Collect(0, []*Variable{v})
	}
	return v
}

// Untrack removes v from whatever generation currently holds it, e.g. when
// a host explicitly destroys a variable outside of collection. It reports
// whether v was found.
func (c *Collector) Untrack(v *Variable) bool {
	for g := range c.gens {
		for i, cand := range c.gens[g] {
			if cand == v {
				c.gens[g] = append(c.gens[g][:i], c.gens[g][i+1:]...)
				v.generation = -1
				return true
			}
		}
	}
	return false
}

// Count returns the number of variables tracked across all three
// generations.
func (c *Collector) Count() int {
	return len(c.gens[0]) + len(c.gens[1]) + len(c.gens[2])
}

// CountGeneration returns the number of variables tracked in generation g.
func (c *Collector) CountGeneration(g int) int {
	return len(c.gens[g])
}

// Collect runs a collection of generation g (spec.md §4.4 "Collect(g)").
// extraRoots supplies every reference currently held by an active execution
// context (reachability root (a) in spec.md §4.4); the statement/expression
// executor that would normally own these is out of this module's scope, so
// callers pass them in explicitly.
func (c *Collector) Collect(g int, extraRoots []*Variable) {
	tracked := make(map[*Variable]bool)
	for gi := 0; gi <= g; gi++ {
		for _, v := range c.gens[gi] {
			tracked[v] = true
		}
	}

	// Reachability roots: every extraRoot, every variable with a nonzero
	// external reference count, and every variable already living in an
	// older, uncollected generation (reachability root (b)).
	alive := make(map[*Variable]bool)
	var stack []*Variable
	push := func(v *Variable) {
		if v != nil && !alive[v] {
			alive[v] = true
			stack = append(stack, v)
		}
	}
	for _, v := range extraRoots {
		push(v)
	}
	for gi := g + 1; gi < 3; gi++ {
		for _, v := range c.gens[gi] {
			push(v)
		}
	}
	for v := range tracked {
		if v.externalRefs() > 0 {
			push(v)
		}
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		v.val.EnumerateChildren(func(h value.VariableHandle) bool {
			if child, ok := h.(*Variable); ok {
				push(child)
			}
			return true
		})
	}

	// Anything tracked but unreached is cyclic garbage: wipe before
	// dropping, so no destructor observes a dangling child (step 4).
	var survivors [3][]*Variable
	for gi := 0; gi <= g; gi++ {
		for _, v := range c.gens[gi] {
			if alive[v] {
				survivors[gi] = append(survivors[gi], v)
			} else {
				v.wipe()
				v.generation = -1
			}
		}
	}

	nextGen := g + 1
	if nextGen > 2 {
		nextGen = 2
	}
	for gi := 0; gi <= g; gi++ {
		for _, v := range survivors[gi] {
			v.generation = nextGen
		}
	}

	if nextGen != g {
		for gi := 0; gi <= g; gi++ {
			if gi != nextGen {
				c.gens[nextGen] = append(c.gens[nextGen], survivors[gi]...)
			}
		}
		for gi := 0; gi <= g; gi++ {
			if gi != nextGen {
				c.gens[gi] = nil
			}
		}
	} else {
		// Oldest generation promotes into itself: every collected
		// generation's survivors (including the oldest's own) merge into
		// gens[g], and the younger generations that fed into it go empty.
		var merged []*Variable
		for gi := 0; gi <= g; gi++ {
			merged = append(merged, survivors[gi]...)
		}
		c.gens[g] = merged
		for gi := 0; gi < g; gi++ {
			c.gens[gi] = nil
		}
	}
}

// Teardown wipes every tracked variable across all generations before
// dropping them, preventing destructor-order crashes on cyclic graphs when
// the owning global context is destroyed (spec.md §4.4 "Tear-down").
func (c *Collector) Teardown() {
	for g := range c.gens {
		for _, v := range c.gens[g] {
			v.wipe()
			v.generation = -1
		}
		c.gens[g] = nil
	}
}
