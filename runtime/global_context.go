package runtime

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/lhmouse/asteria-go/argreader"
	"github.com/lhmouse/asteria-go/gc"
	"github.com/lhmouse/asteria-go/json"
	"github.com/lhmouse/asteria-go/value"
)

// GlobalContext is the single-threaded shared state spec.md §5 describes:
// it owns the generational collector, the PRNG, the loader lock, and the
// `std` root variable, and is never protected by locks itself — a host
// confines one GlobalContext to one goroutine (spec.md §5, "no locks
// protect the GC — it is accessed only on the owning thread").
type GlobalContext struct {
	gcoll *gc.Collector

	// Random is the global context's own PRNG, exposed read-only: callers
	// may draw from it but the context alone decides when it is reseeded.
	Random *rand.Rand

	// LoaderLock is the non-reentrant recursive-import guard from
	// spec.md §5.
	LoaderLock *LoaderLock

	std *gc.Variable
}

// NewGlobalContext builds a GlobalContext with a fresh collector (default
// thresholds), a CSPRNG-seeded PRNG, an empty loader lock, and a `std` root
// populated with the modules this module implements a surface for (just
// `json`, per spec.md §1's scope: "the standard library beyond JSON ... is
// excluded").
func NewGlobalContext() *GlobalContext {
	g := &GlobalContext{
		gcoll:      gc.NewCollector(gc.DefaultThresholds),
		Random:     rand.New(rand.NewPCG(seedWord(), seedWord())),
		LoaderLock: NewLoaderLock(),
	}
	g.initializeStd()
	return g
}

// seedWord draws one CSPRNG-generated uint64 to seed math/rand/v2, mirroring
// the original's Random_Engine construction (seeded from the OS entropy
// source rather than a fixed or time-based seed).
func seedWord() uint64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		panic(fmt.Errorf("asteria: failed to seed PRNG: %w", err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Collector returns the collector tracking every variable this context has
// created.
func (g *GlobalContext) Collector() *gc.Collector {
	return g.gcoll
}

// Collect runs a collection of the given generation (0, 1, or 2), rooting
// it additionally at extraRoots — the reference set an embedding executor
// currently holds live (spec.md §4.4). `std` itself always survives
// because NewGlobalContext holds its own external reference on it.
func (g *GlobalContext) Collect(generation int, extraRoots []*gc.Variable) {
	g.gcoll.Collect(generation, extraRoots)
}

// Teardown performs the wipe the original destructor does
// (`~Global_Context` calling `wipe_out_variables`): it releases this
// context's own hold on `std`, then wipes every tracked variable
// unconditionally. No collection runs first.
func (g *GlobalContext) Teardown() {
	g.std.Release()
	g.gcoll.Teardown()
}

// Std returns the `std` root variable: an immutable object binding one
// entry per supported library module.
func (g *GlobalContext) Std() *gc.Variable {
	return g.std
}

// CreateVariable registers a new variable with this context's collector,
// the only allowed constructor for a gc.Variable (spec.md §3.3).
func (g *GlobalContext) CreateVariable(initial value.Value, immutable bool) *gc.Variable {
	return g.gcoll.Create(initial, immutable)
}

func (g *GlobalContext) initializeStd() {
	std := value.NewObject()
	std.Set("json", value.Obj(jsonModule()))
	g.std = g.gcoll.Create(value.Obj(std), true)
	g.std.AddRef()
}

// jsonModule binds std.json.format/format5/parse/parse_file, grounded on
// create_bindings_json in the original library/json.cpp.
func jsonModule() *value.Object {
	mod := value.NewObject()
	mod.Set("format", value.FunctionValue(&NativeFunction{Name: "std.json.format", Call: stdJSONFormat}))
	mod.Set("format5", value.FunctionValue(&NativeFunction{Name: "std.json.format5", Call: stdJSONFormat5}))
	mod.Set("parse", value.FunctionValue(&NativeFunction{Name: "std.json.parse", Call: stdJSONParse}))
	mod.Set("parse_file", value.FunctionValue(&NativeFunction{Name: "std.json.parse_file", Call: stdJSONParseFile}))
	return mod
}

// stdJSONFormat mirrors the original's two std_json_format overloads: an
// optional string indent prefix, or an integer space count.
func stdJSONFormat(args []value.Value) (value.Value, error) {
	r := argreader.New("std.json.format", args)

	// Both overloads share the leading generic `value` parameter, so it is
	// decoded once and checkpointed; the second attempt rewinds to that
	// checkpoint instead of re-declaring and re-reading it.
	var v value.Value
	var state argreader.State
	var sindent string
	r.Start().Opt(&v).SaveState(&state).OptString(&sindent)
	if r.Finish() {
		return value.String(json.Format(v, sindent)), nil
	}

	var nindent int64
	r.LoadState(state).OptInteger(&nindent)
	if r.Finish() {
		return value.String(json.FormatSpaces(v, nindent)), nil
	}

	return value.Value{}, r.ThrowNoMatchingFunctionCall()
}

func stdJSONFormat5(args []value.Value) (value.Value, error) {
	r := argreader.New("std.json.format5", args)

	var v value.Value
	var state argreader.State
	var sindent string
	r.Start().Opt(&v).SaveState(&state).OptString(&sindent)
	if r.Finish() {
		return value.String(json.Format5(v, sindent)), nil
	}

	var nindent int64
	r.LoadState(state).OptInteger(&nindent)
	if r.Finish() {
		return value.String(json.FormatSpaces5(v, nindent)), nil
	}

	return value.Value{}, r.ThrowNoMatchingFunctionCall()
}

func stdJSONParse(args []value.Value) (value.Value, error) {
	r := argreader.New("std.json.parse", args)
	var text string
	r.Start().ReqString(&text)
	if !r.Finish() {
		return value.Value{}, r.ThrowNoMatchingFunctionCall()
	}
	return json.Parse(text)
}

func stdJSONParseFile(args []value.Value) (value.Value, error) {
	r := argreader.New("std.json.parse_file", args)
	var path string
	r.Start().ReqString(&path)
	if !r.Finish() {
		return value.Value{}, r.ThrowNoMatchingFunctionCall()
	}
	return json.ParseFile(path)
}
