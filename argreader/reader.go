// Package argreader implements Asteria's host-interop argument reader
// (spec.md §4.3): a fluent decoder host functions use to pull typed
// arguments out of a call's argument list, trying one overload prototype
// at a time and producing a combined "no matching overload" diagnostic
// when every attempt fails.
package argreader

import (
	"fmt"
	"strings"

	"github.com/lhmouse/asteria-go/value"
)

// Bits in a prototype byte: the low nibble is a value.Kind when the
// parameter is statically typed, bit 4 marks a generic (any-kind)
// parameter, bit 5 marks the parameter required rather than optional.
// 0x30 alone (generic and required with no kind) denotes the variadic
// placeholder appended by Finish when recording an overload.
const (
	tagGeneric  = 0x10
	tagRequired = 0x20
	tagVariadic = 0x30
)

func encodeOptionalTyped(k value.Kind) byte { return byte(k) & 0x0F }
func encodeRequiredTyped(k value.Kind) byte { return tagRequired | (byte(k) & 0x0F) }
func encodeGeneric() byte                   { return tagGeneric }
func encodeVariadic() byte                  { return tagVariadic }

func describeParam(b byte) string {
	generic := b&tagGeneric != 0
	required := b&tagRequired != 0
	switch {
	case generic && required:
		return "..."
	case generic:
		return "<generic>"
	case required:
		return value.Kind(b & 0x0F).String()
	default:
		return "[" + value.Kind(b&0x0F).String() + "]"
	}
}

// Reader decodes a call's arguments against a sequence of candidate
// overload prototypes. A caller tries each overload in turn: Start resets
// the reader for a fresh attempt, a chain of Opt/Req calls records and
// decodes that overload's parameters, and Finish/FinishVariadic closes it
// out. The first overload whose calls all succeed is the match; if every
// overload fails, ThrowNoMatchingFunctionCall formats a diagnostic listing
// what was actually passed against every prototype that was tried.
type Reader struct {
	name string
	args []value.Value

	prototype []byte
	finished  bool
	succeeded bool

	overloads [][]byte
}

// New builds a reader over a call's argument list. name is the function
// name as it should appear in diagnostics.
func New(name string, args []value.Value) *Reader {
	return &Reader{name: name, args: args}
}

// Start begins decoding a new overload attempt, discarding any partial
// prototype recorded by a previous attempt that did not call Finish.
func (r *Reader) Start() *Reader {
	r.prototype = r.prototype[:0]
	r.finished = false
	r.succeeded = true
	return r
}

// Succeeded reports whether every Opt/Req/Finish call so far has matched.
func (r *Reader) Succeeded() bool {
	return r.succeeded
}

// State is a checkpoint of a reader's cursor, letting two overloads that
// share a prefix of parameters decode that prefix once and diverge only
// afterward (spec.md §4.3 save_state/load_state). SaveState captures a
// checkpoint right after the shared parameters are read; LoadState rewinds
// to it before decoding the next overload's distinct suffix.
type State struct {
	prototypeLen int
	succeeded    bool
}

// SaveState checkpoints the reader's current prototype cursor and success
// flag into *s.
func (r *Reader) SaveState(s *State) *Reader {
	s.prototypeLen = len(r.prototype)
	s.succeeded = r.succeeded
	return r
}

// LoadState rewinds the reader to a checkpoint previously captured by
// SaveState, discarding any parameters decoded since: the parameters up to
// the checkpoint are treated as already read, and the next Opt/Req call
// resumes recording the prototype right after them.
func (r *Reader) LoadState(s State) *Reader {
	r.prototype = r.prototype[:s.prototypeLen]
	r.succeeded = s.succeeded
	r.finished = false
	return r
}

func (r *Reader) fail() {
	r.succeeded = false
}

// peekOptional returns the argument at the position implied by the
// parameter just recorded in the prototype, or nil if there is no such
// argument or a previous call already failed.
func (r *Reader) peekOptional() *value.Value {
	if !r.succeeded {
		return nil
	}
	index := len(r.prototype) - 1
	if index >= len(r.args) {
		return nil
	}
	return &r.args[index]
}

// peekRequired is like peekOptional but marks the reader failed when the
// argument is missing, rather than silently leaving the destination
// untouched.
func (r *Reader) peekRequired() *value.Value {
	if !r.succeeded {
		return nil
	}
	index := len(r.prototype) - 1
	if index >= len(r.args) {
		r.fail()
		return nil
	}
	return &r.args[index]
}

// Opt reads the argument as is, without a type check: a missing argument
// leaves dst untouched, and a present one (null included) is copied into dst.
func (r *Reader) Opt(dst *value.Value) *Reader {
	r.prototype = append(r.prototype, encodeGeneric())
	if arg := r.peekOptional(); arg != nil {
		*dst = *arg
	}
	return r
}

func readTypedOptional[T any](r *Reader, kind value.Kind, as func(value.Value) (T, bool), dst *T) *Reader {
	r.prototype = append(r.prototype, encodeOptionalTyped(kind))
	arg := r.peekOptional()
	if arg == nil {
		return r
	}
	if arg.IsNull() {
		return r
	}
	v, ok := as(*arg)
	if !ok {
		r.fail()
		return r
	}
	*dst = v
	return r
}

func readTypedRequired[T any](r *Reader, kind value.Kind, as func(value.Value) (T, bool), dst *T) *Reader {
	r.prototype = append(r.prototype, encodeRequiredTyped(kind))
	arg := r.peekRequired()
	if arg == nil {
		return r
	}
	v, ok := as(*arg)
	if !ok {
		r.fail()
		return r
	}
	*dst = v
	return r
}

func (r *Reader) OptBoolean(dst *bool) *Reader {
	return readTypedOptional(r, value.KindBoolean, value.Value.AsBoolean, dst)
}

func (r *Reader) OptInteger(dst *int64) *Reader {
	return readTypedOptional(r, value.KindInteger, value.Value.AsInteger, dst)
}

func (r *Reader) OptReal(dst *float64) *Reader {
	return readTypedOptional(r, value.KindReal, value.Value.AsReal, dst)
}

func (r *Reader) OptString(dst *string) *Reader {
	return readTypedOptional(r, value.KindString, value.Value.AsString, dst)
}

func (r *Reader) OptArray(dst *[]value.Value) *Reader {
	return readTypedOptional(r, value.KindArray, value.Value.AsArray, dst)
}

func (r *Reader) OptObject(dst **value.Object) *Reader {
	return readTypedOptional(r, value.KindObject, value.Value.AsObject, dst)
}

func (r *Reader) OptOpaque(dst *value.Opaque) *Reader {
	return readTypedOptional(r, value.KindOpaque, value.Value.AsOpaque, dst)
}

func (r *Reader) OptFunction(dst *value.Function) *Reader {
	return readTypedOptional(r, value.KindFunction, value.Value.AsFunction, dst)
}

func (r *Reader) ReqBoolean(dst *bool) *Reader {
	return readTypedRequired(r, value.KindBoolean, value.Value.AsBoolean, dst)
}

func (r *Reader) ReqInteger(dst *int64) *Reader {
	return readTypedRequired(r, value.KindInteger, value.Value.AsInteger, dst)
}

func (r *Reader) ReqReal(dst *float64) *Reader {
	return readTypedRequired(r, value.KindReal, value.Value.AsReal, dst)
}

func (r *Reader) ReqString(dst *string) *Reader {
	return readTypedRequired(r, value.KindString, value.Value.AsString, dst)
}

func (r *Reader) ReqArray(dst *[]value.Value) *Reader {
	return readTypedRequired(r, value.KindArray, value.Value.AsArray, dst)
}

func (r *Reader) ReqObject(dst **value.Object) *Reader {
	return readTypedRequired(r, value.KindObject, value.Value.AsObject, dst)
}

func (r *Reader) ReqOpaque(dst *value.Opaque) *Reader {
	return readTypedRequired(r, value.KindOpaque, value.Value.AsOpaque, dst)
}

func (r *Reader) ReqFunction(dst *value.Function) *Reader {
	return readTypedRequired(r, value.KindFunction, value.Value.AsFunction, dst)
}

// checkFinish records the current prototype into the overload history
// (appending a variadic placeholder if requested) and reports the number
// of fixed parameters, or false if a previous call already failed or
// Finish was already called on this attempt.
func (r *Reader) checkFinish(variadic bool) (int, bool) {
	if r.finished {
		return 0, false
	}
	proto := append([]byte(nil), r.prototype...)
	if variadic {
		proto = append(proto, encodeVariadic())
	}
	r.overloads = append(r.overloads, proto)
	r.finished = true
	if !r.succeeded {
		return 0, false
	}
	return len(r.prototype), true
}

// Finish closes out a fixed-arity overload attempt: it fails if more
// arguments were passed than parameters were read.
func (r *Reader) Finish() bool {
	nparams, ok := r.checkFinish(false)
	if !ok {
		return false
	}
	if nparams < len(r.args) {
		r.fail()
		return false
	}
	return true
}

// FinishVariadic closes out a variadic overload attempt, collecting every
// argument beyond the fixed parameters already read into vargs.
func (r *Reader) FinishVariadic(vargs *[]value.Value) bool {
	nparams, ok := r.checkFinish(true)
	if !ok {
		return false
	}
	*vargs = append((*vargs)[:0], r.args[nparams:]...)
	return true
}

// ThrowNoMatchingFunctionCall builds the diagnostic error for when no
// overload attempted via Start/Finish succeeded, listing the actual
// argument kinds alongside every prototype that was tried.
func (r *Reader) ThrowNoMatchingFunctionCall() error {
	var b strings.Builder
	fmt.Fprintf(&b, "there was no matching overload for function call `%s(", r.name)
	for i, a := range r.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Kind().String())
	}
	b.WriteString(")`")

	if len(r.overloads) > 0 {
		b.WriteString("\n[list of overloads: ")
		for i, proto := range r.overloads {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "`%s(", r.name)
			for j, p := range proto {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(describeParam(p))
			}
			b.WriteString(")`")
		}
		b.WriteString("]")
	}
	return NoMatchingFunctionCallError{Message: b.String()}
}

// NoMatchingFunctionCallError is the dedicated error kind thrown when no
// overload prototype matches a call's actual arguments.
type NoMatchingFunctionCallError struct {
	Message string
}

func (e NoMatchingFunctionCallError) Error() string { return e.Message }
