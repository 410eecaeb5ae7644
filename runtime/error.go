// Package runtime implements Asteria's global execution context (spec.md
// §2 component F): the collector, PRNG, and loader lock a host-embedded
// interpreter shares across one thread, plus the runtime back-trace error
// carrier described in spec.md §7.
package runtime

import (
	"strings"

	"github.com/lhmouse/asteria-go/token"
)

// Frame is one (source-location, function-signature) entry in a runtime
// Error's back-trace, accumulated as the error unwinds the interpreter
// (spec.md §7).
type Frame struct {
	Location  token.SourceLocation
	Signature string
}

func (f Frame) String() string {
	return f.Location.String() + " in " + f.Signature
}

// Error is the run-time error taxonomy of spec.md §7: a free-form
// diagnostic message plus a back-trace of frames. It is a plain struct of
// value fields only, so copying it can never itself panic, matching the
// "copy/move must not themselves throw" guarantee spec.md §7 requires of
// exception-like carriers.
type Error struct {
	Message string
	Frames  []Frame
}

// NewError starts a fresh runtime error with no back-trace frames yet.
func NewError(message string) Error {
	return Error{Message: message}
}

// WithFrame returns a copy of e with one more back-trace frame appended,
// leaving e itself untouched; callers push a frame at each stack level
// they unwind through.
func (e Error) WithFrame(loc token.SourceLocation, signature string) Error {
	frames := make([]Frame, len(e.Frames), len(e.Frames)+1)
	copy(frames, e.Frames)
	frames = append(frames, Frame{Location: loc, Signature: signature})
	return Error{Message: e.Message, Frames: frames}
}

func (e Error) Error() string {
	if len(e.Frames) == 0 {
		return e.Message
	}
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Frames {
		b.WriteString("\n  from ")
		b.WriteString(f.String())
	}
	return b.String()
}
