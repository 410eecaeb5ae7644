package token

import (
	"fmt"

	"github.com/lhmouse/asteria-go/reporter"
)

// ParserError is thrown by the lexer (and, via dialect reuse, the JSON
// parser) when source text cannot be tokenized. Copying or moving a
// ParserError never fails, matching the original `Parser_Error` class.
type ParserError struct {
	Status ParserStatus
	Loc    SourceLocation
	Length int
}

func (e ParserError) Error() string {
	if e.Loc.AtEOF() {
		return fmt.Sprintf("error %d at the end of input data: %s", e.Status, e.Status.Describe())
	}
	return fmt.Sprintf("error %d at line %d, offset %d, length %d: %s",
		e.Status, e.Loc.Line, e.Loc.Column, e.Length, e.Status.Describe())
}

func (e ParserError) GetPosition() reporter.Position {
	return e.Loc
}

func (e ParserError) Unwrap() error {
	return nil
}

var _ reporter.ErrorWithPos = ParserError{}

// NewParserError builds a ParserError and wraps it as a reporter.ErrorWithPos
// for callers that only deal in that interface.
func NewParserError(status ParserStatus, loc SourceLocation, length int) reporter.ErrorWithPos {
	return ParserError{Status: status, Loc: loc, Length: length}
}
