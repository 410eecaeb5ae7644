package json

import (
	"fmt"
	"math"
	"os"

	"github.com/lhmouse/asteria-go/token"
	"github.com/lhmouse/asteria-go/value"
)

// jsonDialect is the lexer dialect JSON/JSON5 text is read under: it
// reuses Asteria's own lexer (binary/hex literals, backtick digit
// separators and all), with keywords demoted to plain identifiers so
// `true`/`false`/`null`/`Infinity`/`NaN` read back as identifiers rather
// than colliding with script keywords (spec.md §4.5).
var jsonDialect = token.Dialect{
	IntegersAsReals:       true,
	EscapableSingleQuotes: true,
	KeywordsAsIdentifiers: true,
}

// stream is a forward peek/shift view over a reversed token slice
// (Tokenize's output is stored back-to-front so popping the tail is O(1)).
type stream struct {
	file string
	toks []token.Token
}

func (s *stream) peekAt(offset int) *token.Token {
	i := len(s.toks) - 1 - offset
	if i < 0 {
		return nil
	}
	return &s.toks[i]
}

func (s *stream) peek() *token.Token { return s.peekAt(0) }

func (s *stream) shift(n int) {
	s.toks = s.toks[:len(s.toks)-n]
}

func (s *stream) empty() bool { return len(s.toks) == 0 }

func (s *stream) nextLoc() token.SourceLocation {
	if t := s.peek(); t != nil {
		return t.Loc
	}
	return token.SourceLocation{File: s.file}
}

func (s *stream) nextLength() int {
	if t := s.peek(); t != nil {
		return t.Length
	}
	return 0
}

func (s *stream) errorf(status token.ParserStatus) error {
	return token.NewParserError(status, s.nextLoc(), s.nextLength())
}

func acceptPunctuator(s *stream, accept ...token.Punctuator) (token.Punctuator, bool) {
	t := s.peek()
	if t == nil || t.Kind != token.KindPunctuator {
		return 0, false
	}
	for _, p := range accept {
		if t.Punctuator == p {
			s.shift(1)
			return p, true
		}
	}
	return 0, false
}

func acceptIdentifier(s *stream, accept ...string) (string, bool) {
	t := s.peek()
	if t == nil || t.Kind != token.KindIdentifier {
		return "", false
	}
	for _, name := range accept {
		if t.Identifier == name {
			s.shift(1)
			return name, true
		}
	}
	return "", false
}

// acceptNumber accepts a JSON Number, plus JSON5's signed Infinity/NaN
// spellings (the lexer has already merged a leading sign into the literal
// for plain numbers, so only the identifier form needs the sign handled
// here).
func acceptNumber(s *stream) (float64, bool) {
	if t := s.peek(); t != nil {
		switch t.Kind {
		case token.KindIntegerLiteral:
			s.shift(1)
			return float64(t.Integer), true
		case token.KindRealLiteral:
			s.shift(1)
			return t.Real, true
		case token.KindPunctuator:
			if t.Punctuator != token.PunctuatorAdd && t.Punctuator != token.PunctuatorSub {
				return 0, false
			}
			sign := 1.0
			if t.Punctuator == token.PunctuatorSub {
				sign = -1.0
			}
			next := s.peekAt(1)
			if next == nil || next.Kind != token.KindIdentifier {
				return 0, false
			}
			switch next.Identifier {
			case "Infinity":
				s.shift(2)
				return math.Copysign(math.Inf(1), sign), true
			case "NaN":
				s.shift(2)
				return math.Copysign(math.NaN(), sign), true
			}
		}
	}
	return 0, false
}

func acceptString(s *stream) (string, bool) {
	t := s.peek()
	if t == nil || t.Kind != token.KindStringLiteral {
		return "", false
	}
	s.shift(1)
	return t.String, true
}

// acceptScalar accepts a JSON scalar leaf: Number, String, or the
// identifier-spelled literals true/false/Infinity/NaN/null.
func acceptScalar(s *stream) (value.Value, bool) {
	if f, ok := acceptNumber(s); ok {
		return value.Real(f), true
	}
	if str, ok := acceptString(s); ok {
		return value.String(str), true
	}
	if name, ok := acceptIdentifier(s, "true", "false", "Infinity", "NaN", "null"); ok {
		switch name[0] {
		case 't':
			return value.Boolean(true), true
		case 'f':
			return value.Boolean(false), true
		case 'I':
			return value.Real(math.Inf(1)), true
		case 'N':
			return value.Real(math.NaN()), true
		default:
			return value.Null(), true
		}
	}
	return value.Value{}, false
}

// acceptKey accepts an object key: a bare identifier (JSON5) or a quoted
// string (both dialects).
func acceptKey(s *stream) (string, bool) {
	t := s.peek()
	if t == nil {
		return "", false
	}
	if t.Kind == token.KindIdentifier {
		s.shift(1)
		return t.Identifier, true
	}
	if t.Kind == token.KindStringLiteral {
		s.shift(1)
		return t.String, true
	}
	return "", false
}

type parseArrayFrame struct {
	elems []value.Value
}

type parseObjectFrame struct {
	obj *value.Object
	key string
}

type parseFrame struct {
	array  *parseArrayFrame
	object *parseObjectFrame
}

// parseNonRecursive implements the JSON/JSON5 grammar as a handwritten
// recursive-descent parser turned into an explicit stack (spec.md §4.5),
// so pathologically deep nesting cannot blow the Go call stack.
func parseNonRecursive(s *stream) (value.Value, error) {
	var cur value.Value
	var stack []parseFrame

	for {
		kpunct, ok := acceptPunctuator(s, token.PunctuatorBracketOp, token.PunctuatorBraceOp)
		switch {
		case ok && kpunct == token.PunctuatorBracketOp:
			if _, closed := acceptPunctuator(s, token.PunctuatorBracketCl); closed {
				cur = value.Array(nil)
				break
			}
			stack = append(stack, parseFrame{array: &parseArrayFrame{}})
			continue

		case ok && kpunct == token.PunctuatorBraceOp:
			if _, closed := acceptPunctuator(s, token.PunctuatorBraceCl); closed {
				cur = value.Obj(value.NewObject())
				break
			}
			key, gotKey := acceptKey(s)
			if !gotKey {
				return value.Value{}, s.errorf(token.StatusClosedBraceOrJSON5KeyExpected)
			}
			if _, gotColon := acceptPunctuator(s, token.PunctuatorColon); !gotColon {
				return value.Value{}, s.errorf(token.StatusColonExpected)
			}
			stack = append(stack, parseFrame{object: &parseObjectFrame{obj: value.NewObject(), key: key}})
			continue

		default:
			scalar, gotScalar := acceptScalar(s)
			if !gotScalar {
				return value.Value{}, s.errorf(token.StatusExpressionExpected)
			}
			cur = scalar
		}

		// Insert the completed value into its parent array/object, walking
		// back up the stack as far as finished containers allow; `break`
		// below returns to the outer loop to parse the next sibling value
		// while leaving the current frame on top of the stack.
		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.array != nil {
				top.array.elems = append(top.array.elems, cur)
				kp, gotEnd := acceptPunctuator(s, token.PunctuatorBracketCl, token.PunctuatorComma)
				if !gotEnd {
					return value.Value{}, s.errorf(token.StatusCommaExpected)
				}
				if kp == token.PunctuatorComma {
					if _, closed := acceptPunctuator(s, token.PunctuatorBracketCl); !closed {
						break
					}
					// An extra trailing comma is allowed in JSON5.
				}
				cur = value.Array(top.array.elems)
			} else {
				top.object.obj.Set(top.object.key, cur)
				kp, gotEnd := acceptPunctuator(s, token.PunctuatorBraceCl, token.PunctuatorComma)
				if !gotEnd {
					return value.Value{}, s.errorf(token.StatusClosedBraceOrCommaExpected)
				}
				if kp == token.PunctuatorComma {
					if _, closed := acceptPunctuator(s, token.PunctuatorBraceCl); !closed {
						key, gotKey := acceptKey(s)
						if !gotKey {
							return value.Value{}, s.errorf(token.StatusClosedBraceOrJSON5KeyExpected)
						}
						if _, gotColon := acceptPunctuator(s, token.PunctuatorColon); !gotColon {
							return value.Value{}, s.errorf(token.StatusColonExpected)
						}
						top.object.key = key
						break
					}
					// An extra trailing comma is allowed in JSON5.
				}
				cur = value.Obj(top.object.obj)
			}
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			return cur, nil
		}
	}
}

// ParseError is returned by Parse/ParseFile when the text is not
// well-formed JSON/JSON5.
type ParseError struct {
	Message string
	Cause   error
}

func (e ParseError) Error() string { return e.Message }
func (e ParseError) Unwrap() error { return e.Cause }

// Parse reads a single JSON value from text, failing if anything but
// trailing whitespace/comments follows it.
func Parse(text string) (value.Value, error) {
	return parseNamed(text, "<JSON text>")
}

// ParseFile reads and parses a single JSON value from the named file.
func ParseFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, ParseError{Message: fmt.Sprintf("could not open JSON file '%s': %v", path, err), Cause: err}
	}
	return parseNamed(string(data), path)
}

func parseNamed(text, file string) (value.Value, error) {
	toks, err := token.Tokenize([]byte(text), file, jsonDialect)
	if err != nil {
		return value.Value{}, ParseError{Message: fmt.Sprintf("invalid JSON text: %v", err), Cause: err}
	}
	if len(toks) == 0 {
		return value.Value{}, ParseError{Message: "empty JSON text"}
	}
	s := &stream{file: file, toks: toks}
	v, err := parseNonRecursive(s)
	if err != nil {
		return value.Value{}, ParseError{Message: fmt.Sprintf("invalid JSON text: %v", err), Cause: err}
	}
	if !s.empty() {
		return value.Value{}, ParseError{Message: "excess text at end of JSON text"}
	}
	return v, nil
}
