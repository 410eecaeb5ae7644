// Package json implements the non-recursive JSON/JSON5 formatter and
// parser described in spec.md §4.5, reusing Asteria's own lexer to read
// JSON/JSON5 text.
package json

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/lhmouse/asteria-go/value"
)

func isUncensored(v value.Value) bool {
	switch v.Kind() {
	case value.KindOpaque, value.KindFunction:
		return false
	default:
		return true
	}
}

// findUncensored scans an object forward from index `from` for the next
// entry whose value is not opaque/function: those are silently dropped
// from object output entirely, rather than rendered as null (spec.md
// §4.5's censoring rule).
func findUncensored(obj *value.Object, from int) int {
	n := obj.Len()
	for i := from; i < n; i++ {
		if isUncensored(obj.ValueAt(i)) {
			return i
		}
	}
	return n
}

func isNameInit(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isUnquotedKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameInit(r) {
				return false
			}
			continue
		}
		if !isNameInit(r) && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func quoteString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r >= 0x20 && r <= 0x7E {
				b.WriteRune(r)
				continue
			}
			if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				writeUEscape(b, hi)
				writeUEscape(b, lo)
				continue
			}
			writeUEscape(b, r)
		}
	}
	b.WriteByte('"')
}

func writeUEscape(b *strings.Builder, r rune) {
	const hex = "0123456789abcdef"
	b.WriteString(`\u`)
	b.WriteByte(hex[(r>>12)&0xF])
	b.WriteByte(hex[(r>>8)&0xF])
	b.WriteByte(hex[(r>>4)&0xF])
	b.WriteByte(hex[r&0xF])
}

func quoteObjectKey(b *strings.Builder, json5 bool, key string) {
	if json5 && isUnquotedKey(key) {
		b.WriteString(key)
		return
	}
	quoteString(b, key)
}

func formatReal(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// formatScalar writes any value that is never itself recursive. Anything
// that isn't boolean/integer/real/string (including null, and including
// opaque/function when they appear somewhere other than directly as an
// object entry's value) is censored to the literal `null`.
func formatScalar(b *strings.Builder, v value.Value, json5 bool) {
	switch v.Kind() {
	case value.KindBoolean:
		bl, _ := v.AsBoolean()
		if bl {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.KindInteger:
		// JSON has no distinct integral type: integers format the same
		// way reals do.
		i, _ := v.AsInteger()
		b.WriteString(formatReal(float64(i)))
	case value.KindReal:
		r, _ := v.AsReal()
		writeRealScalar(b, r, json5)
	case value.KindString:
		s, _ := v.AsString()
		quoteString(b, s)
	default:
		b.WriteString("null")
	}
}

func writeRealScalar(b *strings.Builder, r float64, json5 bool) {
	switch {
	case math.IsInf(r, 1):
		writeNonFinite(b, "Infinity", json5)
	case math.IsInf(r, -1):
		writeNonFinite(b, "-Infinity", json5)
	case math.IsNaN(r):
		writeNonFinite(b, "NaN", json5)
	default:
		b.WriteString(formatReal(r))
	}
}

func writeNonFinite(b *strings.Builder, ecmaSpelling string, json5 bool) {
	if json5 {
		b.WriteString(ecmaSpelling)
		return
	}
	// Strict JSON has no way to represent non-finite numbers; the original
	// implementation censors them to `null` here.
	b.WriteString("null")
}

type formatArrayFrame struct {
	arr []value.Value
	idx int
}

type formatObjectFrame struct {
	obj *value.Object
	idx int
}

type formatFrame struct {
	array  *formatArrayFrame
	object *formatObjectFrame
}

// formatNonRecursive turns recursion into iteration with a handwritten
// stack, mirroring the original library's do_format_nonrecursive, so that
// deeply nested values cannot blow the Go call stack.
func formatNonRecursive(root value.Value, json5 bool, indent Indenter) string {
	var b strings.Builder
	var stack []formatFrame
	cur := root

	for {
		switch cur.Kind() {
		case value.KindArray:
			arr, _ := cur.AsArray()
			b.WriteByte('[')
			if len(arr) > 0 {
				indent.IncrementLevel()
				indent.BreakLine(&b)
				stack = append(stack, formatFrame{array: &formatArrayFrame{arr: arr}})
				cur = arr[0]
				continue
			}
			b.WriteByte(']')

		case value.KindObject:
			obj, _ := cur.AsObject()
			b.WriteByte('{')
			idx := findUncensored(obj, 0)
			if idx < obj.Len() {
				indent.IncrementLevel()
				indent.BreakLine(&b)
				quoteObjectKey(&b, json5, obj.KeyAt(idx))
				b.WriteByte(':')
				if indent.HasIndention() {
					b.WriteByte(' ')
				}
				stack = append(stack, formatFrame{object: &formatObjectFrame{obj: obj, idx: idx}})
				cur = obj.ValueAt(idx)
				continue
			}
			b.WriteByte('}')

		default:
			formatScalar(&b, cur, json5)
		}

		for {
			if len(stack) == 0 {
				return b.String()
			}
			top := &stack[len(stack)-1]

			if top.array != nil {
				top.array.idx++
				if top.array.idx < len(top.array.arr) {
					b.WriteByte(',')
					indent.BreakLine(&b)
					cur = top.array.arr[top.array.idx]
					break
				}
				if json5 && indent.HasIndention() {
					b.WriteByte(',')
				}
				indent.DecrementLevel()
				indent.BreakLine(&b)
				b.WriteByte(']')
			} else {
				next := findUncensored(top.object.obj, top.object.idx+1)
				if next < top.object.obj.Len() {
					b.WriteByte(',')
					indent.BreakLine(&b)
					quoteObjectKey(&b, json5, top.object.obj.KeyAt(next))
					b.WriteByte(':')
					if indent.HasIndention() {
						b.WriteByte(' ')
					}
					top.object.idx = next
					cur = top.object.obj.ValueAt(next)
					break
				}
				if json5 && indent.HasIndention() {
					b.WriteByte(',')
				}
				indent.DecrementLevel()
				indent.BreakLine(&b)
				b.WriteByte('}')
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func indenterFor(indent string) Indenter {
	if indent == "" {
		return noneIndenter{}
	}
	return newStringIndenter(indent)
}

func indenterForSpaces(indent int64) Indenter {
	if indent <= 0 {
		return noneIndenter{}
	}
	return newSpacesIndenter(indent)
}

// Format renders v as strict JSON. indent is repeated once per nesting
// level between elements; an empty indent writes everything on one line.
func Format(v value.Value, indent string) string {
	return formatNonRecursive(v, false, indenterFor(indent))
}

// FormatSpaces is Format with a fixed count of spaces (clamped to
// [0, 10]) as the per-level indent instead of an arbitrary string.
func FormatSpaces(v value.Value, indent int64) string {
	return formatNonRecursive(v, false, indenterForSpaces(indent))
}

// Format5 renders v as JSON5: unquoted object keys where possible,
// trailing commas when indented, and ECMAScript `Infinity`/`NaN` spelled
// out instead of being censored to null.
func Format5(v value.Value, indent string) string {
	return formatNonRecursive(v, true, indenterFor(indent))
}

// FormatSpaces5 is Format5 with a fixed count of spaces as the per-level
// indent.
func FormatSpaces5(v value.Value, indent int64) string {
	return formatNonRecursive(v, true, indenterForSpaces(indent))
}
