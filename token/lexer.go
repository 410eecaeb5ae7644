package token

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Dialect selects lexer behavior for the three ways this package's lexer is
// reused: plain Asteria source, JSON, and JSON5 (spec.md §4.5).
type Dialect struct {
	// IntegersAsReals forces every numeric literal without a radix point to
	// still be read back as a real, matching plain-JSON numbers.
	IntegersAsReals bool
	// EscapableSingleQuotes makes single-quoted strings process the same
	// escape sequences as double-quoted ones (JSON5 strings do; Asteria
	// source does not: single quotes there are raw strings).
	EscapableSingleQuotes bool
	// KeywordsAsIdentifiers disables keyword recognition entirely, so that
	// e.g. JSON5's `true`/`false`/`null` and object keys are lexed as plain
	// identifiers for the parser to interpret itself.
	KeywordsAsIdentifiers bool
}

// lineReader replays the `Line_Reader` helper from the original token
// stream: source is read and validated one line at a time so that byte
// offsets reported in diagnostics are always relative to the start of a
// line, not the whole file.
type lineReader struct {
	lines []string
	file  string

	lineNo int
	str    string
	off    int
}

func newLineReader(data []byte, file string) *lineReader {
	return &lineReader{lines: strings.Split(string(data), "\n"), file: file}
}

func (r *lineReader) advance() bool {
	if r.lineNo >= len(r.lines) {
		return false
	}
	// A trailing empty final "line" is an artifact of strings.Split on input
	// that ends in '\n'; it does not correspond to a real line of text.
	if r.lineNo == len(r.lines)-1 && r.lines[r.lineNo] == "" && r.lineNo > 0 {
		r.lineNo++
		return false
	}
	r.str = r.lines[r.lineNo]
	r.off = 0
	r.lineNo++
	return true
}

func (r *lineReader) tell() SourceLocation {
	return SourceLocation{File: r.file, Line: r.lineNo, Column: r.off}
}

func (r *lineReader) navail() int {
	return len(r.str) - r.off
}

func (r *lineReader) data() string {
	return r.str[r.off:]
}

func (r *lineReader) peek(add int) byte {
	if add >= r.navail() {
		return 0
	}
	return r.str[r.off+add]
}

func (r *lineReader) consume(add int) {
	r.off += add
}

func (r *lineReader) rewind() {
	r.off = 0
}

// tack records the start of a block comment so that, if it is never closed,
// the diagnostic can point back at where it began.
type tack struct {
	loc    SourceLocation
	length int
	set    bool
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isXDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameInit(c byte) bool {
	return isAlpha(c) || c == '_'
}

// Tokenize lexes a complete source buffer under the given dialect, returning
// tokens in reverse order (so that a parser consuming them from the back of
// the slice via a pop can do so in O(1)), matching the reversal performed by
// the original token stream at the end of `reload()`.
func Tokenize(data []byte, file string, dialect Dialect) ([]Token, error) {
	var tokens []Token
	var bcomm tack

	reader := newLineReader(data, file)
	for reader.advance() {
		if reader.lineNo == 1 && strings.HasPrefix(reader.str, "#!") {
			continue
		}

		// Validate the line as UTF-8 and reject embedded NUL characters,
		// exactly as the original scans the line once before tokenizing it.
		for reader.navail() != 0 {
			cp, sz := utf8.DecodeRuneInString(reader.data())
			if cp == utf8.RuneError && sz <= 1 {
				return nil, NewParserError(StatusUTF8SequenceInvalid, reader.tell(), reader.navail())
			}
			if cp == 0 {
				return nil, NewParserError(StatusNullCharacterDisallowed, reader.tell(), sz)
			}
			reader.consume(sz)
		}
		reader.rewind()

		for reader.navail() != 0 {
			if bcomm.set {
				idx := strings.Index(reader.data(), "*/")
				if idx < 0 {
					break
				}
				bcomm.set = false
				reader.consume(idx + 2)
				continue
			}

			if isSpace(reader.peek(0)) {
				reader.consume(1)
				continue
			}

			if reader.peek(0) == '/' {
				if reader.peek(1) == '/' {
					break
				}
				if reader.peek(1) == '*' {
					bcomm = tack{loc: reader.tell(), length: 2, set: true}
					reader.consume(2)
					continue
				}
			}

			got, err := acceptNumericLiteral(&tokens, reader, dialect.IntegersAsReals)
			if err != nil {
				return nil, err
			}
			if !got {
				got = acceptPunctuator(&tokens, reader)
			}
			if !got {
				got, err = acceptStringLiteral(&tokens, reader, '"', true)
				if err != nil {
					return nil, err
				}
			}
			if !got {
				got, err = acceptStringLiteral(&tokens, reader, '\'', dialect.EscapableSingleQuotes)
				if err != nil {
					return nil, err
				}
			}
			if !got {
				got = acceptIdentifierOrKeyword(&tokens, reader, dialect.KeywordsAsIdentifiers)
			}
			if !got {
				return nil, NewParserError(StatusTokenCharacterUnrecognized, reader.tell(), 1)
			}
		}
	}
	if bcomm.set {
		return nil, NewParserError(StatusBlockCommentUnclosed, bcomm.loc, bcomm.length)
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens, nil
}

func pushToken(tokens *[]Token, reader *lineReader, tlen int, t Token) bool {
	t.Loc = reader.tell()
	t.Length = tlen
	*tokens = append(*tokens, t)
	reader.consume(tlen)
	return true
}

// mayInfixOperatorsFollow mirrors `do_may_infix_operators_follow`: a leading
// '+'/'-' is part of a numeric literal's sign only where an infix operator
// could not instead appear, e.g. not right after an identifier or a closing
// parenthesis.
func mayInfixOperatorsFollow(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}
	p := tokens[len(tokens)-1]
	switch p.Kind {
	case KindKeyword:
		switch p.Keyword {
		case KeywordNull, KeywordTrue, KeywordFalse, KeywordNan, KeywordInfinity, KeywordThis:
			return true
		}
		return false
	case KindPunctuator:
		switch p.Punctuator {
		case PunctuatorInc, PunctuatorDec, PunctuatorHead, PunctuatorTail,
			PunctuatorParenthCl, PunctuatorBracketCl, PunctuatorBraceCl:
			return true
		}
		return false
	default:
		return true
	}
}

func collectDigits(reader *lineReader, tlen *int, isDigitFn func(byte) bool) string {
	var sb strings.Builder
	for {
		c := reader.peek(*tlen)
		if c == '`' {
			*tlen++
			continue
		}
		if !isDigitFn(c) {
			break
		}
		sb.WriteByte(c)
		*tlen++
	}
	return sb.String()
}

func acceptNumericLiteral(tokens *[]Token, reader *lineReader, integersAsReals bool) (bool, error) {
	tlen := 0
	neg := false
	switch reader.peek(0) {
	case '+':
		tlen = 1
	case '-':
		neg = true
		tlen = 1
	}
	if tlen != 0 && mayInfixOperatorsFollow(*tokens) {
		return false, nil
	}
	if !isDigit(reader.peek(tlen)) {
		return false, nil
	}

	radix := 10
	isDigitFn := isDigit
	expch := byte('e')
	hasPoint := false

	if reader.peek(tlen) == '0' {
		switch reader.peek(tlen+1) | 0x20 {
		case 'b':
			radix = 2
			isDigitFn = func(c byte) bool { return c == '0' || c == '1' }
			expch = 'p'
			tlen += 2
		case 'x':
			radix = 16
			isDigitFn = isXDigit
			expch = 'p'
			tlen += 2
		}
	}
	intDigits := collectDigits(reader, &tlen, isDigitFn)

	fracDigits := ""
	if reader.peek(tlen) == '.' {
		tlen++
		hasPoint = true
		fracDigits = collectDigits(reader, &tlen, isDigitFn)
	}

	expSign := 1
	expDigits := ""
	hasExp := false
	if reader.peek(tlen)|0x20 == expch {
		tlen++
		hasExp = true
		if reader.peek(tlen) == '+' || reader.peek(tlen) == '-' {
			if reader.peek(tlen) == '-' {
				expSign = -1
			}
			tlen++
		}
		expDigits = collectDigits(reader, &tlen, isDigit)
	}

	// Any further alphanumeric run is a numeric suffix; Asteria defines none,
	// so finding one here is always an error.
	suffixStart := tlen
	for {
		c := reader.peek(tlen)
		if c == '`' || isAlpha(c) || isDigit(c) {
			tlen++
			continue
		}
		break
	}
	if tlen != suffixStart {
		return false, NewParserError(StatusNumericLiteralSuffixInvalid, reader.tell(), tlen)
	}

	expBase := 10
	if radix != 10 {
		expBase = 2
	}
	exponent := 0
	if hasExp {
		if expDigits == "" {
			return false, NewParserError(StatusNumericLiteralInvalid, reader.tell(), tlen)
		}
		for _, c := range []byte(expDigits) {
			exponent = exponent*10 + int(c-'0')
		}
		exponent *= expSign
	}

	if intDigits == "" && fracDigits == "" {
		return false, NewParserError(StatusNumericLiteralInvalid, reader.tell(), tlen)
	}

	mantissa := bigFloatFromDigits(intDigits, fracDigits, radix)
	if neg {
		mantissa.Neg(mantissa)
	}
	val := applyExponent(mantissa, expBase, exponent)

	if !integersAsReals && !hasPoint {
		ival, exact := val.Int(nil)
		if exact != big.Exact {
			return false, NewParserError(StatusIntegerLiteralInexact, reader.tell(), tlen)
		}
		if !ival.IsInt64() {
			return false, NewParserError(StatusIntegerLiteralOverflow, reader.tell(), tlen)
		}
		return pushToken(tokens, reader, tlen, Token{Kind: KindIntegerLiteral, Integer: ival.Int64()}), nil
	}

	f64, _ := val.Float64()
	if math.IsInf(f64, 0) {
		return false, NewParserError(StatusRealLiteralOverflow, reader.tell(), tlen)
	}
	if f64 == 0 && val.Sign() != 0 {
		return false, NewParserError(StatusRealLiteralUnderflow, reader.tell(), tlen)
	}
	return pushToken(tokens, reader, tlen, Token{Kind: KindRealLiteral, Real: f64}), nil
}

func bigFloatFromDigits(intDigits, fracDigits string, radix int) *big.Float {
	prec := uint(256)
	base := new(big.Float).SetPrec(prec).SetInt64(int64(radix))
	val := new(big.Float).SetPrec(prec)
	digitVal := func(c byte) int64 {
		switch {
		case c >= '0' && c <= '9':
			return int64(c - '0')
		case c >= 'a' && c <= 'f':
			return int64(c-'a') + 10
		default:
			return int64(c-'A') + 10
		}
	}
	for i := 0; i < len(intDigits); i++ {
		val.Mul(val, base)
		val.Add(val, new(big.Float).SetPrec(prec).SetInt64(digitVal(intDigits[i])))
	}
	if fracDigits != "" {
		frac := new(big.Float).SetPrec(prec)
		for i := 0; i < len(fracDigits); i++ {
			frac.Mul(frac, base)
			frac.Add(frac, new(big.Float).SetPrec(prec).SetInt64(digitVal(fracDigits[i])))
		}
		scale := new(big.Float).SetPrec(prec).SetInt64(1)
		for i := 0; i < len(fracDigits); i++ {
			scale.Mul(scale, base)
		}
		frac.Quo(frac, scale)
		val.Add(val, frac)
	}
	return val
}

func applyExponent(val *big.Float, expBase, exponent int) *big.Float {
	if exponent == 0 {
		return val
	}
	prec := val.Prec()
	factor := new(big.Float).SetPrec(prec).SetInt64(int64(expBase))
	result := new(big.Float).SetPrec(prec).SetInt64(1)
	n := exponent
	neg := n < 0
	if neg {
		n = -n
	}
	for i := 0; i < n; i++ {
		result.Mul(result, factor)
	}
	if neg {
		one := new(big.Float).SetPrec(prec).SetInt64(1)
		result.Quo(one, result)
	}
	return new(big.Float).SetPrec(prec).Mul(val, result)
}

func acceptPunctuator(tokens *[]Token, reader *lineReader) bool {
	c := reader.peek(0)
	lo, hi := 0, len(punctuatorTable)
	for lo < hi {
		mid := (lo + hi) / 2
		if punctuatorTable[mid].text[0] < c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	lo2, hi2 := lo, len(punctuatorTable)
	for lo2 < hi2 {
		mid := (lo2 + hi2) / 2
		if punctuatorTable[mid].text[0] <= c {
			lo2 = mid + 1
		} else {
			hi2 = mid
		}
	}
	for i := hi2 - 1; i >= lo; i-- {
		cur := punctuatorTable[i]
		tlen := len(cur.text)
		if tlen <= reader.navail() && reader.data()[:tlen] == cur.text {
			return pushToken(tokens, reader, tlen, Token{Kind: KindPunctuator, Punctuator: cur.p})
		}
	}
	return false
}

func acceptStringLiteral(tokens *[]Token, reader *lineReader, head byte, escapable bool) (bool, error) {
	if reader.peek(0) != head {
		return false, nil
	}
	tlen := 1
	var val bytes.Buffer
	for {
		next := reader.peek(tlen)
		if next == 0 {
			return false, NewParserError(StatusStringLiteralUnclosed, reader.tell(), tlen)
		}
		tlen++
		if next == head {
			break
		}
		if !escapable || next != '\\' {
			val.WriteByte(next)
			continue
		}

		next = reader.peek(tlen)
		if next == 0 {
			return false, NewParserError(StatusEscapeSequenceIncomplete, reader.tell(), tlen)
		}
		tlen++

		switch next {
		case '\'', '"', '\\', '?', '/':
			val.WriteByte(next)
		case 'a':
			val.WriteByte('\a')
		case 'b':
			val.WriteByte('\b')
		case 'f':
			val.WriteByte('\f')
		case 'n':
			val.WriteByte('\n')
		case 'r':
			val.WriteByte('\r')
		case 't':
			val.WriteByte('\t')
		case 'v':
			val.WriteByte('\v')
		case '0':
			val.WriteByte(0)
		case 'Z':
			val.WriteByte(0x1A)
		case 'e':
			val.WriteByte(0x1B)
		case 'x', 'u', 'U':
			xcnt := 2
			if next == 'u' {
				xcnt = 4
			} else if next == 'U' {
				xcnt = 6
			}
			var cp uint32
			for i := 0; i < xcnt; i++ {
				c := reader.peek(tlen)
				if c == 0 {
					return false, NewParserError(StatusEscapeSequenceIncomplete, reader.tell(), tlen)
				}
				if !isXDigit(c) {
					return false, NewParserError(StatusEscapeSequenceInvalidHex, reader.tell(), tlen)
				}
				tlen++
				cp *= 16
				if c <= '9' {
					cp += uint32(c - '0')
				} else {
					cp += uint32(c|0x20) - 'a' + 10
				}
			}
			if next == 'x' {
				val.WriteByte(byte(cp))
			} else {
				if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
					return false, NewParserError(StatusEscapeUTFCodePointInvalid, reader.tell(), tlen)
				}
				var buf [utf8.UTFMax]byte
				n := utf8.EncodeRune(buf[:], rune(cp))
				val.Write(buf[:n])
			}
		default:
			return false, NewParserError(StatusEscapeSequenceUnknown, reader.tell(), tlen)
		}
	}
	return pushToken(tokens, reader, tlen, Token{Kind: KindStringLiteral, String: val.String()}), nil
}

func acceptIdentifierOrKeyword(tokens *[]Token, reader *lineReader, keywordsAsIdentifiers bool) bool {
	if !isNameInit(reader.peek(0)) {
		return false
	}
	tlen := 1
	for {
		next := reader.peek(tlen)
		if next == 0 || !(isNameInit(next) || isDigit(next)) {
			break
		}
		tlen++
	}
	name := reader.data()[:tlen]

	if keywordsAsIdentifiers {
		return pushToken(tokens, reader, tlen, Token{Kind: KindIdentifier, Identifier: name})
	}

	lo, hi := 0, len(keywordTable)
	for lo < hi {
		mid := (lo + hi) / 2
		if keywordTable[mid].text < name {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(keywordTable) && keywordTable[lo].text == name {
		return pushToken(tokens, reader, tlen, Token{Kind: KindKeyword, Keyword: keywordTable[lo].kw})
	}
	return pushToken(tokens, reader, tlen, Token{Kind: KindIdentifier, Identifier: name})
}
