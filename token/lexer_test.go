package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhmouse/asteria-go/token"
)

func tokenize(t *testing.T, src string, dialect token.Dialect) []token.Token {
	t.Helper()
	toks, err := token.Tokenize([]byte(src), "test.ast", dialect)
	require.NoError(t, err)
	return toks
}

// pop reverses the reversed-storage convention the lexer returns tokens in,
// so test assertions can read them front to back.
func pop(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		out[len(toks)-1-i] = t
	}
	return out
}

func TestTokenizeShebangIsSkipped(t *testing.T) {
	toks := pop(tokenize(t, "#!/usr/bin/env asteria\nvar x = 1;\n", token.Dialect{}))
	require.Len(t, toks, 5)
	assert.Equal(t, token.KindKeyword, toks[0].Kind)
	assert.Equal(t, token.KeywordVar, toks[0].Keyword)
	assert.Equal(t, token.KindIdentifier, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Identifier)
}

func TestTokenizeLineAndBlockComments(t *testing.T) {
	toks := pop(tokenize(t, "1 // comment\n/* block\ncomment */ 2\n", token.Dialect{}))
	require.Len(t, toks, 2)
	assert.Equal(t, int64(1), toks[0].Integer)
	assert.Equal(t, int64(2), toks[1].Integer)
}

func TestTokenizeUnclosedBlockComment(t *testing.T) {
	_, err := token.Tokenize([]byte("/* never closes"), "test.ast", token.Dialect{})
	require.Error(t, err)
	var perr token.ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.StatusBlockCommentUnclosed, perr.Status)
}

func TestTokenizeIntegerLiterals(t *testing.T) {
	toks := pop(tokenize(t, "0 42 0x2A 0b101", token.Dialect{}))
	require.Len(t, toks, 4)
	assert.Equal(t, int64(0), toks[0].Integer)
	assert.Equal(t, int64(42), toks[1].Integer)
	assert.Equal(t, int64(42), toks[2].Integer)
	assert.Equal(t, int64(5), toks[3].Integer)
}

func TestTokenizeRealLiterals(t *testing.T) {
	toks := pop(tokenize(t, "3.5 1.5e3 2.5e-1", token.Dialect{}))
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.KindRealLiteral, tok.Kind)
	}
	assert.InDelta(t, 3.5, toks[0].Real, 1e-9)
	assert.InDelta(t, 1500.0, toks[1].Real, 1e-9)
	assert.InDelta(t, 0.25, toks[2].Real, 1e-9)
}

func TestTokenizeIntegersAsRealsDialect(t *testing.T) {
	toks := pop(tokenize(t, "42", token.Dialect{IntegersAsReals: true}))
	require.Len(t, toks, 1)
	assert.Equal(t, token.KindRealLiteral, toks[0].Kind)
	assert.InDelta(t, 42.0, toks[0].Real, 1e-9)
}

func TestTokenizeDigitSeparators(t *testing.T) {
	toks := pop(tokenize(t, "1`000`000", token.Dialect{}))
	require.Len(t, toks, 1)
	assert.Equal(t, int64(1000000), toks[0].Integer)
}

func TestTokenizeStringLiteralEscapes(t *testing.T) {
	toks := pop(tokenize(t, `"a\tb\n\x41é"`, token.Dialect{}))
	require.Len(t, toks, 1)
	assert.Equal(t, "a\tb\nAé", toks[0].String)
}

func TestTokenizeSingleQuotedRawByDefault(t *testing.T) {
	toks := pop(tokenize(t, `'a\tb'`, token.Dialect{}))
	require.Len(t, toks, 1)
	assert.Equal(t, `a\tb`, toks[0].String)
}

func TestTokenizeSingleQuotedEscapableWhenDialectEnables(t *testing.T) {
	toks := pop(tokenize(t, `'a\tb'`, token.Dialect{EscapableSingleQuotes: true}))
	require.Len(t, toks, 1)
	assert.Equal(t, "a\tb", toks[0].String)
}

func TestTokenizeUnclosedStringLiteral(t *testing.T) {
	_, err := token.Tokenize([]byte(`"unterminated`), "test.ast", token.Dialect{})
	require.Error(t, err)
	var perr token.ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.StatusStringLiteralUnclosed, perr.Status)
}

func TestTokenizePunctuatorLongestMatch(t *testing.T) {
	toks := pop(tokenize(t, "<<<= <<= << < ??= ?? ?", token.Dialect{}))
	want := []token.Punctuator{
		token.PunctuatorSllEq, token.PunctuatorSlaEq, token.PunctuatorSla, token.PunctuatorCmpLt,
		token.PunctuatorCoalesEq, token.PunctuatorCoales, token.PunctuatorQuest,
	}
	require.Len(t, toks, len(want))
	for i, p := range want {
		assert.Equal(t, p, toks[i].Punctuator, "token %d", i)
	}
}

func TestTokenizeKeywordsAsIdentifiersDialect(t *testing.T) {
	toks := pop(tokenize(t, "true false null", token.Dialect{KeywordsAsIdentifiers: true}))
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.KindIdentifier, tok.Kind)
	}
}

func TestTokenizeNullCharacterDisallowed(t *testing.T) {
	_, err := token.Tokenize([]byte("1 \x00 2"), "test.ast", token.Dialect{})
	require.Error(t, err)
	var perr token.ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.StatusNullCharacterDisallowed, perr.Status)
}

func TestTokenizeNumericSuffixInvalid(t *testing.T) {
	_, err := token.Tokenize([]byte("42xyz"), "test.ast", token.Dialect{})
	require.Error(t, err)
	var perr token.ParserError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.StatusNumericLiteralSuffixInvalid, perr.Status)
}
