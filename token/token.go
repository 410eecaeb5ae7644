package token

import "fmt"

// Keyword enumerates every reserved word recognized by the lexer (when not
// running in KeywordsAsIdentifiers mode), matching the `s_keywords` table in
// the original token stream implementation.
type Keyword int

const (
	KeywordAbs Keyword = iota
	KeywordCeil
	KeywordCeili
	KeywordFloor
	KeywordFloori
	KeywordFma
	KeywordGlobal
	KeywordIsinf
	KeywordIsnan
	KeywordRound
	KeywordRoundi
	KeywordSign
	KeywordSqrt
	KeywordTrunc
	KeywordTrunci
	KeywordVcall
	KeywordAnd
	KeywordAssert
	KeywordBreak
	KeywordCase
	KeywordCatch
	KeywordConst
	KeywordContinue
	KeywordCountof
	KeywordDefault
	KeywordDefer
	KeywordDo
	KeywordEach
	KeywordElse
	KeywordFalse
	KeywordFor
	KeywordFunc
	KeywordIf
	KeywordImport
	KeywordInfinity
	KeywordNan
	KeywordNot
	KeywordNull
	KeywordOr
	KeywordReturn
	KeywordSwitch
	KeywordThis
	KeywordThrow
	KeywordTrue
	KeywordTry
	KeywordTypeof
	KeywordUnset
	KeywordVar
	KeywordWhile
)

type keywordEntry struct {
	text string
	kw   Keyword
}

// keywordTable is kept sorted lexicographically, exactly as in the original
// `s_keywords` table, so lookups can use a prefix binary search.
var keywordTable = []keywordEntry{
	{"__abs", KeywordAbs},
	{"__ceil", KeywordCeil},
	{"__ceili", KeywordCeili},
	{"__floor", KeywordFloor},
	{"__floori", KeywordFloori},
	{"__fma", KeywordFma},
	{"__global", KeywordGlobal},
	{"__isinf", KeywordIsinf},
	{"__isnan", KeywordIsnan},
	{"__round", KeywordRound},
	{"__roundi", KeywordRoundi},
	{"__sign", KeywordSign},
	{"__sqrt", KeywordSqrt},
	{"__trunc", KeywordTrunc},
	{"__trunci", KeywordTrunci},
	{"__vcall", KeywordVcall},
	{"and", KeywordAnd},
	{"assert", KeywordAssert},
	{"break", KeywordBreak},
	{"case", KeywordCase},
	{"catch", KeywordCatch},
	{"const", KeywordConst},
	{"continue", KeywordContinue},
	{"countof", KeywordCountof},
	{"default", KeywordDefault},
	{"defer", KeywordDefer},
	{"do", KeywordDo},
	{"each", KeywordEach},
	{"else", KeywordElse},
	{"false", KeywordFalse},
	{"for", KeywordFor},
	{"func", KeywordFunc},
	{"if", KeywordIf},
	{"import", KeywordImport},
	{"infinity", KeywordInfinity},
	{"nan", KeywordNan},
	{"not", KeywordNot},
	{"null", KeywordNull},
	{"or", KeywordOr},
	{"return", KeywordReturn},
	{"switch", KeywordSwitch},
	{"this", KeywordThis},
	{"throw", KeywordThrow},
	{"true", KeywordTrue},
	{"try", KeywordTry},
	{"typeof", KeywordTypeof},
	{"unset", KeywordUnset},
	{"var", KeywordVar},
	{"while", KeywordWhile},
}

func (k Keyword) String() string {
	for _, e := range keywordTable {
		if e.kw == k {
			return e.text
		}
	}
	return "?keyword?"
}

// Punctuator enumerates every operator/separator token, matching the
// `s_punctuators` table in the original token stream implementation.
type Punctuator int

const (
	PunctuatorNotl Punctuator = iota
	PunctuatorCmpNe
	PunctuatorMod
	PunctuatorModEq
	PunctuatorAndb
	PunctuatorAndl
	PunctuatorAndlEq
	PunctuatorAndbEq
	PunctuatorParenthOp
	PunctuatorParenthCl
	PunctuatorMul
	PunctuatorMulEq
	PunctuatorAdd
	PunctuatorInc
	PunctuatorAddEq
	PunctuatorComma
	PunctuatorSub
	PunctuatorDec
	PunctuatorSubEq
	PunctuatorDot
	PunctuatorEllipsis
	PunctuatorDiv
	PunctuatorDivEq
	PunctuatorColon
	PunctuatorSemicol
	PunctuatorCmpLt
	PunctuatorSla
	PunctuatorSll
	PunctuatorSllEq
	PunctuatorSlaEq
	PunctuatorCmpLte
	PunctuatorSpaceship
	PunctuatorAssign
	PunctuatorCmpEq
	PunctuatorCmpGt
	PunctuatorCmpGte
	PunctuatorSra
	PunctuatorSraEq
	PunctuatorSrl
	PunctuatorSrlEq
	PunctuatorQuest
	PunctuatorQuestEq
	PunctuatorCoales
	PunctuatorCoalesEq
	PunctuatorBracketOp
	PunctuatorTail
	PunctuatorHead
	PunctuatorBracketCl
	PunctuatorXorb
	PunctuatorXorbEq
	PunctuatorBraceOp
	PunctuatorOrb
	PunctuatorOrbEq
	PunctuatorOrl
	PunctuatorOrlEq
	PunctuatorBraceCl
	PunctuatorNotb
)

type punctuatorEntry struct {
	text string
	p    Punctuator
}

// punctuatorTable is kept sorted lexicographically, matching the original
// `s_punctuators` table, so the longest-match scan can binary search a
// prefix range and then walk it backwards for the longest entry.
var punctuatorTable = []punctuatorEntry{
	{"!", PunctuatorNotl},
	{"!=", PunctuatorCmpNe},
	{"%", PunctuatorMod},
	{"%=", PunctuatorModEq},
	{"&", PunctuatorAndb},
	{"&&", PunctuatorAndl},
	{"&&=", PunctuatorAndlEq},
	{"&=", PunctuatorAndbEq},
	{"(", PunctuatorParenthOp},
	{")", PunctuatorParenthCl},
	{"*", PunctuatorMul},
	{"*=", PunctuatorMulEq},
	{"+", PunctuatorAdd},
	{"++", PunctuatorInc},
	{"+=", PunctuatorAddEq},
	{",", PunctuatorComma},
	{"-", PunctuatorSub},
	{"--", PunctuatorDec},
	{"-=", PunctuatorSubEq},
	{".", PunctuatorDot},
	{"...", PunctuatorEllipsis},
	{"/", PunctuatorDiv},
	{"/=", PunctuatorDivEq},
	{":", PunctuatorColon},
	{";", PunctuatorSemicol},
	{"<", PunctuatorCmpLt},
	{"<<", PunctuatorSla},
	{"<<<", PunctuatorSll},
	{"<<<=", PunctuatorSllEq},
	{"<<=", PunctuatorSlaEq},
	{"<=", PunctuatorCmpLte},
	{"<=>", PunctuatorSpaceship},
	{"=", PunctuatorAssign},
	{"==", PunctuatorCmpEq},
	{">", PunctuatorCmpGt},
	{">=", PunctuatorCmpGte},
	{">>", PunctuatorSra},
	{">>=", PunctuatorSraEq},
	{">>>", PunctuatorSrl},
	{">>>=", PunctuatorSrlEq},
	{"?", PunctuatorQuest},
	{"?=", PunctuatorQuestEq},
	{"??", PunctuatorCoales},
	{"??=", PunctuatorCoalesEq},
	{"[", PunctuatorBracketOp},
	{"[$]", PunctuatorTail},
	{"[^]", PunctuatorHead},
	{"]", PunctuatorBracketCl},
	{"^", PunctuatorXorb},
	{"^=", PunctuatorXorbEq},
	{"{", PunctuatorBraceOp},
	{"|", PunctuatorOrb},
	{"|=", PunctuatorOrbEq},
	{"||", PunctuatorOrl},
	{"||=", PunctuatorOrlEq},
	{"}", PunctuatorBraceCl},
	{"~", PunctuatorNotb},
}

func (p Punctuator) String() string {
	for _, e := range punctuatorTable {
		if e.p == p {
			return e.text
		}
	}
	return "?punctuator?"
}

// Kind discriminates the payload carried by a Token.
type Kind int

const (
	KindKeyword Kind = iota
	KindPunctuator
	KindIdentifier
	KindIntegerLiteral
	KindRealLiteral
	KindStringLiteral
)

// Token is a single lexical token together with the source range it was
// read from. Exactly one of the payload fields is meaningful, selected by
// Kind, mirroring the closed variant in the original `Token` class.
type Token struct {
	Loc    SourceLocation
	Length int
	Kind   Kind

	Keyword    Keyword
	Punctuator Punctuator
	Identifier string
	Integer    int64
	Real       float64
	String     string
}

// Describe renders the token's payload as text.
func (t Token) Describe() string {
	switch t.Kind {
	case KindKeyword:
		return t.Keyword.String()
	case KindPunctuator:
		return t.Punctuator.String()
	case KindIdentifier:
		return t.Identifier
	case KindIntegerLiteral:
		return fmt.Sprintf("%d", t.Integer)
	case KindRealLiteral:
		return fmt.Sprintf("%g", t.Real)
	case KindStringLiteral:
		return fmt.Sprintf("%q", t.String)
	default:
		return "?token?"
	}
}
