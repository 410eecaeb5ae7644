package json_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lhmouse/asteria-go/json"
	"github.com/lhmouse/asteria-go/value"
)

func TestFormatScalarsOnOneLine(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Integer(1))
	obj.Set("b", value.String("x"))
	got := json.Format(value.Obj(obj), "")
	assert.Equal(t, `{"a":1,"b":"x"}`, got)
}

func TestFormatEmptyArrayAndObject(t *testing.T) {
	assert.Equal(t, "[]", json.Format(value.Array(nil), ""))
	assert.Equal(t, "{}", json.Format(value.Obj(value.NewObject()), ""))
}

func TestFormatIndentsWithString(t *testing.T) {
	arr := value.Array([]value.Value{value.Integer(1), value.Integer(2)})
	got := json.Format(arr, "  ")
	assert.Equal(t, "[\n  1,\n  2\n]", got)
}

func TestFormatIndentsWithSpaces(t *testing.T) {
	arr := value.Array([]value.Value{value.Integer(1), value.Integer(2)})
	got := json.FormatSpaces(arr, 2)
	assert.Equal(t, "[\n  1,\n  2\n]", got)
}

func TestFormatJSON5TrailingCommaWhenIndented(t *testing.T) {
	arr := value.Array([]value.Value{value.Integer(1)})
	got := json.Format5(arr, "  ")
	assert.Equal(t, "[\n  1,\n]", got)
}

func TestFormatStrictJSONNeverTrailingComma(t *testing.T) {
	arr := value.Array([]value.Value{value.Integer(1)})
	got := json.Format(arr, "  ")
	assert.Equal(t, "[\n  1\n]", got)
}

func TestFormatCensorsOpaqueObjectEntriesEntirely(t *testing.T) {
	obj := value.NewObject()
	obj.Set("kept", value.Integer(1))
	obj.Set("dropped", value.OpaqueValue(fakeOpaque{}))
	got := json.Format(value.Obj(obj), "")
	assert.Equal(t, `{"kept":1}`, got)
}

func TestFormatOpaqueAtTopLevelBecomesNull(t *testing.T) {
	got := json.Format(value.OpaqueValue(fakeOpaque{}), "")
	assert.Equal(t, "null", got)
}

func TestFormatNonFiniteRealsCensoredInStrictJSON(t *testing.T) {
	assert.Equal(t, "null", json.Format(value.Real(posInf()), ""))
}

func TestFormatNonFiniteRealsSpelledOutInJSON5(t *testing.T) {
	assert.Equal(t, "Infinity", json.Format5(value.Real(posInf()), ""))
}

func TestFormatQuotesStringsWithEscapes(t *testing.T) {
	got := json.Format(value.String("a\"b\\c\nd"), "")
	assert.Equal(t, `"a\"b\\c\nd"`, got)
}

func TestFormatJSON5UnquotesSimpleObjectKeys(t *testing.T) {
	obj := value.NewObject()
	obj.Set("simple_key", value.Integer(1))
	obj.Set("not-simple", value.Integer(2))
	got := json.Format5(value.Obj(obj), "")
	assert.Equal(t, `{simple_key:1,"not-simple":2}`, got)
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}

type fakeOpaque struct{}

func (fakeOpaque) Describe() string { return "fake" }
func (fakeOpaque) EnumerateChildren(value.ChildVisitor) bool { return true }
