// Package interop bridges value.Value to and from google.golang.org/protobuf's
// structpb well-known types, giving an embedder a protobuf-wire-shaped
// snapshot of a script value (SPEC_FULL.md §4.5) without recursing over
// arbitrarily nested arrays/objects, reusing the same explicit work-stack
// pattern the json package's formatter/parser use (spec.md §9's
// recursion-elimination guarantee).
package interop

import (
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

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

// findUncensored mirrors json's censoring rule: object entries whose value
// is opaque/function have no protobuf analog and are omitted entirely.
func findUncensored(obj *value.Object, from int) int {
	n := obj.Len()
	for i := from; i < n; i++ {
		if isUncensored(obj.ValueAt(i)) {
			return i
		}
	}
	return n
}

func scalarToProto(v value.Value) *structpb.Value {
	switch v.Kind() {
	case value.KindBoolean:
		b, _ := v.AsBoolean()
		return structpb.NewBoolValue(b)
	case value.KindInteger:
		i, _ := v.AsInteger()
		return structpb.NewNumberValue(float64(i))
	case value.KindReal:
		r, _ := v.AsReal()
		return structpb.NewNumberValue(r)
	case value.KindString:
		s, _ := v.AsString()
		return structpb.NewStringValue(s)
	default:
		// null, and opaque/function wherever they appear outside of a
		// censored object entry, have no protobuf analog.
		return structpb.NewNullValue()
	}
}

type toProtoArrayFrame struct {
	arr  []value.Value
	idx  int
	list *structpb.ListValue
}

type toProtoObjectFrame struct {
	obj   *value.Object
	idx   int
	strct *structpb.Struct
}

type toProtoFrame struct {
	array  *toProtoArrayFrame
	object *toProtoObjectFrame
}

// ToProto converts v into a structpb.Value.
func ToProto(root value.Value) *structpb.Value {
	var stack []toProtoFrame
	cur := root

	for {
		var leaf *structpb.Value
		descend := false

		switch cur.Kind() {
		case value.KindArray:
			arr, _ := cur.AsArray()
			list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(arr))}
			if len(arr) > 0 {
				stack = append(stack, toProtoFrame{array: &toProtoArrayFrame{arr: arr, list: list}})
				cur = arr[0]
				descend = true
			} else {
				leaf = structpb.NewListValue(&structpb.ListValue{})
			}

		case value.KindObject:
			obj, _ := cur.AsObject()
			strct := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
			idx := findUncensored(obj, 0)
			if idx < obj.Len() {
				stack = append(stack, toProtoFrame{object: &toProtoObjectFrame{obj: obj, idx: idx, strct: strct}})
				cur = obj.ValueAt(idx)
				descend = true
			} else {
				leaf = structpb.NewStructValue(strct)
			}

		default:
			leaf = scalarToProto(cur)
		}

		if descend {
			continue
		}

		for {
			if len(stack) == 0 {
				return leaf
			}
			top := &stack[len(stack)-1]

			if top.array != nil {
				top.array.list.Values = append(top.array.list.Values, leaf)
				top.array.idx++
				if top.array.idx < len(top.array.arr) {
					cur = top.array.arr[top.array.idx]
					break
				}
				leaf = structpb.NewListValue(top.array.list)
			} else {
				top.object.strct.Fields[top.object.obj.KeyAt(top.object.idx)] = leaf
				next := findUncensored(top.object.obj, top.object.idx+1)
				if next < top.object.obj.Len() {
					top.object.idx = next
					cur = top.object.obj.ValueAt(next)
					break
				}
				leaf = structpb.NewStructValue(top.object.strct)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

type fromProtoArrayFrame struct {
	items []*structpb.Value
	idx   int
	out   []value.Value
}

type fromProtoObjectFrame struct {
	keys   []string
	fields map[string]*structpb.Value
	idx    int
	out    *value.Object
}

type fromProtoFrame struct {
	array  *fromProtoArrayFrame
	object *fromProtoObjectFrame
}

// FromProto converts a structpb.Value back into a value.Value. A
// structpb.Struct's field order is not preserved by the protobuf wire
// format (structpb.Struct.Fields is a Go map), so fields are attached in
// sorted key order for a deterministic result — a round trip through
// FromProto(ToProto(v)) does not promise to reproduce the original
// object's insertion order.
func FromProto(p *structpb.Value) value.Value {
	var stack []fromProtoFrame
	cur := p

	for {
		var leaf value.Value
		descend := false

		switch k := cur.GetKind().(type) {
		case *structpb.Value_ListValue:
			items := k.ListValue.GetValues()
			if len(items) > 0 {
				stack = append(stack, fromProtoFrame{array: &fromProtoArrayFrame{items: items, out: make([]value.Value, 0, len(items))}})
				cur = items[0]
				descend = true
			} else {
				leaf = value.Array(nil)
			}

		case *structpb.Value_StructValue:
			fields := k.StructValue.GetFields()
			keys := make([]string, 0, len(fields))
			for key := range fields {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			if len(keys) > 0 {
				stack = append(stack, fromProtoFrame{object: &fromProtoObjectFrame{keys: keys, fields: fields, out: value.NewObject()}})
				cur = fields[keys[0]]
				descend = true
			} else {
				leaf = value.Obj(value.NewObject())
			}

		case *structpb.Value_NullValue:
			leaf = value.Null()
		case *structpb.Value_BoolValue:
			leaf = value.Boolean(k.BoolValue)
		case *structpb.Value_NumberValue:
			leaf = value.Real(k.NumberValue)
		case *structpb.Value_StringValue:
			leaf = value.String(k.StringValue)
		default:
			leaf = value.Null()
		}

		if descend {
			continue
		}

		for {
			if len(stack) == 0 {
				return leaf
			}
			top := &stack[len(stack)-1]

			if top.array != nil {
				top.array.out = append(top.array.out, leaf)
				top.array.idx++
				if top.array.idx < len(top.array.items) {
					cur = top.array.items[top.array.idx]
					break
				}
				leaf = value.Array(top.array.out)
			} else {
				top.object.out.Set(top.object.keys[top.object.idx], leaf)
				top.object.idx++
				if top.object.idx < len(top.object.keys) {
					cur = top.object.fields[top.object.keys[top.object.idx]]
					break
				}
				leaf = value.Obj(top.object.out)
			}
			stack = stack[:len(stack)-1]
		}
	}
}
