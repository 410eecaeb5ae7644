package value

import (
	"cmp"
	"math"
)

// Order is the result of Compare: -1, 0, 1, or Unordered for pairs that
// have no total order (NaN, or two opaque/function/object values that
// Equal does not report equal).
type Order int

const (
	OrderLess Order = -1
	OrderEqual Order = 0
	OrderGreater Order = 1
	OrderUnordered Order = 2
)

// rank orders kinds the way spec.md §4.2 lists them: null < false < true <
// numeric < string < array; object/opaque/function are only ever equal to
// themselves.
func rank(v Value) int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBoolean:
		if v.b {
			return 2
		}
		return 1
	case KindInteger, KindReal:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	default:
		return 6
	}
}

// Compare implements the total order described in spec.md §4.2: null <
// false < true < integer/real (numerically, promoting the integer operand
// to real when kinds differ — the "promote-then-compare" resolution of
// spec.md §9 open question (b)) < string (lexicographic by byte) < array
// (lexicographic by element). Objects, opaque, and function values compare
// Unordered unless Equal reports they are the same value.
func Compare(a, b Value) Order {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return orderOf(ra - rb)
	}
	switch a.kind {
	case KindNull:
		return OrderEqual
	case KindBoolean:
		return OrderEqual
	case KindInteger:
		if b.kind == KindInteger {
			return orderOf(cmp.Compare(a.i, b.i))
		}
		return compareReal(float64(a.i), b.r)
	case KindReal:
		if b.kind == KindReal {
			return compareReal(a.r, b.r)
		}
		return compareReal(a.r, float64(b.i))
	case KindString:
		return orderOf(compareBytes(a.s, b.s))
	case KindArray:
		return compareArrays(a.arr, b.arr)
	default:
		if Equal(a, b) {
			return OrderEqual
		}
		return OrderUnordered
	}
}

func orderOf(x int) Order {
	switch {
	case x < 0:
		return OrderLess
	case x > 0:
		return OrderGreater
	default:
		return OrderEqual
	}
}

func compareReal(a, b float64) Order {
	if math.IsNaN(a) || math.IsNaN(b) {
		return OrderUnordered
	}
	switch {
	case a < b:
		return OrderLess
	case a > b:
		return OrderGreater
	default:
		return OrderEqual
	}
}

func compareBytes(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareArrays(a, b []Value) Order {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if o := Compare(a[i], b[i]); o != OrderEqual {
			return o
		}
	}
	return orderOf(len(a) - len(b))
}

// Equal implements deep structural equality. Integer and real values of
// equal numeric value but different kind are NOT equal (spec.md §3.1:
// "integer is never silently coerced"); only Compare performs the
// promote-then-compare widening, and only across the ordering relation.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInteger:
		return a.i == b.i
	case KindReal:
		return a.r == b.r || (math.IsNaN(a.r) && math.IsNaN(b.r))
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Range(func(k string, av Value) bool {
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case KindOpaque:
		return a.opq == b.opq
	case KindFunction:
		return a.fn == b.fn
	default:
		return false
	}
}
