package table

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fvbommel/sortorder"
)

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// family groups kinds that compare against each other.
func (k Kind) family() int {
	switch k {
	case KindBool:
		return 1
	case KindInt, KindUint, KindFloat:
		return 2
	case KindString:
		return 3
	case KindTime:
		return 4
	default:
		return 0
	}
}

// Value is a type-erased sort key.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
	t    time.Time
}

// Null returns the null value. It sorts before every other value.
func Null() Value { return Value{} }

// Bool wraps a boolean. False sorts before true.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time wraps a timestamp.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true for the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String returns a display form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.i == 1)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// GoString implements fmt.GoStringer.
func (v Value) GoString() string {
	return fmt.Sprintf("table.Value{%s:%q}", v.kind, v.String())
}

// Compare orders two values. Values of different kind families order by
// family: null < bool < number < string < time. Numbers compare numerically
// across int, uint and float; strings compare in natural order.
func Compare(a, b Value) int {
	if fa, fb := a.kind.family(), b.kind.family(); fa != fb {
		return cmp.Compare(fa, fb)
	}

	switch a.kind.family() {
	case 1:
		return cmp.Compare(a.i, b.i)
	case 2:
		return compareNumbers(a, b)
	case 3:
		return compareStrings(a.s, b.s)
	case 4:
		return a.t.Compare(b.t)
	default:
		return 0
	}
}

// Less returns true if a sorts before b.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

func compareStrings(s1, s2 string) int {
	switch {
	case s1 == s2:
		return 0
	case sortorder.NaturalLess(s1, s2):
		return -1
	case sortorder.NaturalLess(s2, s1):
		return 1
	default:
		return cmp.Compare(s1, s2)
	}
}

func compareNumbers(a, b Value) int {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return cmp.Compare(a.i, b.i)
	case a.kind == KindUint && b.kind == KindUint:
		return cmp.Compare(a.u, b.u)
	case a.kind == KindInt && b.kind == KindUint:
		return compareIntUint(a.i, b.u)
	case a.kind == KindUint && b.kind == KindInt:
		return -compareIntUint(b.i, a.u)
	}

	fa, fb := a.float(), b.float()
	// NaN first keeps the order total.
	switch na, nb := math.IsNaN(fa), math.IsNaN(fb); {
	case na && nb:
		return 0
	case na:
		return -1
	case nb:
		return 1
	}
	if c := cmp.Compare(fa, fb); c != 0 {
		return c
	}
	// Equal as floats: break ties between an integer and a float exactly.
	switch {
	case a.kind == KindFloat && b.kind != KindFloat:
		return -compareExact(b, fa)
	case b.kind == KindFloat && a.kind != KindFloat:
		return compareExact(a, fb)
	}
	return 0
}

func compareIntUint(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return cmp.Compare(uint64(i), u)
}

// compareExact compares an integer value against an integral float that
// rounded to the same float64.
func compareExact(v Value, f float64) int {
	const two63 = 1 << 63
	switch {
	case f != math.Trunc(f):
		return cmp.Compare(v.float(), f)
	case f < -two63:
		return 1
	case f >= 2*two63:
		return -1
	case v.kind == KindUint:
		if f < 0 {
			return 1
		}
		return cmp.Compare(v.u, uint64(f))
	case f >= two63:
		return -1
	default:
		return cmp.Compare(v.i, int64(f))
	}
}

func (v Value) float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindUint:
		return float64(v.u)
	default:
		return v.f
	}
}
