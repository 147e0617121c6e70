package tagfile

import "math"

// Equal reports whether two graphs are structurally equal. Types are compared
// by name and resolved layout so graphs decoded from different catalogs can
// be compared. Floats compare by bit pattern. Cycles are handled: a pair of
// nodes already under comparison is assumed equal.
func Equal(a, b Value) bool {
	return (&comparer{seen: make(map[[2]Value]bool)}).equal(a, b)
}

type comparer struct {
	seen map[[2]Value]bool
}

func (c *comparer) equal(a, b Value) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if !sameType(a.Type(), b.Type()) {
		return false
	}
	key := [2]Value{a, b}
	if c.seen[key] {
		return true
	}
	c.seen[key] = true

	switch x := a.(type) {
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.V == y.V
	case *Int:
		y, ok := b.(*Int)
		return ok && x.V == y.V
	case *Float:
		y, ok := b.(*Float)
		if !ok {
			return false
		}
		if a.Type().FloatBits() == 32 {
			return math.Float32bits(float32(x.V)) == math.Float32bits(float32(y.V))
		}
		return math.Float64bits(x.V) == math.Float64bits(y.V)
	case *String:
		y, ok := b.(*String)
		return ok && x.V == y.V
	case *Class:
		y, ok := b.(*Class)
		if !ok {
			return false
		}
		if presentFields(x) != presentFields(y) {
			return false
		}
		for name, fx := range x.Fields {
			if isNil(fx) {
				continue
			}
			if !c.equal(fx, y.Fields[name]) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		return ok && c.elems(x.Elems, y.Elems)
	case *Tuple:
		y, ok := b.(*Tuple)
		return ok && c.elems(x.Elems, y.Elems)
	case *Pointer:
		y, ok := b.(*Pointer)
		return ok && c.equal(x.Target, y.Target)
	default:
		return false
	}
}

func (c *comparer) elems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func presentFields(v *Class) int {
	n := 0
	for _, f := range v.Fields {
		if !isNil(f) {
			n++
		}
	}
	return n
}

func sameType(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Name != b.Name {
		return false
	}
	return a.Kind() == b.Kind() && a.Size() == b.Size()
}
