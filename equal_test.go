package tagfile_test

import (
	"math"
	"testing"

	"github.com/zoobzio/tagfile"
	tagtest "github.com/zoobzio/tagfile/testing"
)

func TestEqual(t *testing.T) {
	i32 := tagtest.Int32()
	f32 := tagtest.Float()
	f64 := tagtest.Double()

	tests := []struct {
		name string
		a, b tagfile.Value
		want bool
	}{
		{"same ints", tagfile.NewInt(i32, 1), tagfile.NewInt(tagtest.Int32(), 1), true},
		{"different ints", tagfile.NewInt(i32, 1), tagfile.NewInt(i32, 2), false},
		{"different type names", tagfile.NewInt(i32, 1), tagfile.NewInt(tagtest.Primitive("hkInt32", tagtest.FlagsInt32, 4, 4), 1), false},
		{"float precision", tagfile.NewFloat(f32, 0.1), tagfile.NewFloat(f32, float64(float32(0.1))), true},
		{"double precision", tagfile.NewFloat(f64, 0.1), tagfile.NewFloat(f64, float64(float32(0.1))), false},
		{"nan bits", tagfile.NewFloat(f64, math.NaN()), tagfile.NewFloat(f64, math.NaN()), true},
		{"strings", tagfile.NewString(tagtest.CString(), "a"), tagfile.NewString(tagtest.CString(), "a"), true},
		{"variant", tagfile.NewInt(i32, 1), tagfile.NewFloat(i32, 1), false},
		{"both nil", nil, nil, true},
		{"one nil", tagfile.NewInt(i32, 1), nil, false},
		{"typed nil", (*tagfile.Int)(nil), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagfile.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual_Graphs(t *testing.T) {
	if !tagfile.Equal(tagtest.SampleGraph(), tagtest.SampleGraph()) {
		t.Error("independently built samples should be equal")
	}
	if !tagfile.Equal(tagtest.Ring(4), tagtest.Ring(4)) {
		t.Error("rings of the same length should be equal")
	}
	if tagfile.Equal(tagtest.Ring(2), tagtest.Ring(3)) {
		t.Error("rings of different length should differ")
	}

	a := tagtest.SampleGraph()
	b := tagtest.SampleGraph()
	b.Set("count", nil)
	if tagfile.Equal(a, b) {
		t.Error("a missing member should make graphs differ")
	}
	a.Set("count", nil)
	if !tagfile.Equal(a, b) {
		t.Error("nil members should count as absent")
	}
}

func TestNewValue(t *testing.T) {
	tests := []struct {
		name string
		typ  *tagfile.Type
		want string
	}{
		{"bool", tagtest.Bool(), "*tagfile.Bool"},
		{"int", tagtest.Int32(), "*tagfile.Int"},
		{"float", tagtest.Float(), "*tagfile.Float"},
		{"string", tagtest.CString(), "*tagfile.String"},
		{"class", tagtest.Leaf(), "*tagfile.Class"},
		{"array", tagtest.ArrayOf(tagtest.Int32()), "*tagfile.Array"},
		{"tuple", tagtest.TupleOf(tagtest.Float(), 2), "*tagfile.Tuple"},
		{"pointer", tagtest.PointerTo(tagtest.Leaf()), "*tagfile.Pointer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tagfile.NewValue(tt.typ)
			if v == nil {
				t.Fatal("NewValue() = nil")
			}
			if got := typeName(v); got != tt.want {
				t.Errorf("NewValue() = %s, want %s", got, tt.want)
			}
			if v.Type() != tt.typ {
				t.Error("NewValue() should keep the type")
			}
		})
	}

	if tagfile.NewValue(&tagfile.Type{Name: "opaque"}) != nil {
		t.Error("NewValue() of a type without layout should be nil")
	}
}

func typeName(v tagfile.Value) string {
	switch v.(type) {
	case *tagfile.Bool:
		return "*tagfile.Bool"
	case *tagfile.Int:
		return "*tagfile.Int"
	case *tagfile.Float:
		return "*tagfile.Float"
	case *tagfile.String:
		return "*tagfile.String"
	case *tagfile.Class:
		return "*tagfile.Class"
	case *tagfile.Array:
		return "*tagfile.Array"
	case *tagfile.Tuple:
		return "*tagfile.Tuple"
	case *tagfile.Pointer:
		return "*tagfile.Pointer"
	default:
		return "unknown"
	}
}
