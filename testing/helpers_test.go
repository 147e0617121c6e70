package testing

import (
	"testing"

	"github.com/zoobzio/tagfile"
)

func TestPrimitiveKinds(t *testing.T) {
	tests := []struct {
		name string
		typ  *tagfile.Type
		kind tagfile.SubType
		bits int
	}{
		{"bool", Bool(), tagfile.SubTypeBool, 8},
		{"uint8", Uint8(), tagfile.SubTypeInt, 8},
		{"uint16", Uint16(), tagfile.SubTypeInt, 16},
		{"int32", Int32(), tagfile.SubTypeInt, 32},
		{"int64", Int64(), tagfile.SubTypeInt, 64},
		{"char", Char(), tagfile.SubTypeInt, 8},
		{"string", CString(), tagfile.SubTypeString, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
			if got := tt.typ.Bits(); got != tt.bits {
				t.Errorf("Bits() = %d, want %d", got, tt.bits)
			}
		})
	}
}

func TestTupleOf(t *testing.T) {
	vec := TupleOf(Float(), 4)
	if vec.Kind() != tagfile.SubTypeTuple {
		t.Errorf("Kind() = %v, want tuple", vec.Kind())
	}
	if vec.TupleSize() != 4 {
		t.Errorf("TupleSize() = %d, want 4", vec.TupleSize())
	}
	if vec.Size() != 16 {
		t.Errorf("Size() = %d, want 16", vec.Size())
	}
}

func TestSampleTypeLayout(t *testing.T) {
	members := SampleType().AllMembers()
	if members[0].Name != "id" {
		t.Errorf("first member = %q, want inherited id", members[0].Name)
	}
	if last := members[len(members)-1]; !last.Void() {
		t.Errorf("member %q should be void", last.Name)
	}
}

func TestSharedGraph(t *testing.T) {
	root := SharedGraph()
	a := root.Get("a").(*tagfile.Pointer)
	b := root.Get("b").(*tagfile.Pointer)
	if a.Target != b.Target {
		t.Error("SharedGraph() pointers should share a target")
	}
}

func TestRing(t *testing.T) {
	head := Ring(3)
	v := tagfile.Value(head)
	for range 3 {
		v = v.(*tagfile.Class).Get("next").(*tagfile.Pointer).Target
	}
	if v != tagfile.Value(head) {
		t.Error("Ring(3) should close after three hops")
	}
}

func TestRoundTrip(t *testing.T) {
	root := SampleGraph()
	f := RoundTrip(t, root)
	AssertEqual(t, root, RootOf(t, f))
}
