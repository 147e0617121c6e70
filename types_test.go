package tagfile

import (
	"errors"
	"testing"
)

func prim(name string, flags uint32, size uint32) *Type {
	return &Type{
		Name:         name,
		Flags:        FlagSubType | FlagByteSize,
		SubTypeFlags: flags,
		ByteSize:     size,
		Alignment:    size,
	}
}

var (
	flagsInt32  = uint32(SubTypeInt) | SubTypeSigned | SubTypeInt32
	flagsUint16 = uint32(SubTypeInt) | SubTypeInt16
	flagsDouble = uint32(SubTypeFloat) | FloatDouble<<8
	flagsFloat  = uint32(SubTypeFloat) | FloatSingle<<8
)

func TestType_SuperDelegation(t *testing.T) {
	base := prim("hkInt32", flagsInt32, 4)
	alias := &Type{Name: "hkEnum", Parent: base}
	deep := &Type{Name: "hkFlags", Parent: alias, Flags: FlagVersion, Version: 2}

	if deep.Super() != base {
		t.Fatalf("Super() = %v, want %v", deep.Super(), base)
	}
	if deep.Kind() != SubTypeInt {
		t.Errorf("Kind() = %v, want int", deep.Kind())
	}
	if deep.Size() != 4 || deep.Align() != 4 {
		t.Errorf("Size/Align = %d/%d, want 4/4", deep.Size(), deep.Align())
	}
	if !deep.Signed() || deep.Bits() != 32 {
		t.Errorf("Signed/Bits = %v/%d, want true/32", deep.Signed(), deep.Bits())
	}

	orphan := &Type{Name: "opaque"}
	if orphan.Super() != nil || orphan.Kind() != SubTypeVoid || orphan.Size() != 0 {
		t.Error("type without layout should resolve to void")
	}
	var none *Type
	if none.Super() != nil {
		t.Error("nil type should have no super")
	}
}

func TestType_Widths(t *testing.T) {
	tests := []struct {
		name   string
		typ    *Type
		bits   int
		signed bool
		float  int
	}{
		{"int32", prim("int", flagsInt32, 4), 32, true, 32},
		{"uint16", prim("hkUint16", flagsUint16, 2), 16, false, 32},
		{"int64", prim("hkInt64", uint32(SubTypeInt)|SubTypeSigned|SubTypeInt64, 8), 64, true, 32},
		{"float", prim("float", flagsFloat, 4), 0, false, 32},
		{"double", prim("double", flagsDouble, 8), 0, false, 64},
		{"bool", prim("hkBool", uint32(SubTypeBool)|SubTypeInt8, 1), 8, false, 32},
		{"tuple", prim("T[N]", uint32(SubTypeTuple)|2<<8, 8), 0, false, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Bits(); got != tt.bits {
				t.Errorf("Bits() = %d, want %d", got, tt.bits)
			}
			if got := tt.typ.Signed(); got != tt.signed {
				t.Errorf("Signed() = %v, want %v", got, tt.signed)
			}
			if got := tt.typ.FloatBits(); got != tt.float {
				t.Errorf("FloatBits() = %d, want %d", got, tt.float)
			}
		})
	}
}

func TestType_Tuple(t *testing.T) {
	elem := prim("float", flagsFloat, 4)
	vec := &Type{
		Name:         "hkVector4",
		Flags:        FlagSubType | FlagPointer | FlagByteSize,
		SubTypeFlags: uint32(SubTypeTuple) | 4<<8,
		Pointer:      elem,
		ByteSize:     16,
		Alignment:    16,
	}
	if vec.Kind() != SubTypeTuple {
		t.Errorf("Kind() = %v, want tuple", vec.Kind())
	}
	if vec.TupleSize() != 4 {
		t.Errorf("TupleSize() = %d, want 4", vec.TupleSize())
	}
	if vec.Element() != elem {
		t.Errorf("Element() = %v, want float", vec.Element())
	}
}

func TestType_AllMembers(t *testing.T) {
	i32 := prim("int", flagsInt32, 4)
	base := &Type{Name: "A", Flags: FlagSubType | FlagMembers, SubTypeFlags: uint32(SubTypeClass),
		Members: []Member{{Name: "x", Type: i32}, {Name: "y", Offset: 4, Type: i32}}}
	mid := &Type{Name: "B", Parent: base, Flags: FlagMembers,
		Members: []Member{{Name: "z", Offset: 8, Type: i32}}}
	leaf := &Type{Name: "C", Parent: mid, Flags: FlagMembers,
		Members: []Member{{Name: "w", Offset: 12, Type: i32}}}

	var names []string
	for _, m := range leaf.AllMembers() {
		names = append(names, m.Name)
	}
	want := []string{"x", "y", "z", "w"}
	if len(names) != len(want) {
		t.Fatalf("AllMembers() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("AllMembers()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if m := leaf.Member("y"); m == nil || m.Offset != 4 {
		t.Errorf("Member(y) = %+v, want offset 4", m)
	}
	if leaf.Member("missing") != nil {
		t.Error("Member(missing) should be nil")
	}
	if leaf.Kind() != SubTypeClass {
		t.Errorf("Kind() = %v, want class", leaf.Kind())
	}
}

func TestTemplate_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		isType bool
		isInt  bool
	}{
		{"tT", true, false},
		{"vN", false, true},
		{"", false, false},
		{"other", false, false},
	}

	for _, tt := range tests {
		p := Template{Name: tt.name}
		if p.IsType() != tt.isType || p.IsInt() != tt.isInt {
			t.Errorf("Template{%q}: IsType/IsInt = %v/%v, want %v/%v", tt.name, p.IsType(), p.IsInt(), tt.isType, tt.isInt)
		}
	}
}

func TestMember_Void(t *testing.T) {
	m := Member{Name: "pad", Flags: MemberVoid | 0x20}
	if !m.Void() {
		t.Error("Void() = false, want true")
	}
	m.Flags = 0x20
	if m.Void() {
		t.Error("Void() = true, want false")
	}
}

func TestSubType_String(t *testing.T) {
	if SubTypeTuple.String() != "tuple" || SubType(0x99).String() != "unknown" {
		t.Errorf("unexpected names %q, %q", SubTypeTuple, SubType(0x99))
	}
}

func TestScan_Preorder(t *testing.T) {
	i32 := prim("int", flagsInt32, 4)
	leaf := &Type{Name: "Leaf", Flags: FlagSubType | FlagMembers, SubTypeFlags: uint32(SubTypeClass),
		Members: []Member{{Name: "value", Type: i32}}}
	ptr := &Type{Name: "T*", Templates: []Template{{Name: "tT", Type: leaf}},
		Flags: FlagSubType | FlagPointer, SubTypeFlags: uint32(SubTypePointer), Pointer: leaf}
	root := &Type{Name: "Root", Flags: FlagSubType | FlagMembers, SubTypeFlags: uint32(SubTypeClass),
		Members: []Member{{Name: "a", Type: ptr}, {Name: "b", Type: ptr}}}

	c := Scan(root)
	want := []*Type{root, ptr, leaf, i32}
	got := c.Types()
	if len(got) != len(want) {
		t.Fatalf("Scan() found %d types, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %v, want %v", i, got[i], want[i])
		}
		if c.Index(want[i]) != i+1 {
			t.Errorf("Index(%v) = %d, want %d", want[i], c.Index(want[i]), i+1)
		}
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestScan_SelfReference(t *testing.T) {
	node := &Type{Name: "Node", Flags: FlagSubType | FlagMembers, SubTypeFlags: uint32(SubTypeClass)}
	next := &Type{Name: "T*", Flags: FlagSubType | FlagPointer, SubTypeFlags: uint32(SubTypePointer), Pointer: node}
	node.Members = []Member{{Name: "next", Type: next}}

	c := Scan(node, next)
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCatalog_Lookup(t *testing.T) {
	first := prim("int", flagsInt32, 4)
	second := prim("int", flagsInt32, 4)
	c := NewCatalog(first, second, first)

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if c.Lookup("int") != first {
		t.Error("Lookup() should return the first type registered under a name")
	}
	if c.Lookup("missing") != nil {
		t.Error("Lookup(missing) should be nil")
	}
	if c.Contains(prim("int", flagsInt32, 4)) {
		t.Error("Contains() should compare by identity")
	}
	if c.Add(nil) != 0 || c.Index(nil) != 0 {
		t.Error("nil type should map to index 0")
	}
}

func TestCatalog_Type(t *testing.T) {
	i32 := prim("int", flagsInt32, 4)
	c := NewCatalog(i32)

	if got, err := c.Type(0); got != nil || err != nil {
		t.Errorf("Type(0) = %v, %v, want nil, nil", got, err)
	}
	if got, err := c.Type(1); got != i32 || err != nil {
		t.Errorf("Type(1) = %v, %v, want int", got, err)
	}
	for _, i := range []int{-1, 2, 100} {
		if _, err := c.Type(i); !errors.Is(err, ErrReference) {
			t.Errorf("Type(%d) error = %v, want ErrReference", i, err)
		}
	}
}
