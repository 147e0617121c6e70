// Package testing provides type catalogs and value graphs for tagfile tests.
package testing

import (
	"bytes"
	"context"
	"testing"

	"github.com/zoobzio/tagfile"
)

// Subtype flags of the primitive fixtures.
const (
	FlagsBool    = uint32(tagfile.SubTypeBool) | tagfile.SubTypeInt8
	FlagsUint8   = uint32(tagfile.SubTypeInt) | tagfile.SubTypeInt8
	FlagsUint16  = uint32(tagfile.SubTypeInt) | tagfile.SubTypeInt16
	FlagsInt32   = uint32(tagfile.SubTypeInt) | tagfile.SubTypeSigned | tagfile.SubTypeInt32
	FlagsInt64   = uint32(tagfile.SubTypeInt) | tagfile.SubTypeSigned | tagfile.SubTypeInt64
	FlagsFloat   = uint32(tagfile.SubTypeFloat) | tagfile.FloatSingle<<8
	FlagsDouble  = uint32(tagfile.SubTypeFloat) | tagfile.FloatDouble<<8
	FlagsString  = uint32(tagfile.SubTypeString)
	FlagsPointer = uint32(tagfile.SubTypePointer)
	FlagsClass   = uint32(tagfile.SubTypeClass)
	FlagsArray   = uint32(tagfile.SubTypeArray)
)

// Primitive returns a type declaring its own layout.
func Primitive(name string, subTypeFlags, size, align uint32) *tagfile.Type {
	return &tagfile.Type{
		Name:         name,
		Flags:        tagfile.FlagSubType | tagfile.FlagByteSize,
		SubTypeFlags: subTypeFlags,
		ByteSize:     size,
		Alignment:    align,
	}
}

// Primitive fixtures sized for a 64-bit layout.
func Bool() *tagfile.Type    { return Primitive("hkBool", FlagsBool, 1, 1) }
func Uint8() *tagfile.Type   { return Primitive("hkUint8", FlagsUint8, 1, 1) }
func Uint16() *tagfile.Type  { return Primitive("hkUint16", FlagsUint16, 2, 2) }
func Int32() *tagfile.Type   { return Primitive("int", FlagsInt32, 4, 4) }
func Int64() *tagfile.Type   { return Primitive("hkInt64", FlagsInt64, 8, 8) }
func Float() *tagfile.Type   { return Primitive("float", FlagsFloat, 4, 4) }
func Double() *tagfile.Type  { return Primitive("double", FlagsDouble, 8, 8) }
func Char() *tagfile.Type    { return Primitive("char", FlagsUint8, 1, 1) }
func CString() *tagfile.Type { return Primitive("char*", FlagsString, 8, 8) }

// PointerTo returns "T*" for target.
func PointerTo(target *tagfile.Type) *tagfile.Type {
	return &tagfile.Type{
		Name:         "T*",
		Templates:    []tagfile.Template{{Name: "tT", Type: target}},
		Flags:        tagfile.FlagSubType | tagfile.FlagPointer | tagfile.FlagByteSize,
		SubTypeFlags: FlagsPointer,
		Pointer:      target,
		ByteSize:     8,
		Alignment:    8,
	}
}

// ArrayOf returns "hkArray" of elem.
func ArrayOf(elem *tagfile.Type) *tagfile.Type {
	return &tagfile.Type{
		Name:         "hkArray",
		Templates:    []tagfile.Template{{Name: "tT", Type: elem}, {Name: "tAllocator"}},
		Flags:        tagfile.FlagSubType | tagfile.FlagPointer | tagfile.FlagByteSize,
		SubTypeFlags: FlagsArray,
		Pointer:      elem,
		ByteSize:     16,
		Alignment:    8,
	}
}

// TupleOf returns "T[N]" holding n elements of elem.
func TupleOf(elem *tagfile.Type, n uint32) *tagfile.Type {
	return &tagfile.Type{
		Name:         "T[N]",
		Templates:    []tagfile.Template{{Name: "tT", Type: elem}, {Name: "vN", Value: n}},
		Flags:        tagfile.FlagSubType | tagfile.FlagPointer | tagfile.FlagByteSize,
		SubTypeFlags: uint32(tagfile.SubTypeTuple) | n<<8,
		Pointer:      elem,
		ByteSize:     n * elem.ByteSize,
		Alignment:    elem.Alignment,
	}
}

// ClassType returns a class layout of the given size and alignment.
func ClassType(name string, parent *tagfile.Type, size, align uint32, members ...tagfile.Member) *tagfile.Type {
	return &tagfile.Type{
		Name:         name,
		Parent:       parent,
		Flags:        tagfile.FlagSubType | tagfile.FlagByteSize | tagfile.FlagMembers,
		SubTypeFlags: FlagsClass,
		ByteSize:     size,
		Alignment:    align,
		Members:      members,
	}
}

// Leaf returns "Leaf" { value: int32 }.
func Leaf() *tagfile.Type {
	return ClassType("Leaf", nil, 4, 4, tagfile.Member{Name: "value", Type: Int32()})
}

// RootType returns "Root" { a: Leaf*, b: Leaf* } over leaf.
func RootType(leaf *tagfile.Type) *tagfile.Type {
	ptr := PointerTo(leaf)
	return ClassType("Root", nil, 16, 8,
		tagfile.Member{Name: "a", Offset: 0, Type: ptr},
		tagfile.Member{Name: "b", Offset: 8, Type: ptr},
	)
}

// SharedGraph returns a Root whose two pointers reach one Leaf holding 42.
func SharedGraph() *tagfile.Class {
	leafType := Leaf()
	rootType := RootType(leafType)
	ptr := rootType.Members[0].Type

	leaf := tagfile.NewClass(leafType).Set("value", tagfile.NewInt(leafType.Members[0].Type, 42))
	return tagfile.NewClass(rootType).
		Set("a", tagfile.NewPointer(ptr, leaf)).
		Set("b", tagfile.NewPointer(ptr, leaf))
}

// NodeType returns "Node" { value: int32, next: Node* }.
func NodeType() *tagfile.Type {
	node := ClassType("Node", nil, 16, 8, tagfile.Member{Name: "value", Type: Int32()})
	node.Members = append(node.Members, tagfile.Member{Name: "next", Offset: 8, Type: PointerTo(node)})
	return node
}

// Ring returns n nodes linked in a cycle. Node i holds i.
func Ring(n int) *tagfile.Class {
	t := NodeType()
	nodes := make([]*tagfile.Class, n)
	for i := range nodes {
		nodes[i] = tagfile.NewClass(t).Set("value", tagfile.NewInt(t.Members[0].Type, int64(i)))
	}
	for i, node := range nodes {
		node.Set("next", tagfile.NewPointer(t.Members[1].Type, nodes[(i+1)%n]))
	}
	return nodes[0]
}

// SampleType returns "Sample", a class with one member of every kind. It
// extends "Base" { id: hkUint16 } and carries a void member.
func SampleType() *tagfile.Type {
	base := ClassType("Base", nil, 2, 2, tagfile.Member{Name: "id", Type: Uint16()})
	float := Float()
	leaf := Leaf()
	return ClassType("Sample", base, 96, 8,
		tagfile.Member{Name: "enabled", Offset: 2, Type: Bool()},
		tagfile.Member{Name: "small", Offset: 3, Type: Uint8()},
		tagfile.Member{Name: "count", Offset: 4, Type: Int32()},
		tagfile.Member{Name: "big", Offset: 8, Type: Int64()},
		tagfile.Member{Name: "ratio", Offset: 16, Type: float},
		tagfile.Member{Name: "precise", Offset: 24, Type: Double()},
		tagfile.Member{Name: "name", Offset: 32, Type: CString()},
		tagfile.Member{Name: "values", Offset: 40, Type: ArrayOf(Int32())},
		tagfile.Member{Name: "position", Offset: 56, Type: TupleOf(float, 4)},
		tagfile.Member{Name: "leaves", Offset: 72, Type: ArrayOf(PointerTo(leaf))},
		tagfile.Member{Name: "reserved", Offset: 88, Flags: tagfile.MemberVoid, Type: PointerTo(leaf)},
	)
}

// SampleGraph returns a populated Sample. Its leaves array holds two
// pointers to one Leaf and one absent pointer.
func SampleGraph() *tagfile.Class {
	t := SampleType()
	m := func(name string) *tagfile.Type { return t.Member(name).Type }

	pos := m("position")
	position := tagfile.NewTuple(pos,
		tagfile.NewFloat(pos.Pointer, 1),
		tagfile.NewFloat(pos.Pointer, -2.5),
		tagfile.NewFloat(pos.Pointer, 0.25),
		tagfile.NewFloat(pos.Pointer, 1e6),
	)

	vals := m("values")
	values := tagfile.NewArray(vals,
		tagfile.NewInt(vals.Pointer, -1),
		tagfile.NewInt(vals.Pointer, 0),
		tagfile.NewInt(vals.Pointer, 1<<30),
	)

	leaves := m("leaves")
	leafType := leaves.Pointer.Pointer
	leaf := tagfile.NewClass(leafType).Set("value", tagfile.NewInt(leafType.Members[0].Type, 7))
	leafList := tagfile.NewArray(leaves,
		tagfile.NewPointer(leaves.Pointer, leaf),
		tagfile.NewPointer(leaves.Pointer, nil),
		tagfile.NewPointer(leaves.Pointer, leaf),
	)

	return tagfile.NewClass(t).
		Set("id", tagfile.NewUint(m("id"), 0xbeef)).
		Set("enabled", tagfile.NewBool(m("enabled"), true)).
		Set("small", tagfile.NewUint(m("small"), 200)).
		Set("count", tagfile.NewInt(m("count"), -12345)).
		Set("big", tagfile.NewInt(m("big"), -1<<40)).
		Set("ratio", tagfile.NewFloat(m("ratio"), 0.5)).
		Set("precise", tagfile.NewFloat(m("precise"), 3.141592653589793)).
		Set("name", tagfile.NewString(m("name"), "sample")).
		Set("values", values).
		Set("position", position).
		Set("leaves", leafList)
}

// RoundTrip writes root, reads the container back and returns it.
func RoundTrip(tb testing.TB, root tagfile.Value, opts ...tagfile.Option) *tagfile.File {
	tb.Helper()
	var buf bytes.Buffer
	if err := tagfile.Write(context.Background(), &buf, root, opts...); err != nil {
		tb.Fatalf("Write() error: %v", err)
	}
	f, err := tagfile.Read(context.Background(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		tb.Fatalf("Read() error: %v", err)
	}
	return f
}

// RootOf materializes the root of f or fails tb.
func RootOf(tb testing.TB, f *tagfile.File) tagfile.Value {
	tb.Helper()
	root, err := f.Root()
	if err != nil {
		tb.Fatalf("Root() error: %v", err)
	}
	return root
}

// AssertEqual fails tb when the graphs differ.
func AssertEqual(tb testing.TB, want, got tagfile.Value) {
	tb.Helper()
	if !tagfile.Equal(want, got) {
		tb.Errorf("graphs differ: want %v graph, got %v graph", typeOf(want), typeOf(got))
	}
}

func typeOf(v tagfile.Value) *tagfile.Type {
	if v == nil {
		return nil
	}
	return v.Type()
}
