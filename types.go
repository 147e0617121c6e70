package tagfile

// TypeFlags selects the optional fields a type declares.
type TypeFlags uint32

const (
	// FlagSubType marks a type declaring its own subtype. Types without it
	// delegate layout to their parent.
	FlagSubType TypeFlags = 0x1

	// FlagPointer marks a type naming an element or target type.
	FlagPointer TypeFlags = 0x2

	// FlagVersion marks a type carrying a version number.
	FlagVersion TypeFlags = 0x4

	// FlagByteSize marks a type declaring its byte size and alignment.
	FlagByteSize TypeFlags = 0x8

	// FlagAbstractValue marks a type carrying an abstract default value.
	FlagAbstractValue TypeFlags = 0x10

	// FlagMembers marks a type declaring members.
	FlagMembers TypeFlags = 0x20

	// FlagInterfaces marks a type declaring interfaces.
	FlagInterfaces TypeFlags = 0x40

	// FlagUnknown is an extension bit this codec cannot interpret.
	// Reading or writing a type that sets it fails with ErrFormat.
	FlagUnknown TypeFlags = 0x80
)

// SubType is the primitive or structural kind a type resolves to.
type SubType uint8

// SubType values as stored in the low byte of the subtype flags.
const (
	SubTypeVoid    SubType = 0x0
	SubTypeInvalid SubType = 0x1
	SubTypeBool    SubType = 0x2
	SubTypeString  SubType = 0x3
	SubTypeInt     SubType = 0x4
	SubTypeFloat   SubType = 0x5
	SubTypePointer SubType = 0x6
	SubTypeClass   SubType = 0x7
	SubTypeArray   SubType = 0x8
	SubTypeTuple   SubType = 0x28
)

func (s SubType) String() string {
	switch s {
	case SubTypeVoid:
		return "void"
	case SubTypeInvalid:
		return "invalid"
	case SubTypeBool:
		return "bool"
	case SubTypeString:
		return "string"
	case SubTypeInt:
		return "int"
	case SubTypeFloat:
		return "float"
	case SubTypePointer:
		return "pointer"
	case SubTypeClass:
		return "class"
	case SubTypeArray:
		return "array"
	case SubTypeTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Subtype flag bits above the kind byte.
const (
	SubTypeMask   uint32 = 0xff
	SubTypeSigned uint32 = 0x200
	SubTypeInt8   uint32 = 0x2000
	SubTypeInt16  uint32 = 0x4000
	SubTypeInt32  uint32 = 0x8000
	SubTypeInt64  uint32 = 0x10000

	// Float formats are identified by the bits above the kind byte.
	FloatSingle uint32 = 0x1746
	FloatDouble uint32 = 0x345e
)

// MemberVoid marks a member that is part of the layout but never carries
// data.
const MemberVoid uint32 = 0x1

// Member is one field of a class layout.
type Member struct {
	Name   string
	Flags  uint32
	Offset uint32 // Byte offset within the owning layout
	Type   *Type
}

// Void reports whether the member is a layout placeholder.
func (m *Member) Void() bool { return m.Flags&MemberVoid != 0 }

// Template is a named template parameter. Names starting with 't' carry a
// type, names starting with 'v' carry an integer.
type Template struct {
	Name  string
	Value uint32
	Type  *Type
}

// IsType reports whether the parameter is type-valued.
func (p *Template) IsType() bool { return p.Name != "" && p.Name[0] == 't' }

// IsInt reports whether the parameter is integer-valued.
func (p *Template) IsInt() bool { return p.Name != "" && p.Name[0] == 'v' }

// Interface is an implemented interface and its flags.
type Interface struct {
	Type  *Type
	Flags uint32
}

// Type describes one entry of a type catalog.
//
// A type either declares its own layout (FlagSubType) or delegates it to the
// nearest ancestor that does. All layout decisions go through Super().
type Type struct {
	Name          string
	Parent        *Type
	Templates     []Template
	Flags         TypeFlags
	SubTypeFlags  uint32
	Pointer       *Type
	Version       uint32
	ByteSize      uint32
	Alignment     uint32
	AbstractValue uint32
	Members       []Member
	Interfaces    []Interface
	Hash          uint32
}

// Has reports whether all bits of f are set.
func (t *Type) Has(f TypeFlags) bool { return t.Flags&f == f }

// Super resolves the type that carries the effective layout: t itself when
// it declares a subtype, otherwise its parent's resolved super type. It
// returns nil when no ancestor declares a subtype.
func (t *Type) Super() *Type {
	for s := t; s != nil; s = s.Parent {
		if s.Has(FlagSubType) {
			return s
		}
	}
	return nil
}

// Kind returns the resolved subtype, or SubTypeVoid when t has no layout.
func (t *Type) Kind() SubType {
	s := t.Super()
	if s == nil {
		return SubTypeVoid
	}
	return SubType(s.SubTypeFlags & SubTypeMask)
}

// Size returns the resolved byte size.
func (t *Type) Size() int64 {
	if s := t.Super(); s != nil {
		return int64(s.ByteSize)
	}
	return 0
}

// Align returns the resolved alignment.
func (t *Type) Align() int64 {
	if s := t.Super(); s != nil {
		return int64(s.Alignment)
	}
	return 0
}

// Element returns the resolved pointer target, or array and tuple element
// type.
func (t *Type) Element() *Type {
	if s := t.Super(); s != nil {
		return s.Pointer
	}
	return nil
}

// Bits returns the integer width of a bool or int type, or 0.
func (t *Type) Bits() int {
	s := t.Super()
	if s == nil || !s.integral() {
		return 0
	}
	switch f := s.SubTypeFlags; {
	case f&SubTypeInt8 != 0:
		return 8
	case f&SubTypeInt16 != 0:
		return 16
	case f&SubTypeInt32 != 0:
		return 32
	case f&SubTypeInt64 != 0:
		return 64
	default:
		return 0
	}
}

// Signed reports whether a resolved int type is signed.
func (t *Type) Signed() bool {
	s := t.Super()
	return s != nil && s.integral() && s.SubTypeFlags&SubTypeSigned != 0
}

// integral reports whether the width and sign bits of the subtype flags
// apply. Other kinds reuse those bits for their own parameters.
func (t *Type) integral() bool {
	k := SubType(t.SubTypeFlags & SubTypeMask)
	return k == SubTypeBool || k == SubTypeInt
}

// FloatBits returns 64 for double-precision formats and 32 otherwise.
func (t *Type) FloatBits() int {
	if s := t.Super(); s != nil && s.SubTypeFlags>>8 == FloatDouble {
		return 64
	}
	return 32
}

// TupleSize returns the element count of a resolved tuple type.
func (t *Type) TupleSize() int {
	if s := t.Super(); s != nil {
		return int(s.SubTypeFlags >> 8)
	}
	return 0
}

// AllMembers returns the flattened field layout: ancestor members first,
// each level in declaration order.
func (t *Type) AllMembers() []*Member {
	var chain []*Type
	for c := t; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	var out []*Member
	for i := len(chain) - 1; i >= 0; i-- {
		for j := range chain[i].Members {
			out = append(out, &chain[i].Members[j])
		}
	}
	return out
}

// Member returns the flattened member with the given name.
func (t *Type) Member(name string) *Member {
	for _, m := range t.AllMembers() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
