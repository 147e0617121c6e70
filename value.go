package tagfile

// Value is one node of a decoded object graph. The variant always agrees with
// the resolved kind of its type:
//
//	SubTypeBool    *Bool
//	SubTypeInt     *Int
//	SubTypeFloat   *Float
//	SubTypeString  *String
//	SubTypeClass   *Class
//	SubTypeArray   *Array
//	SubTypeTuple   *Tuple
//	SubTypePointer *Pointer
//
// Nodes are compared by identity when writing: the same *Class reachable
// through two pointers is stored once.
type Value interface {
	// Type returns the declared type of the node.
	Type() *Type

	value()
}

// Bool is a boolean stored as an integer of the type's width.
type Bool struct {
	T *Type
	V bool
}

// Int holds the two's complement bit pattern of an integer. Width and
// signedness come from the type.
type Int struct {
	T *Type
	V int64
}

// Float holds a single or double precision value.
type Float struct {
	T *Type
	V float64
}

// String is a NUL terminated character sequence stored in its own item.
type String struct {
	T *Type
	V string
}

// Class maps member names to values. Absent members are not written.
type Class struct {
	T      *Type
	Fields map[string]Value
}

// Array is a variable length sequence stored in its own item.
type Array struct {
	T     *Type
	Elems []Value
}

// Tuple is a fixed length sequence stored inline.
type Tuple struct {
	T     *Type
	Elems []Value
}

// Pointer references another node. A nil Target is an absent pointer.
type Pointer struct {
	T      *Type
	Target Value
}

func (v *Bool) Type() *Type    { return v.T }
func (v *Int) Type() *Type     { return v.T }
func (v *Float) Type() *Type   { return v.T }
func (v *String) Type() *Type  { return v.T }
func (v *Class) Type() *Type   { return v.T }
func (v *Array) Type() *Type   { return v.T }
func (v *Tuple) Type() *Type   { return v.T }
func (v *Pointer) Type() *Type { return v.T }

func (*Bool) value()    {}
func (*Int) value()     {}
func (*Float) value()   {}
func (*String) value()  {}
func (*Class) value()   {}
func (*Array) value()   {}
func (*Tuple) value()   {}
func (*Pointer) value() {}

// NewBool returns a bool node.
func NewBool(t *Type, v bool) *Bool { return &Bool{T: t, V: v} }

// NewInt returns a signed integer node.
func NewInt(t *Type, v int64) *Int { return &Int{T: t, V: v} }

// NewUint returns an integer node holding the bit pattern of v.
func NewUint(t *Type, v uint64) *Int { return &Int{T: t, V: int64(v)} }

// NewFloat returns a float node.
func NewFloat(t *Type, v float64) *Float { return &Float{T: t, V: v} }

// NewString returns a string node.
func NewString(t *Type, v string) *String { return &String{T: t, V: v} }

// NewClass returns an empty class node.
func NewClass(t *Type) *Class { return &Class{T: t, Fields: make(map[string]Value)} }

// NewArray returns an array node.
func NewArray(t *Type, elems ...Value) *Array { return &Array{T: t, Elems: elems} }

// NewTuple returns a tuple node.
func NewTuple(t *Type, elems ...Value) *Tuple { return &Tuple{T: t, Elems: elems} }

// NewPointer returns a pointer node. A nil target yields an absent pointer.
func NewPointer(t *Type, target Value) *Pointer { return &Pointer{T: t, Target: target} }

// Set assigns a member value and returns the class for chaining.
func (v *Class) Set(name string, field Value) *Class {
	if v.Fields == nil {
		v.Fields = make(map[string]Value)
	}
	v.Fields[name] = field
	return v
}

// Get returns the value of a member, or nil when absent.
func (v *Class) Get(name string) Value {
	return v.Fields[name]
}

// Uint returns the bit pattern as an unsigned integer.
func (v *Int) Uint() uint64 { return uint64(v.V) }

// Len returns the element count.
func (v *Array) Len() int { return len(v.Elems) }

// NewValue returns an empty node of the variant matching the resolved kind
// of t, or nil when t does not resolve to a data-carrying kind.
func NewValue(t *Type) Value {
	switch t.Kind() {
	case SubTypeBool:
		return &Bool{T: t}
	case SubTypeInt:
		return &Int{T: t}
	case SubTypeFloat:
		return &Float{T: t}
	case SubTypeString:
		return &String{T: t}
	case SubTypeClass:
		return &Class{T: t, Fields: make(map[string]Value)}
	case SubTypeArray:
		return &Array{T: t}
	case SubTypeTuple:
		return &Tuple{T: t}
	case SubTypePointer:
		return &Pointer{T: t}
	default:
		return nil
	}
}

// kindOf returns the kind a variant requires.
func kindOf(v Value) SubType {
	switch v.(type) {
	case *Bool:
		return SubTypeBool
	case *Int:
		return SubTypeInt
	case *Float:
		return SubTypeFloat
	case *String:
		return SubTypeString
	case *Class:
		return SubTypeClass
	case *Array:
		return SubTypeArray
	case *Tuple:
		return SubTypeTuple
	case *Pointer:
		return SubTypePointer
	default:
		return SubTypeInvalid
	}
}

// isNil reports whether v is nil or a typed nil pointer.
func isNil(v Value) bool {
	switch n := v.(type) {
	case nil:
		return true
	case *Bool:
		return n == nil
	case *Int:
		return n == nil
	case *Float:
		return n == nil
	case *String:
		return n == nil
	case *Class:
		return n == nil
	case *Array:
		return n == nil
	case *Tuple:
		return n == nil
	case *Pointer:
		return n == nil
	default:
		return false
	}
}
