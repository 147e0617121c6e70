package tagfile

// charFlags describes the unsigned 8-bit character type synthesized when a
// graph holds strings but no reachable type is named "char".
const charFlags = uint32(SubTypeInt) | SubTypeInt8

// CharType returns a fresh "char" type: an unsigned 8-bit integer of size 1.
func CharType() *Type {
	return &Type{
		Name:         "char",
		Flags:        FlagSubType | FlagByteSize,
		SubTypeFlags: charFlags,
		ByteSize:     1,
		Alignment:    1,
	}
}

// encoder lays out items in the DATA section.
type encoder struct {
	w     *writer
	cat   *Catalog
	items *itemTable
	char  *Type
}

// scanValues adds the types of every node reachable from root to c in
// depth-first preorder.
func scanValues(c *Catalog, root Value) {
	seen := make(map[Value]bool)
	stack := []Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if isNil(v) || seen[v] {
			continue
		}
		seen[v] = true
		scanType(c, v.Type())

		children := childValues(v)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// childValues returns the nodes directly reachable from v. Class members
// follow the flattened layout order.
func childValues(v Value) []Value {
	switch n := v.(type) {
	case *Pointer:
		return []Value{n.Target}
	case *Class:
		s := n.T.Super()
		if s == nil {
			return nil
		}
		var out []Value
		for _, m := range s.AllMembers() {
			if f, ok := n.Fields[m.Name]; ok {
				out = append(out, f)
			}
		}
		return out
	case *Array:
		return n.Elems
	case *Tuple:
		return n.Elems
	default:
		return nil
	}
}

// charType resolves the element type of string items on first use.
func (e *encoder) charType() *Type {
	if e.char == nil {
		if e.char = e.cat.Lookup("char"); e.char == nil {
			e.char = CharType()
		}
	}
	if !e.cat.Contains(e.char) {
		scanType(e.cat, e.char)
	}
	return e.char
}

// drain places queued items until none remain. Items created while placing
// one wave are placed after it.
func (e *encoder) drain() {
	w := e.w
	for p := e.items.pop(); p != nil && w.fail == nil; p = e.items.pop() {
		w.pad(2)
		w.pad(p.typ.Align())
		p.offset = w.tell()

		stride := p.typ.Size()
		if stride == 0 {
			w.setError(invariantf("item type %q has zero byte size", p.typ.Name))
			return
		}
		if p.chars != nil {
			bits := p.typ.Bits()
			for i, c := range p.chars {
				w.seek(p.offset + int64(i)*stride)
				w.uintN(bits, uint64(c))
			}
			w.seek(p.offset + int64(len(p.chars))*stride)
			continue
		}
		for i, v := range p.values {
			e.value(v, p.offset+int64(i)*stride)
		}
	}
}

// value writes v into the slot at offset. The cursor ends at offset plus the
// resolved byte size.
func (e *encoder) value(v Value, offset int64) {
	w := e.w
	if w.fail != nil {
		return
	}
	if isNil(v) {
		w.setError(invariantf("missing value at DATA offset 0x%x", offset))
		return
	}
	t := v.Type()
	if t == nil {
		w.setError(invariantf("%T has no type", v))
		return
	}
	s := t.Super()
	if s == nil {
		w.setError(invariantf("type %q has no layout", t.Name))
		return
	}
	if kindOf(v) != t.Kind() {
		w.setError(invariantf("%T cannot hold type %q of kind %s", v, t.Name, t.Kind()))
		return
	}
	w.seek(offset)

	switch n := v.(type) {
	case *Bool:
		var b uint64
		if n.V {
			b = 1
		}
		w.uintN(t.Bits(), b)

	case *Int:
		w.uintN(t.Bits(), uint64(n.V))

	case *Float:
		if t.FloatBits() == 64 {
			w.f64(n.V)
		} else {
			w.f32(float32(n.V))
		}

	case *String:
		if n.V != "" {
			e.slot(s, e.stringItem(n))
		}

	case *Pointer:
		if !isNil(n.Target) {
			if n.Target.Type() == nil {
				w.setError(invariantf("pointer target %T has no type", n.Target))
				return
			}
			e.slot(s, e.items.target(n.Target))
		}

	case *Array:
		if len(n.Elems) > 0 {
			e.slot(s, e.arrayItem(n))
		}

	case *Class:
		members := s.AllMembers()
		if err := checkFields(n, members); err != nil {
			w.setError(err)
			return
		}
		for _, m := range members {
			field, ok := n.Fields[m.Name]
			if !ok || isNil(field) || m.Void() || m.Type.Kind() == SubTypeVoid {
				continue
			}
			e.value(field, offset+int64(m.Offset))
		}

	case *Tuple:
		size := t.TupleSize()
		if len(n.Elems) != size {
			w.setError(invariantf("tuple %q holds %d elements, want %d", t.Name, len(n.Elems), size))
			return
		}
		elem := t.Element()
		if elem == nil {
			w.setError(invariantf("tuple type %q has no element type", t.Name))
			return
		}
		for i, el := range n.Elems {
			e.value(el, offset+int64(i)*elem.Size())
		}
	}

	w.seek(offset + int64(s.ByteSize))
}

// slot records a patch at the cursor and writes the item index.
func (e *encoder) slot(super *Type, index int) {
	if e.w.fail != nil || index == 0 {
		return
	}
	e.items.patch(super, e.w.tell())
	e.w.u32(uint32(index))
}

func (e *encoder) stringItem(v *String) int {
	if i, ok := e.items.contents[v]; ok {
		return i
	}
	chars := make([]byte, 0, len(v.V)+1)
	chars = append(chars, v.V...)
	chars = append(chars, 0)
	i := e.items.add(&pending{typ: e.charType(), chars: chars})
	e.items.contents[v] = i
	return i
}

func (e *encoder) arrayItem(v *Array) int {
	if i, ok := e.items.contents[v]; ok {
		return i
	}
	elem := v.T.Element()
	if elem == nil {
		e.w.setError(invariantf("array type %q has no element type", v.T.Name))
		return 0
	}
	i := e.items.add(&pending{
		typ:    elem,
		isPtr:  elem.Kind() == SubTypePointer,
		values: v.Elems,
	})
	e.items.contents[v] = i
	return i
}

// checkFields rejects class fields that name no member of the layout.
func checkFields(v *Class, members []*Member) error {
	if len(v.Fields) == 0 {
		return nil
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.Name] = true
	}
	for name := range v.Fields {
		if !known[name] {
			return invariantf("class %q has no member %q", v.T.Name, name)
		}
	}
	return nil
}
