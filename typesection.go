package tagfile

import "bytes"

// stringTable deduplicates strings in first-use order.
type stringTable struct {
	list  []string
	index map[string]int
}

func newStringTable() *stringTable {
	return &stringTable{index: make(map[string]int)}
}

func (s *stringTable) add(v string) {
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = len(s.list)
	s.list = append(s.list, v)
}

func (s *stringTable) id(v string) uint32 { return uint32(s.index[v]) }

// encode joins the table with NUL separators and a trailing NUL.
func (s *stringTable) encode() []byte {
	var b bytes.Buffer
	for _, v := range s.list {
		b.WriteString(v)
		b.WriteByte(0)
	}
	if len(s.list) == 0 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

// splitStrings decodes a NUL separated table. Trailing padding yields empty
// entries that are never referenced.
func splitStrings(b []byte) []string {
	parts := bytes.Split(b, []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

// writeTypes emits the TYPE section describing every type in c.
func (w *writer) writeTypes(c *Catalog) {
	types := c.Types()

	idx := func(t *Type) uint32 {
		if t == nil {
			return 0
		}
		i := c.Index(t)
		if i == 0 {
			w.errorf(ErrReference, "type %q is not in the catalog", t.Name)
		}
		return uint32(i)
	}

	typeNames := newStringTable()
	fieldNames := newStringTable()
	for _, t := range types {
		if t.Flags&FlagUnknown != 0 {
			w.errorf(ErrFormat, "type %q sets unsupported flag 0x80", t.Name)
			return
		}
		typeNames.add(t.Name)
		for _, p := range t.Templates {
			typeNames.add(p.Name)
		}
		for _, m := range t.Members {
			fieldNames.add(m.Name)
		}
	}

	w.section(sigType, false, func() {
		w.section(sigTPtr, true, func() {
			w.zeros(8 * int64(c.Len()))
		})

		w.section(sigTStr, true, func() {
			w.data(typeNames.encode())
		})

		w.section(sigTNam, true, func() {
			w.packed(uint32(c.Len()))
			for _, t := range types {
				w.packed(typeNames.id(t.Name))
				w.packed(uint32(len(t.Templates)))
				for _, p := range t.Templates {
					w.packed(typeNames.id(p.Name))
					if p.IsType() {
						w.packed(idx(p.Type))
					} else {
						w.packed(p.Value)
					}
				}
			}
		})

		w.section(sigFStr, true, func() {
			w.data(fieldNames.encode())
		})

		w.section(sigTBod, true, func() {
			for _, t := range types {
				w.packed(idx(t))
				w.packed(idx(t.Parent))
				w.packed(uint32(t.Flags))
				if t.Has(FlagSubType) {
					w.packed(t.SubTypeFlags)
				}
				if t.Has(FlagPointer) {
					w.packed(idx(t.Pointer))
				}
				if t.Has(FlagVersion) {
					w.packed(t.Version)
				}
				if t.Has(FlagByteSize) {
					w.packed(t.ByteSize)
					w.packed(t.Alignment)
				}
				if t.Has(FlagAbstractValue) {
					w.packed(t.AbstractValue)
				}
				if t.Has(FlagMembers) {
					w.packed(uint32(len(t.Members)))
					for _, m := range t.Members {
						w.packed(fieldNames.id(m.Name))
						w.packed(m.Flags)
						w.packed(m.Offset)
						w.packed(idx(m.Type))
					}
				}
				if t.Has(FlagInterfaces) {
					w.packed(uint32(len(t.Interfaces)))
					for _, iface := range t.Interfaces {
						w.packed(idx(iface.Type))
						w.packed(iface.Flags)
					}
				}
			}
		})

		w.section(sigTHsh, true, func() {
			var hashed []*Type
			for _, t := range types {
				if t.Hash != 0 {
					hashed = append(hashed, t)
				}
			}
			w.packed(uint32(len(hashed)))
			for _, t := range hashed {
				w.packed(idx(t))
				w.u32(t.Hash)
			}
		})

		w.section(sigTPad, true, nil)
	})
}

// readTypes parses the TYPE section into a catalog.
func (r *reader) readTypes() *Catalog {
	var (
		types      []*Type
		typeNames  []string
		fieldNames []string
	)

	typeAt := func(i uint32) *Type {
		if int(i) >= len(types) {
			r.errorf(ErrReference, "type index %d out of range [0, %d)", i, len(types))
			return nil
		}
		return types[i]
	}
	nameAt := func(table []string, i uint32) string {
		if int(i) >= len(table) {
			r.errorf(ErrReference, "string index %d out of range [0, %d)", i, len(table))
			return ""
		}
		return table[i]
	}

	r.section(sigType, func(_ *section) {
		r.section(sigTPtr, nil)

		r.section(sigTStr, func(s *section) {
			typeNames = splitStrings(r.bytes(s.size))
		})

		r.section(sigTNam, func(s *section) {
			n := r.packed()
			if r.fail != nil {
				return
			}
			if n == 0 {
				r.errorf(ErrFormat, "type count must include the reserved slot")
				return
			}
			// Every entry takes at least a name and a template count.
			if int64(n-1)*2 > s.size {
				r.errorf(ErrTruncated, "%d types declared in %d bytes", n-1, s.size)
				return
			}
			types = make([]*Type, n)
			for i := 1; i < len(types); i++ {
				types[i] = &Type{}
			}
			for i := 1; i < len(types) && r.fail == nil; i++ {
				t := types[i]
				t.Name = nameAt(typeNames, r.packed())
				count := r.packed()
				for j := uint32(0); j < count && r.fail == nil; j++ {
					p := Template{Name: nameAt(typeNames, r.packed())}
					v := r.packed()
					if p.IsType() {
						p.Type = typeAt(v)
					} else {
						p.Value = v
					}
					t.Templates = append(t.Templates, p)
				}
			}
		})

		r.section(sigFStr, func(s *section) {
			fieldNames = splitStrings(r.bytes(s.size))
		})

		r.section(sigTBod, func(s *section) {
			for !r.atEnd(s) {
				i := r.packed()
				if i == 0 {
					continue
				}
				t := typeAt(i)
				if t == nil {
					return
				}
				t.Parent = typeAt(r.packed())
				t.Flags = TypeFlags(r.packed())
				if t.Flags&FlagUnknown != 0 {
					r.errorf(ErrFormat, "type %q sets unsupported flag 0x80", t.Name)
					return
				}
				if t.Has(FlagSubType) {
					t.SubTypeFlags = r.packed()
				}
				if t.Has(FlagPointer) {
					t.Pointer = typeAt(r.packed())
				}
				if t.Has(FlagVersion) {
					t.Version = r.packed()
				}
				if t.Has(FlagByteSize) {
					t.ByteSize = r.packed()
					t.Alignment = r.packed()
				}
				if t.Has(FlagAbstractValue) {
					t.AbstractValue = r.packed()
				}
				if t.Has(FlagMembers) {
					n := r.packed()
					t.Members = make([]Member, 0, min(n, 1024))
					for j := uint32(0); j < n && r.fail == nil; j++ {
						m := Member{Name: nameAt(fieldNames, r.packed())}
						m.Flags = r.packed()
						m.Offset = r.packed()
						m.Type = typeAt(r.packed())
						t.Members = append(t.Members, m)
					}
				}
				if t.Has(FlagInterfaces) {
					n := r.packed()
					for j := uint32(0); j < n && r.fail == nil; j++ {
						iface := Interface{Type: typeAt(r.packed())}
						iface.Flags = r.packed()
						t.Interfaces = append(t.Interfaces, iface)
					}
				}
			}
		})

		r.section(sigTHsh, func(_ *section) {
			n := r.packed()
			for j := uint32(0); j < n && r.fail == nil; j++ {
				t := typeAt(r.packed())
				h := r.u32()
				if t != nil {
					t.Hash = h
				}
			}
		})

		r.section(sigTPad, nil)
	})

	if r.fail != nil {
		return nil
	}
	c := NewCatalog()
	for _, t := range types[1:] {
		c.Add(t)
	}
	return c
}
