package tagfile

import (
	"context"
	"slices"
)

// decoder materializes items from the DATA section.
type decoder struct {
	ctx    context.Context
	r      *reader
	base   int64 // Offset of the DATA content within r
	items  []*entry
	loaded []*entry // Materialized by the current load
}

// load materializes item i and everything it reaches. On failure every item
// materialized by this call is reset, so a later load reports the same error
// instead of returning half-filled nodes.
func (d *decoder) load(i int, e *entry) error {
	d.r.fail = nil
	d.loaded = d.loaded[:0]
	d.materialize(i, e)
	if err := d.r.err(); err != nil {
		for _, l := range d.loaded {
			l.values = nil
		}
		return err
	}
	return nil
}

// ref reads an item index at the cursor. Index 0 yields nil.
func (d *decoder) ref() (int, *entry) {
	i := d.r.u32()
	if d.r.fail != nil || i == 0 {
		return 0, nil
	}
	if int(i) >= len(d.items) {
		d.r.errorf(ErrReference, "item index %d out of range [0, %d)", i, len(d.items))
		return 0, nil
	}
	return int(i), d.items[i]
}

// materialize decodes every element of the item at index i once. Shells are
// stored before they are filled so references back into the item resolve to
// the same nodes.
func (d *decoder) materialize(i int, e *entry) {
	if e.values != nil || d.r.fail != nil {
		return
	}
	if e.Type == nil {
		d.r.errorf(ErrReference, "item %d has no type", i)
		return
	}
	stride := e.Type.Size()
	if stride == 0 && e.Count > 0 {
		d.r.errorf(ErrFormat, "item %d of type %q has zero element size", i, e.Type.Name)
		return
	}
	values := make([]Value, e.Count)
	for j := range values {
		if values[j] = NewValue(e.Type); values[j] == nil {
			d.r.errorf(ErrFormat, "item %d of type %q has no data kind", i, e.Type.Name)
			return
		}
	}
	e.values = values
	d.loaded = append(d.loaded, e)
	for j, v := range values {
		d.fill(v, d.base+e.Offset+int64(j)*stride)
	}
	emitItemMaterialized(d.ctx, i, e.Type.Name, e.Count)
}

// fill decodes the slot at offset into v. The cursor ends at offset plus the
// resolved byte size whatever the kind.
func (d *decoder) fill(v Value, offset int64) {
	r := d.r
	if r.fail != nil {
		return
	}
	t := v.Type()
	s := t.Super()
	r.seek(offset)

	switch n := v.(type) {
	case *Bool:
		n.V = r.uintN(t.Bits()) != 0

	case *Int:
		if t.Signed() {
			n.V = r.intN(t.Bits())
		} else {
			n.V = int64(r.uintN(t.Bits()))
		}

	case *Float:
		if t.FloatBits() == 64 {
			n.V = r.f64()
		} else {
			n.V = float64(r.f32())
		}

	case *String:
		if i, e := d.ref(); e != nil {
			n.V = d.chars(i, e)
		}

	case *Pointer:
		if i, e := d.ref(); e != nil && e.Count == 1 {
			d.materialize(i, e)
			if e.values != nil {
				n.Target = e.values[0]
			}
		}

	case *Array:
		if i, e := d.ref(); e != nil {
			d.materialize(i, e)
			n.Elems = slices.Clone(e.values)
		}

	case *Class:
		for _, m := range s.AllMembers() {
			if m.Void() || m.Type == nil || m.Type.Kind() == SubTypeVoid {
				continue
			}
			field := NewValue(m.Type)
			if field == nil {
				continue
			}
			n.Fields[m.Name] = field
			d.fill(field, offset+int64(m.Offset))
		}

	case *Tuple:
		elem := t.Element()
		if elem == nil {
			r.errorf(ErrFormat, "tuple type %q has no element type", t.Name)
			return
		}
		n.Elems = make([]Value, t.TupleSize())
		for i := range n.Elems {
			if n.Elems[i] = NewValue(elem); n.Elems[i] == nil {
				r.errorf(ErrFormat, "tuple element type %q has no data kind", elem.Name)
				return
			}
			d.fill(n.Elems[i], offset+int64(i)*elem.Size())
		}
	}

	r.seek(offset + int64(s.ByteSize))
}

// chars reads the content of a string item, dropping one trailing NUL.
func (d *decoder) chars(i int, e *entry) string {
	if e.Type == nil || e.Type.Size() != 1 {
		d.r.errorf(ErrFormat, "string item %d has element type %v", i, e.Type)
		return ""
	}
	d.r.seek(d.base + e.Offset)
	b := d.r.bytes(int64(e.Count))
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}
