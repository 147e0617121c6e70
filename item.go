package tagfile

import (
	"slices"
)

// Item flag bits stored above the type index in an ITEM record.
const (
	itemPointer  = 0x10000000
	itemValue    = 0x20000000
	itemTypeMask = 0x00ffffff

	itemRecordSize = 12
)

// Item describes one entry of the index table.
type Item struct {
	Type      *Type
	Offset    int64 // Relative to the start of the DATA content
	Count     int
	IsPointer bool
}

// Patch lists the DATA-relative offsets of every slot of one type that holds
// an item index.
type Patch struct {
	Type    *Type
	Offsets []int64
}

// entry is an item being read. Values are materialized on first access.
type entry struct {
	Item
	values []Value
}

// readIndex parses the INDX section. Offsets are checked against the size of
// the DATA content so later materialization cannot leave it.
func (r *reader) readIndex(c *Catalog, dataSize int64) ([]*entry, []Patch) {
	var (
		items   []*entry
		patches []Patch
	)
	r.section(sigIndx, func(_ *section) {
		r.section(sigItem, func(s *section) {
			for !r.atEnd(s) {
				flags := r.u32()
				offset := r.u32()
				count := r.u32()
				if r.fail != nil {
					return
				}
				t, err := c.Type(int(flags & itemTypeMask))
				if err != nil {
					r.errorf(ErrReference, "item %d: %v", len(items), err)
					return
				}
				e := &entry{Item: Item{
					Type:      t,
					Offset:    int64(offset),
					Count:     int(count),
					IsPointer: flags&itemPointer != 0,
				}}
				if t != nil {
					extent := e.Offset + int64(e.Count)*t.Size()
					if extent > dataSize {
						r.errorf(ErrTruncated, "item %d spans 0x%x bytes past DATA (0x%x)", len(items), extent, dataSize)
						return
					}
				}
				items = append(items, e)
			}
		})

		r.section(sigPtch, func(s *section) {
			for !r.atEnd(s) {
				t, err := c.Type(int(r.u32()))
				count := r.u32()
				if r.fail != nil {
					return
				}
				if err != nil {
					r.errorf(ErrReference, "patch: %v", err)
					return
				}
				if int64(count)*4 > s.end()-r.tell() {
					r.errorf(ErrTruncated, "patch list of %d offsets", count)
					return
				}
				p := Patch{Type: t, Offsets: make([]int64, count)}
				for i := range p.Offsets {
					p.Offsets[i] = int64(r.u32())
				}
				patches = append(patches, p)
			}
		})
	})
	if len(items) == 0 && r.fail == nil {
		items = append(items, &entry{})
	}
	return items, patches
}

// pending is an item being written.
type pending struct {
	typ    *Type
	isPtr  bool
	values []Value
	chars  []byte // String content including the terminating NUL
	offset int64  // Absolute stream offset once placed
}

func (p *pending) count() int {
	if p.chars != nil {
		return len(p.chars)
	}
	return len(p.values)
}

// itemTable assigns item indices while writing and keeps the placement queue.
type itemTable struct {
	items    []*pending // items[0] is the null item
	next     int        // Queue head into items
	targets  map[Value]int
	contents map[Value]int
	patches  map[*Type][]int64
}

func newItemTable() *itemTable {
	return &itemTable{
		items:    []*pending{nil},
		next:     1,
		targets:  make(map[Value]int),
		contents: make(map[Value]int),
		patches:  make(map[*Type][]int64),
	}
}

func (t *itemTable) add(p *pending) int {
	t.items = append(t.items, p)
	return len(t.items) - 1
}

// pop returns the next item awaiting placement, or nil when drained.
func (t *itemTable) pop() *pending {
	if t.next >= len(t.items) {
		return nil
	}
	p := t.items[t.next]
	t.next++
	return p
}

// target returns the single-element pointer item for v, creating it on first
// use.
func (t *itemTable) target(v Value) int {
	if i, ok := t.targets[v]; ok {
		return i
	}
	i := t.add(&pending{typ: v.Type(), isPtr: true, values: []Value{v}})
	t.targets[v] = i
	return i
}

func (t *itemTable) patch(typ *Type, offset int64) {
	t.patches[typ] = append(t.patches[typ], offset)
}

// writeIndex emits the INDX section. Offsets are made relative to base, the
// start of the DATA content.
func (w *writer) writeIndex(c *Catalog, items *itemTable, base int64) {
	w.section(sigIndx, false, func() {
		w.section(sigItem, true, func() {
			w.zeros(itemRecordSize)
			for _, p := range items.items[1:] {
				i := c.Index(p.typ)
				if i == 0 {
					w.errorf(ErrReference, "item type %q is not in the catalog", p.typ.Name)
					return
				}
				flags := uint32(i)
				if p.isPtr {
					flags |= itemPointer
				} else {
					flags |= itemValue
				}
				w.u32(flags)
				w.u32(uint32(p.offset - base))
				w.u32(uint32(p.count()))
			}
		})

		w.section(sigPtch, true, func() {
			for _, p := range sortedPatches(c, items.patches, base) {
				if !c.Contains(p.Type) {
					w.errorf(ErrReference, "patch type %q is not in the catalog", p.Type.Name)
					return
				}
				w.u32(uint32(c.Index(p.Type)))
				w.u32(uint32(len(p.Offsets)))
				for _, off := range p.Offsets {
					w.u32(uint32(off))
				}
			}
		})
	})
}

// sortedPatches orders patch lists by type index with unique ascending
// offsets relative to base.
func sortedPatches(c *Catalog, patches map[*Type][]int64, base int64) []Patch {
	out := make([]Patch, 0, len(patches))
	for t, offsets := range patches {
		rel := make([]int64, len(offsets))
		for i, off := range offsets {
			rel[i] = off - base
		}
		slices.Sort(rel)
		out = append(out, Patch{Type: t, Offsets: slices.Compact(rel)})
	}
	slices.SortFunc(out, func(a, b Patch) int {
		return c.Index(a.Type) - c.Index(b.Type)
	})
	return out
}
