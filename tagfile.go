package tagfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// File is a decoded tag container. The type catalog and the index table are
// parsed by Read; items are materialized on first access through Root or
// Object. A File is safe for concurrent use.
type File struct {
	Version SdkVersion
	Catalog *Catalog

	items   []*entry
	patches []Patch

	mu  sync.Mutex
	dec *decoder
}

// Items returns the index table. Entry 0 is the null item.
func (f *File) Items() []Item {
	out := make([]Item, len(f.items))
	for i, e := range f.items {
		out[i] = e.Item
	}
	return out
}

// Patches returns the patch lists in file order.
func (f *File) Patches() []Patch {
	return f.patches
}

// Root returns the first element of item 1, the object the container was
// written for, or nil if the container holds no items. Items the root never
// reaches are not decoded.
func (f *File) Root() (Value, error) {
	if len(f.items) < 2 {
		return nil, nil
	}
	return f.object(1)
}

// Object returns the first element of the first item whose type is named
// name, or nil if there is none.
func (f *File) Object(name string) (Value, error) {
	for i, e := range f.items {
		if i > 0 && e.Type != nil && e.Type.Name == name && e.Count > 0 {
			return f.object(i)
		}
	}
	return nil, nil
}

// object materializes item i once and returns its first element.
func (f *File) object(i int) (Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e := f.items[i]
	if e.values == nil {
		if err := f.dec.load(i, e); err != nil {
			return nil, err
		}
	}
	if len(e.values) == 0 {
		return nil, nil
	}
	return e.values[0], nil
}

// Read parses the sections, the type catalog and the index table of a
// container. The DATA content is copied into the File, which does not
// retain rs.
func Read(ctx context.Context, rs io.ReadSeeker) (*File, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := newReader(rs)
	if err != nil {
		return nil, fmt.Errorf("tagfile: %w", err)
	}
	emitReadStart(ctx, r.size)

	f := readFile(ctx, r)
	err = r.err()

	var types, items int
	if f != nil {
		types, items = f.Catalog.Len()-1, len(f.items)-1
	}
	emitReadComplete(ctx, r.size, types, items, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Unmarshal decodes a container held in memory.
func Unmarshal(data []byte) (*File, error) {
	return Read(context.Background(), bytes.NewReader(data))
}

// ReadFile decodes the container stored at path.
func ReadFile(ctx context.Context, path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Read(ctx, fh)
}

func readFile(ctx context.Context, r *reader) *File {
	f := &File{Version: Version20160100}
	var (
		content []byte
		origin  int64
	)

	r.section(sigTag, func(_ *section) {
		r.section(sigSDK, func(_ *section) {
			got := string(r.bytes(8))
			if r.fail == nil && got != Version20160100.String() {
				r.errorf(ErrFormat, "unsupported sdk version %q", got)
			}
		})
		r.section(sigData, func(s *section) {
			origin, content = s.start, r.bytes(s.size)
		})
		f.Catalog = r.readTypes()
		if r.fail != nil {
			return
		}
		f.items, f.patches = r.readIndex(f.Catalog, int64(len(content)))
	})
	if r.fail != nil {
		return nil
	}

	dr := &reader{rs: bytes.NewReader(content), size: int64(len(content)), origin: origin, scope: sigData}
	f.dec = &decoder{ctx: context.WithoutCancel(ctx), r: dr, items: f.items}
	return f
}

// Option configures Write.
type Option func(*writeOptions)

type writeOptions struct {
	char *Type
}

// WithCharType sets the element type of string items. Without it the
// reachable type named "char" is used, or an unsigned 8-bit "char" is
// synthesized.
func WithCharType(t *Type) Option {
	return func(o *writeOptions) {
		o.char = t
	}
}

// Write encodes the graph rooted at root and writes the complete container
// to w. Nothing is written when encoding fails.
//
// The root becomes item 1. A *Pointer root is replaced by its target.
func Write(ctx context.Context, w io.Writer, root Value, opts ...Option) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return err
	}

	rootType := ""
	if !isNil(root) && root.Type() != nil {
		rootType = root.Type().Name
	}
	emitWriteStart(ctx, rootType)

	data, st, err := encodeFile(root, opts)
	if err == nil {
		_, err = w.Write(data)
	}
	emitWriteComplete(ctx, rootType, len(data), st.types, st.items, st.patches, time.Since(start), err)
	return err
}

// Marshal encodes the graph rooted at root into a container.
func Marshal(root Value, opts ...Option) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(context.Background(), &b, root, opts...); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

type writeStats struct {
	types, items, patches int
}

func encodeFile(root Value, opts []Option) ([]byte, writeStats, error) {
	o := writeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if p, ok := root.(*Pointer); ok && p != nil {
		root = p.Target
	}
	if isNil(root) {
		return nil, writeStats{}, invariantf("root value is nil")
	}
	if root.Type() == nil {
		return nil, writeStats{}, invariantf("root %T has no type", root)
	}

	cat := NewCatalog()
	scanValues(cat, root)

	w := newWriter()
	e := &encoder{w: w, cat: cat, items: newItemTable(), char: o.char}
	e.items.target(root)

	var base int64
	w.section(sigTag, false, func() {
		w.section(sigSDK, true, func() {
			w.data([]byte(Version20160100.String()))
		})
		w.section(sigData, true, func() {
			base = w.tell()
			e.drain()
			w.pad(16)
		})
		w.writeTypes(cat)
		w.writeIndex(cat, e.items, base)
	})
	if err := w.err(); err != nil {
		return nil, writeStats{}, err
	}

	st := writeStats{types: cat.Len() - 1, items: len(e.items.items) - 1}
	for _, offsets := range e.items.patches {
		st.patches += len(offsets)
	}
	return w.buf.Bytes(), st, nil
}
