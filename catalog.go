package tagfile

import "fmt"

// Catalog is an index-addressable list of types. Index 0 is reserved for
// "no type" and never holds an entry.
type Catalog struct {
	types  []*Type // types[0] is always nil
	index  map[*Type]int
	byName map[string]*Type
}

// NewCatalog returns a catalog holding the given types at indices 1..n.
func NewCatalog(types ...*Type) *Catalog {
	c := &Catalog{
		types:  []*Type{nil},
		index:  make(map[*Type]int),
		byName: make(map[string]*Type),
	}
	for _, t := range types {
		c.Add(t)
	}
	return c
}

// Add appends t and returns its index. Adding a type already present returns
// its existing index.
func (c *Catalog) Add(t *Type) int {
	if t == nil {
		return 0
	}
	if i, ok := c.index[t]; ok {
		return i
	}
	c.types = append(c.types, t)
	i := len(c.types) - 1
	c.index[t] = i
	if _, ok := c.byName[t.Name]; !ok {
		c.byName[t.Name] = t
	}
	return i
}

// Len returns the number of slots including the reserved slot 0.
func (c *Catalog) Len() int { return len(c.types) }

// Types returns the types in index order, without the reserved slot.
func (c *Catalog) Types() []*Type {
	out := make([]*Type, len(c.types)-1)
	copy(out, c.types[1:])
	return out
}

// Type returns the type at index i. Index 0 yields nil without error.
func (c *Catalog) Type(i int) (*Type, error) {
	if i < 0 || i >= len(c.types) {
		return nil, &Error{Err: ErrReference, Detail: fmt.Sprintf("type index %d out of range [0, %d)", i, len(c.types))}
	}
	return c.types[i], nil
}

// Index returns the index of t, or 0 if t is nil or absent.
func (c *Catalog) Index(t *Type) int {
	return c.index[t]
}

// Contains reports whether t is in the catalog.
func (c *Catalog) Contains(t *Type) bool {
	_, ok := c.index[t]
	return ok
}

// Lookup returns the first type registered under name.
func (c *Catalog) Lookup(name string) *Type {
	return c.byName[name]
}

// Scan collects every type reachable from the given roots in depth-first
// preorder: the type itself, the types of its template parameters, its
// parent, its pointer target, its member types and its interface types.
// Each type appears once.
func Scan(roots ...*Type) *Catalog {
	c := NewCatalog()
	for _, t := range roots {
		scanType(c, t)
	}
	return c
}

// scanType adds t and its dependencies to c using an explicit stack.
func scanType(c *Catalog, root *Type) {
	stack := []*Type{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t == nil || c.Contains(t) {
			continue
		}
		c.Add(t)

		// Push in reverse so the first dependency is visited first.
		deps := typeDeps(t)
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, deps[i])
		}
	}
}

func typeDeps(t *Type) []*Type {
	var deps []*Type
	for i := range t.Templates {
		if t.Templates[i].IsType() {
			deps = append(deps, t.Templates[i].Type)
		}
	}
	deps = append(deps, t.Parent, t.Pointer)
	for i := range t.Members {
		deps = append(deps, t.Members[i].Type)
	}
	for i := range t.Interfaces {
		deps = append(deps, t.Interfaces[i].Type)
	}
	return deps
}
