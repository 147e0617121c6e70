package graph

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/tagfile"
)

type importer struct {
	cat     *tagfile.Catalog
	byID    map[int]*Object
	objects map[int]tagfile.Value
}

// Import rebuilds the graph against the types of cat and returns the root,
// object #0001. Objects are resolved by type name.
func (d *Document) Import(cat *tagfile.Catalog) (tagfile.Value, error) {
	im := &importer{
		cat:     cat,
		byID:    make(map[int]*Object, len(d.Objects)),
		objects: make(map[int]tagfile.Value, len(d.Objects)),
	}
	for i := range d.Objects {
		id := parseObjectID(d.Objects[i].ID)
		if id == 0 {
			return nil, fmt.Errorf("graph: %w: object id %q", ErrSyntax, d.Objects[i].ID)
		}
		if _, dup := im.byID[id]; dup {
			return nil, fmt.Errorf("graph: %w: duplicate object id %q", tagfile.ErrReference, d.Objects[i].ID)
		}
		im.byID[id] = &d.Objects[i]
	}
	return im.object(ObjectID(1))
}

// object returns the node for an object id, building it on first use. The
// empty node is recorded before it is filled so references back into the
// object resolve to it.
func (im *importer) object(ref string) (tagfile.Value, error) {
	id := parseObjectID(ref)
	if v, ok := im.objects[id]; ok {
		return v, nil
	}
	obj, ok := im.byID[id]
	if !ok {
		return nil, fmt.Errorf("graph: %w: object %q not found", tagfile.ErrReference, ref)
	}
	t := im.cat.Lookup(obj.Type)
	if t == nil {
		return nil, fmt.Errorf("graph: %w: type %q of object %s is not in the catalog", tagfile.ErrReference, obj.Type, obj.ID)
	}
	v := tagfile.NewValue(t)
	if v == nil {
		return nil, fmt.Errorf("graph: %w: type %q carries no data", tagfile.ErrInvariant, t.Name)
	}
	im.objects[id] = v
	if err := im.fill(v, &obj.Node, obj.ID); err != nil {
		return nil, err
	}
	return v, nil
}

func (im *importer) fill(v tagfile.Value, n *Node, path string) error {
	t := v.Type()
	if n.Kind != "" && n.Kind != kindName(t) {
		return fmt.Errorf("graph: %w: %s is %s, type %q wants %s", tagfile.ErrInvariant, path, n.Kind, t.Name, kindName(t))
	}

	switch x := v.(type) {
	case *tagfile.Bool:
		switch n.Value {
		case "1", "true":
			x.V = true
		case "0", "false", "":
			x.V = false
		default:
			return fmt.Errorf("graph: %w: %s: bool %q", ErrSyntax, path, n.Value)
		}

	case *tagfile.Int:
		var err error
		if t.Signed() {
			x.V, err = strconv.ParseInt(n.Value, 10, 64)
		} else {
			var u uint64
			u, err = strconv.ParseUint(n.Value, 10, 64)
			x.V = int64(u)
		}
		if err != nil {
			return fmt.Errorf("graph: %w: %s: int %q", ErrSyntax, path, n.Value)
		}

	case *tagfile.Float:
		f, err := ParseFloat(t, n.Value)
		if err != nil {
			return fmt.Errorf("graph: %s: %w", path, err)
		}
		x.V = f

	case *tagfile.String:
		x.V = n.Value

	case *tagfile.Pointer:
		if n.Ref != "" {
			target, err := im.object(n.Ref)
			if err != nil {
				return err
			}
			x.Target = target
		}

	case *tagfile.Class:
		s := t.Super()
		for i := range n.Nodes {
			child := &n.Nodes[i]
			m := s.Member(child.Name)
			if m == nil || m.Type == nil {
				return fmt.Errorf("graph: %w: %s: type %q has no member %q", tagfile.ErrInvariant, path, t.Name, child.Name)
			}
			field := tagfile.NewValue(m.Type)
			if field == nil {
				continue
			}
			if err := im.fill(field, child, path+"."+child.Name); err != nil {
				return err
			}
			x.Fields[child.Name] = field
		}

	case *tagfile.Array:
		elems, err := im.elems(t, n, path)
		if err != nil {
			return err
		}
		x.Elems = elems

	case *tagfile.Tuple:
		elems, err := im.elems(t, n, path)
		if err != nil {
			return err
		}
		x.Elems = elems
	}
	return nil
}

func (im *importer) elems(t *tagfile.Type, n *Node, path string) ([]tagfile.Value, error) {
	elem := t.Element()
	if elem == nil {
		return nil, fmt.Errorf("graph: %w: %s: type %q has no element type", tagfile.ErrInvariant, path, t.Name)
	}
	out := make([]tagfile.Value, len(n.Nodes))
	for i := range n.Nodes {
		if out[i] = tagfile.NewValue(elem); out[i] == nil {
			return nil, fmt.Errorf("graph: %w: %s: element type %q carries no data", tagfile.ErrInvariant, path, elem.Name)
		}
		if err := im.fill(out[i], &n.Nodes[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
