package graph

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/tagfile"
)

type exporter struct {
	ids   map[tagfile.Value]int
	queue []tagfile.Value
}

// Export describes the graph rooted at root. Objects are numbered in the
// order they are first reached, breadth first from the root.
func Export(root tagfile.Value) (*Document, error) {
	if p, ok := root.(*tagfile.Pointer); ok && p != nil {
		root = p.Target
	}
	if isNil(root) || root.Type() == nil {
		return nil, fmt.Errorf("graph: %w: root has no type", tagfile.ErrInvariant)
	}

	e := &exporter{ids: make(map[tagfile.Value]int)}
	e.id(root)

	doc := &Document{Version: tagfile.Version20160100.String()}
	for i := 0; i < len(e.queue); i++ {
		v := e.queue[i]
		node, err := e.node(v)
		if err != nil {
			return nil, err
		}
		doc.Objects = append(doc.Objects, Object{
			ID:   ObjectID(i + 1),
			Type: v.Type().Name,
			Node: node,
		})
	}
	return doc, nil
}

// id returns the object id of v, queueing it on first sight.
func (e *exporter) id(v tagfile.Value) string {
	if i, ok := e.ids[v]; ok {
		return ObjectID(i)
	}
	e.queue = append(e.queue, v)
	e.ids[v] = len(e.queue)
	return ObjectID(len(e.queue))
}

func (e *exporter) node(v tagfile.Value) (Node, error) {
	t := v.Type()
	if t == nil {
		return Node{}, fmt.Errorf("graph: %w: %T has no type", tagfile.ErrInvariant, v)
	}
	n := Node{Kind: kindName(t)}

	switch x := v.(type) {
	case *tagfile.Bool:
		n.Value = "0"
		if x.V {
			n.Value = "1"
		}

	case *tagfile.Int:
		if t.Signed() {
			n.Value = strconv.FormatInt(x.V, 10)
		} else {
			n.Value = strconv.FormatUint(x.Uint(), 10)
		}

	case *tagfile.Float:
		n.Value = FormatFloat(t, x.V)

	case *tagfile.String:
		n.Value = x.V

	case *tagfile.Pointer:
		if !isNil(x.Target) && x.Target.Type() != nil {
			n.Ref = e.id(x.Target)
		}

	case *tagfile.Class:
		s := t.Super()
		if s == nil {
			return Node{}, fmt.Errorf("graph: %w: type %q has no layout", tagfile.ErrInvariant, t.Name)
		}
		for _, m := range s.AllMembers() {
			field, ok := x.Fields[m.Name]
			if !ok || isNil(field) {
				continue
			}
			child, err := e.node(field)
			if err != nil {
				return Node{}, err
			}
			child.Name = m.Name
			n.Nodes = append(n.Nodes, child)
		}

	case *tagfile.Array:
		if err := e.elems(&n, x.Elems); err != nil {
			return Node{}, err
		}

	case *tagfile.Tuple:
		if err := e.elems(&n, x.Elems); err != nil {
			return Node{}, err
		}
	}
	return n, nil
}

func (e *exporter) elems(n *Node, elems []tagfile.Value) error {
	for i, el := range elems {
		if isNil(el) {
			return fmt.Errorf("graph: %w: element %d is missing", tagfile.ErrInvariant, i)
		}
		child, err := e.node(el)
		if err != nil {
			return err
		}
		n.Nodes = append(n.Nodes, child)
	}
	return nil
}
