package tagfile

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// BindTag is the struct tag naming the member a field binds to.
// A value of "-" skips the field.
const BindTag = "hk"

func init() {
	sentinel.Tag(BindTag)
}

// bindPlan maps the exported fields of a struct type to member names.
type bindPlan struct {
	typeName string
	fields   []bindField
}

// bindField describes how to fill a single field.
type bindField struct {
	index  []int  // reflect.Value.FieldByIndex access path
	name   string // Go field name for error messages
	member string // Member name in the class layout
	inline bool   // Embedded struct filled from the same class
}

// Bind fills a new T from a class value. T must be a struct. Fields bind to
// members by the hk tag, or by field name when untagged:
//
//	type Leaf struct {
//	    Value int32 `hk:"value"`
//	}
//
//	root, err := file.Root()
//	leaf, err := tagfile.Bind[Leaf](root)
//
// Pointer fields follow pointer values. Nodes reachable through several
// pointers bind to one Go pointer, so shared and cyclic graphs keep their
// shape. Slices bind from arrays and tuples, Go arrays from tuples.
// Untagged embedded structs bind from the same class. Absent members leave
// fields at their zero value.
func Bind[T any](v Value) (*T, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, invariantf("bind target %s is not a struct", rt)
	}
	// Registers the top-level metadata so planFor can reuse it.
	sentinel.Scan[T]()

	if p, ok := v.(*Pointer); ok && p != nil {
		v = p.Target
	}
	if _, ok := v.(*Class); !ok || isNil(v) {
		return nil, invariantf("bind of %s needs a class value, got %T", rt, v)
	}

	out := new(T)
	b := &binder{ptrs: map[Value]reflect.Value{v: reflect.ValueOf(out)}}
	if err := b.bind(reflect.ValueOf(out).Elem(), v, rt.Name()); err != nil {
		return nil, err
	}
	return out, nil
}

// buildBindPlan creates the plan for a struct type from its metadata.
func buildBindPlan(rt reflect.Type) *bindPlan {
	spec := scanBindType(rt)
	plan := &bindPlan{typeName: spec.TypeName}
	for _, field := range spec.Fields {
		sf := rt.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}
		tag, ok := field.Tags[BindTag]
		if !ok {
			tag = sf.Tag.Get(BindTag)
		}
		if tag == "" && sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			plan.fields = append(plan.fields, bindField{index: field.Index, name: field.Name, inline: true})
			continue
		}
		member := field.Name
		if tag != "" {
			member = tag
		}
		if member == "-" {
			continue
		}
		plan.fields = append(plan.fields, bindField{
			index:  field.Index,
			name:   field.Name,
			member: member,
		})
	}
	return plan
}

// scanBindType returns registered metadata for rt, or scans it directly.
func scanBindType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := make(map[string]string)
		if tag, ok := sf.Tag.Lookup(BindTag); ok {
			tags[BindTag] = tag
		}
		spec.Fields = append(spec.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return spec
}

// binder tracks Go pointers already allocated for graph nodes.
type binder struct {
	ptrs map[Value]reflect.Value
}

func (b *binder) bind(dst reflect.Value, v Value, path string) error {
	if isNil(v) {
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		if p, ok := v.(*Pointer); ok {
			return b.bind(dst, p.Target, path)
		}
		c, ok := v.(*Class)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		for _, f := range planFor(dst.Type()).fields {
			field := c.Fields[f.member]
			if f.inline {
				field = c
			}
			if err := b.bind(dst.FieldByIndex(f.index), field, path+"."+f.name); err != nil {
				return err
			}
		}
		return nil

	case reflect.Pointer:
		target := v
		if p, ok := v.(*Pointer); ok {
			if target = p.Target; isNil(target) {
				return nil
			}
		}
		if ptr, ok := b.ptrs[target]; ok && ptr.Type() == dst.Type() {
			dst.Set(ptr)
			return nil
		}
		ptr := reflect.New(dst.Type().Elem())
		b.ptrs[target] = ptr
		if err := b.bind(ptr.Elem(), target, path); err != nil {
			return err
		}
		dst.Set(ptr)
		return nil

	case reflect.Slice:
		if s, ok := v.(*String); ok && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(s.V))
			return nil
		}
		elems, ok := sequence(v)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		out := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, el := range elems {
			if err := b.bind(out.Index(i), el, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil

	case reflect.Array:
		elems, ok := sequence(v)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		for i := 0; i < dst.Len() && i < len(elems); i++ {
			if err := b.bind(dst.Index(i), elems[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Bool:
		switch n := v.(type) {
		case *Bool:
			dst.SetBool(n.V)
		case *Int:
			dst.SetBool(n.V != 0)
		default:
			return b.mismatch(dst, v, path)
		}
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(*Int)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		if dst.OverflowInt(n.V) {
			return &Error{Err: ErrRange, Detail: fmt.Sprintf("%s: %d overflows %s", path, n.V, dst.Type())}
		}
		dst.SetInt(n.V)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := v.(*Int)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		if dst.OverflowUint(n.Uint()) {
			return &Error{Err: ErrRange, Detail: fmt.Sprintf("%s: %d overflows %s", path, n.Uint(), dst.Type())}
		}
		dst.SetUint(n.Uint())
		return nil

	case reflect.Float32, reflect.Float64:
		n, ok := v.(*Float)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		dst.SetFloat(n.V)
		return nil

	case reflect.String:
		n, ok := v.(*String)
		if !ok {
			return b.mismatch(dst, v, path)
		}
		dst.SetString(n.V)
		return nil

	case reflect.Interface:
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(dst.Type()) {
			return b.mismatch(dst, v, path)
		}
		dst.Set(rv)
		return nil

	default:
		return b.mismatch(dst, v, path)
	}
}

func (b *binder) mismatch(dst reflect.Value, v Value, path string) error {
	return invariantf("%s: cannot bind %T of type %v to %s", path, v, v.Type(), dst.Type())
}

func sequence(v Value) ([]Value, bool) {
	switch n := v.(type) {
	case *Array:
		return n.Elems, true
	case *Tuple:
		return n.Elems, true
	default:
		return nil, false
	}
}
