// Package schema loads and dumps type catalogs as documents.
//
// A Document lists every type with a 1-based id. Cross references (parent,
// pointer, member, template and interface types) name ids, with 0 meaning
// none. Documents can be stored with any tagfile.Codec:
//
//	cat, err := schema.Load(yaml.New(), data)
//	out, err := schema.Dump(json.New(), file.Catalog)
package schema

import (
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/zoobzio/tagfile"
)

// Document is the serialized form of a catalog.
type Document struct {
	XMLName xml.Name   `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"types"`
	Types   []TypeSpec `json:"types" yaml:"types" msgpack:"types" bson:"types" xml:"type"`
}

// TypeSpec describes one type.
type TypeSpec struct {
	ID            int             `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id,attr"`
	Name          string          `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name,attr"`
	Parent        int             `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent,omitempty" bson:"parent,omitempty" xml:"parent,attr,omitempty"`
	Flags         uint32          `json:"flags" yaml:"flags" msgpack:"flags" bson:"flags" xml:"flags,attr"`
	SubTypeFlags  uint32          `json:"subTypeFlags,omitempty" yaml:"subTypeFlags,omitempty" msgpack:"subTypeFlags,omitempty" bson:"subTypeFlags,omitempty" xml:"subTypeFlags,attr,omitempty"`
	Pointer       int             `json:"pointer,omitempty" yaml:"pointer,omitempty" msgpack:"pointer,omitempty" bson:"pointer,omitempty" xml:"pointer,attr,omitempty"`
	Version       uint32          `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty" bson:"version,omitempty" xml:"version,attr,omitempty"`
	ByteSize      uint32          `json:"byteSize,omitempty" yaml:"byteSize,omitempty" msgpack:"byteSize,omitempty" bson:"byteSize,omitempty" xml:"byteSize,attr,omitempty"`
	Alignment     uint32          `json:"alignment,omitempty" yaml:"alignment,omitempty" msgpack:"alignment,omitempty" bson:"alignment,omitempty" xml:"alignment,attr,omitempty"`
	AbstractValue uint32          `json:"abstractValue,omitempty" yaml:"abstractValue,omitempty" msgpack:"abstractValue,omitempty" bson:"abstractValue,omitempty" xml:"abstractValue,attr,omitempty"`
	Hash          uint32          `json:"hash,omitempty" yaml:"hash,omitempty" msgpack:"hash,omitempty" bson:"hash,omitempty" xml:"hash,attr,omitempty"`
	Templates     []TemplateSpec  `json:"templates,omitempty" yaml:"templates,omitempty" msgpack:"templates,omitempty" bson:"templates,omitempty" xml:"template"`
	Members       []MemberSpec    `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty" bson:"members,omitempty" xml:"member"`
	Interfaces    []InterfaceSpec `json:"interfaces,omitempty" yaml:"interfaces,omitempty" msgpack:"interfaces,omitempty" bson:"interfaces,omitempty" xml:"interface"`
}

// TemplateSpec is a template parameter. Value is a type id for
// type-valued parameters.
type TemplateSpec struct {
	Name  string `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name,attr"`
	Value uint32 `json:"value" yaml:"value" msgpack:"value" bson:"value" xml:"value,attr"`
}

// MemberSpec is a class member.
type MemberSpec struct {
	Name   string `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name,attr"`
	Flags  uint32 `json:"flags,omitempty" yaml:"flags,omitempty" msgpack:"flags,omitempty" bson:"flags,omitempty" xml:"flags,attr,omitempty"`
	Offset uint32 `json:"offset" yaml:"offset" msgpack:"offset" bson:"offset" xml:"offset,attr"`
	Type   int    `json:"type" yaml:"type" msgpack:"type" bson:"type" xml:"type,attr"`
}

// InterfaceSpec is an implemented interface.
type InterfaceSpec struct {
	Type  int    `json:"type" yaml:"type" msgpack:"type" bson:"type" xml:"type,attr"`
	Flags uint32 `json:"flags" yaml:"flags" msgpack:"flags" bson:"flags" xml:"flags,attr"`
}

// FromCatalog describes c. Ids equal catalog indices.
func FromCatalog(c *tagfile.Catalog) *Document {
	doc := &Document{}
	for i, t := range c.Types() {
		spec := TypeSpec{
			ID:            i + 1,
			Name:          t.Name,
			Parent:        c.Index(t.Parent),
			Flags:         uint32(t.Flags),
			SubTypeFlags:  t.SubTypeFlags,
			Pointer:       c.Index(t.Pointer),
			Version:       t.Version,
			ByteSize:      t.ByteSize,
			Alignment:     t.Alignment,
			AbstractValue: t.AbstractValue,
			Hash:          t.Hash,
		}
		for _, p := range t.Templates {
			v := p.Value
			if p.IsType() {
				v = uint32(c.Index(p.Type))
			}
			spec.Templates = append(spec.Templates, TemplateSpec{Name: p.Name, Value: v})
		}
		for _, m := range t.Members {
			spec.Members = append(spec.Members, MemberSpec{
				Name:   m.Name,
				Flags:  m.Flags,
				Offset: m.Offset,
				Type:   c.Index(m.Type),
			})
		}
		for _, iface := range t.Interfaces {
			spec.Interfaces = append(spec.Interfaces, InterfaceSpec{
				Type:  c.Index(iface.Type),
				Flags: iface.Flags,
			})
		}
		doc.Types = append(doc.Types, spec)
	}
	return doc
}

// Catalog builds the described catalog. Types are placed in id order; ids
// must be positive and unique, and every reference must name a listed id.
func (d *Document) Catalog() (*tagfile.Catalog, error) {
	specs := slices.Clone(d.Types)
	slices.SortFunc(specs, func(a, b TypeSpec) int { return a.ID - b.ID })

	byID := make(map[int]*tagfile.Type, len(specs))
	types := make([]*tagfile.Type, len(specs))
	for i, spec := range specs {
		if spec.ID <= 0 {
			return nil, fmt.Errorf("schema: %w: type %q has id %d", tagfile.ErrReference, spec.Name, spec.ID)
		}
		if _, dup := byID[spec.ID]; dup {
			return nil, fmt.Errorf("schema: %w: duplicate type id %d", tagfile.ErrReference, spec.ID)
		}
		types[i] = &tagfile.Type{Name: spec.Name}
		byID[spec.ID] = types[i]
	}

	ref := func(owner string, id int) (*tagfile.Type, error) {
		if id == 0 {
			return nil, nil
		}
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("schema: %w: type %q references unknown id %d", tagfile.ErrReference, owner, id)
		}
		return t, nil
	}

	for i, spec := range specs {
		t := types[i]
		t.Flags = tagfile.TypeFlags(spec.Flags)
		t.SubTypeFlags = spec.SubTypeFlags
		t.Version = spec.Version
		t.ByteSize = spec.ByteSize
		t.Alignment = spec.Alignment
		t.AbstractValue = spec.AbstractValue
		t.Hash = spec.Hash

		var err error
		if t.Parent, err = ref(spec.Name, spec.Parent); err != nil {
			return nil, err
		}
		if t.Pointer, err = ref(spec.Name, spec.Pointer); err != nil {
			return nil, err
		}
		for _, p := range spec.Templates {
			tp := tagfile.Template{Name: p.Name}
			if tp.IsType() {
				if tp.Type, err = ref(spec.Name, int(p.Value)); err != nil {
					return nil, err
				}
			} else {
				tp.Value = p.Value
			}
			t.Templates = append(t.Templates, tp)
		}
		for _, m := range spec.Members {
			mt, err := ref(spec.Name, m.Type)
			if err != nil {
				return nil, err
			}
			t.Members = append(t.Members, tagfile.Member{Name: m.Name, Flags: m.Flags, Offset: m.Offset, Type: mt})
		}
		for _, iface := range spec.Interfaces {
			it, err := ref(spec.Name, iface.Type)
			if err != nil {
				return nil, err
			}
			t.Interfaces = append(t.Interfaces, tagfile.Interface{Type: it, Flags: iface.Flags})
		}
	}

	return tagfile.NewCatalog(types...), nil
}

// Load decodes a catalog document with codec.
func Load(codec tagfile.Codec, data []byte) (*tagfile.Catalog, error) {
	var doc Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", codec.ContentType(), err)
	}
	return doc.Catalog()
}

// Dump encodes c as a catalog document with codec.
func Dump(codec tagfile.Codec, c *tagfile.Catalog) ([]byte, error) {
	data, err := codec.Marshal(FromCatalog(c))
	if err != nil {
		return nil, fmt.Errorf("schema: encode %s: %w", codec.ContentType(), err)
	}
	return data, nil
}
