// Package graph converts value graphs to and from a textual document.
//
// Every node reachable through a pointer becomes an Object with an id of the
// form "#0001". Object #0001 is the root. Pointers name their target by id,
// so shared and cyclic graphs survive a round trip:
//
//	root, err := file.Root()
//	doc, err := graph.Export(root)
//	data, err := yaml.New().Marshal(doc)
//
//	root, err := doc.Import(catalog)
//
// Scalars are stored as text: bools as 0 or 1, integers in decimal, floats
// as the hex bit pattern ("x3f800000" for a single, 16 digits for a double)
// and strings verbatim.
package graph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/zoobzio/tagfile"
)

// Node kinds as written to documents.
const (
	KindBool   = "bool"
	KindInt    = "int"
	KindReal   = "real"
	KindString = "string"
	KindRef    = "ref"
	KindStruct = "struct"
	KindArray  = "array"
	KindTuple  = "tuple"
)

// ErrSyntax indicates a document node whose text cannot be parsed.
var ErrSyntax = errors.New("invalid node text")

// Document is the serialized form of a graph.
type Document struct {
	XMLName xml.Name `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"graph"`
	Version string   `json:"version" yaml:"version" msgpack:"version" bson:"version" xml:"version,attr"`
	Objects []Object `json:"objects" yaml:"objects" msgpack:"objects" bson:"objects" xml:"object"`
}

// Object is a pointer target.
type Object struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id,attr"`
	Type string `json:"type" yaml:"type" msgpack:"type" bson:"type" xml:"type,attr"`
	Node Node   `json:"node" yaml:"node" msgpack:"node" bson:"node" xml:"node"`
}

// Node is one value. Class members carry their member name.
type Node struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty" bson:"name,omitempty" xml:"name,attr,omitempty"`
	Kind  string `json:"kind" yaml:"kind" msgpack:"kind" bson:"kind" xml:"kind,attr"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty" bson:"value,omitempty" xml:"value,attr,omitempty"`
	Ref   string `json:"ref,omitempty" yaml:"ref,omitempty" msgpack:"ref,omitempty" bson:"ref,omitempty" xml:"ref,attr,omitempty"`
	Nodes []Node `json:"nodes,omitempty" yaml:"nodes,omitempty" msgpack:"nodes,omitempty" bson:"nodes,omitempty" xml:"node"`
}

// isNil reports whether v is nil or a typed nil node.
func isNil(v tagfile.Value) bool {
	return v == nil || reflect.ValueOf(v).IsNil()
}

// ObjectID formats the id of the object at 1-based position i.
func ObjectID(i int) string {
	return fmt.Sprintf("#%04d", i)
}

// parseObjectID returns the 1-based position named by id, or 0.
func parseObjectID(id string) int {
	if !strings.HasPrefix(id, "#") {
		return 0
	}
	i, err := strconv.Atoi(id[1:])
	if err != nil || i < 0 {
		return 0
	}
	return i
}

// kindName returns the document kind of a resolved subtype.
func kindName(t *tagfile.Type) string {
	switch t.Kind() {
	case tagfile.SubTypeBool:
		return KindBool
	case tagfile.SubTypeInt:
		return KindInt
	case tagfile.SubTypeFloat:
		return KindReal
	case tagfile.SubTypeString:
		return KindString
	case tagfile.SubTypePointer:
		return KindRef
	case tagfile.SubTypeClass:
		return KindStruct
	case tagfile.SubTypeArray:
		return KindArray
	case tagfile.SubTypeTuple:
		return KindTuple
	default:
		return ""
	}
}

// FormatFloat renders the bit pattern of v at the precision of t.
func FormatFloat(t *tagfile.Type, v float64) string {
	if t.FloatBits() == 64 {
		return fmt.Sprintf("x%016x", math.Float64bits(v))
	}
	return fmt.Sprintf("x%08x", math.Float32bits(float32(v)))
}

// ParseFloat reverses FormatFloat. Plain decimal text is accepted too.
func ParseFloat(t *tagfile.Type, s string) (float64, error) {
	if strings.HasPrefix(s, "x") {
		if t.FloatBits() == 64 {
			bits, err := strconv.ParseUint(s[1:], 16, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
			}
			return math.Float64frombits(bits), nil
		}
		bits, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		return float64(math.Float32frombits(uint32(bits))), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return v, nil
}
