// Package tagfile reads and writes the binary tag container (TAG0), a
// self-describing file that carries a type catalog next to the object graph
// it describes.
//
// # Layout
//
// A container is a tree of length-framed sections:
//
//	TAG0
//	  SDKV   "20160100"
//	  DATA   item payloads
//	  TYPE   TPTR TSTR TNAM FSTR TBOD THSH TPAD
//	  INDX   ITEM PTCH
//
// Every value stored out of line (a pointer target, or the content of a string
// or array) is an item. Slots referencing an item hold its 1-based index, and
// the patch list records where those slots are.
//
// # Types
//
// A Type either declares its own layout or delegates it to its parent. All
// layout queries go through Super():
//
//	leaf := &tagfile.Type{
//	    Name:         "Leaf",
//	    Flags:        tagfile.FlagSubType | tagfile.FlagByteSize | tagfile.FlagMembers,
//	    SubTypeFlags: uint32(tagfile.SubTypeClass),
//	    ByteSize:     4,
//	    Alignment:    4,
//	    Members:      []tagfile.Member{{Name: "value", Type: i32}},
//	}
//
// # Values
//
// Decoded graphs are made of Value nodes whose variant follows the resolved
// kind of their type. Writing walks the graph from the root; a node reachable
// through several pointers is stored once and cycles are allowed:
//
//	root := tagfile.NewClass(leaf).Set("value", tagfile.NewInt(i32, 42))
//	data, err := tagfile.Marshal(root)
//
//	f, err := tagfile.Unmarshal(data)
//	v, err := f.Root()
//	v.(*tagfile.Class).Get("value").(*tagfile.Int).V // 42
//
// Read parses the catalog and the index table only. Items are decoded on
// first access through Root or Object, so items the requested object never
// reaches are not decoded.
//
// Bind fills Go structs from decoded classes through `hk` struct tags.
//
// # Documents
//
// The schema and graph subpackages convert catalogs and graphs to documents
// stored with any Codec: json, xml, yaml, msgpack or bson.
//
// # Events
//
// Reads and writes emit capitan signals (SignalReadStart, SignalWriteComplete
// and so on) carrying sizes, counts, durations and errors.
package tagfile

// Codec provides content-type aware marshaling for the textual companions of
// a container: catalog documents and graph documents.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Extensions returns the file extensions this codec handles, leading dot
	// included, preferred extension first.
	Extensions() []string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
