// Package json provides a JSON codec implementation.
package json

import (
	"encoding/json"

	"github.com/zoobzio/tagfile"
)

// jsonCodec implements tagfile.Codec for JSON.
type jsonCodec struct {
	indent string
}

// New returns a JSON codec producing indented output.
func New() tagfile.Codec {
	return &jsonCodec{indent: "  "}
}

// Compact returns a JSON codec producing single-line output.
func Compact() tagfile.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Extensions returns the file extensions for JSON documents.
func (c *jsonCodec) Extensions() []string {
	return []string{".json"}
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", c.indent)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
