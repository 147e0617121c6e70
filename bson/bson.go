// Package bson provides a BSON codec implementation.
package bson

import (
	"github.com/zoobzio/tagfile"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements tagfile.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec. BSON documents must be structs or maps at the
// top level.
func New() tagfile.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Extensions returns the file extensions for BSON documents.
func (c *bsonCodec) Extensions() []string {
	return []string{".bson"}
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
