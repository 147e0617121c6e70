// Package formats resolves document codecs by file name.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zoobzio/tagfile"
	"github.com/zoobzio/tagfile/bson"
	"github.com/zoobzio/tagfile/json"
	"github.com/zoobzio/tagfile/msgpack"
	"github.com/zoobzio/tagfile/xml"
	"github.com/zoobzio/tagfile/yaml"
)

// ErrUnknownFormat indicates a file name whose extension maps to no codec.
var ErrUnknownFormat = errors.New("unknown document format")

// All returns every available codec, YAML first.
func All() []tagfile.Codec {
	return []tagfile.Codec{
		yaml.New(),
		json.New(),
		xml.New(),
		msgpack.New(),
		bson.New(),
	}
}

// ByExtension returns the codec handling the extension of path.
// Matching is case-insensitive.
func ByExtension(path string) (tagfile.Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range All() {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// ByContentType returns the codec with the given MIME type.
func ByContentType(contentType string) (tagfile.Codec, error) {
	for _, c := range All() {
		if c.ContentType() == contentType {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, contentType)
}
