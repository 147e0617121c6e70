package formats

import (
	"errors"
	"testing"
)

func TestByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"graph.yaml", "application/yaml"},
		{"graph.YML", "application/yaml"},
		{"types.json", "application/json"},
		{"dir/types.xml", "application/xml"},
		{"types.msgpack", "application/msgpack"},
		{"types.mpk", "application/msgpack"},
		{"types.bson", "application/bson"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := ByExtension(tt.path)
			if err != nil {
				t.Fatalf("ByExtension() error: %v", err)
			}
			if c.ContentType() != tt.want {
				t.Errorf("ContentType() = %q, want %q", c.ContentType(), tt.want)
			}
		})
	}
}

func TestByExtension_Unknown(t *testing.T) {
	for _, path := range []string{"level.hkt", "noext", ""} {
		if _, err := ByExtension(path); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ByExtension(%q) error = %v, want ErrUnknownFormat", path, err)
		}
	}
}

func TestByContentType(t *testing.T) {
	for _, c := range All() {
		got, err := ByContentType(c.ContentType())
		if err != nil {
			t.Fatalf("ByContentType(%q) error: %v", c.ContentType(), err)
		}
		if got.ContentType() != c.ContentType() {
			t.Errorf("ByContentType(%q) = %q", c.ContentType(), got.ContentType())
		}
	}
	if _, err := ByContentType("text/plain"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ByContentType(text/plain) error = %v, want ErrUnknownFormat", err)
	}
}
