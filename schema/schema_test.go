package schema_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/tagfile"
	"github.com/zoobzio/tagfile/formats"
	"github.com/zoobzio/tagfile/schema"
	tagtest "github.com/zoobzio/tagfile/testing"
)

func sampleCatalog() *tagfile.Catalog {
	return tagfile.Scan(tagtest.SampleType(), tagtest.NodeType())
}

func TestFromCatalog(t *testing.T) {
	c := sampleCatalog()
	doc := schema.FromCatalog(c)

	if len(doc.Types) != c.Len()-1 {
		t.Fatalf("Types = %d, want %d", len(doc.Types), c.Len()-1)
	}
	for i, spec := range doc.Types {
		if spec.ID != i+1 {
			t.Errorf("Types[%d].ID = %d, want %d", i, spec.ID, i+1)
		}
	}

	sample := doc.Types[0]
	if sample.Name != "Sample" || sample.Parent != c.Index(c.Lookup("Base")) {
		t.Errorf("Sample spec = %+v", sample)
	}
}

func TestCatalog_RoundTrip(t *testing.T) {
	want := sampleCatalog()
	got, err := schema.FromCatalog(want).Catalog()
	if err != nil {
		t.Fatalf("Catalog() error: %v", err)
	}
	assertSameFingerprint(t, want, got)
}

func TestLoadDump_Formats(t *testing.T) {
	want := sampleCatalog()

	for _, codec := range formats.All() {
		t.Run(codec.ContentType(), func(t *testing.T) {
			data, err := schema.Dump(codec, want)
			if err != nil {
				t.Fatalf("Dump() error: %v", err)
			}
			got, err := schema.Load(codec, data)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			assertSameFingerprint(t, want, got)
		})
	}
}

func TestCatalog_OrdersByID(t *testing.T) {
	doc := &schema.Document{Types: []schema.TypeSpec{
		{ID: 2, Name: "Leaf", Flags: uint32(tagfile.FlagSubType | tagfile.FlagMembers), SubTypeFlags: tagtest.FlagsClass,
			Members: []schema.MemberSpec{{Name: "value", Type: 1}}},
		{ID: 1, Name: "int", Flags: uint32(tagfile.FlagSubType | tagfile.FlagByteSize), SubTypeFlags: tagtest.FlagsInt32, ByteSize: 4, Alignment: 4},
	}}
	c, err := doc.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error: %v", err)
	}
	first, _ := c.Type(1)
	leaf := c.Lookup("Leaf")
	if first.Name != "int" || c.Index(leaf) != 2 {
		t.Errorf("catalog order = %v, %v", first, leaf)
	}
	if leaf.Members[0].Type != first {
		t.Error("member reference should resolve to type 1")
	}
}

func TestCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		types []schema.TypeSpec
	}{
		{"zero id", []schema.TypeSpec{{ID: 0, Name: "a"}}},
		{"duplicate id", []schema.TypeSpec{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}},
		{"unknown parent", []schema.TypeSpec{{ID: 1, Name: "a", Parent: 7}}},
		{"unknown member type", []schema.TypeSpec{{ID: 1, Name: "a", Members: []schema.MemberSpec{{Name: "x", Type: 3}}}}},
		{"unknown template type", []schema.TypeSpec{{ID: 1, Name: "a", Templates: []schema.TemplateSpec{{Name: "tT", Value: 5}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &schema.Document{Types: tt.types}
			if _, err := doc.Catalog(); !errors.Is(err, tagfile.ErrReference) {
				t.Errorf("Catalog() error = %v, want ErrReference", err)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, codec := range formats.All() {
		t.Run(codec.ContentType(), func(t *testing.T) {
			if _, err := schema.Load(codec, []byte("\x01not a document")); err == nil {
				t.Error("Load() should fail on invalid input")
			}
		})
	}
}

func assertSameFingerprint(t *testing.T, want, got *tagfile.Catalog) {
	t.Helper()
	a, err := want.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	b, err := got.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if a != b {
		t.Errorf("catalog changed across the round trip: %s != %s", a, b)
	}
}
