package tagfile_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zoobzio/tagfile"
	"github.com/zoobzio/tagfile/bson"
	"github.com/zoobzio/tagfile/json"
	"github.com/zoobzio/tagfile/msgpack"
	tagtest "github.com/zoobzio/tagfile/testing"
	"github.com/zoobzio/tagfile/xml"
	"github.com/zoobzio/tagfile/yaml"
)

// --- Codec interface tests ---

func TestCodec_Implementations(t *testing.T) {
	codecs := []tagfile.Codec{json.New(), json.Compact(), xml.New(), yaml.New(), msgpack.New(), bson.New()}

	for _, c := range codecs {
		t.Run(c.ContentType(), func(t *testing.T) {
			if c.ContentType() == "" {
				t.Error("ContentType() should not be empty")
			}
			exts := c.Extensions()
			if len(exts) == 0 {
				t.Fatal("Extensions() should not be empty")
			}
			for _, e := range exts {
				if !strings.HasPrefix(e, ".") {
					t.Errorf("extension %q should start with a dot", e)
				}
			}
		})
	}
}

func ExampleMarshal() {
	leaf := tagtest.Leaf()
	root := tagfile.NewClass(leaf).Set("value", tagfile.NewInt(leaf.Members[0].Type, 42))

	data, err := tagfile.Marshal(root)
	if err != nil {
		fmt.Println(err)
		return
	}
	f, err := tagfile.Unmarshal(data)
	if err != nil {
		fmt.Println(err)
		return
	}
	v, err := f.Root()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(f.Version, v.(*tagfile.Class).Get("value").(*tagfile.Int).V)
	// Output: 20160100 42
}

func ExampleBind() {
	type root struct {
		A *Leaf `hk:"a"`
		B *Leaf `hk:"b"`
	}

	r, err := tagfile.Bind[root](tagtest.SharedGraph())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.A.Value, r.A == r.B)
	// Output: 42 true
}
