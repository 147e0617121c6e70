// tagtool converts between tag containers and their textual documents.
//
// A container source is exported as a graph document. The default
// destination appends ".yaml" to the source; any extension known to
// formats.ByExtension selects the document format. With -types the catalog
// is written as a schema document too.
//
// A document source is imported against the schema named by -types and
// written as a container. The default destination drops the document
// extension from the source.
//
// Examples:
//
//	tagtool -types level.types.yaml level.hkt
//	tagtool -types level.types.yaml level.hkt.yaml
//	tagtool -inspect level.hkt
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/zoobzio/tagfile"
	"github.com/zoobzio/tagfile/formats"
	"github.com/zoobzio/tagfile/graph"
	"github.com/zoobzio/tagfile/schema"
)

var (
	typesPath = flag.String("types", "", "schema document describing the catalog")
	rootType  = flag.String("root", "", "export the first object of this type instead of the root")
	inspect   = flag.Bool("inspect", false, "print the version, fingerprint, types, items and patches of a container")
)

const usageText = `usage: %s [flags] source [destination]

A tag container source is exported to a graph document. Without a
destination the document is written next to the source with ".yaml"
appended; the source is never overwritten.

A document source is imported against -types and written as a container.
Without a destination the document extension is dropped from the source,
restoring the container it was exported from.

`

func usage(w io.Writer) {
	fmt.Fprintf(w, usageText, filepath.Base(os.Args[0]))
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if err := run(context.Background(), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		return errors.New("need a source and at most one destination")
	}
	src := args[0]
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if isContainer(data) {
		f, err := tagfile.Read(ctx, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		if *inspect {
			return describe(stdout, f)
		}
		dst := src + ".yaml"
		if len(args) == 2 {
			dst = args[1]
		}
		return exportFile(f, dst)
	}

	if *inspect {
		return fmt.Errorf("%s: not a tag container", src)
	}
	dst := strings.TrimSuffix(src, filepath.Ext(src))
	if len(args) == 2 {
		dst = args[1]
	}
	return importFile(ctx, src, data, dst)
}

// isContainer reports whether data starts with a TAG0 section header.
func isContainer(data []byte) bool {
	return len(data) >= 8 && string(data[4:8]) == "TAG0"
}

func exportFile(f *tagfile.File, dst string) error {
	root, err := f.Root()
	if *rootType != "" {
		root, err = f.Object(*rootType)
		if err == nil && root == nil {
			return fmt.Errorf("no object of type %q", *rootType)
		}
	}
	if err != nil {
		return err
	}
	doc, err := graph.Export(root)
	if err != nil {
		return err
	}

	codec, err := formats.ByExtension(dst)
	if err != nil {
		return err
	}
	out, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}

	if *typesPath == "" {
		return nil
	}
	typesCodec, err := formats.ByExtension(*typesPath)
	if err != nil {
		return err
	}
	types, err := schema.Dump(typesCodec, f.Catalog)
	if err != nil {
		return err
	}
	return os.WriteFile(*typesPath, types, 0o644)
}

func importFile(ctx context.Context, src string, data []byte, dst string) error {
	if *typesPath == "" {
		return fmt.Errorf("%s: importing a document needs -types", src)
	}
	typesData, err := os.ReadFile(*typesPath)
	if err != nil {
		return err
	}
	typesCodec, err := formats.ByExtension(*typesPath)
	if err != nil {
		return err
	}
	cat, err := schema.Load(typesCodec, typesData)
	if err != nil {
		return fmt.Errorf("%s: %w", *typesPath, err)
	}

	codec, err := formats.ByExtension(src)
	if err != nil {
		return err
	}
	var doc graph.Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}
	root, err := doc.Import(cat)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	var opts []tagfile.Option
	if char := cat.Lookup("char"); char != nil {
		opts = append(opts, tagfile.WithCharType(char))
	}
	var buf bytes.Buffer
	if err := tagfile.Write(ctx, &buf, root, opts...); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}

func describe(w io.Writer, f *tagfile.File) error {
	fp, err := f.Catalog.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "version      %s\n", f.Version)
	fmt.Fprintf(w, "fingerprint  %s\n\n", fp)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tKIND\tSIZE\tPARENT")
	for i, t := range f.Catalog.Types() {
		parent := "-"
		if t.Parent != nil {
			parent = t.Parent.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i+1, t.Name, t.Kind(), t.Size(), parent)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ITEM\tTYPE\tOFFSET\tCOUNT\tPOINTER")
	for i, it := range f.Items()[1:] {
		fmt.Fprintf(tw, "%d\t%s\t0x%x\t%d\t%v\n", i+1, it.Type, it.Offset, it.Count, it.IsPointer)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PATCH\tOFFSETS")
	for _, p := range f.Patches() {
		offsets := make([]string, len(p.Offsets))
		for i, off := range p.Offsets {
			offsets[i] = fmt.Sprintf("0x%x", off)
		}
		fmt.Fprintf(tw, "%s\t%s\n", p.Type, strings.Join(offsets, " "))
	}
	return tw.Flush()
}
