package tagfile

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBuffer_SeekPastEnd(t *testing.T) {
	var b buffer
	b.Write([]byte{1, 2})
	if _, err := b.Seek(6, io.SeekStart); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	b.Write([]byte{9})
	if got, want := b.Bytes(), []byte{1, 2, 0, 0, 0, 0, 9}; !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % x, want % x", got, want)
	}

	b.Seek(1, io.SeekStart)
	b.Write([]byte{7})
	if got := b.Bytes()[1]; got != 7 {
		t.Errorf("overwrite = %d, want 7", got)
	}
	if len(b.Bytes()) != 7 {
		t.Errorf("overwrite should not grow the buffer")
	}

	if _, err := b.Seek(-1, io.SeekStart); err == nil {
		t.Error("Seek(-1) should fail")
	}
}

func TestWriter_PadAndWidths(t *testing.T) {
	w := newWriter()
	w.u8(0xaa)
	w.pad(4)
	w.uintN(16, 0x1234)
	w.uintN(64, 1)
	w.pad(1)
	if err := w.err(); err != nil {
		t.Fatalf("write error: %v", err)
	}
	want := []byte{0xaa, 0, 0, 0, 0x34, 0x12, 1, 0, 0, 0, 0, 0, 0, 0}
	if got := w.buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % x, want % x", got, want)
	}

	w.uintN(12, 0)
	if !errors.Is(w.err(), ErrFormat) {
		t.Errorf("uintN(12) error = %v, want ErrFormat", w.err())
	}
}

func TestReader_SignedWidths(t *testing.T) {
	r := mustReader(t, []byte{0xff, 0xfe, 0xff, 0xfd, 0xff, 0xff, 0xff})
	if v := r.intN(8); v != -1 {
		t.Errorf("intN(8) = %d, want -1", v)
	}
	if v := r.intN(16); v != -2 {
		t.Errorf("intN(16) = %d, want -2", v)
	}
	if v := r.intN(32); v != -3 {
		t.Errorf("intN(32) = %d, want -3", v)
	}
	if err := r.err(); err != nil {
		t.Fatalf("read error: %v", err)
	}
}

func TestReader_StickyError(t *testing.T) {
	r := mustReader(t, []byte{1, 2})
	r.u32()
	first := r.err()
	if !errors.Is(first, ErrTruncated) {
		t.Fatalf("u32() error = %v, want ErrTruncated", first)
	}
	r.seek(100)
	if v := r.u8(); v != 0 {
		t.Errorf("u8() after failure = %d, want 0", v)
	}
	if r.err() != first {
		t.Error("the first failure should be kept")
	}
}

func TestReader_SeekBounds(t *testing.T) {
	r := mustReader(t, []byte{1, 2, 3})
	r.seek(3)
	if r.err() != nil {
		t.Errorf("seek to end error: %v", r.err())
	}
	r.seek(4)
	if !errors.Is(r.err(), ErrTruncated) {
		t.Errorf("seek past end error = %v, want ErrTruncated", r.err())
	}
}
