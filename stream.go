package tagfile

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// reader wraps an io.ReadSeeker with a sticky error. Once a read fails every
// further read returns zero values and err() reports the first failure.
type reader struct {
	rs     io.ReadSeeker
	size   int64
	pos    int64
	origin int64 // Absolute offset of the first byte of rs, for errors
	scope  string
	tmp    [8]byte
	fail   error
}

func newReader(rs io.ReadSeeker) (*reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &reader{rs: rs, size: size}, nil
}

func (r *reader) err() error { return r.fail }

// setError records err unless a failure is already recorded.
func (r *reader) setError(err error) {
	if r.fail == nil {
		r.fail = err
	}
}

func (r *reader) errorf(sentinel error, format string, args ...any) {
	r.setError(newError(sentinel, r.scope, r.origin+r.pos, format, args...))
}

func (r *reader) tell() int64 { return r.pos }

func (r *reader) seek(offset int64) {
	if r.fail != nil {
		return
	}
	if offset < 0 || offset > r.size {
		r.errorf(ErrTruncated, "seek to 0x%x beyond end of stream (0x%x)", offset, r.size)
		return
	}
	if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
		r.setError(err)
		return
	}
	r.pos = offset
}

// data fills p completely or records ErrTruncated.
func (r *reader) data(p []byte) {
	if r.fail != nil {
		clear(p)
		return
	}
	n, err := io.ReadFull(r.rs, p)
	r.pos += int64(n)
	if err != nil {
		clear(p)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.errorf(ErrTruncated, "need %d bytes, got %d", len(p), n)
			return
		}
		r.setError(err)
	}
}

func (r *reader) bytes(n int64) []byte {
	if r.fail != nil {
		return nil
	}
	if n < 0 || r.pos+n > r.size {
		r.errorf(ErrTruncated, "need %d bytes, %d remain", n, r.size-r.pos)
		return nil
	}
	b := make([]byte, n)
	r.data(b)
	return b
}

func (r *reader) u8() uint8 {
	r.data(r.tmp[:1])
	return r.tmp[0]
}

func (r *reader) u16() uint16 {
	r.data(r.tmp[:2])
	return binary.LittleEndian.Uint16(r.tmp[:2])
}

func (r *reader) u32() uint32 {
	r.data(r.tmp[:4])
	return binary.LittleEndian.Uint32(r.tmp[:4])
}

func (r *reader) u64() uint64 {
	r.data(r.tmp[:8])
	return binary.LittleEndian.Uint64(r.tmp[:8])
}

func (r *reader) u32be() uint32 {
	r.data(r.tmp[:4])
	return binary.BigEndian.Uint32(r.tmp[:4])
}

// uintN reads an unsigned integer of 8, 16, 32 or 64 bits.
func (r *reader) uintN(bits int) uint64 {
	switch bits {
	case 8:
		return uint64(r.u8())
	case 16:
		return uint64(r.u16())
	case 32:
		return uint64(r.u32())
	case 64:
		return r.u64()
	default:
		r.errorf(ErrFormat, "unsupported integer width %d", bits)
		return 0
	}
}

// intN reads a signed integer of 8, 16, 32 or 64 bits.
func (r *reader) intN(bits int) int64 {
	v := r.uintN(bits)
	switch bits {
	case 8:
		return int64(int8(v))
	case 16:
		return int64(int16(v))
	case 32:
		return int64(int32(v))
	default:
		return int64(v)
	}
}

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }
func (r *reader) f64() float64 { return math.Float64frombits(r.u64()) }

func (r *reader) packed() uint32 {
	first := r.u8()
	if r.fail != nil {
		return 0
	}
	n := packedTier(first)
	if n == 0 {
		r.errorf(ErrFormat, "%s", packedTierDetail(first))
		return 0
	}
	r.tmp[0] = first
	if n > 1 {
		r.data(r.tmp[1:n])
	}
	if r.fail != nil {
		return 0
	}
	return packedValue(r.tmp[:n])
}

// buffer is an in-memory io.WriteSeeker. Writing after seeking past the end
// zero-fills the gap, matching the behaviour of sparse files.
type buffer struct {
	data []byte
	pos  int64
}

func (b *buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, len(b.data), max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		}
		b.data = b.data[:end]
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("tagfile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("tagfile: negative position")
	}
	b.pos = abs
	return abs, nil
}

// Bytes returns the written data. Positions sought past the last write are
// materialized as zeros.
func (b *buffer) Bytes() []byte {
	if b.pos > int64(len(b.data)) {
		b.Write(nil)
	}
	return b.data
}

// writer emits little-endian fields into a buffer with a sticky error.
type writer struct {
	buf   *buffer
	scope string
	tmp   [8]byte
	fail  error
}

func newWriter() *writer {
	return &writer{buf: &buffer{}}
}

func (w *writer) err() error { return w.fail }

func (w *writer) setError(err error) {
	if w.fail == nil {
		w.fail = err
	}
}

func (w *writer) errorf(sentinel error, format string, args ...any) {
	w.setError(newError(sentinel, w.scope, w.buf.pos, format, args...))
}

func (w *writer) tell() int64 { return w.buf.pos }

func (w *writer) seek(offset int64) { w.buf.pos = offset }

func (w *writer) data(p []byte) {
	if w.fail != nil {
		return
	}
	w.buf.Write(p)
}

func (w *writer) zeros(n int64) {
	if n <= 0 {
		return
	}
	w.data(make([]byte, n))
}

// pad writes zeros up to the next multiple of alignment.
// Alignments of 0 and 1 are no-ops.
func (w *writer) pad(alignment int64) {
	if alignment <= 1 {
		return
	}
	if rem := w.tell() % alignment; rem != 0 {
		w.zeros(alignment - rem)
	}
}

func (w *writer) u8(v uint8) {
	w.tmp[0] = v
	w.data(w.tmp[:1])
}

func (w *writer) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.tmp[:2], v)
	w.data(w.tmp[:2])
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:4], v)
	w.data(w.tmp[:4])
}

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.tmp[:8], v)
	w.data(w.tmp[:8])
}

func (w *writer) u32be(v uint32) {
	binary.BigEndian.PutUint32(w.tmp[:4], v)
	w.data(w.tmp[:4])
}

// uintN writes the low bits of v as an 8, 16, 32 or 64 bit integer.
func (w *writer) uintN(bits int, v uint64) {
	switch bits {
	case 8:
		w.u8(uint8(v))
	case 16:
		w.u16(uint16(v))
	case 32:
		w.u32(uint32(v))
	case 64:
		w.u64(v)
	default:
		w.errorf(ErrFormat, "unsupported integer width %d", bits)
	}
}

func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }
func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) packed(v uint32) {
	if w.fail != nil {
		return
	}
	b, err := AppendPacked(w.tmp[:0], v)
	if err != nil {
		w.errorf(ErrRange, "%s", packedRangeDetail(v))
		return
	}
	w.data(b)
}
