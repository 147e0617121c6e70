package tagfile

// Section signatures in the order they appear in a container.
const (
	sigTag  = "TAG0"
	sigSDK  = "SDKV"
	sigData = "DATA"
	sigType = "TYPE"
	sigTPtr = "TPTR"
	sigTStr = "TSTR"
	sigTNam = "TNAM"
	sigFStr = "FSTR"
	sigTBod = "TBOD"
	sigTHsh = "THSH"
	sigTPad = "TPAD"
	sigIndx = "INDX"
	sigItem = "ITEM"
	sigPtch = "PTCH"
)

const (
	// sectionLeaf marks a section holding raw content rather than nested
	// sections.
	sectionLeaf = 0x40000000

	// sectionSizeMask strips the marker bits from a section header.
	sectionSizeMask = 0x3fffffff

	sectionHeaderSize = 8
)

// section is an open, length-framed region of the stream.
type section struct {
	sig   string
	leaf  bool
	start int64 // Offset of the first content byte
	size  int64 // Content length, header excluded
}

// end returns the offset one past the last content byte.
func (s *section) end() int64 { return s.start + s.size }

// section reads the header at the current position, checks its signature,
// positions the stream at the content and runs fn. The stream is left at the
// end of the section whatever fn consumed.
func (r *reader) section(sig string, fn func(s *section)) {
	if r.fail != nil {
		return
	}
	header := r.tell()
	raw := r.u32be()
	var got [4]byte
	r.data(got[:])
	if r.fail != nil {
		return
	}
	if string(got[:]) != sig {
		r.errorf(ErrFormat, "expected section %q, found %q", sig, got[:])
		return
	}
	total := int64(raw & sectionSizeMask)
	if total < sectionHeaderSize {
		r.errorf(ErrFormat, "section %s declares size %d", sig, total)
		return
	}
	s := &section{
		sig:   sig,
		leaf:  raw&sectionLeaf != 0,
		start: header + sectionHeaderSize,
		size:  total - sectionHeaderSize,
	}
	if s.end() > r.size {
		r.errorf(ErrTruncated, "section %s ends at 0x%x past end of stream (0x%x)", sig, s.end(), r.size)
		return
	}

	outer := r.scope
	r.scope = sig
	r.seek(s.start)
	if fn != nil {
		fn(s)
	}
	r.seek(s.end())
	r.scope = outer
}

// atEnd reports whether the stream has reached the end of s. A failed reader
// is always at the end so loops over section content terminate.
func (r *reader) atEnd(s *section) bool {
	return r.fail != nil || r.tell() >= s.end()
}

// section writes a placeholder header, runs fn, pads the content to four
// bytes and backpatches the header with the final size.
func (w *writer) section(sig string, leaf bool, fn func()) {
	header := w.tell()
	w.u32be(0)
	w.data([]byte(sig))

	outer := w.scope
	w.scope = sig
	if fn != nil {
		fn()
	}
	w.pad(4)

	end := w.tell()
	total := end - header
	if total > sectionSizeMask {
		w.errorf(ErrRange, "section %s size 0x%x exceeds 30 bits", sig, total)
	}
	size := uint32(total)
	if leaf {
		size |= sectionLeaf
	}
	w.seek(header)
	w.u32be(size)
	w.seek(end)
	w.scope = outer
}
