package tagfile

import "fmt"

// Packed integer tier limits. Every count, index, offset and flag in the
// TYPE section is stored in one of these tiers.
const (
	packed1Max = 0x80
	packed2Max = 0x4000
	packed3Max = 0x200000
	packed4Max = 0x8000000

	// MaxPacked is the largest value a packed integer can carry.
	MaxPacked = packed4Max - 1
)

// PackedLen returns the encoded length of v in bytes, or 0 if v cannot be
// represented.
func PackedLen(v uint32) int {
	switch {
	case v < packed1Max:
		return 1
	case v < packed2Max:
		return 2
	case v < packed3Max:
		return 3
	case v < packed4Max:
		return 4
	default:
		return 0
	}
}

// AppendPacked appends the packed encoding of v to dst.
// Values at or above 0x8000000 fail with ErrRange.
func AppendPacked(dst []byte, v uint32) ([]byte, error) {
	switch {
	case v < packed1Max:
		return append(dst, byte(v)), nil
	case v < packed2Max:
		return append(dst, byte(v>>8)|0x80, byte(v)), nil
	case v < packed3Max:
		return append(dst, byte(v>>16)|0xc0, byte(v>>8), byte(v)), nil
	case v < packed4Max:
		return append(dst, byte(v>>24)|0xe0, byte(v>>16), byte(v>>8), byte(v)), nil
	default:
		return dst, &Error{Err: ErrRange, Detail: packedRangeDetail(v)}
	}
}

// DecodePacked decodes a packed integer from the start of b, returning the
// value and the number of bytes consumed.
func DecodePacked(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, &Error{Err: ErrTruncated, Detail: "empty packed integer"}
	}
	n := packedTier(b[0])
	if n == 0 {
		return 0, 0, &Error{Err: ErrFormat, Detail: packedTierDetail(b[0])}
	}
	if len(b) < n {
		return 0, 0, &Error{Err: ErrTruncated, Detail: "short packed integer"}
	}
	return packedValue(b[:n]), n, nil
}

// packedTier returns the total encoded length announced by the first byte,
// or 0 for the wider tiers this format does not use.
func packedTier(first byte) int {
	switch {
	case first&0x80 == 0:
		return 1
	case first&0x40 == 0:
		return 2
	case first&0x20 == 0:
		return 3
	case first&0x10 == 0:
		return 4
	default:
		return 0
	}
}

// packedValue assembles the big-endian payload and strips the marker bits.
func packedValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	switch len(b) {
	case 1:
		return v
	case 2:
		return v & (packed2Max - 1)
	case 3:
		return v & (packed3Max - 1)
	default:
		return v & (packed4Max - 1)
	}
}

func packedRangeDetail(v uint32) string {
	return fmt.Sprintf("packed integer 0x%x exceeds 27 bits", v)
}

func packedTierDetail(first byte) string {
	return fmt.Sprintf("unsupported packed integer marker 0x%02x", first)
}
