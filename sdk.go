package tagfile

import (
	"fmt"
	"strconv"
)

// SdkVersion is the SDK revision recorded in the SDKV section, packed as
// year<<16 | major<<8 | minor.
type SdkVersion uint32

// Version20160100 is the only revision this codec reads and writes.
const Version20160100 = SdkVersion(2016<<16 | 1<<8 | 0)

// NewSdkVersion packs a revision.
func NewSdkVersion(year uint16, major, minor uint8) SdkVersion {
	return SdkVersion(uint32(year)<<16 | uint32(major)<<8 | uint32(minor))
}

// ParseSdkVersion parses the eight digit form used on disk, e.g. "20160100".
func ParseSdkVersion(s string) (SdkVersion, error) {
	if len(s) != 8 {
		return 0, &Error{Err: ErrFormat, Detail: fmt.Sprintf("sdk version %q must have 8 digits", s)}
	}
	year, err1 := strconv.ParseUint(s[0:4], 10, 16)
	major, err2 := strconv.ParseUint(s[4:6], 10, 8)
	minor, err3 := strconv.ParseUint(s[6:8], 10, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, &Error{Err: ErrFormat, Detail: fmt.Sprintf("sdk version %q is not numeric", s)}
	}
	return NewSdkVersion(uint16(year), uint8(major), uint8(minor)), nil
}

func (v SdkVersion) Year() uint16 { return uint16(v >> 16) }
func (v SdkVersion) Major() uint8 { return uint8(v >> 8) }
func (v SdkVersion) Minor() uint8 { return uint8(v) }

// String returns the eight digit on-disk form.
func (v SdkVersion) String() string {
	return fmt.Sprintf("%04d%02d%02d", v.Year(), v.Major(), v.Minor())
}
