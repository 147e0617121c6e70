package tagfile

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies a catalog by the BLAKE2b-256 digest of its encoded
// TYPE section. Two catalogs with the same fingerprint produce identical type
// sections when written.
type Fingerprint [blake2b.Size256]byte

// String returns the hex-encoded digest.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Fingerprint encodes the TYPE section for c and digests it.
func (c *Catalog) Fingerprint() (Fingerprint, error) {
	w := newWriter()
	w.writeTypes(c)
	if err := w.err(); err != nil {
		return Fingerprint{}, err
	}
	return blake2b.Sum256(w.buf.Bytes()), nil
}
