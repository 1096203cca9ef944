package digest

import (
	"encoding/hex"
	"hash"
)

// Hasher computes digests for one run: the algorithm and salt are fixed at
// construction so an unknown algorithm is reported once, up front.
//
// A Hasher is safe for concurrent use; every Sum call allocates its own
// hash state.
type Hasher struct {
	algorithm string
	salt      string
	newHash   func() hash.Hash
}

// NewHasher resolves algorithm and returns a Hasher bound to salt.
func NewHasher(algorithm, salt string) (*Hasher, error) {
	fn, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		algorithm: CanonicalName(algorithm),
		salt:      salt,
		newHash:   fn,
	}, nil
}

// Algorithm returns the canonical algorithm name.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Salted reports whether a non-empty salt is in use.
func (h *Hasher) Salted() bool {
	return h.salt != ""
}

// Sum returns the lowercase hex digest of salt+value.
func (h *Hasher) Sum(value string) string {
	hh := h.newHash()
	// Go strings are byte sequences; decoded input is already UTF-8.
	hh.Write([]byte(h.salt)) //nolint:errcheck // hash.Hash.Write never returns an error
	hh.Write([]byte(value))  //nolint:errcheck // hash.Hash.Write never returns an error
	return hex.EncodeToString(hh.Sum(nil))
}

// Compute returns the digest of salt+value under algorithm.
// The only failure is ErrUnsupportedAlgorithm.
func Compute(value, algorithm, salt string) (string, error) {
	h, err := NewHasher(algorithm, salt)
	if err != nil {
		return "", err
	}
	return h.Sum(value), nil
}

// Truncate returns the first length characters of d.
// A length of zero or less leaves d untouched, and a length beyond len(d)
// returns d as is.
func Truncate(d string, length int) string {
	if length <= 0 || length >= len(d) {
		return d
	}
	return d[:length]
}
