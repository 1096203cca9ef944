package digest

import (
	"crypto/md5"  //nolint:gosec // Offered for compatibility with legacy extracts
	"crypto/sha1" //nolint:gosec // Offered for compatibility with legacy extracts
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "sha224"

// ErrUnsupportedAlgorithm is returned when an algorithm name does not
// resolve to a known hash function. It is a configuration error: it is
// reported before any row is hashed.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// registry maps canonical algorithm names to hash constructors.
var registry = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512_224": sha512.New512_224,
	"sha512_256": sha512.New512_256,
	"sha3_224":   func() hash.Hash { return sha3.New224() },
	"sha3_256":   func() hash.Hash { return sha3.New256() },
	"sha3_384":   func() hash.Hash { return sha3.New384() },
	"sha3_512":   func() hash.Hash { return sha3.New512() },
	"blake2b":    newBlake2b512,
	"blake2s":    newBlake2s256,
}

// newBlake2b512 returns unkeyed BLAKE2b with a 64-byte digest.
func newBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		// Only fails for keys longer than 64 bytes.
		panic(err)
	}
	return h
}

// newBlake2s256 returns unkeyed BLAKE2s with a 32-byte digest.
func newBlake2s256() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// CanonicalName normalizes an algorithm name: lower case, surrounding
// whitespace removed, '-' replaced by '_'. "SHA-256" becomes "sha256" and
// "sha3-256" becomes "sha3_256".
func CanonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	// sha_256 style spellings collapse to the hashlib name.
	if strings.HasPrefix(n, "sha_") {
		n = "sha" + strings.TrimPrefix(n, "sha_")
	}
	if n == "sha512/224" || n == "sha512/256" {
		n = strings.ReplaceAll(n, "/", "_")
	}
	return n
}

// Lookup resolves name to a hash constructor.
// It returns ErrUnsupportedAlgorithm (wrapped with the name) when the
// algorithm is unknown.
func Lookup(name string) (func() hash.Hash, error) {
	fn, ok := registry[CanonicalName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return fn, nil
}

// Supported reports whether name resolves to a known algorithm.
func Supported(name string) bool {
	_, ok := registry[CanonicalName(name)]
	return ok
}

// Algorithms returns the canonical names of all supported algorithms, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
