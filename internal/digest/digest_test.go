package digest

import (
	"errors"
	"strings"
	"testing"
)

// TestCompute checks digests against known vectors produced by Python's
// hashlib, so extracts hashed by either tool stay comparable.
func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		algorithm string
		salt      string
		want      string
	}{
		{
			name:      "sha224 abc",
			value:     "abc",
			algorithm: "sha224",
			want:      "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7",
		},
		{
			name:      "sha256 empty string",
			value:     "",
			algorithm: "sha256",
			want:      "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:      "sha224 email",
			value:     "a@x.com",
			algorithm: "sha224",
			want:      "8d62dd76835f03f10d2e4f3081ff12cb1b5f008440d0bf90cf936748",
		},
		{
			name:      "sha256 email",
			value:     "a@x.com",
			algorithm: "sha256",
			want:      "478abec7430569163161dfea8513b8ce89d05f559456a26e945c66e1fe55a29d",
		},
		{
			name:      "sha256 email with salt prepended",
			value:     "a@x.com",
			algorithm: "sha256",
			salt:      "pepper",
			want:      "1c9fdcd81151508c4d745db248405ed55ad05667c8a1c54a6d9e88f05adc98dc",
		},
		{
			name:      "sha3_256 email",
			value:     "a@x.com",
			algorithm: "sha3_256",
			want:      "d964231b66bafb072587dbed58f67318186da13e81dc65340a38c2d1edd2dac7",
		},
		{
			name:      "blake2b email",
			value:     "a@x.com",
			algorithm: "blake2b",
			want:      "86f3a995b7adc0dcca3436438bf914f4810a44c5c569609be9cd0ab4441bfe7a0a017494caafb12c52a8be50c283816cf5c113b45dfc6435ff6a40d11c9f3b4a",
		},
		{
			name:      "blake2s email",
			value:     "a@x.com",
			algorithm: "blake2s",
			want:      "f96c6d372f24be1e1bfb39da53723f1d2527148bb6bef1e6d50bc70e2905f634",
		},
		{
			name:      "md5 email",
			value:     "a@x.com",
			algorithm: "md5",
			want:      "743173788aa9166801df2e18f0e7ff24",
		},
		{
			name:      "upper case dashed name resolves",
			value:     "a@x.com",
			algorithm: "SHA-256",
			want:      "478abec7430569163161dfea8513b8ce89d05f559456a26e945c66e1fe55a29d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Compute(tt.value, tt.algorithm, tt.salt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compute(%q, %q, %q) = %q, want %q", tt.value, tt.algorithm, tt.salt, got, tt.want)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	for _, alg := range Algorithms() {
		first, err := Compute("jane.doe@example.com", alg, "s1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", alg, err)
		}
		for range 5 {
			again, err := Compute("jane.doe@example.com", alg, "s1")
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", alg, err)
			}
			if again != first {
				t.Errorf("%s: digest changed between calls: %q != %q", alg, first, again)
			}
		}
		if first != strings.ToLower(first) {
			t.Errorf("%s: digest is not lower case: %q", alg, first)
		}
	}
}

func TestCompute_SaltSensitivity(t *testing.T) {
	t.Parallel()

	const value = "jane.doe@example.com"

	a, err := Compute(value, "sha224", "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute(value, "sha224", "bravo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unsalted, err := Compute(value, "sha224", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Errorf("expected different digests for different salts, both were %q", a)
	}
	if a == unsalted || b == unsalted {
		t.Error("expected salted digests to differ from the unsalted digest")
	}
}

func TestCompute_EmptySaltIsIdentity(t *testing.T) {
	t.Parallel()

	h, err := NewHasher("sha256", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Salted() {
		t.Error("expected Salted() to be false for empty salt")
	}
	if got := h.Sum("abc"); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("unexpected digest %q", got)
	}
}

func TestCompute_UnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "sha999", "shake_128", "crc32"} {
		_, err := Compute("value", name, "")
		if !errors.Is(err, ErrUnsupportedAlgorithm) {
			t.Errorf("Compute with %q: expected ErrUnsupportedAlgorithm, got %v", name, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	full, err := Compute("a@x.com", "sha256", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		length int
		want   string
	}{
		{name: "zero is a no-op", length: 0, want: full},
		{name: "negative is a no-op", length: -3, want: full},
		{name: "one character", length: 1, want: full[:1]},
		{name: "eight characters", length: 8, want: "478abec7"},
		{name: "exact length", length: len(full), want: full},
		{name: "beyond length", length: len(full) + 5, want: full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Truncate(full, tt.length)
			if got != tt.want {
				t.Errorf("Truncate(%d) = %q, want %q", tt.length, got, tt.want)
			}
			if !strings.HasPrefix(full, got) {
				t.Errorf("Truncate(%d) = %q is not a prefix of the full digest", tt.length, got)
			}
		})
	}
}

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sha224":      "sha224",
		"SHA224":      "sha224",
		" sha256 ":    "sha256",
		"SHA-256":     "sha256",
		"sha3-256":    "sha3_256",
		"SHA-512/256": "sha512_256",
		"sha512-224":  "sha512_224",
		"BLAKE2b":     "blake2b",
	}

	for in, want := range tests {
		if got := CanonicalName(in); got != want {
			t.Errorf("CanonicalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAlgorithms(t *testing.T) {
	t.Parallel()

	algs := Algorithms()
	if len(algs) != len(registry) {
		t.Fatalf("expected %d algorithms, got %d", len(registry), len(algs))
	}
	for i := 1; i < len(algs); i++ {
		if algs[i-1] >= algs[i] {
			t.Errorf("algorithms not sorted: %q before %q", algs[i-1], algs[i])
		}
	}
	if !Supported(DefaultAlgorithm) {
		t.Errorf("default algorithm %q is not supported", DefaultAlgorithm)
	}
}

func TestHasher_DigestLengths(t *testing.T) {
	t.Parallel()

	want := map[string]int{
		"md5":        32,
		"sha1":       40,
		"sha224":     56,
		"sha256":     64,
		"sha384":     96,
		"sha512":     128,
		"sha512_224": 56,
		"sha512_256": 64,
		"sha3_224":   56,
		"sha3_256":   64,
		"sha3_384":   96,
		"sha3_512":   128,
		"blake2b":    128,
		"blake2s":    64,
	}

	for alg, n := range want {
		h, err := NewHasher(alg, "")
		if err != nil {
			t.Fatalf("NewHasher(%q): %v", alg, err)
		}
		if got := len(h.Sum("x")); got != n {
			t.Errorf("%s: expected %d hex characters, got %d", alg, n, got)
		}
		if h.Algorithm() != alg {
			t.Errorf("expected Algorithm() %q, got %q", alg, h.Algorithm())
		}
	}
}
