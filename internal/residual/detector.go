package residual

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/nao1215/csvhash/internal/model"
)

// Detector recognizes one kind of personal identifier in a field value.
//
// Design decision: We use an interface rather than a table of regular
// expressions because several kinds need a checksum on top of the pattern,
// and tests can register fake detectors.
type Detector interface {
	// Kind returns the identifier kind, one of the model.Kind* constants.
	Kind() string

	// Match reports whether value contains at least one identifier.
	Match(value string) bool
}

// patternDetector matches a value against regular expressions and
// optionally validates every candidate match.
type patternDetector struct {
	kind     string
	patterns []*regexp.Regexp
	validate func(match string) bool
	minLen   int
}

// Kind returns the identifier kind.
func (d *patternDetector) Kind() string {
	return d.kind
}

// Match reports whether value contains a valid match.
func (d *patternDetector) Match(value string) bool {
	if len(value) < d.minLen {
		return false
	}
	for _, re := range d.patterns {
		if d.validate == nil {
			if re.MatchString(value) {
				return true
			}
			continue
		}
		for _, m := range re.FindAllString(value, -1) {
			if d.validate(m) {
				return true
			}
		}
	}
	return false
}

// NewEmailDetector creates a detector for e-mail addresses.
func NewEmailDetector() Detector {
	return &patternDetector{
		kind:     model.KindEmail,
		patterns: []*regexp.Regexp{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
		minLen:   6,
	}
}

// NewPhoneDetector creates a detector for phone numbers in international
// format. The whole field must be the number; national formats are too
// close to dates and amounts to flag reliably.
func NewPhoneDetector() Detector {
	return &patternDetector{
		kind:     model.KindPhone,
		patterns: []*regexp.Regexp{regexp.MustCompile(`^\s*(?:\+|00)[1-9][0-9 ().\-]{6,18}[0-9]\s*$`)},
		validate: func(m string) bool {
			n := countDigits(m)
			return n >= 8 && n <= 17
		},
		minLen: 9,
	}
}

// NewIBANDetector creates a detector for IBANs, written compact or in
// groups of four.
func NewIBANDetector() Detector {
	return &patternDetector{
		kind:     model.KindIBAN,
		patterns: []*regexp.Regexp{regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}(?: ?[A-Z0-9]){11,30}\b`)},
		validate: validIBAN,
		minLen:   15,
	}
}

// NewPaymentCardDetector creates a detector for payment card numbers,
// optionally grouped with spaces or dashes. A candidate must carry a known
// issuer prefix with a length that issuer uses and pass the Luhn check, so
// arbitrary numeric IDs are rarely flagged.
func NewPaymentCardDetector() Detector {
	return &patternDetector{
		kind:     model.KindPaymentCard,
		patterns: []*regexp.Regexp{regexp.MustCompile(`\b(?:[0-9][ \-]?){12,18}[0-9]\b`)},
		validate: func(m string) bool {
			digits := onlyDigits(m)
			return knownCardNetwork(digits) && luhn(digits)
		},
		minLen: 13,
	}
}

// knownCardNetwork reports whether digits has the issuer prefix and length
// of a major card network.
func knownCardNetwork(digits string) bool {
	n := len(digits)
	if n < 13 || n > 19 {
		return false
	}
	prefix := func(k int) int {
		if n < k {
			return -1
		}
		v := 0
		for i := 0; i < k; i++ {
			v = v*10 + int(digits[i]-'0')
		}
		return v
	}

	switch {
	case digits[0] == '4': // Visa
		return n == 13 || n == 16 || n == 19
	case prefix(2) >= 51 && prefix(2) <= 55, prefix(4) >= 2221 && prefix(4) <= 2720: // Mastercard
		return n == 16
	case prefix(2) == 34 || prefix(2) == 37: // American Express
		return n == 15
	case prefix(2) == 36 || prefix(2) == 38 || prefix(2) == 39 || (prefix(3) >= 300 && prefix(3) <= 305): // Diners Club
		return n >= 14 && n <= 19
	case prefix(4) == 6011 || prefix(2) == 65 || (prefix(3) >= 644 && prefix(3) <= 649): // Discover
		return n >= 16 && n <= 19
	case prefix(4) >= 3528 && prefix(4) <= 3589: // JCB
		return n >= 16 && n <= 19
	case prefix(2) == 62: // UnionPay
		return n >= 16 && n <= 19
	default:
		return false
	}
}

// NewIPv4Detector creates a detector for IPv4 addresses.
func NewIPv4Detector() Detector {
	return &patternDetector{
		kind:     model.KindIPv4,
		patterns: []*regexp.Regexp{regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)},
		validate: func(m string) bool {
			addr, err := netip.ParseAddr(m)
			return err == nil && addr.Is4()
		},
		minLen: 7,
	}
}

// NewCryptoDetector creates a detector for the most common
// cryptocurrency address formats.
func NewCryptoDetector() Detector {
	return &patternDetector{
		kind: model.KindCryptoAddress,
		patterns: []*regexp.Regexp{
			// Bitcoin legacy (P2PKH, P2SH) and Bech32
			regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`),
			regexp.MustCompile(`\bbc1[a-z0-9]{39,59}\b`),
			// Ethereum
			regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),
			// Monero, including subaddresses
			regexp.MustCompile(`\b[48][0-9AB][1-9A-HJ-NP-Za-km-z]{93}\b`),
		},
		minLen: 26,
	}
}

// DefaultDetectors returns the built-in detectors, most severe kinds first.
func DefaultDetectors() []Detector {
	return []Detector{
		NewEmailDetector(),
		NewIBANDetector(),
		NewPaymentCardDetector(),
		NewPhoneDetector(),
		NewIPv4Detector(),
		NewCryptoDetector(),
	}
}

// validIBAN checks the length and the mod-97 checksum of an IBAN.
func validIBAN(m string) bool {
	iban := strings.ReplaceAll(m, " ", "")
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}

	// Move the country code and check digits to the end, map letters to
	// 10..35 and reduce digit by digit.
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, c := range rearranged {
		switch {
		case c >= '0' && c <= '9':
			remainder = (remainder*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			remainder = (remainder*100 + int(c-'A') + 10) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

// luhn reports whether digits passes the Luhn checksum.
func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
