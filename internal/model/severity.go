package model

import "fmt"

// Severity represents how identifying a residual value is.
// This allows ranking findings by their potential to re-identify a person.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. MarshalText provides the
// human-readable form in JSON output.
type Severity int

const (
	// SeverityInfo indicates values that are rarely personal on their own.
	// Examples: cryptocurrency addresses.
	SeverityInfo Severity = iota

	// SeverityLow indicates values that identify a device or network rather
	// than a person. Examples: IPv4 addresses.
	SeverityLow

	// SeverityMedium indicates values that identify a person when combined
	// with other data. Examples: international phone numbers.
	SeverityMedium

	// SeverityHigh indicates direct identifiers.
	// Examples: e-mail addresses, bank account numbers, payment cards.
	SeverityHigh
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "INFO":
		*s = SeverityInfo
	case "LOW":
		*s = SeverityLow
	case "MEDIUM":
		*s = SeverityMedium
	case "HIGH":
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Residual identifier kinds.
const (
	KindEmail         = "email_address"
	KindPhone         = "phone_number"
	KindIBAN          = "iban"
	KindPaymentCard   = "payment_card"
	KindIPv4          = "ipv4_address"
	KindCryptoAddress = "crypto_address"
)

// FindingInfo contains metadata about a residual identifier kind.
type FindingInfo struct {
	Severity       Severity
	Description    string
	Recommendation string
}

// findingInfoMapping maps residual kinds to their metadata.
//
// Design decision: We use a map rather than embedding severity in each
// detector so that risk levels are assessed in one place.
var findingInfoMapping = map[string]FindingInfo{
	KindEmail: {
		Severity:       SeverityHigh,
		Description:    "e-mail addresses",
		Recommendation: "Hash or drop the column before sharing the file.",
	},
	KindIBAN: {
		Severity:       SeverityHigh,
		Description:    "bank account numbers (IBAN)",
		Recommendation: "Hash or drop the column before sharing the file.",
	},
	KindPaymentCard: {
		Severity:       SeverityHigh,
		Description:    "payment card numbers",
		Recommendation: "Drop the column; card numbers must not leave the source system.",
	},
	KindPhone: {
		Severity:       SeverityMedium,
		Description:    "phone numbers",
		Recommendation: "Hash or drop the column before sharing the file.",
	},
	KindIPv4: {
		Severity:       SeverityLow,
		Description:    "IPv4 addresses",
		Recommendation: "Truncate or drop the column if the addresses belong to end users.",
	},
	KindCryptoAddress: {
		Severity:       SeverityInfo,
		Description:    "cryptocurrency addresses",
		Recommendation: "Review whether the addresses can be linked to individuals.",
	},
}

// GetSeverity returns the severity level for a residual kind.
// Returns SeverityInfo if the kind is not in the mapping.
func GetSeverity(kind string) Severity {
	return GetFindingInfo(kind).Severity
}

// GetFindingInfo returns the full information for a residual kind.
func GetFindingInfo(kind string) FindingInfo {
	if info, ok := findingInfoMapping[kind]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Description:    kind + " values",
		Recommendation: "Review the column manually.",
	}
}
