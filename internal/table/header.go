package table

import (
	"regexp"
	"strings"
)

// bomMarkers are the forms a UTF-8 byte-order mark takes at the start of a
// header after the various ways exports get decoded.
var bomMarkers = []string{
	"\ufeff",             // decoded as UTF-8
	"\u00ef\u00bb\u00bf", // decoded as Latin-1 / Windows-1252
	"\ufffd",             // replaced as invalid
}

// disallowedHeaderChars matches every character that may not appear in a
// column name.
var disallowedHeaderChars = regexp.MustCompile(`[^0-9a-zA-Z.,\-/_ ]`)

// SanitizeHeader normalizes a column name: a leading byte-order-mark
// artifact is removed, then every character outside [0-9a-zA-Z.,-/_ ] is
// dropped. SanitizeHeader is idempotent.
func SanitizeHeader(name string) string {
	for trimmed := true; trimmed; {
		trimmed = false
		for _, m := range bomMarkers {
			if strings.HasPrefix(name, m) {
				name = strings.TrimPrefix(name, m)
				trimmed = true
			}
		}
	}
	return disallowedHeaderChars.ReplaceAllString(name, "")
}

// SanitizeHeaders applies SanitizeHeader to every name and returns a new slice.
func SanitizeHeaders(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = SanitizeHeader(n)
	}
	return out
}
