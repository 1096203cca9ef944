// Package residual looks for personal identifiers left in a table after
// the identifying column has been hashed.
//
// Hashing one column does not make a file safe to share when another
// column still carries the raw e-mail address, a phone number or a bank
// account. The scanner runs a set of detectors over every column and
// reports, per column and identifier kind, how many rows matched. Matched
// values are never returned, so findings can be logged and stored.
//
// # Detectors
//
// Each identifier kind is implemented as a Detector. The built-in set
// covers:
//   - e-mail addresses
//   - international phone numbers (leading + or 00)
//   - IBANs, validated with the ISO 13616 mod-97 checksum
//   - payment card numbers, checked against issuer prefixes and lengths
//     and validated with the Luhn checksum
//   - IPv4 addresses
//   - cryptocurrency addresses
//
// Checksummed kinds are validated after the pattern matches to keep false
// positives on arbitrary digit runs low.
//
// # Concurrency
//
// Columns are scanned in parallel with a bounded errgroup. Detectors must
// be safe for concurrent use; the built-in ones only hold compiled
// regular expressions.
package residual
