// Package digest computes the deterministic, optionally salted digests that
// replace identifying values in a dataset.
//
// A digest is the lowercase hexadecimal encoding of hash(salt + value), where
// the hash function is looked up by name at run time. The same
// (algorithm, salt, value) triple always yields the same digest, which is
// what lets two independent runs over the same extract be compared.
//
// Algorithm names follow the naming used by Python's hashlib (sha224,
// sha3_256, blake2b, ...) so existing runbooks keep working. Lookup is
// case-insensitive and treats '-' and '_' the same.
package digest
