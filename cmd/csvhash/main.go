// Package main provides the entry point for the csvhash CLI.
//
// csvhash pseudonymizes one column of a delimited file: every value is
// replaced by a (optionally salted) digest, optionally truncated to a
// short identifier, and truncated identifiers that clash are reported.
//
// Usage:
//
//	csvhash hash <input> <output> <column>
//	csvhash hash -a sha256 -t 8 people.csv people_hashed.csv Email
//
// See --help for all available options.
package main

// main is the entry point for csvhash.
func main() {
	Execute()
}
