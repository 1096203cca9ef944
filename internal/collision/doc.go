// Package collision finds rows whose truncated digests coincide.
//
// Truncating a digest shortens the identifier shared with a third party at
// the cost of collision resistance. Detect groups rows by the exact
// truncated digest string and reports every group with more than one
// member, so the operator keeps an auditable record of which source values
// became indistinguishable.
package collision
