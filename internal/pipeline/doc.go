// Package pipeline runs the hashing of one dataset as a fixed sequence of
// steps: load, guard, digest, detect collisions, project, scan for
// residual identifiers and write.
//
// Each stage is implemented as a Step that receives the current model.Run
// and extends it. The pipeline stops at the first failing step. There is no
// partial completion: the write step is last and writes atomically, so a
// failed run leaves no output behind.
//
// Digest computation fans out over rows and the residual scan over
// columns. Both use a bounded errgroup where every goroutine writes only
// its own slots, so the result is identical to a sequential pass.
package pipeline
