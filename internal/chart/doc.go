// Package chart defines the canonical chart model shared by every pipeline
// stage: the Definition record both extractors produce, the normalized id
// used to match charts across naming conventions, and the ChangeSet the
// reconciler emits. It also reads and writes the canonical chart-set and
// change-set files, validating them against embedded JSON schemas.
package chart
