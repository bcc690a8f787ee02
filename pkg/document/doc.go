// Package document implements the persisted representation of a form schema:
// a versioned envelope carrying creation/modification metadata and the schema
// itself. Documents encode to JSON or YAML; decoding ignores unknown fields so
// newer exports stay readable, but rejects envelopes from a different major
// version.
package document
