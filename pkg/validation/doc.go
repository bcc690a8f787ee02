// Package validation checks form schemas for structural and logical
// correctness. Every check is total: malformed input is reported as a
// Diagnostic in the returned Result, never as a panic or error value, so
// callers can run validation on every edit and render the complete list.
package validation
