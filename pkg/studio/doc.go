// Package studio wires one editing session together: the history store, the
// validator, the preview renderer and the persisted document envelope. It is
// the seam UI surfaces (console, CLI) talk to.
package studio
