// Package editor holds the authoritative editing session for a form schema.
//
// Every change is expressed as a Command and applied by Reduce, a pure
// transition function over HistoryState values. Structural commands (schema
// replacement, metadata edits, adding, updating, removing or reordering
// controls) push the previous EditorState onto the undo stack and clear the
// redo stack. Session commands (selection, mode, diagnostics, dirty flag)
// only touch the present state.
//
// Store wraps Reduce for interactive use: it assigns control identifiers,
// serialises dispatch, bounds history and hands out deep copies so snapshots
// stay independent of later edits. Construct one Store per editor instance
// with New and pass it to every consumer.
package editor
