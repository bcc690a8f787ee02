package editor

import (
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Command is a named, atomic state transition accepted by Reduce and Store.
// The set is closed; use the types declared in this file.
type Command interface {
	Name() string
	// Structural reports whether the command records an undo entry.
	Structural() bool
	command()
}

// ReplaceSchema installs a whole new schema, e.g. after a raw-text import.
type ReplaceSchema struct {
	Schema formschema.Schema
}

// UpdateMetadata merges the non-nil fields into the schema metadata.
type UpdateMetadata struct {
	Title       *string
	Description *string
	Layout      *formschema.Layout
}

// AddControl appends a control of Kind with default settings and selects it.
// Store fills ID when empty; Reduce ignores the command without one.
type AddControl struct {
	Kind formschema.ControlKind
	ID   string
}

// UpdateControl replaces the control identified by ID. The identifier is
// immutable: Control.ID is ignored.
type UpdateControl struct {
	ID      string
	Control formschema.Control
}

// RemoveControl deletes the control identified by ID.
type RemoveControl struct {
	ID string
}

// ReorderControls sets the control order. Order must be a permutation of the
// current controls, matched by identifier; anything else is ignored.
type ReorderControls struct {
	Order []formschema.Control
}

// MoveControl moves one control to Index, clamped to the valid range.
type MoveControl struct {
	ID    string
	Index int
}

// SelectControl selects an existing control, or clears the selection when ID
// is empty.
type SelectControl struct {
	ID string
}

// SetMode switches between the visual and code editors.
type SetMode struct {
	Mode Mode
}

// SetDiagnostics replaces the diagnostics shown for the present schema.
type SetDiagnostics struct {
	Diagnostics []validation.Diagnostic
}

// SetDirty sets or clears the unsaved-changes flag.
type SetDirty struct {
	Dirty bool
}

// Undo restores the most recent past state.
type Undo struct{}

// Redo re-applies the most recently undone state.
type Redo struct{}

// ClearHistory empties both stacks and keeps the present state.
type ClearHistory struct{}

func (ReplaceSchema) Name() string   { return "replace-schema" }
func (UpdateMetadata) Name() string  { return "update-metadata" }
func (AddControl) Name() string      { return "add-control" }
func (UpdateControl) Name() string   { return "update-control" }
func (RemoveControl) Name() string   { return "remove-control" }
func (ReorderControls) Name() string { return "reorder-controls" }
func (MoveControl) Name() string     { return "move-control" }
func (SelectControl) Name() string   { return "select-control" }
func (SetMode) Name() string         { return "set-mode" }
func (SetDiagnostics) Name() string  { return "set-diagnostics" }
func (SetDirty) Name() string        { return "set-dirty" }
func (Undo) Name() string            { return "undo" }
func (Redo) Name() string            { return "redo" }
func (ClearHistory) Name() string    { return "clear-history" }

func (ReplaceSchema) Structural() bool   { return true }
func (UpdateMetadata) Structural() bool  { return true }
func (AddControl) Structural() bool      { return true }
func (UpdateControl) Structural() bool   { return true }
func (RemoveControl) Structural() bool   { return true }
func (ReorderControls) Structural() bool { return true }
func (MoveControl) Structural() bool     { return true }
func (SelectControl) Structural() bool   { return false }
func (SetMode) Structural() bool         { return false }
func (SetDiagnostics) Structural() bool  { return false }
func (SetDirty) Structural() bool        { return false }
func (Undo) Structural() bool            { return false }
func (Redo) Structural() bool            { return false }
func (ClearHistory) Structural() bool    { return false }

func (ReplaceSchema) command()   {}
func (UpdateMetadata) command()  {}
func (AddControl) command()      {}
func (UpdateControl) command()   {}
func (RemoveControl) command()   {}
func (ReorderControls) command() {}
func (MoveControl) command()     {}
func (SelectControl) command()   {}
func (SetMode) command()         {}
func (SetDiagnostics) command()  {}
func (SetDirty) command()        {}
func (Undo) command()            {}
func (Redo) command()            {}
func (ClearHistory) command()    {}
