package editor

import (
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Reduce applies cmd to state and returns the next state. It never mutates
// state and never panics; commands that reference unknown controls, or carry
// payloads that would break the schema invariants, return state unchanged.
func Reduce(state HistoryState, cmd Command) HistoryState {
	switch cmd.(type) {
	case nil:
		return state
	case Undo:
		return undo(state)
	case Redo:
		return redo(state)
	case ClearHistory:
		return HistoryState{Present: state.Present}
	}

	if !cmd.Structural() {
		next, ok := applySession(state.Present, cmd)
		if !ok {
			return state
		}
		return HistoryState{Past: state.Past, Present: next, Future: state.Future}
	}

	next, ok := applyStructural(state.Present, cmd)
	if !ok {
		return state
	}
	next.Dirty = true

	past := make([]EditorState, 0, len(state.Past)+1)
	past = append(past, state.Past...)
	past = append(past, state.Present)
	return HistoryState{Past: past, Present: next}
}

func undo(state HistoryState) HistoryState {
	if len(state.Past) == 0 {
		return state
	}
	last := len(state.Past) - 1

	future := make([]EditorState, 0, len(state.Future)+1)
	future = append(future, state.Present)
	future = append(future, state.Future...)

	return HistoryState{
		Past:    state.Past[:last:last],
		Present: state.Past[last],
		Future:  future,
	}
}

func redo(state HistoryState) HistoryState {
	if len(state.Future) == 0 {
		return state
	}

	past := make([]EditorState, 0, len(state.Past)+1)
	past = append(past, state.Past...)
	past = append(past, state.Present)

	return HistoryState{
		Past:    past,
		Present: state.Future[0],
		Future:  state.Future[1:len(state.Future):len(state.Future)],
	}
}

func applySession(present EditorState, cmd Command) (EditorState, bool) {
	next := present
	switch c := cmd.(type) {
	case SelectControl:
		if c.ID != "" && present.Schema.IndexOf(c.ID) < 0 {
			return present, false
		}
		next.SelectedControlID = c.ID
	case SetMode:
		if !c.Mode.Valid() {
			return present, false
		}
		next.Mode = c.Mode
	case SetDiagnostics:
		next.Diagnostics = validation.CloneDiagnostics(c.Diagnostics)
	case SetDirty:
		next.Dirty = c.Dirty
	default:
		return present, false
	}
	return next, true
}

func applyStructural(present EditorState, cmd Command) (EditorState, bool) {
	next := present
	schema := present.Schema

	switch c := cmd.(type) {
	case ReplaceSchema:
		next.Schema = c.Schema.Clone()
		if next.SelectedControlID != "" && next.Schema.IndexOf(next.SelectedControlID) < 0 {
			next.SelectedControlID = ""
		}

	case UpdateMetadata:
		if c.Title == nil && c.Description == nil && c.Layout == nil {
			return present, false
		}
		updated := schema.Clone()
		if c.Title != nil {
			updated.Title = *c.Title
		}
		if c.Description != nil {
			updated.Description = *c.Description
		}
		if c.Layout != nil {
			updated.Layout = *c.Layout
		}
		next.Schema = updated

	case AddControl:
		if c.ID == "" || !c.Kind.Valid() || schema.IndexOf(c.ID) >= 0 {
			return present, false
		}
		control := formschema.DefaultControl(c.Kind, c.ID, schema.Controls)
		updated := schema.Clone()
		updated.Controls = append(updated.Controls, control)
		next.Schema = updated
		next.SelectedControlID = control.ID

	case UpdateControl:
		idx := schema.IndexOf(c.ID)
		if idx < 0 {
			return present, false
		}
		replacement := c.Control.Clone()
		replacement.ID = c.ID
		updated := schema.Clone()
		updated.Controls[idx] = replacement
		next.Schema = updated

	case RemoveControl:
		idx := schema.IndexOf(c.ID)
		if idx < 0 {
			return present, false
		}
		updated := schema.Clone()
		updated.Controls = append(updated.Controls[:idx:idx], updated.Controls[idx+1:]...)
		next.Schema = updated
		if next.SelectedControlID == c.ID {
			next.SelectedControlID = ""
		}

	case ReorderControls:
		ordered, ok := permute(schema.Controls, c.Order)
		if !ok {
			return present, false
		}
		updated := schema
		updated.Controls = ordered
		next.Schema = updated

	case MoveControl:
		from := schema.IndexOf(c.ID)
		if from < 0 {
			return present, false
		}
		to := clamp(c.Index, 0, len(schema.Controls)-1)
		if to == from {
			return present, false
		}
		updated := schema.Clone()
		moved := updated.Controls[from]
		rest := append(updated.Controls[:from:from], updated.Controls[from+1:]...)
		controls := make([]formschema.Control, 0, len(updated.Controls))
		controls = append(controls, rest[:to]...)
		controls = append(controls, moved)
		controls = append(controls, rest[to:]...)
		updated.Controls = controls
		next.Schema = updated

	default:
		return present, false
	}

	return next, true
}

// permute returns current reordered to follow order. It fails unless order
// names every current control exactly once. The current control values are
// kept so a reorder never changes control contents.
func permute(current, order []formschema.Control) ([]formschema.Control, bool) {
	if len(order) != len(current) {
		return nil, false
	}
	byID := make(map[string]formschema.Control, len(current))
	for _, control := range current {
		byID[control.ID] = control
	}
	used := make(map[string]struct{}, len(order))
	out := make([]formschema.Control, 0, len(order))
	for _, control := range order {
		original, ok := byID[control.ID]
		if !ok {
			return nil, false
		}
		if _, dup := used[control.ID]; dup {
			return nil, false
		}
		used[control.ID] = struct{}{}
		out = append(out, original.Clone())
	}
	return out, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
