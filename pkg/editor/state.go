package editor

import (
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Mode is the active editing surface.
type Mode string

const (
	ModeVisual Mode = "visual"
	ModeCode   Mode = "code"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeVisual || m == ModeCode
}

// EditorState is the live session value. An empty SelectedControlID means no
// control is selected.
type EditorState struct {
	Schema            formschema.Schema       `json:"schema"`
	SelectedControlID string                  `json:"selectedControlId,omitempty"`
	Mode              Mode                    `json:"mode"`
	Diagnostics       []validation.Diagnostic `json:"diagnostics,omitempty"`
	Dirty             bool                    `json:"dirty"`
}

// NewEditorState returns a clean visual-mode state for schema.
func NewEditorState(schema formschema.Schema) EditorState {
	return EditorState{
		Schema: schema.Clone(),
		Mode:   ModeVisual,
	}
}

// Clone returns a deep copy of the state.
func (s EditorState) Clone() EditorState {
	out := s
	out.Schema = s.Schema.Clone()
	out.Diagnostics = validation.CloneDiagnostics(s.Diagnostics)
	return out
}

// SelectedControl resolves SelectedControlID against the schema.
func (s EditorState) SelectedControl() (formschema.Control, bool) {
	if s.SelectedControlID == "" {
		return formschema.Control{}, false
	}
	control, ok := s.Schema.Control(s.SelectedControlID)
	if !ok {
		return formschema.Control{}, false
	}
	return control.Clone(), true
}

// HistoryState is the present EditorState plus its undo and redo stacks.
// Past holds the most recent entry last; Future holds the most recent entry
// first.
type HistoryState struct {
	Past    []EditorState `json:"past"`
	Present EditorState   `json:"present"`
	Future  []EditorState `json:"future"`
}

// NewHistory returns a history with empty stacks.
func NewHistory(present EditorState) HistoryState {
	return HistoryState{Present: present}
}

// CanUndo reports whether the past stack is non-empty.
func (h HistoryState) CanUndo() bool { return len(h.Past) > 0 }

// CanRedo reports whether the future stack is non-empty.
func (h HistoryState) CanRedo() bool { return len(h.Future) > 0 }

// Clone returns a deep copy of the history, including every snapshot.
func (h HistoryState) Clone() HistoryState {
	return HistoryState{
		Past:    cloneStates(h.Past),
		Present: h.Present.Clone(),
		Future:  cloneStates(h.Future),
	}
}

func cloneStates(states []EditorState) []EditorState {
	if states == nil {
		return nil
	}
	out := make([]EditorState, len(states))
	for idx, state := range states {
		out[idx] = state.Clone()
	}
	return out
}
