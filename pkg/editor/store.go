package editor

import (
	"sync"

	"github.com/goliatone/go-formbuilder/internal/uid"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const idPrefix = "ctrl"

// maxIDAttempts bounds retries when a custom generator keeps colliding.
const maxIDAttempts = 64

// Listener observes every dispatched command's resulting state.
type Listener func(HistoryState)

// Store owns one editing session. Methods are safe for concurrent use, but
// dispatch is serialised: every command observes the result of the previous
// one.
type Store struct {
	mu        sync.Mutex
	ready     bool
	state     HistoryState
	nextID    func() string
	issued    map[string]struct{}
	limit     int
	listeners map[int]Listener
	listenSeq int
}

// New constructs a Store holding an empty schema unless WithInitialSchema is
// supplied.
func New(options ...Option) *Store {
	store := &Store{
		state:     NewHistory(NewEditorState(formschema.NewSchema())),
		nextID:    uid.New(idPrefix).Next,
		issued:    make(map[string]struct{}),
		listeners: make(map[int]Listener),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(store)
	}
	for _, control := range store.state.Present.Schema.Controls {
		store.issued[control.ID] = struct{}{}
	}
	store.ready = true
	return store
}

func (s *Store) mustInit() {
	if s == nil || !s.ready {
		panic("editor: store used before initialisation; construct it with editor.New")
	}
}

// Dispatch applies cmd and returns a copy of the resulting history. An
// AddControl without an ID receives a fresh session-unique identifier.
func (s *Store) Dispatch(cmd Command) HistoryState {
	s.mustInit()

	s.mu.Lock()
	if add, ok := cmd.(AddControl); ok && add.ID == "" {
		add.ID = s.freshID()
		cmd = add
	}
	next := trimHistory(Reduce(s.state, cmd), s.limit)
	s.state = next
	for _, control := range next.Present.Schema.Controls {
		s.issued[control.ID] = struct{}{}
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(next.Clone())
	}
	return next.Clone()
}

// freshID must be called with s.mu held.
func (s *Store) freshID() string {
	var id string
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id = s.nextID()
		if id == "" {
			continue
		}
		if _, taken := s.issued[id]; !taken {
			break
		}
		id = ""
	}
	if id == "" {
		id = uid.New(idPrefix).Next()
	}
	s.issued[id] = struct{}{}
	return id
}

func trimHistory(state HistoryState, limit int) HistoryState {
	if limit <= 0 || len(state.Past) <= limit {
		return state
	}
	drop := len(state.Past) - limit
	state.Past = state.Past[drop:len(state.Past):len(state.Past)]
	return state
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(listener Listener) func() {
	s.mustInit()
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	s.listenSeq++
	key := s.listenSeq
	s.listeners[key] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, key)
			s.mu.Unlock()
		})
	}
}

// State returns a copy of the full history.
func (s *Store) State() HistoryState {
	s.mustInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Present returns a copy of the present editor state.
func (s *Store) Present() EditorState {
	s.mustInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Present.Clone()
}

// Schema returns a copy of the present schema.
func (s *Store) Schema() formschema.Schema {
	return s.Present().Schema
}

// CanUndo reports whether Undo would change the state.
func (s *Store) CanUndo() bool {
	s.mustInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CanUndo()
}

// CanRedo reports whether Redo would change the state.
func (s *Store) CanRedo() bool {
	s.mustInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CanRedo()
}

// SelectedControl returns the selected control, if any.
func (s *Store) SelectedControl() (formschema.Control, bool) {
	s.mustInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Present.SelectedControl()
}

// ReplaceSchema dispatches ReplaceSchema.
func (s *Store) ReplaceSchema(schema formschema.Schema) HistoryState {
	return s.Dispatch(ReplaceSchema{Schema: schema})
}

// UpdateMetadata dispatches UpdateMetadata.
func (s *Store) UpdateMetadata(update UpdateMetadata) HistoryState {
	return s.Dispatch(update)
}

// AddControl appends a control of kind and returns its identifier, or "" when
// kind is not a known control kind.
func (s *Store) AddControl(kind formschema.ControlKind) string {
	state := s.Dispatch(AddControl{Kind: kind})
	if !kind.Valid() {
		return ""
	}
	return state.Present.SelectedControlID
}

// UpdateControl dispatches UpdateControl.
func (s *Store) UpdateControl(id string, control formschema.Control) HistoryState {
	return s.Dispatch(UpdateControl{ID: id, Control: control})
}

// RemoveControl dispatches RemoveControl.
func (s *Store) RemoveControl(id string) HistoryState {
	return s.Dispatch(RemoveControl{ID: id})
}

// ReorderControls dispatches ReorderControls.
func (s *Store) ReorderControls(order []formschema.Control) HistoryState {
	return s.Dispatch(ReorderControls{Order: order})
}

// MoveControl dispatches MoveControl.
func (s *Store) MoveControl(id string, index int) HistoryState {
	return s.Dispatch(MoveControl{ID: id, Index: index})
}

// SelectControl dispatches SelectControl; pass "" to clear the selection.
func (s *Store) SelectControl(id string) HistoryState {
	return s.Dispatch(SelectControl{ID: id})
}

// SetMode dispatches SetMode.
func (s *Store) SetMode(mode Mode) HistoryState {
	return s.Dispatch(SetMode{Mode: mode})
}

// SetDiagnostics dispatches SetDiagnostics.
func (s *Store) SetDiagnostics(diagnostics []validation.Diagnostic) HistoryState {
	return s.Dispatch(SetDiagnostics{Diagnostics: diagnostics})
}

// SetDirty dispatches SetDirty.
func (s *Store) SetDirty(dirty bool) HistoryState {
	return s.Dispatch(SetDirty{Dirty: dirty})
}

// Undo dispatches Undo.
func (s *Store) Undo() HistoryState {
	return s.Dispatch(Undo{})
}

// Redo dispatches Redo.
func (s *Store) Redo() HistoryState {
	return s.Dispatch(Redo{})
}

// ClearHistory dispatches ClearHistory.
func (s *Store) ClearHistory() HistoryState {
	return s.Dispatch(ClearHistory{})
}
