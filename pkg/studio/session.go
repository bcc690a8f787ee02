package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrExportBlocked is returned by Export and Save while the present schema
// carries error diagnostics.
var ErrExportBlocked = errors.New("studio: export blocked by validation errors")

// Option customises a Session.
type Option func(*Session)

// WithStore injects an existing history store.
func WithStore(store *editor.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithRenderer overrides the preview renderer.
func WithRenderer(renderer preview.Renderer) Option {
	return func(s *Session) {
		s.renderer = renderer
	}
}

// WithRegistry resolves the preview renderer by Config.Renderer from
// registry. Without it the built-in html and json previews are available.
func WithRegistry(registry *preview.Registry) Option {
	return func(s *Session) {
		s.registry = registry
	}
}

// WithAuthor records author in the document metadata.
func WithAuthor(author string) Option {
	return func(s *Session) {
		s.cfg.Author = strings.TrimSpace(author)
	}
}

// WithClock overrides the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAutoValidate toggles re-validation after every schema change. It is on
// by default.
func WithAutoValidate(enabled bool) Option {
	return func(s *Session) {
		s.autoValidate = enabled
	}
}

// WithConfig applies file configuration. Options given after it win.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// Session orchestrates one editor instance.
type Session struct {
	store        *editor.Store
	renderer     preview.Renderer
	registry     *preview.Registry
	cfg          Config
	now          func() time.Time
	autoValidate bool

	mu  sync.Mutex
	doc document.Document
}

// New constructs a Session. Missing collaborators are initialised with the
// built-in implementations.
func New(options ...Option) (*Session, error) {
	s := &Session{
		now:          time.Now,
		autoValidate: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.store == nil {
		s.store = editor.New(editor.WithHistoryLimit(s.cfg.HistoryLimit))
	}
	if s.renderer == nil {
		if err := s.resolveRenderer(); err != nil {
			return nil, err
		}
	}

	s.doc = document.New(s.store.Schema(), document.WithAuthor(s.cfg.Author), document.WithClock(s.now))
	if s.autoValidate {
		s.Validate()
	}
	return s, nil
}

func (s *Session) resolveRenderer() error {
	registry := s.registry
	if registry == nil {
		var err error
		registry, err = preview.NewDefaultRegistry()
		if err != nil {
			return fmt.Errorf("studio: default renderers: %w", err)
		}
	}
	renderer, err := registry.Resolve(s.cfg.Renderer)
	if err != nil {
		return fmt.Errorf("studio: %w", err)
	}
	s.renderer = renderer
	return nil
}

// Store exposes the underlying history store.
func (s *Session) Store() *editor.Store {
	return s.store
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns a copy of the present editor state.
func (s *Session) State() editor.EditorState {
	return s.store.Present()
}

// Apply dispatches cmd and, when the schema may have changed, refreshes the
// diagnostics.
func (s *Session) Apply(cmd editor.Command) editor.HistoryState {
	if cmd == nil {
		return s.store.State()
	}
	state := s.store.Dispatch(cmd)
	if !s.autoValidate || !changesSchema(cmd) {
		return state
	}
	s.Validate()
	return s.store.State()
}

func changesSchema(cmd editor.Command) bool {
	if cmd.Structural() {
		return true
	}
	switch cmd.(type) {
	case editor.Undo, editor.Redo:
		return true
	}
	return false
}

// Validate runs the validator on the present schema and records the
// diagnostics.
func (s *Session) Validate() validation.Result {
	result := validation.ValidateSchema(s.store.Schema())
	s.store.SetDiagnostics(result.Diagnostics)
	return result
}

// Open replaces the session contents with doc. History is cleared and the
// session is considered saved.
func (s *Session) Open(doc document.Document) validation.Result {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	s.store.ReplaceSchema(doc.Schema)
	s.store.ClearHistory()
	s.store.SetDirty(false)
	return s.Validate()
}

// ImportText parses text from the code editor. A schema that parses is
// installed even when invalid; parse failures only update diagnostics.
func (s *Session) ImportText(text string) validation.Result {
	schema, result := validation.ParseSchemaText(text)
	if parseFailed(result) {
		s.store.SetDiagnostics(result.Diagnostics)
		return result
	}
	s.store.ReplaceSchema(schema)
	s.store.SetDiagnostics(result.Diagnostics)
	return result
}

func parseFailed(result validation.Result) bool {
	for _, diagnostic := range result.Diagnostics {
		if diagnostic.Code == validation.CodeParseError {
			return true
		}
	}
	return false
}

// SchemaText renders the present schema as indented JSON for the code editor.
func (s *Session) SchemaText() (string, error) {
	payload, err := json.MarshalIndent(s.store.Schema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("studio: encode schema: %w", err)
	}
	return string(payload), nil
}

// Document returns the envelope for the present schema with a fresh
// modification time.
func (s *Session) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc
	if doc.Metadata.Author == "" {
		doc.Metadata.Author = s.cfg.Author
	}
	return document.Touch(doc, s.store.Schema(), s.now())
}

// Export encodes the envelope in format. It refuses while error diagnostics
// are present.
func (s *Session) Export(format document.Format) ([]byte, error) {
	if err := s.exportable(); err != nil {
		return nil, err
	}
	return document.Encode(s.Document(), format)
}

// Save exports to path and marks the session saved.
func (s *Session) Save(path string) error {
	if err := s.exportable(); err != nil {
		return err
	}
	doc := s.Document()
	if err := document.Save(path, doc); err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.MarkSaved()
	return nil
}

func (s *Session) exportable() error {
	diagnostics := s.store.Present().Diagnostics
	if s.autoValidate {
		diagnostics = s.Validate().Diagnostics
	}
	if errs := validation.Filter(diagnostics, validation.SeverityError); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrExportBlocked, validation.Summary(errs))
	}
	return nil
}

// MarkSaved clears the unsaved-changes flag.
func (s *Session) MarkSaved() {
	s.store.SetDirty(false)
}

// Preview renders the present schema and diagnostics.
func (s *Session) Preview(ctx context.Context) ([]byte, error) {
	present := s.store.Present()
	return s.renderer.Render(ctx, present.Schema, present.Diagnostics, preview.RenderOptions{
		ThemeName:    s.cfg.Theme,
		ThemeVariant: s.cfg.Variant,
		HideWarnings: s.cfg.HideWarnings,
	})
}

// AddControl appends a control of kind and returns its identifier, or "" for
// an unknown kind.
func (s *Session) AddControl(kind formschema.ControlKind) string {
	state := s.Apply(editor.AddControl{Kind: kind})
	if !kind.Valid() {
		return ""
	}
	return state.Present.SelectedControlID
}
