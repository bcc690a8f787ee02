package studio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/studio"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newSession(t *testing.T, opts ...studio.Option) *studio.Session {
	t.Helper()
	base := []studio.Option{studio.WithClock(testsupport.FixedClock(fixedNow)), studio.WithAuthor("Ada")}
	session, err := studio.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func TestSession_DefaultsToEmptyValidSchema(t *testing.T) {
	session := newSession(t)
	state := session.State()
	if len(state.Schema.Controls) != 0 || state.Dirty {
		t.Fatalf("unexpected initial state %+v", state)
	}
	if len(state.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", state.Diagnostics)
	}

	out, err := session.Preview(context.Background())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(string(out), "fb-form__empty") {
		t.Fatalf("expected empty state in preview\n%s", out)
	}
}

func TestSession_ApplyRefreshesDiagnostics(t *testing.T) {
	session := newSession(t)

	id := session.AddControl(formschema.KindText)
	if id == "" {
		t.Fatalf("expected a control id")
	}
	if diags := session.State().Diagnostics; len(diags) != 0 {
		t.Fatalf("default control should be valid, got %+v", diags)
	}

	control, _ := session.State().Schema.Control(id)
	control.Label = ""
	session.Apply(editor.UpdateControl{ID: id, Control: control})

	state := session.State()
	if !validation.HasErrors(state.Diagnostics) {
		t.Fatalf("expected label error after update, got %+v", state.Diagnostics)
	}
	if got := state.Diagnostics[0]; got.ControlID != id || got.Field != "label" {
		t.Fatalf("unexpected diagnostic %+v", got)
	}

	if _, err := session.Export(document.FormatJSON); !errors.Is(err, studio.ErrExportBlocked) {
		t.Fatalf("expected ErrExportBlocked, got %v", err)
	}

	session.Apply(editor.Undo{})
	if diags := session.State().Diagnostics; len(diags) != 0 {
		t.Fatalf("undo should restore a valid schema, got %+v", diags)
	}

	payload, err := session.Export(document.FormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	doc, err := document.Decode(payload, document.FormatJSON)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Metadata.Author != "Ada" || !doc.Metadata.ModifiedAt.Equal(fixedNow) {
		t.Fatalf("unexpected metadata %+v", doc.Metadata)
	}
	if diff := cmp.Diff(session.State().Schema, doc.Schema, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("exported schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AutoValidateDisabled(t *testing.T) {
	session := newSession(t, studio.WithAutoValidate(false))
	id := session.AddControl(formschema.KindSelect)

	control, _ := session.State().Schema.Control(id)
	control.Options = nil
	session.Apply(editor.UpdateControl{ID: id, Control: control})
	if diags := session.State().Diagnostics; len(diags) != 0 {
		t.Fatalf("diagnostics should not refresh automatically, got %+v", diags)
	}

	result := session.Validate()
	if result.Valid {
		t.Fatalf("expected select without options to be invalid")
	}
	if diff := cmp.Diff(result.Diagnostics, session.State().Diagnostics); diff != "" {
		t.Fatalf("stored diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ImportText(t *testing.T) {
	session := newSession(t)
	session.AddControl(formschema.KindEmail)
	before := session.State().Schema

	result := session.ImportText(`{"title": "Broken",`)
	if result.Valid || len(result.Diagnostics) != 1 || result.Diagnostics[0].Code != validation.CodeParseError {
		t.Fatalf("expected a single parse error, got %+v", result)
	}
	if diff := cmp.Diff(before, session.State().Schema); diff != "" {
		t.Fatalf("parse failure must not change the schema (-want +got):\n%s", diff)
	}

	text := `{"title": "Dupes", "layout": "vertical", "controls": [
		{"id": "a", "type": "text", "label": "A", "name": "same"},
		{"id": "b", "type": "text", "label": "B", "name": "same"}
	]}`
	result = session.ImportText(text)
	if result.Valid {
		t.Fatalf("expected duplicate names to be invalid")
	}
	state := session.State()
	if state.Schema.Title != "Dupes" || len(state.Schema.Controls) != 2 {
		t.Fatalf("invalid but parseable text should still be installed, got %+v", state.Schema)
	}
	if !validation.HasErrors(state.Diagnostics) {
		t.Fatalf("expected diagnostics to be recorded")
	}
	if !session.Store().CanUndo() {
		t.Fatalf("import should be undoable")
	}
}

func TestSession_SchemaText(t *testing.T) {
	session := newSession(t)
	session.Apply(editor.UpdateMetadata{Title: formschema.String("Feedback")})

	text, err := session.SchemaText()
	if err != nil {
		t.Fatalf("schema text: %v", err)
	}
	if !strings.Contains(text, `"title": "Feedback"`) {
		t.Fatalf("unexpected schema text\n%s", text)
	}
	if result := validation.ValidateSchemaText(text); !result.Valid {
		t.Fatalf("schema text should validate, got %+v", result.Diagnostics)
	}
}

func TestSession_SaveAndOpen(t *testing.T) {
	session := newSession(t)
	session.AddControl(formschema.KindNumber)
	if !session.State().Dirty {
		t.Fatalf("expected dirty session after edit")
	}

	path := filepath.Join(t.TempDir(), "forms", "survey.yaml")
	if err := session.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if session.State().Dirty {
		t.Fatalf("save should clear dirty flag")
	}

	doc, err := document.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	reopened := newSession(t)
	result := reopened.Open(doc)
	if !result.Valid {
		t.Fatalf("expected reopened document to validate, got %+v", result.Diagnostics)
	}
	if reopened.State().Dirty || reopened.Store().CanUndo() {
		t.Fatalf("open should leave a clean session without history")
	}
	if diff := cmp.Diff(session.State().Schema, reopened.State().Schema, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("reopened schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ConfigDrivesStoreAndRenderer(t *testing.T) {
	cfg := studio.Config{HistoryLimit: 2, Renderer: "html", Author: "Config"}
	session := newSession(t, studio.WithConfig(cfg))
	for i := 0; i < 4; i++ {
		session.AddControl(formschema.KindText)
	}
	if got := len(session.Store().State().Past); got != 2 {
		t.Fatalf("expected history capped at 2, got %d", got)
	}

	if _, err := studio.New(studio.WithConfig(studio.Config{Renderer: "pdf"})); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

type recordingRenderer struct {
	options preview.RenderOptions
	schema  formschema.Schema
}

func (r *recordingRenderer) Name() string        { return "recording" }
func (r *recordingRenderer) ContentType() string { return "text/plain" }
func (r *recordingRenderer) Render(_ context.Context, schema formschema.Schema, _ []validation.Diagnostic, opts preview.RenderOptions) ([]byte, error) {
	r.schema = schema
	r.options = opts
	return []byte("ok"), nil
}

func TestSession_PreviewUsesConfig(t *testing.T) {
	renderer := &recordingRenderer{}
	session := newSession(t,
		studio.WithConfig(studio.Config{Theme: "acme", Variant: "dark", HideWarnings: true}),
		studio.WithRenderer(renderer),
	)
	session.AddControl(formschema.KindCheckbox)

	out, err := session.Preview(context.Background())
	if err != nil || string(out) != "ok" {
		t.Fatalf("preview: %q %v", out, err)
	}
	want := preview.RenderOptions{ThemeName: "acme", ThemeVariant: "dark", HideWarnings: true}
	if diff := cmp.Diff(want, renderer.options); diff != "" {
		t.Fatalf("render options mismatch (-want +got):\n%s", diff)
	}
	if len(renderer.schema.Controls) != 1 {
		t.Fatalf("expected present schema to be rendered")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "studio.yaml")
	if err := os.WriteFile(yamlPath, []byte("author: Grace\nhistoryLimit: 50\ntheme: acme\nvariant: dark\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := studio.LoadConfig(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	want := studio.Config{Author: "Grace", HistoryLimit: 50, Theme: "acme", Variant: "dark"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("yaml config mismatch (-want +got):\n%s", diff)
	}

	jsonPath := filepath.Join(dir, "studio.json")
	if err := os.WriteFile(jsonPath, []byte(`{"renderer": " html ", "hideWarnings": true}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	cfg, err = studio.LoadConfig(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if cfg.Renderer != "html" || !cfg.HideWarnings {
		t.Fatalf("unexpected json config %+v", cfg)
	}

	if _, err := studio.ParseConfig([]byte("historyLimit: -1"), ".yml"); err == nil {
		t.Fatalf("expected negative history limit to be rejected")
	}
	if _, err := studio.LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestSession_JSONPreviewFromConfig(t *testing.T) {
	session := newSession(t, studio.WithConfig(studio.Config{Renderer: "json"}))
	session.AddControl(formschema.KindSelect)

	out, err := session.Preview(context.Background())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{`"valid": true`, `"type": "select"`, `"diagnostics": []`} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %s in json preview\n%s", want, out)
		}
	}
}

func TestSession_ApplyNilCommand(t *testing.T) {
	session := newSession(t)
	session.AddControl(formschema.KindText)
	before := session.Store().State()

	after := session.Apply(nil)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("nil command changed history (-want +got):\n%s", diff)
	}
}

func TestSession_BrowserOnlyPatternDoesNotBlockExport(t *testing.T) {
	session := newSession(t)
	id := session.AddControl(formschema.KindPassword)
	control := session.State().Schema.Controls[0]
	control.Validation = &formschema.ValidationRules{Pattern: formschema.String("^(?=.*[A-Z]).{8,}$")}
	session.Apply(editor.UpdateControl{ID: id, Control: control})

	warnings := validation.Filter(session.State().Diagnostics, validation.SeverityWarning)
	if len(warnings) != 1 || warnings[0].Code != validation.CodeUnsupportedPattern {
		t.Fatalf("expected one unsupported-pattern warning, got %#v", session.State().Diagnostics)
	}
	if _, err := session.Export(document.FormatJSON); err != nil {
		t.Fatalf("export: %v", err)
	}
}
