package console_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/console"
	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/studio"
)

// scriptedDriver replays canned answers and reports ErrAborted once a queue
// runs dry. Checks run like the terminal would run them unless skipChecks is
// set.
type scriptedDriver struct {
	asks       []string
	composes   []string
	confirms   []bool
	chooses    []int
	said       []string
	prompts    []string
	skipChecks bool
}

func (s *scriptedDriver) answer(q console.Question, queue *[]string) (string, error) {
	s.prompts = append(s.prompts, q.Message)
	if len(*queue) == 0 {
		return "", console.ErrAborted
	}
	val := (*queue)[0]
	*queue = (*queue)[1:]
	if q.Check != nil && !s.skipChecks {
		if err := q.Check(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *scriptedDriver) Ask(_ context.Context, q console.Question) (string, error) {
	return s.answer(q, &s.asks)
}

func (s *scriptedDriver) Compose(_ context.Context, q console.Question) (string, error) {
	return s.answer(q, &s.composes)
}

func (s *scriptedDriver) Confirm(_ context.Context, message string, _ bool) (bool, error) {
	s.prompts = append(s.prompts, message)
	if len(s.confirms) == 0 {
		return false, console.ErrAborted
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *scriptedDriver) Choose(_ context.Context, c console.Choice) (int, error) {
	s.prompts = append(s.prompts, c.Message)
	if len(s.chooses) == 0 {
		return -1, console.ErrAborted
	}
	val := s.chooses[0]
	s.chooses = s.chooses[1:]
	return val, nil
}

func (s *scriptedDriver) Say(_ context.Context, message string) error {
	s.said = append(s.said, message)
	return nil
}

func menu(action console.Action) int {
	for i, candidate := range console.Actions() {
		if candidate == action {
			return i
		}
	}
	return -1
}

func newSession(t *testing.T) *studio.Session {
	t.Helper()
	session, err := studio.New(studio.WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func TestConsole_BuildAndSave(t *testing.T) {
	session := newSession(t)
	path := filepath.Join(t.TempDir(), "signup.json")
	driver := &scriptedDriver{
		chooses: []int{
			menu(console.ActionAdd), 0,
			menu(console.ActionEdit), 0,
			menu(console.ActionMetadata), 2,
			menu(console.ActionSave),
			menu(console.ActionQuit),
		},
		asks: []string{
			"Full name", "full_name", "Jane", "2", "40", "", "",
			"Signup",
		},
		confirms: []bool{true},
		composes: []string{"Join us"},
	}

	c, err := console.New(session, console.WithPromptDriver(driver), console.WithSavePath(path))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	state := session.State()
	if state.Dirty {
		t.Fatalf("expected saved session to be clean")
	}
	if state.Schema.Title != "Signup" || state.Schema.Description != "Join us" || state.Schema.Layout != formschema.LayoutGrid {
		t.Fatalf("unexpected metadata %+v", state.Schema)
	}
	if len(state.Schema.Controls) != 1 {
		t.Fatalf("expected one control, got %d", len(state.Schema.Controls))
	}
	got := state.Schema.Controls[0]
	want := formschema.Control{
		ID:          got.ID,
		Type:        formschema.KindText,
		Label:       "Full name",
		Name:        "full_name",
		Placeholder: "Jane",
		Required:    true,
		Validation:  &formschema.ValidationRules{MinLength: formschema.Int(2), MaxLength: formschema.Int(40)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("control mismatch (-want +got):\n%s", diff)
	}

	doc, err := document.Load(path)
	if err != nil {
		t.Fatalf("load saved document: %v", err)
	}
	if diff := cmp.Diff(state.Schema, doc.Schema); diff != "" {
		t.Fatalf("saved schema mismatch (-want +got):\n%s", diff)
	}
	if last := driver.said[len(driver.said)-1]; last != "Saved "+path {
		t.Fatalf("unexpected final message %q", last)
	}
}

func TestConsole_UndoRedoAndValidate(t *testing.T) {
	session := newSession(t)
	driver := &scriptedDriver{
		chooses: []int{
			menu(console.ActionUndo),
			menu(console.ActionAdd), 5,
			menu(console.ActionUndo),
			menu(console.ActionRedo),
			menu(console.ActionValidate),
		},
	}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}

	if err := c.Run(context.Background()); !errors.Is(err, console.ErrAborted) {
		t.Fatalf("expected ErrAborted once the script ends, got %v", err)
	}
	if driver.said[0] != "Nothing to undo" {
		t.Fatalf("expected empty undo notice, got %q", driver.said[0])
	}
	controls := session.State().Schema.Controls
	if len(controls) != 1 || controls[0].Type != formschema.KindSelect {
		t.Fatalf("redo should restore the select control, got %+v", controls)
	}
	if last := driver.said[len(driver.said)-1]; last != "Form is valid" {
		t.Fatalf("unexpected validation message %q", last)
	}
}

func TestConsole_EditJSONReportsDiagnostics(t *testing.T) {
	session := newSession(t)
	driver := &scriptedDriver{
		chooses:  []int{menu(console.ActionEditJSON)},
		composes: []string{`{"title": "T", "layout": "diagonal", "controls": []}`},
	}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	_ = c.Run(context.Background())

	state := session.State()
	if state.Schema.Title != "T" {
		t.Fatalf("expected parsed schema to be installed, got %+v", state.Schema)
	}
	if string(state.Mode) != "visual" {
		t.Fatalf("expected mode to return to visual, got %q", state.Mode)
	}
	found := false
	for _, info := range driver.said {
		if strings.HasPrefix(info, "error:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an error diagnostic to be reported, got %v", driver.said)
	}
}

func TestConsole_ErrorsAreReportedAndLoopContinues(t *testing.T) {
	session := newSession(t)
	driver := &scriptedDriver{
		chooses: []int{menu(console.ActionRemove), menu(console.ActionQuit)},
	}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.said) != 1 || !strings.Contains(driver.said[0], console.ErrNoControls.Error()) {
		t.Fatalf("expected no-controls notice, got %v", driver.said)
	}
}

func TestConsole_QuitConfirmsWhenDirty(t *testing.T) {
	session := newSession(t)
	session.AddControl(formschema.KindCheckbox)
	driver := &scriptedDriver{
		chooses:  []int{menu(console.ActionQuit), menu(console.ActionQuit)},
		confirms: []bool{false, true},
	}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.confirms) != 0 || len(driver.chooses) != 0 {
		t.Fatalf("expected both quit prompts to be consumed")
	}
}

func TestNewRequiresSession(t *testing.T) {
	if _, err := console.New(nil); err == nil {
		t.Fatalf("expected error for nil session")
	}
}

func TestConsole_RejectsNonFiniteBounds(t *testing.T) {
	for _, skipChecks := range []bool{false, true} {
		session := newSession(t)
		session.AddControl(formschema.KindNumber)
		driver := &scriptedDriver{
			chooses:    []int{menu(console.ActionEdit), 0},
			asks:       []string{"Age", "age", "", "NaN"},
			confirms:   []bool{false},
			skipChecks: skipChecks,
		}
		c, err := console.New(session, console.WithPromptDriver(driver))
		if err != nil {
			t.Fatalf("new console: %v", err)
		}
		if err := c.Run(context.Background()); !errors.Is(err, console.ErrAborted) {
			t.Fatalf("expected ErrAborted once the script ends, got %v", err)
		}

		if len(driver.said) != 1 || !strings.Contains(driver.said[0], "enter a finite number") {
			t.Fatalf("skipChecks=%v: expected a finite-number notice, got %v", skipChecks, driver.said)
		}
		control := session.State().Schema.Controls[0]
		if control.Validation != nil || control.Label == "Age" {
			t.Fatalf("skipChecks=%v: control must be left untouched, got %+v", skipChecks, control)
		}
		if _, err := session.Export(document.FormatJSON); err != nil {
			t.Fatalf("export: %v", err)
		}
	}
}

func TestConsole_EditSelectOptions(t *testing.T) {
	session := newSession(t)
	session.AddControl(formschema.KindSelect)
	driver := &scriptedDriver{
		chooses: []int{
			menu(console.ActionEdit), 0,
			menu(console.ActionEdit), 0,
		},
		asks:     []string{"Topic", "topic", "Topic", "topic"},
		confirms: []bool{true, true},
		composes: []string{"A=a\nB=a", "Sales=sales\n\nSupport"},
	}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	if err := c.Run(context.Background()); !errors.Is(err, console.ErrAborted) {
		t.Fatalf("expected ErrAborted once the script ends, got %v", err)
	}

	if len(driver.said) != 1 || !strings.Contains(driver.said[0], `option value "a" is repeated`) {
		t.Fatalf("expected a repeated-value notice, got %v", driver.said)
	}
	got := session.State().Schema.Controls[0]
	want := formschema.Control{
		ID:       got.ID,
		Type:     formschema.KindSelect,
		Label:    "Topic",
		Name:     "topic",
		Required: true,
		Options: []formschema.SelectOption{
			{Label: "Sales", Value: "sales"},
			{Label: "Support", Value: "Support"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("control mismatch (-want +got):\n%s", diff)
	}
}

func TestConsole_AddUsesKindPalette(t *testing.T) {
	session := newSession(t)
	driver := &scriptedDriver{chooses: []int{menu(console.ActionAdd), len(formschema.Kinds()) - 1}}
	c, err := console.New(session, console.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	_ = c.Run(context.Background())

	controls := session.State().Schema.Controls
	if len(controls) != 1 || controls[0].Type != formschema.KindButton {
		t.Fatalf("expected a button control, got %+v", controls)
	}
	if !strings.HasPrefix(driver.said[0], "Added "+formschema.KindButton.Label()) {
		t.Fatalf("unexpected notice %q", driver.said[0])
	}
}
