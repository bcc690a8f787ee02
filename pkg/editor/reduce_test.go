package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

func TestReduce_AddWithoutIDIsIgnored(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	next := Reduce(state, AddControl{Kind: formschema.KindText})
	if diff := cmp.Diff(state, next); diff != "" {
		t.Fatalf("expected no-op (-want +got):\n%s", diff)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	state = Reduce(state, AddControl{Kind: formschema.KindText, ID: "a"})
	state = Reduce(state, AddControl{Kind: formschema.KindText, ID: "b"})
	snapshot := state.Clone()

	_ = Reduce(state, RemoveControl{ID: "a"})
	_ = Reduce(state, MoveControl{ID: "b", Index: 0})
	_ = Reduce(state, Undo{})
	_ = Reduce(state, UpdateControl{ID: "b", Control: formschema.Control{Label: "x"}})

	if diff := cmp.Diff(snapshot, state); diff != "" {
		t.Fatalf("input state mutated (-want +got):\n%s", diff)
	}
}

func TestReduce_MoveControlClamps(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	for _, id := range []string{"a", "b", "c"} {
		state = Reduce(state, AddControl{Kind: formschema.KindText, ID: id})
	}

	state = Reduce(state, MoveControl{ID: "a", Index: 99})
	got := make([]string, 0, 3)
	for _, control := range state.Present.Schema.Controls {
		got = append(got, control.ID)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_ReplaceSchemaDropsStaleSelection(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	state = Reduce(state, AddControl{Kind: formschema.KindText, ID: "a"})

	state = Reduce(state, ReplaceSchema{Schema: formschema.NewSchema()})
	if state.Present.SelectedControlID != "" {
		t.Fatalf("expected selection cleared, got %q", state.Present.SelectedControlID)
	}
	if !state.Present.Dirty || len(state.Past) != 2 || state.Future != nil {
		t.Fatalf("unexpected history after replace: %#v", state)
	}
}

func TestReduce_EmptyMetadataUpdateIsIgnored(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	next := Reduce(state, UpdateMetadata{})
	if next.CanUndo() {
		t.Fatalf("empty metadata update must not record history")
	}
}

func TestReduce_InvalidModeIsIgnored(t *testing.T) {
	state := NewHistory(NewEditorState(formschema.NewSchema()))
	next := Reduce(state, SetMode{Mode: "wysiwyg"})
	if next.Present.Mode != ModeVisual {
		t.Fatalf("unexpected mode %q", next.Present.Mode)
	}
}
