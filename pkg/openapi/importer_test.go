package openapi_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/contacts.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func TestOperations(t *testing.T) {
	ids, err := openapi.Operations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := []string{"createContact", "listContacts", "put:/contacts/{id}/notes"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_MapsRequestBody(t *testing.T) {
	schema, err := openapi.Import(context.Background(), loadFixture(t), "createContact",
		openapi.WithIDGenerator(testsupport.Sequence("ctrl")),
		openapi.WithSubmitButton("Save contact"),
	)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	want := formschema.Schema{
		Title:       "Create contact",
		Description: "Register a new contact.",
		Layout:      formschema.LayoutVertical,
		Controls: []formschema.Control{
			{
				ID: "ctrl_1", Type: formschema.KindNumber, Label: "Age", Name: "age",
				Validation: &formschema.ValidationRules{Min: formschema.Float(18), Max: formschema.Float(120)},
			},
			{ID: "ctrl_2", Type: formschema.KindEmail, Label: "Email", Name: "email", Required: true},
			{
				ID: "ctrl_3", Type: formschema.KindText, Label: "Full name", Name: "full_name", Required: true,
				Validation: &formschema.ValidationRules{MinLength: formschema.Int(2), MaxLength: formschema.Int(80)},
			},
			{
				ID: "ctrl_4", Type: formschema.KindText, Label: "Phone number", Name: "phone_number",
				Validation: &formschema.ValidationRules{Pattern: formschema.String("^[0-9+ ]+$")},
			},
			{ID: "ctrl_5", Type: formschema.KindPassword, Label: "Secret", Name: "secret"},
			{ID: "ctrl_6", Type: formschema.KindCheckbox, Label: "Subscribe", Name: "subscribe"},
			{
				ID: "ctrl_7", Type: formschema.KindSelect, Label: "Topic", Name: "topic",
				Options: []formschema.SelectOption{{Label: "Sales", Value: "sales"}, {Label: "Support", Value: "support"}},
			},
			{ID: "ctrl_8", Type: formschema.KindButton, Label: "Save contact", Name: "submit"},
		},
	}
	if diff := cmp.Diff(want, schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}

	if result := validation.ValidateSchema(schema); !result.Valid {
		t.Fatalf("imported schema should validate, got %+v", result.Diagnostics)
	}
}

func TestImport_FallbackIDAndTextarea(t *testing.T) {
	schema, err := openapi.Import(context.Background(), loadFixture(t), "put:/contacts/{id}/notes",
		openapi.WithIDGenerator(testsupport.Sequence("ctrl")),
		openapi.WithLayout(formschema.LayoutGrid),
	)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if schema.Layout != formschema.LayoutGrid {
		t.Fatalf("expected grid layout, got %q", schema.Layout)
	}
	if len(schema.Controls) != 1 || schema.Controls[0].Type != formschema.KindTextarea {
		t.Fatalf("expected a single textarea, got %+v", schema.Controls)
	}
	if schema.Title == "" {
		t.Fatalf("expected a title derived from the operation id")
	}
}

func TestImport_Errors(t *testing.T) {
	raw := loadFixture(t)
	ctx := context.Background()

	if _, err := openapi.Import(ctx, raw, "deleteContact"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := openapi.Import(ctx, raw, "listContacts"); !errors.Is(err, openapi.ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}
	if _, err := openapi.Import(ctx, nil, "createContact"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := openapi.Import(ctx, []byte("{not yaml"), "createContact"); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := openapi.Import(cancelled, raw, "createContact"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	raw, err := openapi.Load(ctx, openapi.SourceFromFile("testdata/contacts.yaml"), nil)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected file contents")
	}

	files := fstest.MapFS{"specs/api.yaml": {Data: raw}}
	fromFS, err := openapi.Load(ctx, openapi.SourceFromFS("specs/api.yaml"), files)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff(raw, fromFS); diff != "" {
		t.Fatalf("fs payload mismatch (-want +got):\n%s", diff)
	}

	if _, err := openapi.Load(ctx, openapi.SourceFromFS("specs/api.yaml"), nil); err == nil {
		t.Fatalf("expected error without filesystem")
	}
	if _, err := openapi.Load(ctx, openapi.SourceFromFile("testdata/missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
