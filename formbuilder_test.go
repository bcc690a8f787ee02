package formbuilder_test

import (
	"context"
	"io/fs"
	"testing"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

func TestFacade_EditValidateImport(t *testing.T) {
	store := formbuilder.NewEditor()
	id := store.AddControl(formschema.KindText)
	if id == "" {
		t.Fatalf("expected control id")
	}
	if result := formbuilder.Validate(store.Schema()); !result.Valid {
		t.Fatalf("expected valid schema, got %+v", result.Diagnostics)
	}
	if result := formbuilder.ValidateText(`{"layout": "grid", "controls": []}`); !result.Valid {
		t.Fatalf("expected valid text, got %+v", result.Diagnostics)
	}

	schema, err := formbuilder.ImportOpenAPI(context.Background(), "pkg/openapi/testdata/contacts.yaml", "createContact")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(schema.Controls) == 0 {
		t.Fatalf("expected imported controls")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(formbuilder.EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected embedded form template: %v", err)
	}
}
