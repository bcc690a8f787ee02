// Package formbuilder is the top-level entry point of the form schema editor:
// it re-exports the data model, validator, history store and session types so
// simple callers need a single import.
package formbuilder

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/studio"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Schema is the root form document.
type Schema = formschema.Schema

// Control is a single form field or button.
type Control = formschema.Control

// ValidationRules constrains a control's value.
type ValidationRules = formschema.ValidationRules

// Diagnostic is a single validation finding.
type Diagnostic = validation.Diagnostic

// Result carries validation diagnostics.
type Result = validation.Result

// NewSchema returns an empty schema using the default layout.
func NewSchema() Schema {
	return formschema.NewSchema()
}

// Validate checks a whole schema.
func Validate(schema Schema) Result {
	return validation.ValidateSchema(schema)
}

// ValidateText parses and checks raw JSON from the code editor.
func ValidateText(text string) Result {
	return validation.ValidateSchemaText(text)
}

// ValidateControl checks one control against the others in the form.
func ValidateControl(control Control, existing []Control) Result {
	return validation.ValidateControl(control, existing)
}

// ValidateRules checks a rule set for a control kind.
func ValidateRules(rules ValidationRules, kind formschema.ControlKind) Result {
	return validation.ValidateRules(rules, kind)
}

// NewEditor constructs a history store.
func NewEditor(options ...editor.Option) *editor.Store {
	return editor.New(options...)
}

// NewSession constructs an editing session with the default renderer.
func NewSession(options ...studio.Option) (*studio.Session, error) {
	return studio.New(options...)
}

// ImportOpenAPI reads the OpenAPI document at path and maps operationID's
// request body to a schema.
func ImportOpenAPI(ctx context.Context, path, operationID string, options ...openapi.Option) (Schema, error) {
	raw, err := openapi.Load(ctx, openapi.SourceFromFile(path), nil)
	if err != nil {
		return Schema{}, err
	}
	return openapi.Import(ctx, raw, operationID, options...)
}

// EmbeddedTemplates exposes the built-in preview templates so callers can
// reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return preview.TemplatesFS()
}
