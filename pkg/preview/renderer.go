package preview

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Renderer turns a schema and its diagnostics into a preview. The schema is
// read-only; renderers decide how errors and empty states are shown.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema formschema.Schema, diagnostics []validation.Diagnostic, options RenderOptions) ([]byte, error)
}

// RenderOptions carries per-call overrides.
type RenderOptions struct {
	// ThemeName and ThemeVariant override the renderer's default theme.
	ThemeName    string
	ThemeVariant string
	// HideWarnings suppresses warning and info diagnostics.
	HideWarnings bool
}
