package preview

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const jsonRendererName = "json"

// JSON renders the code-mode view: the schema next to its diagnostics, the
// way the text editor shows them.
type JSON struct {
	indent string
}

var _ Renderer = (*JSON)(nil)

// NewJSON returns the JSON renderer. An empty indent produces compact
// output.
func NewJSON(indent string) *JSON {
	return &JSON{indent: indent}
}

func (r *JSON) Name() string {
	return jsonRendererName
}

func (r *JSON) ContentType() string {
	return "application/json"
}

type jsonView struct {
	Valid       bool                    `json:"valid"`
	Schema      formschema.Schema       `json:"schema"`
	Diagnostics []validation.Diagnostic `json:"diagnostics"`
}

// Render encodes the schema with the diagnostics that survive the options.
func (r *JSON) Render(ctx context.Context, schema formschema.Schema, diagnostics []validation.Diagnostic, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shown := diagnostics
	if options.HideWarnings {
		shown = validation.Filter(diagnostics, validation.SeverityError)
	}
	if shown == nil {
		shown = []validation.Diagnostic{}
	}
	view := jsonView{
		Valid:       !validation.HasErrors(diagnostics),
		Schema:      schema,
		Diagnostics: shown,
	}

	var (
		out []byte
		err error
	)
	if r.indent == "" {
		out, err = json.Marshal(view)
	} else {
		out, err = json.MarshalIndent(view, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("preview: encode json: %w", err)
	}
	return append(out, '\n'), nil
}
