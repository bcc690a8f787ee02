package validation

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// ValidateSchema checks the layout, every control and the uniqueness of
// control identifiers and field names.
func ValidateSchema(schema formschema.Schema) Result {
	var out []Diagnostic

	if !schema.Layout.Valid() {
		out = append(out, schemaError(CodeInvalidLayout, "layout",
			fmt.Sprintf("Layout must be one of vertical, horizontal or grid, got %q", schema.Layout)))
	}

	ids := make(map[string]struct{}, len(schema.Controls))
	names := make(map[string]struct{}, len(schema.Controls))
	for _, control := range schema.Controls {
		out = append(out, checkControl(control)...)

		if control.ID != "" {
			if _, seen := ids[control.ID]; seen {
				out = append(out, Diagnostic{
					Kind:      KindSchema,
					ControlID: control.ID,
					Field:     "id",
					Code:      CodeDuplicateID,
					Message:   fmt.Sprintf("Duplicate control ID %q", control.ID),
					Severity:  SeverityError,
				})
			}
			ids[control.ID] = struct{}{}
		}
		if control.Name != "" {
			if _, seen := names[control.Name]; seen {
				out = append(out, Diagnostic{
					Kind:      KindSchema,
					ControlID: control.ID,
					Field:     "name",
					Code:      CodeDuplicateName,
					Message:   fmt.Sprintf("Duplicate field name %q", control.Name),
					Severity:  SeverityError,
				})
			}
			names[control.Name] = struct{}{}
		}
	}

	return newResult(out)
}

// ValidateSchemaText parses text as a JSON schema document and validates it.
// A persisted envelope (an object with a "schema" member and no "controls")
// is unwrapped first. Any parse failure is reported as a single schema-level
// diagnostic.
func ValidateSchemaText(text string) Result {
	_, result := ParseSchemaText(text)
	return result
}

// ParseSchemaText is ValidateSchemaText that also returns the parsed schema.
// The schema is only meaningful when no parse_error diagnostic is present.
func ParseSchemaText(text string) (formschema.Schema, Result) {
	payload := []byte(text)

	var peek map[string]json.RawMessage
	if err := json.Unmarshal(payload, &peek); err != nil {
		return formschema.Schema{}, parseFailure(err)
	}
	if inner, ok := peek["schema"]; ok {
		if _, hasControls := peek["controls"]; !hasControls {
			payload = inner
		}
	}

	var schema formschema.Schema
	if err := json.Unmarshal(payload, &schema); err != nil {
		return formschema.Schema{}, parseFailure(err)
	}
	return schema, ValidateSchema(schema)
}

func parseFailure(err error) Result {
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "json: ")
	return newResult([]Diagnostic{schemaError(CodeParseError, "", "Invalid JSON: "+msg)})
}
