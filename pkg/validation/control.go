package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// ValidateControl checks a single control and, when existing is non-empty,
// reports identifier and field-name collisions against those controls. Each
// collision yields its own diagnostic whose Field is "id" or "name".
func ValidateControl(control formschema.Control, existing []formschema.Control) Result {
	out := checkControl(control)

	for _, other := range existing {
		if control.ID != "" && other.ID == control.ID {
			out = append(out, controlError(control.ID, CodeDuplicateID, "id",
				fmt.Sprintf("Control ID %q is already in use", control.ID)))
			break
		}
	}
	for _, other := range existing {
		if control.Name != "" && other.Name == control.Name {
			out = append(out, controlError(control.ID, CodeDuplicateName, "name",
				fmt.Sprintf("Field name %q is already in use", control.Name)))
			break
		}
	}

	return newResult(out)
}

// checkControl runs the structural checks shared by ValidateControl and
// ValidateSchema.
func checkControl(control formschema.Control) []Diagnostic {
	var out []Diagnostic
	id := control.ID

	if strings.TrimSpace(control.ID) == "" {
		out = append(out, controlError(id, CodeRequired, "id", "Control ID is required"))
	}
	if !control.Type.Valid() {
		out = append(out, controlError(id, CodeInvalidType, "type",
			fmt.Sprintf("Unknown control type %q", control.Type)))
	}
	if strings.TrimSpace(control.Label) == "" {
		out = append(out, controlError(id, CodeRequired, "label", "Label is required"))
	}
	switch {
	case strings.TrimSpace(control.Name) == "":
		out = append(out, controlError(id, CodeRequired, "name", "Field name is required"))
	case !formschema.ValidName(control.Name):
		out = append(out, controlError(id, CodePattern, "name",
			"Field name must start with a letter or underscore and contain only letters, numbers and underscores"))
	}

	if control.Type == formschema.KindSelect {
		if len(control.Options) == 0 {
			out = append(out, controlError(id, CodeOptionsRequired, "options",
				"Select controls must have at least one option"))
		}
	} else if len(control.Options) > 0 {
		out = append(out, controlError(id, CodeOptionsForbidden, "options",
			fmt.Sprintf("Only select controls can have options, not %s", control.Type)))
	}

	if control.Validation != nil {
		for _, diagnostic := range checkRules(*control.Validation, control.Type) {
			diagnostic.ControlID = id
			out = append(out, diagnostic)
		}
	}

	return out
}
