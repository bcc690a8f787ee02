package formschema

import (
	"regexp"
	"strconv"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NamePattern is the expression field names must satisfy.
const NamePattern = `^[A-Za-z_][A-Za-z0-9_]*$`

// ValidName reports whether name is identifier-like: a letter or underscore
// followed by letters, digits or underscores.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

var defaultPlaceholders = map[ControlKind]string{
	KindText:     "Enter text",
	KindEmail:    "name@example.com",
	KindPassword: "Enter password",
	KindTextarea: "Enter a longer answer",
	KindNumber:   "0",
}

// DefaultOptions returns the placeholder entries a new select control starts
// with.
func DefaultOptions() []SelectOption {
	return []SelectOption{
		{Label: "Option 1", Value: "option_1"},
		{Label: "Option 2", Value: "option_2"},
	}
}

// DefaultControl builds a control of the given kind with kind-appropriate
// defaults. The field name is derived from the kind and made unique against
// existing.
func DefaultControl(kind ControlKind, id string, existing []Control) Control {
	control := Control{
		ID:          id,
		Type:        kind,
		Label:       kind.Label(),
		Name:        uniqueName(string(kind), existing),
		Placeholder: defaultPlaceholders[kind],
	}
	switch kind {
	case KindSelect:
		control.Options = DefaultOptions()
	case KindButton:
		control.Label = "Submit"
	}
	return control
}

func uniqueName(base string, existing []Control) string {
	if !ValidName(base) {
		base = "field"
	}
	taken := make(map[string]struct{}, len(existing))
	for _, control := range existing {
		taken[control.Name] = struct{}{}
	}
	for n := 1; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}
