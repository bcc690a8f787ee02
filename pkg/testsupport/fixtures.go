package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ContactSchema returns a small valid form used across package tests.
func ContactSchema() formschema.Schema {
	return formschema.Schema{
		Title:       "Contact us",
		Description: "We reply within two working days.",
		Layout:      formschema.LayoutVertical,
		Controls: []formschema.Control{
			{
				ID:          "ctrl_name",
				Type:        formschema.KindText,
				Label:       "Full name",
				Name:        "full_name",
				Placeholder: "Jane Doe",
				Required:    true,
				Validation:  &formschema.ValidationRules{MinLength: formschema.Int(2), MaxLength: formschema.Int(80)},
			},
			{
				ID:       "ctrl_email",
				Type:     formschema.KindEmail,
				Label:    "Email",
				Name:     "email",
				Required: true,
			},
			{
				ID:    "ctrl_topic",
				Type:  formschema.KindSelect,
				Label: "Topic",
				Name:  "topic",
				Options: []formschema.SelectOption{
					{Label: "Sales", Value: "sales"},
					{Label: "Support", Value: "support"},
				},
			},
		},
	}
}

// MustLoadSchema reads a schema or document fixture (JSON or YAML by
// extension).
func MustLoadSchema(t *testing.T, path string) formschema.Schema {
	t.Helper()

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// LoadSchema is MustLoadSchema for callers managing setup outside of
// *testing.T.
func LoadSchema(path string) (formschema.Schema, error) {
	if path == "" {
		return formschema.Schema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return formschema.Schema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	schema, err := document.DecodeSchema(data, document.FormatFromPath(path))
	if err != nil {
		return formschema.Schema{}, fmt.Errorf("testsupport: decode schema: %w", err)
	}
	return schema, nil
}

// DiffSchema returns a diff string if the schemas differ. Nil and empty
// slices compare equal.
func DiffSchema(want, got formschema.Schema) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// DiffDiagnostics compares diagnostics ignoring message wording, which is
// free to change.
func DiffDiagnostics(want, got []validation.Diagnostic) string {
	return cmp.Diff(want, got,
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(validation.Diagnostic{}, "Message"),
	)
}

// Sequence returns a deterministic identifier source: prefix_1, prefix_2, ...
func Sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "_" + strconv.Itoa(n)
	}
}

// FixedClock returns a clock that always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
