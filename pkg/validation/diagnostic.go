package validation

import "strings"

// Kind identifies which part of the document a diagnostic refers to.
type Kind string

const (
	KindSchema     Kind = "schema"
	KindControl    Kind = "control"
	KindValidation Kind = "validation"
)

// Severity ranks diagnostics. Only SeverityError makes a result invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic codes.
const (
	CodeParseError         = "parse_error"
	CodeInvalidType        = "invalid_type"
	CodeInvalidLayout      = "invalid_layout"
	CodeRequired           = "required"
	CodePattern            = "pattern"
	CodeDuplicateID        = "duplicate_id"
	CodeDuplicateName      = "duplicate_name"
	CodeOptionsRequired    = "options_required"
	CodeOptionsForbidden   = "options_forbidden"
	CodeRange              = "range"
	CodeInvalidPattern     = "invalid_pattern"
	CodeUnsupportedPattern = "unsupported_pattern"
	CodeNegativeLength     = "negative_length"
	CodeOutOfScope         = "out_of_scope"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Kind      Kind     `json:"type"`
	ControlID string   `json:"controlId,omitempty"`
	Field     string   `json:"field,omitempty"`
	Code      string   `json:"code,omitempty"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// Result carries the outcome of a validation call. Valid is false when at
// least one diagnostic has error severity.
type Result struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func newResult(diagnostics []Diagnostic) Result {
	return Result{
		Valid:       !hasErrors(diagnostics),
		Diagnostics: diagnostics,
	}
}

// Errors returns the error-severity diagnostics.
func (r Result) Errors() []Diagnostic {
	return Filter(r.Diagnostics, SeverityError)
}

// Warnings returns the warning-severity diagnostics.
func (r Result) Warnings() []Diagnostic {
	return Filter(r.Diagnostics, SeverityWarning)
}

// ForControl returns diagnostics attached to the given control id.
func (r Result) ForControl(id string) []Diagnostic {
	var out []Diagnostic
	for _, diagnostic := range r.Diagnostics {
		if diagnostic.ControlID == id {
			out = append(out, diagnostic)
		}
	}
	return out
}

// Filter returns the diagnostics with the given severity.
func Filter(diagnostics []Diagnostic, severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, diagnostic := range diagnostics {
		if diagnostic.Severity == severity {
			out = append(out, diagnostic)
		}
	}
	return out
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diagnostics []Diagnostic) bool {
	return hasErrors(diagnostics)
}

func hasErrors(diagnostics []Diagnostic) bool {
	for _, diagnostic := range diagnostics {
		if diagnostic.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Summary joins the messages of the supplied diagnostics, e.g. for error
// values surfaced by callers that refuse invalid documents.
func Summary(diagnostics []Diagnostic) string {
	if len(diagnostics) == 0 {
		return ""
	}
	const maxShown = 3
	parts := make([]string, 0, maxShown+1)
	for idx, diagnostic := range diagnostics {
		if idx == maxShown {
			parts = append(parts, "...")
			break
		}
		msg := strings.TrimSpace(diagnostic.Message)
		if diagnostic.ControlID != "" {
			msg = diagnostic.ControlID + ": " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// CloneDiagnostics copies a diagnostic slice, preserving nil.
func CloneDiagnostics(diagnostics []Diagnostic) []Diagnostic {
	if diagnostics == nil {
		return nil
	}
	return append(make([]Diagnostic, 0, len(diagnostics)), diagnostics...)
}

func schemaError(code, field, msg string) Diagnostic {
	return Diagnostic{Kind: KindSchema, Field: field, Code: code, Message: msg, Severity: SeverityError}
}

func controlError(id, code, field, msg string) Diagnostic {
	return Diagnostic{Kind: KindControl, ControlID: id, Field: field, Code: code, Message: msg, Severity: SeverityError}
}

func ruleDiagnostic(severity Severity, code, field, msg string) Diagnostic {
	return Diagnostic{Kind: KindValidation, Field: "validation." + field, Code: code, Message: msg, Severity: severity}
}
