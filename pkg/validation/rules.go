package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// ValidateRules checks a rule set in the context of the control kind it is
// attached to. Contradictory bounds are errors; rules that do not apply to
// the kind are warnings and never make the result invalid.
func ValidateRules(rules formschema.ValidationRules, kind formschema.ControlKind) Result {
	return newResult(checkRules(rules, kind))
}

func checkRules(rules formschema.ValidationRules, kind formschema.ControlKind) []Diagnostic {
	var out []Diagnostic

	if rules.MinLength != nil && *rules.MinLength < 0 {
		out = append(out, ruleDiagnostic(SeverityError, CodeNegativeLength, "minLength",
			"Minimum length cannot be negative"))
	}
	if rules.MaxLength != nil && *rules.MaxLength < 0 {
		out = append(out, ruleDiagnostic(SeverityError, CodeNegativeLength, "maxLength",
			"Maximum length cannot be negative"))
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
		out = append(out, ruleDiagnostic(SeverityError, CodeRange, "minLength",
			fmt.Sprintf("Minimum length (%d) cannot be greater than maximum length (%d)", *rules.MinLength, *rules.MaxLength)))
	}
	if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
		out = append(out, ruleDiagnostic(SeverityError, CodeRange, "min",
			fmt.Sprintf("Minimum value (%g) cannot be greater than maximum value (%g)", *rules.Min, *rules.Max)))
	}
	if rules.Pattern != nil && strings.TrimSpace(*rules.Pattern) != "" {
		if diagnostic, ok := checkPattern(*rules.Pattern); !ok {
			out = append(out, diagnostic)
		}
	}

	if rules.HasLengthRules() && (kind == formschema.KindCheckbox || kind == formschema.KindButton) {
		out = append(out, ruleDiagnostic(SeverityWarning, CodeOutOfScope, lengthField(rules),
			fmt.Sprintf("Length and pattern rules do not apply to %s controls", kind)))
	}
	if rules.HasRangeRules() && kind != formschema.KindNumber {
		field := "min"
		if rules.Min == nil {
			field = "max"
		}
		out = append(out, ruleDiagnostic(SeverityWarning, CodeOutOfScope, field,
			fmt.Sprintf("Min/max rules only apply to number controls, not %s", kind)))
	}

	return out
}

func lengthField(rules formschema.ValidationRules) string {
	switch {
	case rules.MinLength != nil:
		return "minLength"
	case rules.MaxLength != nil:
		return "maxLength"
	default:
		return "pattern"
	}
}

// checkPattern compiles pattern with RE2. Browsers evaluate the pattern
// attribute with their own engine, so syntax RE2 lacks (lookarounds,
// backreferences) is only a warning. Unbalanced groups or classes parse
// nowhere and stay errors.
func checkPattern(pattern string) (Diagnostic, bool) {
	_, err := regexp.Compile(pattern)
	if err == nil {
		return Diagnostic{}, true
	}
	reason := strings.TrimPrefix(err.Error(), "error parsing regexp: ")
	if !balanced(pattern) {
		return ruleDiagnostic(SeverityError, CodeInvalidPattern, "pattern",
			"Pattern is not a valid regular expression: "+reason), false
	}
	return ruleDiagnostic(SeverityWarning, CodeUnsupportedPattern, "pattern",
		"Pattern is only checked in the browser: "+reason), false
}

// balanced reports whether every group and character class in pattern is
// closed and no escape is left dangling.
func balanced(pattern string) bool {
	depth := 0
	inClass := false
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '\\':
			if i == len(pattern)-1 {
				return false
			}
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0 && !inClass
}
