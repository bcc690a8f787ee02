package console

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// chooseKind shows the control palette with current preselected.
func chooseKind(ctx context.Context, d PromptDriver, message string, current formschema.ControlKind) (formschema.ControlKind, error) {
	kinds := formschema.Kinds()
	entries := make([]string, len(kinds))
	def := 0
	for i, kind := range kinds {
		entries[i] = kind.Label()
		if kind == current {
			def = i
		}
	}
	idx, err := d.Choose(ctx, Choice{
		Message: message,
		Entries: entries,
		Default: def,
		Help:    "Buttons submit the form; every other control collects a value",
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(kinds) {
		return "", nil
	}
	return kinds[idx], nil
}

// chooseLayout asks for one of the form layouts.
func chooseLayout(ctx context.Context, d PromptDriver, current formschema.Layout) (formschema.Layout, error) {
	layouts := formschema.Layouts()
	entries := make([]string, len(layouts))
	def := 0
	for i, layout := range layouts {
		entries[i] = string(layout)
		if layout == current {
			def = i
		}
	}
	idx, err := d.Choose(ctx, Choice{Message: "Layout", Entries: entries, Default: def})
	if err != nil {
		return current, err
	}
	if idx < 0 || idx >= len(layouts) {
		return current, nil
	}
	return layouts[idx], nil
}

// editOptions edits a select option list as "Label=value" lines.
func editOptions(ctx context.Context, d PromptDriver, current []formschema.SelectOption) ([]formschema.SelectOption, error) {
	raw, err := d.Compose(ctx, Question{
		Message: "Options",
		Default: formatOptions(current),
		Help:    "One option per line as Label=value; a line without = uses the label as the value",
		Check:   checkOptions,
	})
	if err != nil {
		return nil, err
	}
	return parseOptions(raw), nil
}

func checkOptions(raw string) error {
	options := parseOptions(raw)
	if len(options) == 0 {
		return errors.New("a select needs at least one option")
	}
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		if _, dup := seen[option.Value]; dup {
			return fmt.Errorf("option value %q is repeated", option.Value)
		}
		seen[option.Value] = struct{}{}
	}
	return nil
}

func formatOptions(options []formschema.SelectOption) string {
	lines := make([]string, len(options))
	for i, option := range options {
		lines[i] = option.Label + "=" + option.Value
	}
	return strings.Join(lines, "\n")
}

func parseOptions(raw string) []formschema.SelectOption {
	var options []formschema.SelectOption
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, value, found := strings.Cut(line, "=")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if !found || value == "" {
			value = label
		}
		if label == "" {
			label = value
		}
		options = append(options, formschema.SelectOption{Label: label, Value: value})
	}
	return options
}

// askLength reads an optional non-negative whole number.
func askLength(ctx context.Context, d PromptDriver, message string, current *int) (*int, error) {
	def := ""
	if current != nil {
		def = strconv.Itoa(*current)
	}
	raw, err := d.Ask(ctx, Question{Message: message + " (blank for none)", Default: def, Check: checkLength})
	if err != nil {
		return nil, err
	}
	if err := checkLength(raw); err != nil {
		return nil, fmt.Errorf("console: %s: %w", strings.ToLower(message), err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, _ := strconv.Atoi(raw)
	return &value, nil
}

// askBound reads an optional finite number.
func askBound(ctx context.Context, d PromptDriver, message string, current *float64) (*float64, error) {
	def := ""
	if current != nil {
		def = strconv.FormatFloat(*current, 'f', -1, 64)
	}
	raw, err := d.Ask(ctx, Question{Message: message + " (blank for none)", Default: def, Check: checkBound})
	if err != nil {
		return nil, err
	}
	if err := checkBound(raw); err != nil {
		return nil, fmt.Errorf("console: %s: %w", strings.ToLower(message), err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, _ := strconv.ParseFloat(raw, 64)
	return &value, nil
}

func checkLength(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return errors.New("enter a whole number of zero or more")
	}
	return nil
}

// checkBound rejects NaN and infinities, which strconv accepts but the
// document encoding cannot carry.
func checkBound(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("enter a finite number")
	}
	return nil
}

func checkPosition(total int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > total {
			return fmt.Errorf("enter a position between 1 and %d", total)
		}
		return nil
	}
}

func requiredText(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validName(value string) error {
	if !formschema.ValidName(strings.TrimSpace(value)) {
		return errors.New("use letters, numbers and underscores, not starting with a number")
	}
	return nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
