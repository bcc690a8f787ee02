package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/internal/uid"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// ErrOperationNotFound is returned when the requested operation id is absent.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// ErrNoRequestBody is returned when the operation carries no object request
// body to map.
var ErrNoRequestBody = errors.New("openapi: operation has no request body schema")

// textareaThreshold is the maxLength above which strings become a textarea.
const textareaThreshold = 255

var methods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Option configures an import.
type Option func(*options)

type options struct {
	submitLabel       string
	nextID            func() string
	layout            formschema.Layout
	resolveReferences bool
}

// WithSubmitButton appends a submit button with label to the imported form.
func WithSubmitButton(label string) Option {
	return func(o *options) {
		o.submitLabel = strings.TrimSpace(label)
	}
}

// WithIDGenerator overrides how control identifiers are minted.
func WithIDGenerator(next func() string) Option {
	return func(o *options) {
		if next != nil {
			o.nextID = next
		}
	}
}

// WithLayout sets the layout of the imported form.
func WithLayout(layout formschema.Layout) Option {
	return func(o *options) {
		if layout.Valid() {
			o.layout = layout
		}
	}
}

// WithReferenceValidation validates the document (including external
// references) before mapping.
func WithReferenceValidation(enabled bool) Option {
	return func(o *options) {
		o.resolveReferences = enabled
	}
}

func newOptions(opts []Option) options {
	cfg := options{
		nextID: uid.New("ctrl").Next,
		layout: formschema.DefaultLayout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Operations lists the operation ids available in raw, sorted. Operations
// without an operationId are listed as "method:path".
func Operations(ctx context.Context, raw []byte) ([]string, error) {
	spec, err := load(ctx, raw, false)
	if err != nil {
		return nil, err
	}
	ops := collect(spec)
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Import maps the request body of operationID to a form schema. Properties
// become controls in name order.
func Import(ctx context.Context, raw []byte, operationID string, opts ...Option) (formschema.Schema, error) {
	cfg := newOptions(opts)

	spec, err := load(ctx, raw, cfg.resolveReferences)
	if err != nil {
		return formschema.Schema{}, err
	}

	op, ok := collect(spec)[strings.TrimSpace(operationID)]
	if !ok {
		return formschema.Schema{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op)
	if body == nil || len(body.Properties) == 0 {
		return formschema.Schema{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	schema := formschema.NewSchema()
	schema.Layout = cfg.layout
	schema.Title = strings.TrimSpace(op.Summary)
	if schema.Title == "" {
		schema.Title = humanize(operationID)
	}
	schema.Description = strings.TrimSpace(op.Description)

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	taken := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return formschema.Schema{}, err
		}
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		control, ok := mapProperty(name, ref.Value)
		if !ok {
			continue
		}
		control.ID = cfg.nextID()
		control.Name = uniqueFieldName(sanitizeName(name), taken)
		if _, ok := required[name]; ok {
			control.Required = true
		}
		schema.Controls = append(schema.Controls, control)
	}

	if cfg.submitLabel != "" {
		button := formschema.DefaultControl(formschema.KindButton, cfg.nextID(), schema.Controls)
		button.Label = cfg.submitLabel
		button.Name = uniqueFieldName("submit", taken)
		schema.Controls = append(schema.Controls, button)
	}
	return schema, nil
}

func load(ctx context.Context, raw []byte, resolve bool) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: resolve,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if resolve {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

func collect(spec *openapi3.T) map[string]*openapi3.Operation {
	ops := make(map[string]*openapi3.Operation)
	if spec == nil || spec.Paths == nil {
		return ops
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range methods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			ops[id] = op
		}
	}
	return ops
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// mapProperty reports false for properties with no form equivalent (nested
// objects and arrays).
func mapProperty(name string, prop *openapi3.Schema) (formschema.Control, bool) {
	control := formschema.Control{
		Label:       strings.TrimSpace(prop.Title),
		Placeholder: strings.TrimSpace(prop.Description),
	}
	if control.Label == "" {
		control.Label = humanize(name)
	}

	typ := firstSchemaType(prop.Type)
	switch {
	case len(prop.Enum) > 0:
		control.Type = formschema.KindSelect
		control.Placeholder = ""
		control.Options = enumOptions(prop.Enum)
		return control, true
	case typ == openapi3.TypeBoolean:
		control.Type = formschema.KindCheckbox
		control.Placeholder = ""
		return control, true
	case typ == openapi3.TypeInteger || typ == openapi3.TypeNumber:
		control.Type = formschema.KindNumber
		rules := formschema.ValidationRules{}
		if prop.Min != nil {
			rules.Min = formschema.Float(*prop.Min)
		}
		if prop.Max != nil {
			rules.Max = formschema.Float(*prop.Max)
		}
		if !rules.IsZero() {
			control.Validation = &rules
		}
		return control, true
	case typ == openapi3.TypeObject || typ == openapi3.TypeArray:
		return formschema.Control{}, false
	}

	switch {
	case prop.Format == "email":
		control.Type = formschema.KindEmail
	case prop.Format == "password":
		control.Type = formschema.KindPassword
	case prop.Format == "textarea", prop.MaxLength != nil && *prop.MaxLength > textareaThreshold:
		control.Type = formschema.KindTextarea
	default:
		control.Type = formschema.KindText
	}

	rules := formschema.ValidationRules{}
	if prop.MinLength != 0 {
		rules.MinLength = formschema.Int(int(prop.MinLength))
	}
	if prop.MaxLength != nil {
		rules.MaxLength = formschema.Int(int(*prop.MaxLength))
	}
	if prop.Pattern != "" {
		rules.Pattern = formschema.String(prop.Pattern)
	}
	if !rules.IsZero() {
		control.Validation = &rules
	}
	return control, true
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func enumOptions(values []any) []formschema.SelectOption {
	options := make([]formschema.SelectOption, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		raw := fmt.Sprint(value)
		options = append(options, formschema.SelectOption{Label: humanize(raw), Value: raw})
	}
	return options
}

// sanitizeName rewrites name so it satisfies formschema.ValidName.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "field"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

func uniqueFieldName(base string, taken map[string]struct{}) string {
	candidate := base
	for n := 2; ; n++ {
		if _, exists := taken[candidate]; !exists {
			taken[candidate] = struct{}{}
			return candidate
		}
		candidate = base + "_" + strconv.Itoa(n)
	}
}

// humanize turns identifiers like "first_name" or "firstName" into
// "First name".
func humanize(raw string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	runes := []rune(strings.TrimSpace(raw))
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ':' || r == '/' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return raw
	}
	out := strings.Join(words, " ")
	first := []rune(out)
	first[0] = unicode.ToUpper(first[0])
	return string(first)
}
