package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const (
	htmlRendererName = "html"
	formTemplate     = "templates/form.tmpl"
	defaultEmpty     = "Add a control from the palette to start building your form."
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templates      fs.FS
	selector       theme.ThemeSelector
	themeName      string
	themeVariant   string
	policy         *bluemonday.Policy
	emptyMessage   string
	templateGlobal map[string]any
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithThemeSelector resolves theme tokens through a go-theme selector. The
// defaults apply when RenderOptions does not name a theme.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = strings.TrimSpace(defaultTheme)
		cfg.themeVariant = strings.TrimSpace(defaultVariant)
	}
}

// WithDescriptionPolicy overrides the sanitiser applied to the schema
// description.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithEmptyMessage overrides the text shown when the schema has no controls.
func WithEmptyMessage(message string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			cfg.emptyMessage = trimmed
		}
	}
}

// WithGlobalData seeds values available to every template execution.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.templateGlobal == nil {
			cfg.templateGlobal = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.templateGlobal[strings.TrimSpace(key)] = value
		}
	}
}

// HTML renders a live form preview using pongo2 templates.
type HTML struct {
	cfg config
	set *pongo2.TemplateSet

	mu   sync.Mutex
	form *pongo2.Template
}

var _ Renderer = (*HTML)(nil)

// NewHTML constructs the HTML renderer applying any provided options.
func NewHTML(options ...Option) (*HTML, error) {
	cfg := config{
		templates:    TemplatesFS(),
		policy:       DescriptionPolicy(),
		emptyMessage: defaultEmpty,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("preview: template filesystem is required")
	}

	set := pongo2.NewSet("formbuilder-preview", pongo2.NewFSLoader(cfg.templates))
	if len(cfg.templateGlobal) > 0 {
		set.Globals = make(pongo2.Context, len(cfg.templateGlobal))
		for key, value := range cfg.templateGlobal {
			set.Globals[key] = value
		}
	}
	return &HTML{cfg: cfg, set: set}, nil
}

func (r *HTML) Name() string {
	return htmlRendererName
}

func (r *HTML) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the preview markup.
func (r *HTML) Render(ctx context.Context, schema formschema.Schema, diagnostics []validation.Diagnostic, options RenderOptions) ([]byte, error) {
	if r == nil || r.set == nil {
		return nil, errors.New("preview: html renderer is not initialised")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := r.template()
	if err != nil {
		return nil, err
	}

	themeName, themeVariant := r.cfg.themeName, r.cfg.themeVariant
	if options.ThemeName != "" {
		themeName = options.ThemeName
		themeVariant = options.ThemeVariant
	}
	themeCtx, err := resolveTheme(r.cfg.selector, themeName, themeVariant)
	if err != nil {
		return nil, err
	}

	view := buildView(schema, diagnostics, options.HideWarnings)
	layout := string(schema.Layout)
	if !schema.Layout.Valid() {
		layout = string(formschema.DefaultLayout)
	}

	out, err := tmpl.Execute(pongo2.Context{
		"title":        schema.Title,
		"description":  sanitizeMarkup(r.cfg.policy, schema.Description),
		"layout":       layout,
		"controls":     view.Controls,
		"summary":      view.Summary,
		"hasErrors":    view.HasErrors,
		"emptyMessage": r.cfg.emptyMessage,
		"theme":        themeCtx.Name,
		"variant":      themeCtx.Variant,
		"cssVars":      themeCtx.CSSStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("preview: execute template: %w", err)
	}
	return []byte(out), nil
}

func (r *HTML) template() (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.form != nil {
		return r.form, nil
	}
	tmpl, err := r.set.FromFile(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", formTemplate, err)
	}
	r.form = tmpl
	return tmpl, nil
}

type formView struct {
	Controls  []controlView
	Summary   []summaryItem
	HasErrors bool
}

type controlView struct {
	ID          string
	InputID     string
	Kind        string
	Label       string
	Name        string
	Placeholder string
	Required    bool
	ClassName   string
	MinLength   string
	MaxLength   string
	Pattern     string
	Min         string
	Max         string
	Message     string
	Options     []formschema.SelectOption
	Errors      []string
	Warnings    []string
}

type summaryItem struct {
	Severity string
	Message  string
}

func buildView(schema formschema.Schema, diagnostics []validation.Diagnostic, hideWarnings bool) formView {
	view := formView{HasErrors: validation.HasErrors(diagnostics)}

	known := make(map[string]struct{}, len(schema.Controls))
	for _, control := range schema.Controls {
		known[control.ID] = struct{}{}
	}

	byControl := make(map[string][]validation.Diagnostic)
	for _, diagnostic := range diagnostics {
		if hideWarnings && diagnostic.Severity != validation.SeverityError {
			continue
		}
		if _, ok := known[diagnostic.ControlID]; ok && diagnostic.ControlID != "" {
			byControl[diagnostic.ControlID] = append(byControl[diagnostic.ControlID], diagnostic)
			continue
		}
		view.Summary = append(view.Summary, summaryItem{
			Severity: string(diagnostic.Severity),
			Message:  diagnostic.Message,
		})
	}

	seenInputIDs := make(map[string]int, len(schema.Controls))
	for _, control := range schema.Controls {
		item := controlView{
			ID:          control.ID,
			Kind:        string(control.Type),
			Label:       control.Label,
			Name:        control.Name,
			Placeholder: control.Placeholder,
			Required:    control.Required,
			ClassName:   sanitizeClassName(control.ClassName),
			Options:     control.Options,
		}
		if !control.Type.Valid() {
			item.Kind = string(formschema.KindText)
		}
		item.InputID = inputID(control, seenInputIDs)

		if rules := control.Validation; rules != nil {
			item.MinLength = intAttr(rules.MinLength)
			item.MaxLength = intAttr(rules.MaxLength)
			if rules.Pattern != nil {
				item.Pattern = *rules.Pattern
			}
			item.Min = floatAttr(rules.Min)
			item.Max = floatAttr(rules.Max)
			if rules.Message != nil {
				item.Message = *rules.Message
			}
		}

		for _, diagnostic := range byControl[control.ID] {
			if diagnostic.Severity == validation.SeverityError {
				item.Errors = append(item.Errors, diagnostic.Message)
			} else {
				item.Warnings = append(item.Warnings, diagnostic.Message)
			}
		}
		view.Controls = append(view.Controls, item)
	}
	return view
}

func inputID(control formschema.Control, seen map[string]int) string {
	base := "fb-" + control.Name
	if !formschema.ValidName(control.Name) {
		base = "fb-" + sanitizeClassName(control.ID)
	}
	seen[base]++
	if n := seen[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}

func intAttr(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func floatAttr(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
