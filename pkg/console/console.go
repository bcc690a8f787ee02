package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/studio"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Action names a menu entry.
type Action string

const (
	ActionAdd      Action = "Add control"
	ActionEdit     Action = "Edit control"
	ActionRemove   Action = "Remove control"
	ActionMove     Action = "Move control"
	ActionSelect   Action = "Select control"
	ActionMetadata Action = "Form settings"
	ActionUndo     Action = "Undo"
	ActionRedo     Action = "Redo"
	ActionValidate Action = "Validate"
	ActionShowJSON Action = "Show JSON"
	ActionEditJSON Action = "Edit JSON"
	ActionSave     Action = "Save"
	ActionQuit     Action = "Quit"
)

// Actions lists the menu in display order.
func Actions() []Action {
	return []Action{
		ActionAdd, ActionEdit, ActionRemove, ActionMove, ActionSelect, ActionMetadata,
		ActionUndo, ActionRedo, ActionValidate, ActionShowJSON, ActionEditJSON,
		ActionSave, ActionQuit,
	}
}

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Console.
type Option func(*Console)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Console) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithSavePath sets where Save writes. Without it Save asks for a path.
func WithSavePath(path string) Option {
	return func(c *Console) {
		c.savePath = strings.TrimSpace(path)
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *Console) {
		c.theme = theme
	}
}

// Console runs the interactive menu against a studio session.
type Console struct {
	session  *studio.Session
	driver   PromptDriver
	savePath string
	theme    Theme
}

// New constructs a Console. The survey driver is used unless another is
// supplied.
func New(session *studio.Session, options ...Option) (*Console, error) {
	if session == nil {
		return nil, errors.New("console: session is required")
	}
	c := &Console{
		session: session,
		theme:   Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil)
	}
	return c, nil
}

// Run shows the menu until the user quits. ErrAborted is returned when the
// user interrupts a prompt.
func (c *Console) Run(ctx context.Context) error {
	actions := Actions()
	labels := make([]string, len(actions))
	for i, action := range actions {
		labels[i] = string(action)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := c.driver.Choose(ctx, Choice{Message: c.heading(), Entries: labels})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		done, err := c.Do(ctx, actions[idx])
		switch {
		case err == nil:
		case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			if infoErr := c.info(ctx, c.theme.ErrorPrefix+err.Error()); infoErr != nil {
				return infoErr
			}
		}
		if done {
			return nil
		}
	}
}

func (c *Console) heading() string {
	state := c.session.State()
	title := state.Schema.Title
	if title == "" {
		title = "Untitled form"
	}
	marker := ""
	if state.Dirty {
		marker = " *"
	}
	return fmt.Sprintf("%s%s (%d controls, %s)", title, marker, len(state.Schema.Controls), diagnosticsLabel(state.Diagnostics))
}

func diagnosticsLabel(diagnostics []validation.Diagnostic) string {
	errs := len(validation.Filter(diagnostics, validation.SeverityError))
	warns := len(validation.Filter(diagnostics, validation.SeverityWarning))
	if errs == 0 && warns == 0 {
		return "valid"
	}
	return fmt.Sprintf("%d errors, %d warnings", errs, warns)
}

// Do runs a single action. done reports whether the loop should stop.
func (c *Console) Do(ctx context.Context, action Action) (done bool, err error) {
	switch action {
	case ActionAdd:
		return false, c.add(ctx)
	case ActionEdit:
		return false, c.edit(ctx)
	case ActionRemove:
		return false, c.remove(ctx)
	case ActionMove:
		return false, c.move(ctx)
	case ActionSelect:
		return false, c.selectControl(ctx)
	case ActionMetadata:
		return false, c.metadata(ctx)
	case ActionUndo:
		if !c.session.Store().CanUndo() {
			return false, c.info(ctx, "Nothing to undo")
		}
		c.session.Apply(editor.Undo{})
		return false, nil
	case ActionRedo:
		if !c.session.Store().CanRedo() {
			return false, c.info(ctx, "Nothing to redo")
		}
		c.session.Apply(editor.Redo{})
		return false, nil
	case ActionValidate:
		return false, c.validate(ctx)
	case ActionShowJSON:
		text, err := c.session.SchemaText()
		if err != nil {
			return false, err
		}
		return false, c.info(ctx, text)
	case ActionEditJSON:
		return false, c.editJSON(ctx)
	case ActionSave:
		return false, c.save(ctx)
	case ActionQuit:
		return c.quit(ctx)
	default:
		return false, fmt.Errorf("console: unknown action %q", action)
	}
}

func (c *Console) info(ctx context.Context, msg string) error {
	return c.driver.Say(ctx, c.theme.InfoPrefix+msg)
}

func (c *Console) add(ctx context.Context) error {
	kind, err := chooseKind(ctx, c.driver, "Control type", formschema.KindText)
	if err != nil || kind == "" {
		return err
	}
	id := c.session.AddControl(kind)
	return c.info(ctx, fmt.Sprintf("Added %s (%s)", kind.Label(), id))
}

// pickControl asks for a control, defaulting to the selected one.
func (c *Console) pickControl(ctx context.Context, message string) (formschema.Control, int, error) {
	state := c.session.State()
	controls := state.Schema.Controls
	if len(controls) == 0 {
		return formschema.Control{}, -1, ErrNoControls
	}
	entries := make([]string, len(controls))
	def := 0
	for i, control := range controls {
		entries[i] = describeControl(i, control)
		if control.ID == state.SelectedControlID {
			def = i
		}
	}
	idx, err := c.driver.Choose(ctx, Choice{Message: message, Entries: entries, Default: def})
	if err != nil {
		return formschema.Control{}, -1, err
	}
	if idx < 0 || idx >= len(controls) {
		return formschema.Control{}, -1, ErrNoControls
	}
	return controls[idx], idx, nil
}

func describeControl(idx int, control formschema.Control) string {
	return fmt.Sprintf("%d. %s [%s] %s", idx+1, control.Label, control.Type, control.Name)
}

func (c *Console) edit(ctx context.Context) error {
	current, _, err := c.pickControl(ctx, "Edit which control?")
	if err != nil {
		return err
	}
	c.session.Apply(editor.SelectControl{ID: current.ID})

	updated, err := c.promptControl(ctx, current)
	if err != nil {
		return err
	}
	c.session.Apply(editor.UpdateControl{ID: current.ID, Control: updated})

	var others []formschema.Control
	for _, control := range c.session.State().Schema.Controls {
		if control.ID != current.ID {
			others = append(others, control)
		}
	}
	result := validation.ValidateControl(updated, others)
	if len(result.Diagnostics) == 0 {
		return nil
	}
	return c.report(ctx, result.Diagnostics)
}

func (c *Console) promptControl(ctx context.Context, current formschema.Control) (formschema.Control, error) {
	control := current.Clone()
	var err error

	if control.Label, err = c.driver.Ask(ctx, Question{
		Message: "Label",
		Default: current.Label,
		Check:   requiredText("label"),
	}); err != nil {
		return control, err
	}
	if control.Name, err = c.driver.Ask(ctx, Question{
		Message: "Field name",
		Default: current.Name,
		Help:    "Letters, numbers and underscores; must not start with a number",
		Check:   validName,
	}); err != nil {
		return control, err
	}
	control.Label = strings.TrimSpace(control.Label)
	control.Name = strings.TrimSpace(control.Name)
	if current.Type.AcceptsInput() && current.Type != formschema.KindCheckbox && current.Type != formschema.KindSelect {
		if control.Placeholder, err = c.driver.Ask(ctx, Question{
			Message: "Placeholder",
			Default: current.Placeholder,
		}); err != nil {
			return control, err
		}
	}
	if current.Type.AcceptsInput() {
		if control.Required, err = c.driver.Confirm(ctx, "Required?", current.Required); err != nil {
			return control, err
		}
	}
	if current.Type == formschema.KindSelect {
		if control.Options, err = editOptions(ctx, c.driver, current.Options); err != nil {
			return control, err
		}
	}

	rules, err := c.promptRules(ctx, current)
	if err != nil {
		return control, err
	}
	control.Validation = rules
	return control, nil
}

func (c *Console) promptRules(ctx context.Context, current formschema.Control) (*formschema.ValidationRules, error) {
	var rules formschema.ValidationRules
	if current.Validation != nil {
		rules = current.Validation.Clone()
	}

	switch {
	case current.Type.TextLike():
		var err error
		if rules.MinLength, err = askLength(ctx, c.driver, "Minimum length", rules.MinLength); err != nil {
			return nil, err
		}
		if rules.MaxLength, err = askLength(ctx, c.driver, "Maximum length", rules.MaxLength); err != nil {
			return nil, err
		}
		pattern, err := c.driver.Ask(ctx, Question{
			Message: "Pattern (regular expression, blank for none)",
			Default: deref(rules.Pattern),
		})
		if err != nil {
			return nil, err
		}
		rules.Pattern = optionalString(pattern)
	case current.Type == formschema.KindNumber:
		var err error
		if rules.Min, err = askBound(ctx, c.driver, "Minimum value", rules.Min); err != nil {
			return nil, err
		}
		if rules.Max, err = askBound(ctx, c.driver, "Maximum value", rules.Max); err != nil {
			return nil, err
		}
	default:
		if current.Validation == nil {
			return nil, nil
		}
		return &rules, nil
	}

	if rules.HasLengthRules() || rules.HasRangeRules() || rules.Pattern != nil {
		message, err := c.driver.Ask(ctx, Question{
			Message: "Error message (blank for default)",
			Default: deref(rules.Message),
		})
		if err != nil {
			return nil, err
		}
		rules.Message = optionalString(message)
	}
	if rules.IsZero() {
		return nil, nil
	}
	return &rules, nil
}

func (c *Console) remove(ctx context.Context) error {
	control, _, err := c.pickControl(ctx, "Remove which control?")
	if err != nil {
		return err
	}
	ok, err := c.driver.Confirm(ctx, fmt.Sprintf("Remove %q?", control.Label), false)
	if err != nil || !ok {
		return err
	}
	c.session.Apply(editor.RemoveControl{ID: control.ID})
	return nil
}

func (c *Console) move(ctx context.Context) error {
	control, idx, err := c.pickControl(ctx, "Move which control?")
	if err != nil {
		return err
	}
	total := len(c.session.State().Schema.Controls)
	raw, err := c.driver.Ask(ctx, Question{
		Message: fmt.Sprintf("New position (1-%d)", total),
		Default: strconv.Itoa(idx + 1),
		Check:   checkPosition(total),
	})
	if err != nil {
		return err
	}
	if err := checkPosition(total)(raw); err != nil {
		return fmt.Errorf("console: position: %w", err)
	}
	position, _ := strconv.Atoi(strings.TrimSpace(raw))
	c.session.Apply(editor.MoveControl{ID: control.ID, Index: position - 1})
	return nil
}

func (c *Console) selectControl(ctx context.Context) error {
	controls := c.session.State().Schema.Controls
	entries := make([]string, 0, len(controls)+1)
	entries = append(entries, "None")
	for i, control := range controls {
		entries = append(entries, describeControl(i, control))
	}
	idx, err := c.driver.Choose(ctx, Choice{Message: "Select control", Entries: entries})
	if err != nil {
		return err
	}
	id := ""
	if idx > 0 && idx <= len(controls) {
		id = controls[idx-1].ID
	}
	c.session.Apply(editor.SelectControl{ID: id})
	return nil
}

func (c *Console) metadata(ctx context.Context) error {
	schema := c.session.State().Schema

	title, err := c.driver.Ask(ctx, Question{Message: "Title", Default: schema.Title})
	if err != nil {
		return err
	}
	description, err := c.driver.Compose(ctx, Question{Message: "Description", Default: schema.Description})
	if err != nil {
		return err
	}
	layout, err := chooseLayout(ctx, c.driver, schema.Layout)
	if err != nil {
		return err
	}

	update := editor.UpdateMetadata{}
	if title = strings.TrimSpace(title); title != schema.Title {
		update.Title = &title
	}
	if description = strings.TrimSpace(description); description != schema.Description {
		update.Description = &description
	}
	if layout != schema.Layout {
		update.Layout = &layout
	}
	c.session.Apply(update)
	return nil
}

func (c *Console) validate(ctx context.Context) error {
	result := c.session.Validate()
	if len(result.Diagnostics) == 0 {
		return c.info(ctx, "Form is valid")
	}
	return c.report(ctx, result.Diagnostics)
}

func (c *Console) report(ctx context.Context, diagnostics []validation.Diagnostic) error {
	for _, diagnostic := range diagnostics {
		line := fmt.Sprintf("%s: %s", diagnostic.Severity, diagnostic.Message)
		if diagnostic.ControlID != "" {
			line = fmt.Sprintf("%s [%s]: %s", diagnostic.Severity, diagnostic.ControlID, diagnostic.Message)
		}
		if err := c.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) editJSON(ctx context.Context) error {
	text, err := c.session.SchemaText()
	if err != nil {
		return err
	}
	c.session.Apply(editor.SetMode{Mode: editor.ModeCode})
	defer c.session.Apply(editor.SetMode{Mode: editor.ModeVisual})

	edited, err := c.driver.Compose(ctx, Question{Message: "Schema JSON", Default: text})
	if err != nil {
		return err
	}
	if strings.TrimSpace(edited) == strings.TrimSpace(text) {
		return nil
	}
	result := c.session.ImportText(edited)
	if len(result.Diagnostics) == 0 {
		return c.info(ctx, "Schema updated")
	}
	return c.report(ctx, result.Diagnostics)
}

func (c *Console) save(ctx context.Context) error {
	path := c.savePath
	if path == "" {
		raw, err := c.driver.Ask(ctx, Question{
			Message: "Save to",
			Default: "form.json",
			Check:   requiredText("path"),
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(raw)
	}
	if err := c.session.Save(path); err != nil {
		return err
	}
	c.savePath = path
	return c.info(ctx, "Saved "+path)
}

func (c *Console) quit(ctx context.Context) (bool, error) {
	if !c.session.State().Dirty {
		return true, nil
	}
	return c.driver.Confirm(ctx, "Discard unsaved changes?", false)
}
