package formschema

// Layout enumerates how controls are arranged when rendered.
type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
	LayoutGrid       Layout = "grid"
)

// DefaultLayout is used for newly created schemas.
const DefaultLayout = LayoutVertical

// Valid reports whether l is one of the enumerated layouts.
func (l Layout) Valid() bool {
	switch l {
	case LayoutVertical, LayoutHorizontal, LayoutGrid:
		return true
	default:
		return false
	}
}

// Layouts returns the enumerated layouts in declaration order.
func Layouts() []Layout {
	return []Layout{LayoutVertical, LayoutHorizontal, LayoutGrid}
}

// Schema is the root form document.
type Schema struct {
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Layout      Layout    `json:"layout" yaml:"layout"`
	Controls    []Control `json:"controls" yaml:"controls"`
}

// Control is a single field or button definition. ID is assigned on creation
// and never changes afterwards.
type Control struct {
	ID          string           `json:"id" yaml:"id"`
	Type        ControlKind      `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Name        string           `json:"name" yaml:"name"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Validation  *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []SelectOption   `json:"options,omitempty" yaml:"options,omitempty"`
	ClassName   string           `json:"className,omitempty" yaml:"className,omitempty"`
}

// ValidationRules constrains the value a control accepts. Every attribute is
// optional; nil means "not set".
type ValidationRules struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   *string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Message   *string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// SelectOption is a label/value pair offered by a select control.
type SelectOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// NewSchema returns an empty schema using the default layout.
func NewSchema() Schema {
	return Schema{
		Layout:   DefaultLayout,
		Controls: []Control{},
	}
}

// IndexOf returns the position of the control with the given id, or -1.
func (s Schema) IndexOf(id string) int {
	for idx, control := range s.Controls {
		if control.ID == id {
			return idx
		}
	}
	return -1
}

// Control looks up a control by id.
func (s Schema) Control(id string) (Control, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return Control{}, false
	}
	return s.Controls[idx], true
}

// HasLengthRules reports whether minLength, maxLength or pattern is set.
func (r ValidationRules) HasLengthRules() bool {
	return r.MinLength != nil || r.MaxLength != nil || r.Pattern != nil
}

// HasRangeRules reports whether min or max is set.
func (r ValidationRules) HasRangeRules() bool {
	return r.Min != nil || r.Max != nil
}

// IsZero reports whether no rule is set.
func (r ValidationRules) IsZero() bool {
	return !r.HasLengthRules() && !r.HasRangeRules() && r.Message == nil
}

// Int returns a pointer to v; handy when building rules in code.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
