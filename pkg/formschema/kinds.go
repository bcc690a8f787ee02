package formschema

// ControlKind enumerates the supported control types.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindEmail    ControlKind = "email"
	KindPassword ControlKind = "password"
	KindTextarea ControlKind = "textarea"
	KindNumber   ControlKind = "number"
	KindSelect   ControlKind = "select"
	KindCheckbox ControlKind = "checkbox"
	KindButton   ControlKind = "button"
)

var kindLabels = map[ControlKind]string{
	KindText:     "Text Input",
	KindEmail:    "Email",
	KindPassword: "Password",
	KindTextarea: "Text Area",
	KindNumber:   "Number",
	KindSelect:   "Select",
	KindCheckbox: "Checkbox",
	KindButton:   "Button",
}

// Kinds returns every control kind in palette order.
func Kinds() []ControlKind {
	return []ControlKind{
		KindText,
		KindEmail,
		KindPassword,
		KindTextarea,
		KindNumber,
		KindSelect,
		KindCheckbox,
		KindButton,
	}
}

// Valid reports whether k is one of the enumerated kinds.
func (k ControlKind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Label returns the human readable palette name for k.
func (k ControlKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// TextLike reports whether length and pattern rules are meaningful for k.
func (k ControlKind) TextLike() bool {
	switch k {
	case KindText, KindEmail, KindPassword, KindTextarea:
		return true
	default:
		return false
	}
}

// AcceptsInput reports whether k collects a value (buttons do not).
func (k ControlKind) AcceptsInput() bool {
	return k.Valid() && k != KindButton
}
