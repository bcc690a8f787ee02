package formschema

// Clone returns a deep copy of the schema. A nil Controls slice stays nil so
// that round-tripped values compare equal.
func (s Schema) Clone() Schema {
	out := s
	if s.Controls != nil {
		out.Controls = CloneControls(s.Controls)
	}
	return out
}

// CloneControls deep copies a control slice.
func CloneControls(controls []Control) []Control {
	if controls == nil {
		return nil
	}
	out := make([]Control, len(controls))
	for idx, control := range controls {
		out[idx] = control.Clone()
	}
	return out
}

// Clone returns a deep copy of the control. An empty option list becomes
// nil, the form it takes after encoding.
func (c Control) Clone() Control {
	out := c
	if c.Validation != nil {
		rules := c.Validation.Clone()
		out.Validation = &rules
	}
	out.Options = nil
	if len(c.Options) > 0 {
		out.Options = append([]SelectOption(nil), c.Options...)
	}
	return out
}

// Clone returns a deep copy of the rule set.
func (r ValidationRules) Clone() ValidationRules {
	return ValidationRules{
		MinLength: clonePtr(r.MinLength),
		MaxLength: clonePtr(r.MaxLength),
		Pattern:   clonePtr(r.Pattern),
		Min:       clonePtr(r.Min),
		Max:       clonePtr(r.Max),
		Message:   clonePtr(r.Message),
	}
}

func clonePtr[T any](ptr *T) *T {
	if ptr == nil {
		return nil
	}
	value := *ptr
	return &value
}
