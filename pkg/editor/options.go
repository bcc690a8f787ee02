package editor

import "github.com/goliatone/go-formbuilder/pkg/formschema"

// Option customises a Store.
type Option func(*Store)

// WithInitialSchema seeds the present state. The schema is copied.
func WithInitialSchema(schema formschema.Schema) Option {
	return func(s *Store) {
		s.state = NewHistory(NewEditorState(schema))
	}
}

// WithIDGenerator overrides the control identifier source. The store still
// retries when a generated identifier was already issued.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.nextID = next
		}
	}
}

// WithHistoryLimit caps the undo stack. Zero or negative means unbounded;
// the oldest entries are dropped first.
func WithHistoryLimit(limit int) Option {
	return func(s *Store) {
		if limit < 0 {
			limit = 0
		}
		s.limit = limit
	}
}
