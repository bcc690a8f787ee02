package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blang/semver/v4"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// CurrentVersion is stamped on every new document.
const CurrentVersion = "1.0.0"

var currentVersion = semver.MustParse(CurrentVersion)

var (
	// ErrMissingVersion is returned when an envelope has no version tag.
	ErrMissingVersion = errors.New("document: version is required")
	// ErrUnsupportedVersion is returned for unparseable or incompatible
	// version tags.
	ErrUnsupportedVersion = errors.New("document: unsupported version")
)

// Metadata describes the document's provenance.
type Metadata struct {
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modifiedAt"`
	Author     string    `json:"author,omitempty" yaml:"author,omitempty"`
}

// Document is the exported envelope.
type Document struct {
	Version  string            `json:"version" yaml:"version"`
	Metadata Metadata          `json:"metadata" yaml:"metadata"`
	Schema   formschema.Schema `json:"schema" yaml:"schema"`
}

// Option customises New.
type Option func(*options)

type options struct {
	author string
	now    func() time.Time
}

// WithAuthor records the author in the metadata block.
func WithAuthor(author string) Option {
	return func(o *options) {
		o.author = strings.TrimSpace(author)
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New wraps a copy of schema in an envelope stamped with CurrentVersion.
func New(schema formschema.Schema, opts ...Option) Document {
	cfg := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	now := cfg.now().UTC()
	return Document{
		Version: CurrentVersion,
		Metadata: Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			Author:     cfg.author,
		},
		Schema: schema.Clone(),
	}
}

// Touch returns doc carrying schema with ModifiedAt set to now. CreatedAt and
// Author are preserved.
func Touch(doc Document, schema formschema.Schema, now time.Time) Document {
	out := doc
	if out.Version == "" {
		out.Version = CurrentVersion
	}
	out.Metadata.ModifiedAt = now.UTC()
	if out.Metadata.CreatedAt.IsZero() {
		out.Metadata.CreatedAt = out.Metadata.ModifiedAt
	}
	out.Schema = schema.Clone()
	return out
}

// CheckVersion verifies that raw is a semantic version compatible with
// CurrentVersion (same major).
func CheckVersion(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrMissingVersion
	}
	version, err := semver.ParseTolerant(trimmed)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnsupportedVersion, trimmed, err)
	}
	if version.Major != currentVersion.Major {
		return fmt.Errorf("%w %q: expected major version %d", ErrUnsupportedVersion, trimmed, currentVersion.Major)
	}
	return nil
}
