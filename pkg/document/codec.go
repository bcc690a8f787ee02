package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/formschema"
)

// Format selects the wire encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("document: unknown format %q", name)
	}
}

// Encode serialises doc. JSON output is indented with two spaces.
func Encode(doc Document, format Format) ([]byte, error) {
	return encode(doc, format)
}

// EncodeSchema serialises a bare schema without the envelope.
func EncodeSchema(schema formschema.Schema, format Format) ([]byte, error) {
	return encode(schema, format)
}

func encode(value any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		payload, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("document: encode json: %w", err)
		}
		return append(payload, '\n'), nil
	default:
		return nil, fmt.Errorf("document: unknown format %q", format)
	}
}

// Decode parses an envelope and checks its version. Unknown fields are
// ignored.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	if err := decode(data, format, &doc); err != nil {
		return Document{}, err
	}
	if err := CheckVersion(doc.Version); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DecodeSchema accepts either an envelope or a bare schema and returns the
// schema.
func DecodeSchema(data []byte, format Format) (formschema.Schema, error) {
	var peek map[string]any
	if err := decode(data, format, &peek); err != nil {
		return formschema.Schema{}, err
	}
	if _, wrapped := peek["schema"]; wrapped {
		if _, bare := peek["controls"]; !bare {
			doc, err := Decode(data, format)
			if err != nil {
				return formschema.Schema{}, err
			}
			return doc.Schema, nil
		}
	}

	var schema formschema.Schema
	if err := decode(data, format, &schema); err != nil {
		return formschema.Schema{}, err
	}
	return schema, nil
}

func decode(data []byte, format Format, target any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("document: decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("document: decode json: %w", err)
		}
	default:
		return fmt.Errorf("document: unknown format %q", format)
	}
	return nil
}
