package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads and decodes the envelope stored at path, inferring the format
// from the extension.
func Load(path string) (Document, error) {
	if path == "" {
		return Document{}, errors.New("document: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("document: read %s: %w", path, err)
	}
	doc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("document: load %s: %w", path, err)
	}
	return doc, nil
}

// LoadFS reads an envelope from fsys.
func LoadFS(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, errors.New("document: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("document: read %s: %w", name, err)
	}
	doc, err := Decode(data, FormatFromPath(name))
	if err != nil {
		return Document{}, fmt.Errorf("document: load %s: %w", name, err)
	}
	return doc, nil
}

// Save encodes doc using the format implied by path and writes it, creating
// parent directories as needed.
func Save(path string, doc Document) error {
	if path == "" {
		return errors.New("document: path is required")
	}
	payload, err := Encode(doc, FormatFromPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("document: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}

// Open loads path as an envelope. A bare schema file is wrapped in a new
// envelope built with opts.
func Open(path string, opts ...Option) (Document, error) {
	if path == "" {
		return Document{}, errors.New("document: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("document: read %s: %w", path, err)
	}
	format := FormatFromPath(path)
	doc, err := Decode(data, format)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrMissingVersion) {
		return Document{}, fmt.Errorf("document: open %s: %w", path, err)
	}
	schema, err := DecodeSchema(data, format)
	if err != nil {
		return Document{}, fmt.Errorf("document: open %s: %w", path, err)
	}
	return New(schema, opts...), nil
}
