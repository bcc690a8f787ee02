package preview

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned when a preview name has no renderer.
var ErrUnknownRenderer = errors.New("preview: unknown renderer")

// Registry maps preview names (as written in session configuration) to
// renderers. The first renderer added answers for an empty name.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Renderer
	fallback string
}

// NewRegistry builds a registry holding renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Add(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultRegistry holds the HTML preview, configured with options, and
// the indented JSON view. HTML is the fallback.
func NewDefaultRegistry(options ...Option) (*Registry, error) {
	html, err := NewHTML(options...)
	if err != nil {
		return nil, err
	}
	return NewRegistry(html, NewJSON("  "))
}

// Add registers renderer under its lower-cased name.
func (r *Registry) Add(renderer Renderer) error {
	if renderer == nil {
		return errors.New("preview: renderer is required")
	}
	name := normalizeName(renderer.Name())
	if name == "" {
		return errors.New("preview: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("preview: renderer %q is already registered", name)
	}
	r.byName[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// Resolve returns the renderer for name, matched case-insensitively. An
// empty name selects the fallback.
func (r *Registry) Resolve(name string) (Renderer, error) {
	key := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if key == "" {
		key = r.fallback
	}
	if renderer, ok := r.byName[key]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.namesLocked(), ", "))
}

// Names lists the registered preview names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
