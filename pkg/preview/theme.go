package preview

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeContext struct {
	Name     string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	CSSStyle string
}

func resolveTheme(selector theme.ThemeSelector, name, variant string) (themeContext, error) {
	if selector == nil {
		return themeContext{}, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return themeContext{}, fmt.Errorf("preview: select theme %q: %w", name, err)
	}
	if selection == nil {
		return themeContext{}, nil
	}

	ctx := themeContext{
		Name:    selection.Theme,
		Variant: selection.Variant,
	}
	if selection.Manifest != nil {
		tokens := copyStringMap(selection.Manifest.Tokens)
		if v, ok := selection.Manifest.Variants[selection.Variant]; ok {
			for key, value := range v.Tokens {
				if tokens == nil {
					tokens = make(map[string]string, len(v.Tokens))
				}
				tokens[key] = value
			}
		}
		ctx.Tokens = tokens
	}
	ctx.CSSVars = cssVarsFromTokens(ctx.Tokens)
	ctx.CSSStyle = inlineCSSVars(ctx.CSSVars)
	return ctx, nil
}

func cssVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" || !classToken.MatchString(name) {
			continue
		}
		out["--"+name] = value
	}
	return out
}

func inlineCSSVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.NewReplacer(";", "", "\"", "", "<", "", ">", "").Replace(vars[key])
		parts = append(parts, key+": "+strings.TrimSpace(value))
	}
	return strings.Join(parts, "; ")
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
