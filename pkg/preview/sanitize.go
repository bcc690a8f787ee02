package preview

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// DescriptionPolicy allows basic inline formatting and links in schema
// descriptions; everything else is stripped.
func DescriptionPolicy() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "br", "strong", "em", "b", "i", "u", "code", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

func sanitizeMarkup(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}

var classToken = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*$`)

// sanitizeClassName keeps only CSS-safe class tokens.
func sanitizeClassName(raw string) string {
	fields := strings.Fields(raw)
	out := fields[:0]
	for _, field := range fields {
		if classToken.MatchString(field) {
			out = append(out, field)
		}
	}
	return strings.Join(out, " ")
}
