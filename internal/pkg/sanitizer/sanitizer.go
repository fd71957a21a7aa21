package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans free text supplied by users before it is persisted.
type Sanitizer interface {
	Clean(text string) string
}

type htmlSanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer that strips every HTML element and collapses runs
// of whitespace into a single space.
func New() Sanitizer {
	return &htmlSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *htmlSanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	stripped := s.policy.Sanitize(text)
	// bluemonday escapes what it keeps; store the plain text
	stripped = html.UnescapeString(stripped)
	return strings.Join(strings.Fields(stripped), " ")
}
