package pipeline

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips scripts and unsafe attributes from untrusted HTML.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer based on bluemonday's UGC policy.
// Class attributes and data: image URIs are kept so highlighted code and
// inline plots survive.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowDataURIImages()
	return &Sanitizer{policy: policy}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}
