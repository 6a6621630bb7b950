package handlers

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

const maxCleanPasses = 5

// cleanText strips markup from user text and trims it. Entity-encoded markup
// counts as markup: passes repeat until the text no longer changes, so the
// stored value decodes to nothing the policy would strip. Text that does not
// settle is kept in its escaped form.
func cleanText(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		escaped := policy.Sanitize(s)
		next := html.UnescapeString(escaped)
		if next == s {
			return strings.TrimSpace(next)
		}
		if i == maxCleanPasses-1 {
			return strings.TrimSpace(escaped)
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// cleanOptional is cleanText for optional fields; blank input becomes nil.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	c := cleanText(*s)
	if c == "" {
		return nil
	}
	return &c
}
