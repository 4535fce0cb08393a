package auth

import "strings"

// AdminChecker decides whether an authenticated user may use the review
// endpoints. Membership is a static allow-list of emails loaded at
// startup; there is no role table.
type AdminChecker struct {
	emails map[string]struct{}
}

// NewAdminChecker builds a checker from the configured admin emails.
// Comparison is case-insensitive.
func NewAdminChecker(emails []string) *AdminChecker {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &AdminChecker{emails: set}
}

// IsAdmin reports whether the email belongs to the allow-list.
func (c *AdminChecker) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := c.emails[strings.ToLower(email)]
	return ok
}
