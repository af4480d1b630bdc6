package core

import "strings"

// CleanString trims surrounding whitespace from form input and optionally
// lowers it (usernames and emails are matched case-insensitively backend-side).
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		s = strings.ToLower(s)
	}
	return s
}
