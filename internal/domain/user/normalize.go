package user

import "strings"

// Normalize trims surrounding whitespace and lower-cases s. It is applied to
// usernames and emails before every comparison, uniqueness check, or store,
// so "John" and "john " refer to the same account.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
