package utils

import "strings"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// SplitDisplayName splits a customer display name into first/last parts.
// The first whitespace-separated token becomes the first name, everything
// after it the last name. An empty name yields the "Unknown"/"User"
// placeholders.
func SplitDisplayName(name string) (firstName, lastName string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown", "User"
	}
	return fields[0], strings.Join(fields[1:], " ")
}
