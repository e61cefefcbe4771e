package repository

import (
	"strings"
	"time"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// normalizeRole is the lookup key of a role name.
func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
