package id

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a fresh random record ID like "3f0c9a4e-...".
func New() string {
	return uuid.NewString()
}

// Parse checks that s is a record ID and returns it in canonical lowercase form.
func Parse(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid record ID %q: %w", s, err)
	}
	return u.String(), nil
}

// Short returns the first 8 characters of an ID for table display.
// "3f0c9a4e-1b2c-..." -> "3f0c9a4e"
func Short(recordID string) string {
	if len(recordID) <= 8 {
		return recordID
	}
	return recordID[:8]
}
