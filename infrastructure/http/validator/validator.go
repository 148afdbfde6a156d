package validator

import (
	"strings"

	"github.com/google/uuid"
)

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateID reports whether id is a UUID. Path ids are checked before they
// reach a uuid column so a typo is a 400, not a driver error.
func ValidateID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
