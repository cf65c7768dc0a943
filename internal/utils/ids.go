package utils

import "github.com/google/uuid"

// IsUUID reports whether s is a canonical UUID. Anything else can never match a stored id.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
