package researchlog

import "strings"

// ValidateName checks that an article id or asset filename can be used as a
// single path element under a storage root.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, "/\\\x00"):
		return ErrInvalidName
	}
	return nil
}
