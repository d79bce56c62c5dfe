package geometry

import (
	"fmt"
	"strings"
)

// UnknownFieldError is returned when a value is supplied for a field the
// geometry type does not declare.
type UnknownFieldError struct {
	Structure string
	Field     string
	Known     []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("geometry: unknown field %q for %s (fields: %s)", e.Field, e.Structure, strings.Join(e.Known, ", "))
}
