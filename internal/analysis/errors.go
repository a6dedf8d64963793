package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports invalid engine input. It is raised before any
// computation and is fatal to the run.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NoDataError reports that filtering to the requested areas and years left
// zero branch records. It is a distinct, user-facing condition rather than a
// generic failure.
type NoDataError struct {
	Areas []string
	Years []int
}

// Error implements the error interface.
func (e *NoDataError) Error() string {
	return fmt.Sprintf("no branch records for areas [%s] in years %v",
		strings.Join(e.Areas, ", "), e.Years)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}
