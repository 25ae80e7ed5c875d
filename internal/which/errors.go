package which

import (
	"errors"
	"fmt"
)

const (
	invalidArgumentMessageConstant   = "which: invalid argument"
	programNotStringTemplateConstant = "Parameter 'program' is not a string: '%v'"
	relativePathTemplateConstant     = "Relative path given: '%v'"
	pathsNotListTemplateConstant     = "Parameter 'paths' is not a list: '%v'"
	nonAbsolutePathTemplateConstant  = "Non absolute path given: '%v'"
	pathEntryNotStringTemplate       = "Search path entry is not a string: '%v'"
)

// ErrInvalidArgument matches every ValidationError.
var ErrInvalidArgument = errors.New(invalidArgumentMessageConstant)

// ValidationError describes an argument rejected before any filesystem access.
type ValidationError struct {
	template string
	Value    any
}

// Error renders the validation message.
func (validationError *ValidationError) Error() string {
	return fmt.Sprintf(validationError.template, validationError.Value)
}

// Is matches ErrInvalidArgument.
func (validationError *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func newValidationError(template string, value any) *ValidationError {
	return &ValidationError{template: template, Value: value}
}
