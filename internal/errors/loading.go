package errors

import "fmt"

// ValidationError reports a marker parameter that does not satisfy its schema
type ValidationError struct {
	*BaseError
	Marker    string // qualified marker name
	Parameter string // parameter that failed validation
	Expected  string
	Actual    string
}

// NewValidationError creates a new validation error
func NewValidationError(marker, parameter, expected, actual string) *ValidationError {
	message := fmt.Sprintf("invalid parameter '%s' on @%s: expected %s, got %s", parameter, marker, expected, actual)

	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Marker:    marker,
		Parameter: parameter,
		Expected:  expected,
		Actual:    actual,
	}
}

// WithLocation adds location information to the error
func (e *ValidationError) WithLocation(loc SourceLocation) *ValidationError {
	e.BaseError.WithLocation(loc)
	return e
}

// SyntaxError represents a declaration file that could not be parsed
type SyntaxError struct {
	*BaseError
	Token string // the token that caused the error
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithToken sets the problematic token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// NewDuplicateClassError reports two declarations of the same qualified class
func NewDuplicateClassError(name string, loc, previous SourceLocation) *BaseError {
	return Newf(ResolutionErrorCode, "class %s is already declared at %s", name, previous.String()).
		WithLocation(loc).
		WithContext("class", name).
		WithSuggestion("Rename one of the classes or move it to a different package")
}
